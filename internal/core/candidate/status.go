// Package candidate contains the pure business logic for the candidate lifecycle.
// This is part of the Functional Core - no I/O, only pure functions.
package candidate

import (
	"fmt"
	"strings"
)

// Status represents the possible lifecycle states of a candidate.
type Status string

const (
	StatusListed              Status = "listed"
	StatusPreDepartureDocs    Status = "pre_departure_docs"
	StatusScreening           Status = "screening"
	StatusScreened            Status = "screened"
	StatusRegistered          Status = "registered"
	StatusTraining            Status = "training"
	StatusTrainingCompleted   Status = "training_completed"
	StatusVisaProcess         Status = "visa_process"
	StatusVisaApproved        Status = "visa_approved"
	StatusDepartureProcessing Status = "departure_processing"
	StatusReadyToDepart       Status = "ready_to_depart"
	StatusDeparted            Status = "departed"
	StatusPostDeparture       Status = "post_departure"
	StatusCompleted           Status = "completed"

	StatusDeferred  Status = "deferred"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// progression is the total order of non-terminal states.
var progression = []Status{
	StatusListed,
	StatusPreDepartureDocs,
	StatusScreening,
	StatusScreened,
	StatusRegistered,
	StatusTraining,
	StatusTrainingCompleted,
	StatusVisaProcess,
	StatusVisaApproved,
	StatusDepartureProcessing,
	StatusReadyToDepart,
	StatusDeparted,
	StatusPostDeparture,
	StatusCompleted,
}

var terminal = []Status{StatusDeferred, StatusRejected, StatusWithdrawn}

var rank = func() map[Status]int {
	m := make(map[Status]int, len(progression))
	for i, s := range progression {
		m[s] = i
	}
	return m
}()

// ProgressiveStatuses returns the non-terminal states in lifecycle order.
func ProgressiveStatuses() []Status {
	out := make([]Status, len(progression))
	copy(out, progression)
	return out
}

// TerminalStatuses returns the absorbing side-branch states.
func TerminalStatuses() []Status {
	out := make([]Status, len(terminal))
	copy(out, terminal)
	return out
}

// AllStatuses returns every valid status, progressive first.
func AllStatuses() []Status {
	return append(ProgressiveStatuses(), terminal...)
}

// InitialStatus returns the initial status for a new candidate.
func InitialStatus() Status {
	return StatusListed
}

// ParseStatus converts a raw string into a Status, rejecting unknown values.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s.Valid() {
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, raw)
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	if _, ok := rank[s]; ok {
		return true
	}
	return s.IsTerminal()
}

// IsTerminal reports whether s is an absorbing state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDeferred, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Rank returns the position of s in the progression, or -1 for terminal and unknown states.
func (s Status) Rank() int {
	if r, ok := rank[s]; ok {
		return r
	}
	return -1
}

// AtOrBeyond reports whether s has reached stage on the progressive path.
// Terminal states are never at or beyond any stage.
func (s Status) AtOrBeyond(stage Status) bool {
	r, ok := rank[s]
	if !ok {
		return false
	}
	target, ok := rank[stage]
	if !ok {
		return false
	}
	return r >= target
}

// Next returns the status following s on the progressive path.
func (s Status) Next() (Status, bool) {
	r, ok := rank[s]
	if !ok || r+1 >= len(progression) {
		return "", false
	}
	return progression[r+1], true
}

func (s Status) String() string { return string(s) }
