// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

// Entity names understood by the effect executor.
const (
	EntityCandidate     = "candidate"
	EntityScreening     = "screening"
	EntityAssessment    = "assessment"
	EntityCertificate   = "certificate"
	EntityVisaProcess   = "visa_process"
	EntityDeparture     = "departure"
	EntityPostDeparture = "post_departure"
	EntitySuccessStory  = "success_story"
	EntityStatusHistory = "status_history"
)

// Persist operations.
const (
	OpCreate       = "create"
	OpUpdate       = "update"
	OpUpdateStatus = "update_status"
)

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// PersistEffect represents a database persistence operation.
type PersistEffect struct {
	Entity    string // e.g., "candidate", "screening", "visa_process"
	Operation string // e.g., "create", "upsert", "update_status"
	Data      any    // The entity data, a value type from the core package
}

func (e PersistEffect) EffectType() string { return "persist" }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }
