// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/example/btevta/internal/core/candidate"
	"github.com/example/btevta/internal/core/effects"
	"github.com/example/btevta/internal/ctxutil"
	"github.com/example/btevta/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor executes effects against one set of repositories,
// normally the transaction-bound set handed out by a unit of work.
type DefaultEffectExecutor struct {
	repos   secondary.Repositories
	logger  *zap.Logger
	newID   func() string
	written []string
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
// newID generates status history IDs.
func NewEffectExecutor(repos secondary.Repositories, logger *zap.Logger, newID func() string) *DefaultEffectExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultEffectExecutor{repos: repos, logger: logger, newID: newID}
}

// Written returns "entity:operation" for every side record written so far.
// Candidate status updates and history rows are not included.
func (e *DefaultEffectExecutor) Written() []string {
	out := make([]string, len(e.written))
	copy(out, e.written)
	return out
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.NoEffect:
		return nil
	case effects.LogEffect:
		e.executeLog(typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeLog(eff effects.LogEffect) {
	keys := make([]string, 0, len(eff.Fields))
	for k := range eff.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, eff.Fields[k]))
	}

	switch eff.Level {
	case "debug":
		e.logger.Debug(eff.Message, fields...)
	case "warn":
		e.logger.Warn(eff.Message, fields...)
	case "error":
		e.logger.Error(eff.Message, fields...)
	default:
		e.logger.Info(eff.Message, fields...)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	var err error
	switch eff.Entity {
	case effects.EntityCandidate:
		return e.executeCandidateOp(ctx, eff)
	case effects.EntityStatusHistory:
		return e.executeHistoryOp(ctx, eff)
	case effects.EntityScreening:
		err = e.executeScreeningOp(ctx, eff)
	case effects.EntityAssessment:
		err = e.executeAssessmentOp(ctx, eff)
	case effects.EntityCertificate:
		err = e.executeCertificateOp(ctx, eff)
	case effects.EntityVisaProcess:
		err = e.executeVisaOp(ctx, eff)
	case effects.EntityDeparture:
		err = e.executeDepartureOp(ctx, eff)
	case effects.EntityPostDeparture:
		err = e.executePostDepartureOp(ctx, eff)
	case effects.EntitySuccessStory:
		err = e.executeStoryOp(ctx, eff)
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
	if err != nil {
		return err
	}
	e.written = append(e.written, eff.Entity+":"+eff.Operation)
	return nil
}

func invalidData(eff effects.PersistEffect) error {
	return fmt.Errorf("invalid %s %s data type: %T", eff.Entity, eff.Operation, eff.Data)
}

func unknownOp(eff effects.PersistEffect) error {
	return fmt.Errorf("unknown %s operation: %s", eff.Entity, eff.Operation)
}

func (e *DefaultEffectExecutor) executeCandidateOp(ctx context.Context, eff effects.PersistEffect) error {
	if eff.Operation != effects.OpUpdateStatus {
		return unknownOp(eff)
	}
	change, ok := eff.Data.(candidate.StatusChange)
	if !ok {
		return invalidData(eff)
	}
	return e.repos.Candidates.UpdateStatus(ctx, &secondary.StatusUpdate{
		ID:                change.CandidateID,
		Status:            string(change.To),
		ExpectedVersion:   change.ExpectedVersion,
		RegistrationDate:  change.RegistrationDate,
		TrainingStartDate: change.TrainingStartDate,
		TrainingEndDate:   change.TrainingEndDate,
		BatchID:           change.BatchID,
		CampusID:          change.CampusID,
		TradeID:           change.TradeID,
		ProgramID:         change.ProgramID,
		OEPID:             change.OEPID,
	})
}

func (e *DefaultEffectExecutor) executeHistoryOp(ctx context.Context, eff effects.PersistEffect) error {
	if eff.Operation != effects.OpCreate {
		return unknownOp(eff)
	}
	entry, ok := eff.Data.(candidate.HistoryEntry)
	if !ok {
		return invalidData(eff)
	}
	return e.repos.History.Create(ctx, &secondary.StatusHistoryRecord{
		ID:          e.newID(),
		CandidateID: entry.CandidateID,
		FromStatus:  string(entry.From),
		ToStatus:    string(entry.To),
		Remarks:     entry.Remarks,
		ActorID:     ctxutil.ActorFromContext(ctx),
		CreatedAt:   entry.At,
	})
}

func (e *DefaultEffectExecutor) executeScreeningOp(ctx context.Context, eff effects.PersistEffect) error {
	s, ok := eff.Data.(candidate.Screening)
	if !ok {
		return invalidData(eff)
	}
	record := screeningToRecord(s)
	switch eff.Operation {
	case effects.OpCreate:
		id, err := e.repos.Screenings.GetNextID(ctx)
		if err != nil {
			return err
		}
		record.ID = id
		return e.repos.Screenings.Create(ctx, record)
	case effects.OpUpdate:
		return e.repos.Screenings.Update(ctx, record)
	default:
		return unknownOp(eff)
	}
}

func (e *DefaultEffectExecutor) executeAssessmentOp(ctx context.Context, eff effects.PersistEffect) error {
	a, ok := eff.Data.(candidate.Assessment)
	if !ok {
		return invalidData(eff)
	}
	record := assessmentToRecord(a)
	switch eff.Operation {
	case effects.OpCreate:
		id, err := e.repos.Assessments.GetNextID(ctx)
		if err != nil {
			return err
		}
		record.ID = id
		return e.repos.Assessments.Create(ctx, record)
	case effects.OpUpdate:
		return e.repos.Assessments.Update(ctx, record)
	default:
		return unknownOp(eff)
	}
}

func (e *DefaultEffectExecutor) executeCertificateOp(ctx context.Context, eff effects.PersistEffect) error {
	if eff.Operation != effects.OpCreate {
		return unknownOp(eff)
	}
	c, ok := eff.Data.(candidate.Certificate)
	if !ok {
		return invalidData(eff)
	}
	id, err := e.repos.Certificates.GetNextID(ctx)
	if err != nil {
		return err
	}
	record := certificateToRecord(c)
	record.ID = id
	return e.repos.Certificates.Create(ctx, record)
}

func (e *DefaultEffectExecutor) executeVisaOp(ctx context.Context, eff effects.PersistEffect) error {
	v, ok := eff.Data.(candidate.VisaProcess)
	if !ok {
		return invalidData(eff)
	}
	record := visaToRecord(v)
	switch eff.Operation {
	case effects.OpCreate:
		id, err := e.repos.VisaProcesses.GetNextID(ctx)
		if err != nil {
			return err
		}
		record.ID = id
		return e.repos.VisaProcesses.Create(ctx, record)
	case effects.OpUpdate:
		return e.repos.VisaProcesses.Update(ctx, record)
	default:
		return unknownOp(eff)
	}
}

func (e *DefaultEffectExecutor) executeDepartureOp(ctx context.Context, eff effects.PersistEffect) error {
	d, ok := eff.Data.(candidate.Departure)
	if !ok {
		return invalidData(eff)
	}
	record := departureToRecord(d)
	switch eff.Operation {
	case effects.OpCreate:
		id, err := e.repos.Departures.GetNextID(ctx)
		if err != nil {
			return err
		}
		record.ID = id
		return e.repos.Departures.Create(ctx, record)
	case effects.OpUpdate:
		return e.repos.Departures.Update(ctx, record)
	default:
		return unknownOp(eff)
	}
}

func (e *DefaultEffectExecutor) executePostDepartureOp(ctx context.Context, eff effects.PersistEffect) error {
	p, ok := eff.Data.(candidate.PostDeparture)
	if !ok {
		return invalidData(eff)
	}
	record := postDepartureToRecord(p)
	switch eff.Operation {
	case effects.OpCreate:
		id, err := e.repos.PostDepartures.GetNextID(ctx)
		if err != nil {
			return err
		}
		record.ID = id
		return e.repos.PostDepartures.Create(ctx, record)
	case effects.OpUpdate:
		return e.repos.PostDepartures.Update(ctx, record)
	default:
		return unknownOp(eff)
	}
}

func (e *DefaultEffectExecutor) executeStoryOp(ctx context.Context, eff effects.PersistEffect) error {
	s, ok := eff.Data.(candidate.SuccessStory)
	if !ok {
		return invalidData(eff)
	}
	record := storyToRecord(s)
	switch eff.Operation {
	case effects.OpCreate:
		id, err := e.repos.SuccessStories.GetNextID(ctx)
		if err != nil {
			return err
		}
		record.ID = id
		return e.repos.SuccessStories.Create(ctx, record)
	case effects.OpUpdate:
		return e.repos.SuccessStories.Update(ctx, record)
	default:
		return unknownOp(eff)
	}
}

// Ensure DefaultEffectExecutor implements the interface
var _ EffectExecutor = (*DefaultEffectExecutor)(nil)
