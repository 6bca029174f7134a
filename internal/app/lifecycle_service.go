package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/btevta/internal/core/assessment"
	corecandidate "github.com/example/btevta/internal/core/candidate"
	"github.com/example/btevta/internal/core/departure"
	"github.com/example/btevta/internal/core/effects"
	"github.com/example/btevta/internal/ports/primary"
	"github.com/example/btevta/internal/ports/secondary"
)

// LifecycleOptions configures a LifecycleServiceImpl. Zero values use defaults.
type LifecycleOptions struct {
	IssuingAuthority string
	PassPercentage   float64
	Now              func() time.Time
	NewID            func() string
}

// DefaultIssuingAuthority is printed on certificates when none is configured.
const DefaultIssuingAuthority = "BTEVTA"

// LifecycleServiceImpl implements the LifecycleService interface.
type LifecycleServiceImpl struct {
	uow              secondary.UnitOfWork
	repos            secondary.Repositories
	validate         *validator.Validate
	logger           *zap.Logger
	issuingAuthority string
	passPercentage   float64
	now              func() time.Time
	newID            func() string
}

// NewLifecycleService creates a new LifecycleService with injected dependencies.
// repos serves reads outside a transaction; every write goes through uow.
func NewLifecycleService(uow secondary.UnitOfWork, repos secondary.Repositories, logger *zap.Logger, opts LifecycleOptions) *LifecycleServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LifecycleServiceImpl{
		uow:              uow,
		repos:            repos,
		validate:         validator.New(),
		logger:           logger,
		issuingAuthority: opts.IssuingAuthority,
		passPercentage:   opts.PassPercentage,
		now:              opts.Now,
		newID:            opts.NewID,
	}
	if s.issuingAuthority == "" {
		s.issuingAuthority = DefaultIssuingAuthority
	}
	if s.passPercentage <= 0 {
		s.passPercentage = assessment.DefaultPassPercentage
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

func (s *LifecycleServiceImpl) validateRequest(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", corecandidate.ErrValidation, err)
	}
	return nil
}

func (s *LifecycleServiceImpl) executor(repos secondary.Repositories) *DefaultEffectExecutor {
	return NewEffectExecutor(repos, s.logger, s.newID)
}

// CreateCandidate creates a new candidate in the listed status.
func (s *LifecycleServiceImpl) CreateCandidate(ctx context.Context, req primary.CreateCandidateRequest) (*primary.CreateCandidateResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	nationalID := corecandidate.NormalizeNationalID(req.NationalID)

	var created *secondary.CandidateRecord
	err := s.uow.Do(ctx, func(ctx context.Context, repos secondary.Repositories) error {
		taken, err := repos.Candidates.NationalIDExists(ctx, nationalID)
		if err != nil {
			return fmt.Errorf("failed to check national ID: %w", err)
		}

		guard := corecandidate.CanCreateCandidate(corecandidate.CreateCandidateContext{
			NationalID:      nationalID,
			NationalIDTaken: taken,
		})
		if !guard.Allowed {
			if taken {
				return fmt.Errorf("%w: %w: %s", corecandidate.ErrValidation, secondary.ErrConflict, guard.Reason)
			}
			return guard.Error()
		}

		nextID, err := repos.Candidates.GetNextID(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate candidate ID: %w", err)
		}

		record := &secondary.CandidateRecord{
			ID:          nextID,
			NationalID:  nationalID,
			Name:        req.Name,
			FatherName:  req.FatherName,
			Gender:      req.Gender,
			DateOfBirth: req.DateOfBirth,
			Phone:       req.Phone,
			Email:       req.Email,
			Province:    req.Province,
			District:    req.District,
			Address:     req.Address,
			Status:      string(corecandidate.InitialStatus()),
		}
		if err := repos.Candidates.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to create candidate: %w", err)
		}

		created, err = repos.Candidates.GetByID(ctx, nextID)
		return err
	})
	if err != nil {
		s.logger.Warn("candidate creation rejected", zap.String("national_id", nationalID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("candidate created", zap.String("candidate_id", created.ID))
	return &primary.CreateCandidateResponse{
		CandidateID: created.ID,
		Candidate:   recordToCandidate(created),
	}, nil
}

// GetCandidate retrieves a candidate by external ID.
func (s *LifecycleServiceImpl) GetCandidate(ctx context.Context, candidateID string) (*primary.Candidate, error) {
	record, err := s.repos.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return recordToCandidate(record), nil
}

// GetCandidateByNationalID retrieves a candidate by national ID.
func (s *LifecycleServiceImpl) GetCandidateByNationalID(ctx context.Context, nationalID string) (*primary.Candidate, error) {
	record, err := s.repos.Candidates.GetByNationalID(ctx, corecandidate.NormalizeNationalID(nationalID))
	if err != nil {
		return nil, err
	}
	return recordToCandidate(record), nil
}

// ListCandidates lists candidates with optional filters.
func (s *LifecycleServiceImpl) ListCandidates(ctx context.Context, filters primary.CandidateFilters) ([]*primary.Candidate, error) {
	if filters.Status != "" {
		status, err := corecandidate.ParseStatus(filters.Status)
		if err != nil {
			return nil, err
		}
		filters.Status = string(status)
	}

	records, err := s.repos.Candidates.List(ctx, secondary.CandidateFilters{
		Status:  filters.Status,
		BatchID: filters.BatchID,
		Search:  filters.Search,
		Limit:   filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	candidates := make([]*primary.Candidate, len(records))
	for i, r := range records {
		candidates[i] = recordToCandidate(r)
	}
	return candidates, nil
}

// UpdateCandidate updates demographic fields. Status is not affected.
func (s *LifecycleServiceImpl) UpdateCandidate(ctx context.Context, req primary.UpdateCandidateRequest) error {
	if err := s.validateRequest(req); err != nil {
		return err
	}
	return s.uow.Do(ctx, func(ctx context.Context, repos secondary.Repositories) error {
		return repos.Candidates.Update(ctx, &secondary.CandidateRecord{
			ID:         req.CandidateID,
			Name:       req.Name,
			FatherName: req.FatherName,
			Phone:      req.Phone,
			Email:      req.Email,
			Province:   req.Province,
			District:   req.District,
			Address:    req.Address,
		})
	})
}

// DeleteCandidate deletes a candidate and its owned records.
func (s *LifecycleServiceImpl) DeleteCandidate(ctx context.Context, candidateID string) error {
	err := s.uow.Do(ctx, func(ctx context.Context, repos secondary.Repositories) error {
		return repos.Candidates.Delete(ctx, candidateID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("candidate deleted", zap.String("candidate_id", candidateID))
	return nil
}

// Advance moves a candidate to the target status, applying the stage's side effects.
// The status update, side records and history row commit together or not at all.
func (s *LifecycleServiceImpl) Advance(ctx context.Context, req primary.AdvanceRequest) (*primary.AdvanceResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	target, err := corecandidate.ParseStatus(req.Target)
	if err != nil {
		return nil, err
	}

	var resp *primary.AdvanceResponse
	err = s.uow.Do(ctx, func(ctx context.Context, repos secondary.Repositories) error {
		snap, _, err := loadSnapshot(ctx, repos, req.CandidateID)
		if err != nil {
			return err
		}

		now := s.now()
		in := corecandidate.AdvanceInput{
			Snapshot:         *snap,
			Target:           target,
			Payload:          payloadFromRequest(req),
			IssuingAuthority: s.issuingAuthority,
			PassPercentage:   s.passPercentage,
			Now:              now,
		}

		if req.BatchID != "" {
			batch, err := repos.Reference.GetBatch(ctx, req.BatchID)
			switch {
			case err == nil:
				in.Batch = &corecandidate.BatchRef{
					ID:        batch.ID,
					CampusID:  batch.CampusID,
					TradeID:   batch.TradeID,
					ProgramID: batch.ProgramID,
				}
			case !errors.Is(err, secondary.ErrNotFound):
				return fmt.Errorf("failed to load batch: %w", err)
			}
		}

		if req.Interview != nil && req.Interview.OEPID != "" {
			oep, err := repos.Reference.GetOEP(ctx, req.Interview.OEPID)
			switch {
			case err == nil:
				in.OEP = &corecandidate.OEPRef{ID: oep.ID, Name: oep.Name}
			case !errors.Is(err, secondary.ErrNotFound):
				return fmt.Errorf("failed to load OEP: %w", err)
			}
		}

		if target == corecandidate.StatusTrainingCompleted && snap.Certificate == nil {
			maxSeq, err := repos.Certificates.MaxSequenceForYear(ctx, now.Year())
			if err != nil {
				return fmt.Errorf("failed to allocate certificate number: %w", err)
			}
			in.CertificateNumber = corecandidate.GenerateCertificateNumber(now.Year(), maxSeq)
		}

		guard := corecandidate.CanAdvance(in)
		if !guard.Allowed {
			return guard.Error()
		}

		plan := corecandidate.GenerateAdvancePlan(in)
		exec := s.executor(repos)
		if err := exec.Execute(ctx, plan.Effects()); err != nil {
			return err
		}

		updated, err := repos.Candidates.GetByID(ctx, req.CandidateID)
		if err != nil {
			return err
		}
		resp = &primary.AdvanceResponse{
			Candidate:      recordToCandidate(updated),
			FromStatus:     string(plan.From),
			ToStatus:       string(plan.To),
			StatusChanged:  plan.StatusChanged(),
			RecordsWritten: exec.Written(),
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("candidate advance rejected",
			zap.String("candidate_id", req.CandidateID),
			zap.String("target", req.Target),
			zap.Error(err))
		if errors.Is(err, corecandidate.ErrValidation) || errors.Is(err, secondary.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to advance candidate %s: %w", req.CandidateID, err)
	}
	return resp, nil
}

// RecordScreening creates or updates the candidate's screening.
func (s *LifecycleServiceImpl) RecordScreening(ctx context.Context, req primary.RecordScreeningRequest) (*primary.Screening, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var saved *secondary.ScreeningRecord
	err := s.uow.Do(ctx, func(ctx context.Context, repos secondary.Repositories) error {
		status, err := s.currentStatus(ctx, repos, req.CandidateID)
		if err != nil {
			return err
		}
		existing, err := repos.Screenings.GetByCandidate(ctx, req.CandidateID)
		if err != nil {
			return err
		}
		merged := corecandidate.MergeScreening(req.CandidateID, screeningFromRecord(existing), screeningInputFromRequest(req.Screening), s.now())

		guard := corecandidate.CanRecordScreening(corecandidate.StageActionContext{
			CandidateID: req.CandidateID,
			Status:      status,
			RecordFound: existing != nil,
			Screening:   merged,
		})
		if !guard.Allowed {
			return guard.Error()
		}
		if err := s.executor(repos).Execute(ctx, []effects.Effect{
			persistOp(effects.EntityScreening, merged.ID, *merged),
		}); err != nil {
			return err
		}

		saved, err = repos.Screenings.GetByCandidate(ctx, req.CandidateID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("screening recorded",
		zap.String("candidate_id", req.CandidateID),
		zap.String("outcome", saved.Outcome))
	return recordToScreening(saved), nil
}

// RecordAssessment creates or updates a training assessment during training.
func (s *LifecycleServiceImpl) RecordAssessment(ctx context.Context, req primary.RecordAssessmentRequest) (*primary.Assessment, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	t, err := assessment.ParseType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", corecandidate.ErrValidation, err)
	}

	var saved *secondary.AssessmentRecord
	err = s.uow.Do(ctx, func(ctx context.Context, repos secondary.Repositories) error {
		status, err := s.currentStatus(ctx, repos, req.CandidateID)
		if err != nil {
			return err
		}
		guard := corecandidate.CanRecordAssessment(corecandidate.StageActionContext{
			CandidateID: req.CandidateID,
			Status:      status,
		})
		if !guard.Allowed {
			return guard.Error()
		}

		existing, err := findAssessment(ctx, repos, req.CandidateID, t)
		if err != nil {
			return err
		}
		var existingCore *corecandidate.Assessment
		if existing != nil {
			existingCore = assessmentFromRecord(existing)
		}
		a, err := corecandidate.BuildAssessment(req.CandidateID, existingCore, t, req.Score, req.MaxScore, req.Assessor, s.passPercentage, s.now())
		if err != nil {
			return fmt.Errorf("%w: %v", corecandidate.ErrValidation, err)
		}
		if err := s.executor(repos).Execute(ctx, []effects.Effect{
			persistOp(effects.EntityAssessment, a.ID, *a),
		}); err != nil {
			return err
		}

		saved, err = findAssessment(ctx, repos, req.CandidateID, t)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("assessment recorded",
		zap.String("candidate_id", req.CandidateID),
		zap.String("type", saved.Type),
		zap.String("result", saved.Result))
	return recordToAssessment(saved), nil
}

// RecordVisaStep fills visa sub-results on the existing visa process.
func (s *LifecycleServiceImpl) RecordVisaStep(ctx context.Context, req primary.RecordVisaStepRequest) (*primary.VisaProcess, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var saved *secondary.VisaProcessRecord
	err := s.uow.Do(ctx, func(ctx context.Context, repos secondary.Repositories) error {
		status, err := s.currentStatus(ctx, repos, req.CandidateID)
		if err != nil {
			return err
		}
		existing, err := repos.VisaProcesses.GetByCandidate(ctx, req.CandidateID)
		if err != nil {
			return err
		}
		var merged corecandidate.VisaProcess
		if existing != nil {
			merged = corecandidate.MergeVisa(*visaFromRecord(existing), visaInputFromRequest(req.Visa))
		}

		guard := corecandidate.CanRecordVisaStep(corecandidate.StageActionContext{
			CandidateID: req.CandidateID,
			Status:      status,
			RecordFound: existing != nil,
			Visa:        &merged,
		})
		if !guard.Allowed {
			return guard.Error()
		}
		if err := s.executor(repos).Execute(ctx, []effects.Effect{
			effects.PersistEffect{Entity: effects.EntityVisaProcess, Operation: effects.OpUpdate, Data: merged},
		}); err != nil {
			return err
		}

		saved, err = repos.VisaProcesses.GetByCandidate(ctx, req.CandidateID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("visa step recorded", zap.String("candidate_id", req.CandidateID))
	return recordToVisa(saved), nil
}

// RecordCompliance records post-departure reporting dates and evaluates 90-day compliance.
// Dates left nil keep their stored values.
func (s *LifecycleServiceImpl) RecordCompliance(ctx context.Context, req primary.RecordComplianceRequest) (*primary.Departure, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var saved *secondary.DepartureRecord
	err := s.uow.Do(ctx, func(ctx context.Context, repos secondary.Repositories) error {
		status, err := s.currentStatus(ctx, repos, req.CandidateID)
		if err != nil {
			return err
		}
		existing, err := repos.Departures.GetByCandidate(ctx, req.CandidateID)
		if err != nil {
			return err
		}
		guard := corecandidate.CanRecordCompliance(corecandidate.StageActionContext{
			CandidateID: req.CandidateID,
			Status:      status,
			RecordFound: existing != nil,
		})
		if !guard.Allowed {
			return guard.Error()
		}

		d := *departureFromRecord(existing)
		if req.ResidencyRegistrationDate != nil {
			d.ResidencyRegistrationDate = req.ResidencyRegistrationDate
		}
		if req.IDRegistrationDate != nil {
			d.IDRegistrationDate = req.IDRegistrationDate
		}
		if req.FirstSalaryDate != nil {
			d.FirstSalaryDate = req.FirstSalaryDate
		}
		d.NinetyDayCompliant = departure.EvaluateCompliance(departure.ComplianceInput{
			DepartureDate:             d.DepartureDate,
			ResidencyRegistrationDate: d.ResidencyRegistrationDate,
			IDRegistrationDate:        d.IDRegistrationDate,
			FirstSalaryDate:           d.FirstSalaryDate,
		}).Compliant

		if err := s.executor(repos).Execute(ctx, []effects.Effect{
			effects.PersistEffect{Entity: effects.EntityDeparture, Operation: effects.OpUpdate, Data: d},
		}); err != nil {
			return err
		}

		saved, err = repos.Departures.GetByCandidate(ctx, req.CandidateID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("compliance recorded",
		zap.String("candidate_id", req.CandidateID),
		zap.Bool("ninety_day_compliant", saved.NinetyDayCompliant))
	return recordToDeparture(saved), nil
}

// GetCandidateRecords retrieves a candidate with all side records.
func (s *LifecycleServiceImpl) GetCandidateRecords(ctx context.Context, candidateID string) (*primary.CandidateRecords, error) {
	record, err := s.repos.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	out := &primary.CandidateRecords{Candidate: recordToCandidate(record)}

	screening, err := s.repos.Screenings.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	out.Screening = recordToScreening(screening)

	assessments, err := s.repos.Assessments.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	for _, a := range assessments {
		out.Assessments = append(out.Assessments, recordToAssessment(a))
	}

	cert, err := s.repos.Certificates.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	out.Certificate = recordToCertificate(cert)

	visa, err := s.repos.VisaProcesses.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	out.VisaProcess = recordToVisa(visa)

	dep, err := s.repos.Departures.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	out.Departure = recordToDeparture(dep)

	pdd, err := s.repos.PostDepartures.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	out.PostDeparture = recordToPostDeparture(pdd)

	story, err := s.repos.SuccessStories.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	out.SuccessStory = recordToStory(story)

	return out, nil
}

// GetHistory lists the candidate's status changes, oldest first.
func (s *LifecycleServiceImpl) GetHistory(ctx context.Context, candidateID string) ([]*primary.StatusChange, error) {
	if _, err := s.repos.Candidates.GetByID(ctx, candidateID); err != nil {
		return nil, err
	}
	records, err := s.repos.History.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	changes := make([]*primary.StatusChange, len(records))
	for i, r := range records {
		changes[i] = recordToStatusChange(r)
	}
	return changes, nil
}

// StatusCounts returns candidate counts for every status, in lifecycle order.
func (s *LifecycleServiceImpl) StatusCounts(ctx context.Context) ([]primary.StatusCount, error) {
	counts, err := s.repos.Candidates.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}
	statuses := corecandidate.AllStatuses()
	out := make([]primary.StatusCount, len(statuses))
	for i, st := range statuses {
		out[i] = primary.StatusCount{
			Status:   string(st),
			Count:    counts[string(st)],
			Terminal: st.IsTerminal(),
		}
	}
	return out, nil
}

func (s *LifecycleServiceImpl) currentStatus(ctx context.Context, repos secondary.Repositories, candidateID string) (corecandidate.Status, error) {
	record, err := repos.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		return "", err
	}
	return corecandidate.ParseStatus(record.Status)
}

func findAssessment(ctx context.Context, repos secondary.Repositories, candidateID string, t assessment.Type) (*secondary.AssessmentRecord, error) {
	records, err := repos.Assessments.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.Type == string(t) {
			return r, nil
		}
	}
	return nil, nil
}

// persistOp updates when the record already has an ID and creates otherwise.
func persistOp(entity, id string, data any) effects.PersistEffect {
	op := effects.OpCreate
	if id != "" {
		op = effects.OpUpdate
	}
	return effects.PersistEffect{Entity: entity, Operation: op, Data: data}
}

// applyCompliance fills the derived compliance fields of a departure.
func applyCompliance(d *primary.Departure) {
	r := departure.EvaluateCompliance(departure.ComplianceInput{
		DepartureDate:             d.DepartureDate,
		ResidencyRegistrationDate: d.ResidencyRegistrationDate,
		IDRegistrationDate:        d.IDRegistrationDate,
		FirstSalaryDate:           d.FirstSalaryDate,
	})
	d.ComplianceDeadline = r.Deadline
	d.MissingObligations = r.Missing
	for _, late := range r.Late {
		d.MissingObligations = append(d.MissingObligations, late+" (late)")
	}
	for _, early := range r.Early {
		d.MissingObligations = append(d.MissingObligations, early+" (before departure)")
	}
}

// Ensure LifecycleServiceImpl implements the interface
var _ primary.LifecycleService = (*LifecycleServiceImpl)(nil)
