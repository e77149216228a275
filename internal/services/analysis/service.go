package analysis

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"consignment-reconciliation-backend/internal/domain"
	"consignment-reconciliation-backend/internal/services/extraction"
	"consignment-reconciliation-backend/internal/services/fingerprint"
	"consignment-reconciliation-backend/internal/services/merge"
	"consignment-reconciliation-backend/internal/services/progress"
)

// DuplicateError rejects a submission whose file set was already processed
// for the same owner.
type DuplicateError struct {
	AnalysisID uuid.UUID
	CreatedAt  time.Time
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("analysis: identical file set already submitted as %s on %s",
		e.AnalysisID, e.CreatedAt.Format("2006-01-02"))
}

// UploadedFile is one document in a submission.
type UploadedFile struct {
	Name         string
	Size         int64
	LastModified time.Time
	Content      []byte
}

// SubmissionRequest describes one document submission.
type SubmissionRequest struct {
	OwnerID    string
	Period     domain.DateRange
	Files      []UploadedFile
	Strategy   merge.Strategy
	AnalysisID *uuid.UUID // set on the update path
}

// SubmissionResult identifies the background unit of work.
type SubmissionResult struct {
	SubmissionID uuid.UUID
	AnalysisID   uuid.UUID
}

// Service orchestrates the submission pipeline: fingerprint pre-check,
// background extraction, merge, persistence.
type Service struct {
	analyses  AnalysisStore
	rules     RulesStore
	extractor *extraction.Service
	merger    *merge.Engine
	progress  *progress.Store
	log       zerolog.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewService(
	analyses AnalysisStore,
	rules RulesStore,
	extractor *extraction.Service,
	merger *merge.Engine,
	progressStore *progress.Store,
	log zerolog.Logger,
) *Service {
	return &Service{
		analyses:  analyses,
		rules:     rules,
		extractor: extractor,
		merger:    merger,
		progress:  progressStore,
		log:       log.With().Str("component", "analysis").Logger(),
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing merges for one analysis. Two merge
// passes must never run concurrently against the same aggregate; different
// analyses proceed independently.
func (s *Service) lockFor(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[id] = l
	return l
}

// Submit validates a submission and starts the pipeline as a background
// unit of work. The duplicate-fingerprint check happens before any
// extraction so a rejected submission costs nothing. The caller observes
// progress through the returned submission id; there is no cancellation of
// an in-flight parse.
func (s *Service) Submit(req SubmissionRequest) (SubmissionResult, error) {
	infos := make([]fingerprint.FileInfo, 0, len(req.Files))
	for _, f := range req.Files {
		infos = append(infos, fingerprint.FileInfo{Name: f.Name, Size: f.Size, LastModified: f.LastModified})
	}
	fp := fingerprint.Compute(infos)

	prior, found, err := s.analyses.FindByFingerprint(req.OwnerID, fp)
	if err != nil {
		return SubmissionResult{}, err
	}
	if found {
		return SubmissionResult{}, &DuplicateError{AnalysisID: prior.ID, CreatedAt: prior.CreatedAt}
	}

	var a domain.Analysis
	if req.AnalysisID != nil {
		a, err = s.analyses.GetByID(*req.AnalysisID)
		if err != nil {
			return SubmissionResult{}, err
		}
	} else {
		a = domain.NewAnalysis(req.OwnerID, req.Period, domain.SourceUpload, fp)
	}

	a, err = a.WithStatus(domain.AnalysisProcessing)
	if err != nil {
		return SubmissionResult{}, err
	}
	if err := s.analyses.Save(a); err != nil {
		return SubmissionResult{}, err
	}

	submissionID := uuid.New()
	tracker := s.progress.Create(submissionID)

	s.log.Info().
		Str("analysis_id", a.ID.String()).
		Str("submission_id", submissionID.String()).
		Int("files", len(req.Files)).
		Msg("Submission accepted")

	go s.process(a, req.Files, req.Strategy, tracker)

	return SubmissionResult{SubmissionID: submissionID, AnalysisID: a.ID}, nil
}

// process runs the pipeline for one submission. Merges for the same
// analysis are serialized by the per-analysis lock.
func (s *Service) process(a domain.Analysis, files []UploadedFile, strategy merge.Strategy, tracker *progress.Tracker) {
	lock := s.lockFor(a.ID)
	lock.Lock()
	defer lock.Unlock()

	_ = tracker.AdvanceTo("loading-rules")
	rules, err := s.rules.ActiveForDate(a.Period.Start)
	if err != nil {
		s.fail(a, tracker, fmt.Errorf("loading rules: %w", err))
		return
	}
	tracker.Annotate("rules version " + rules.Version)

	_ = tracker.AdvanceTo("extracting-data")
	docs := make([]extraction.File, 0, len(files))
	for _, f := range files {
		docs = append(docs, extraction.File{Name: f.Name, Content: f.Content})
	}
	batch, err := s.extractor.ProcessFiles(docs)
	if err != nil {
		s.fail(a, tracker, err)
		return
	}

	_ = tracker.AdvanceTo("validating")
	tracker.Annotate(strconv.Itoa(len(batch.Warnings)) + " warnings")

	_ = tracker.AdvanceTo("calculating")
	merged, warnings := s.merger.Apply(a, batch, rules, strategy)
	merged = merged.WithRulesVersion(rules.Version)
	merged = merged.WithMetadata("warnings", strconv.Itoa(len(batch.Warnings)+len(warnings)))

	_ = tracker.AdvanceTo("generating-report")
	completed, err := merged.WithStatus(domain.AnalysisCompleted)
	if err != nil {
		s.fail(a, tracker, err)
		return
	}
	if err := s.analyses.Save(completed); err != nil {
		s.fail(a, tracker, fmt.Errorf("saving analysis: %w", err))
		return
	}

	tracker.Complete()
	s.log.Info().
		Str("analysis_id", a.ID.String()).
		Int("entries", len(completed.Entries())).
		Msg("Submission completed")
}

func (s *Service) fail(a domain.Analysis, tracker *progress.Tracker, cause error) {
	tracker.Fail(cause.Error())

	failed, err := a.WithError(cause.Error())
	if err == nil {
		if saveErr := s.analyses.Save(failed); saveErr != nil {
			s.log.Error().Err(saveErr).Str("analysis_id", a.ID.String()).Msg("Failed to persist error state")
		}
	}
	s.log.Error().Err(cause).Str("analysis_id", a.ID.String()).Msg("Submission failed")
}

// CreateManual creates an empty analysis that entries are keyed into by
// hand rather than extracted from documents. No fingerprint is recorded.
func (s *Service) CreateManual(ownerID string, period domain.DateRange) (domain.Analysis, error) {
	a := domain.NewAnalysis(ownerID, period, domain.SourceManual, "")
	if err := s.analyses.Save(a); err != nil {
		return domain.Analysis{}, err
	}
	return a, nil
}

// AddManualEntry builds and stores one entry from hand-keyed figures using
// the rule version active on the entry date.
func (s *Service) AddManualEntry(analysisID uuid.UUID, date time.Time, consignments int, paid domain.Money, pickups int) (domain.Analysis, error) {
	lock := s.lockFor(analysisID)
	lock.Lock()
	defer lock.Unlock()

	a, err := s.analyses.GetByID(analysisID)
	if err != nil {
		return domain.Analysis{}, err
	}
	rules, err := s.rules.ActiveForDate(date)
	if err != nil {
		return domain.Analysis{}, err
	}
	count, err := domain.NewConsignmentCount(consignments)
	if err != nil {
		return domain.Analysis{}, err
	}

	entry := domain.BuildEntry(date, count, paid, pickups, rules)
	a, err = a.WithEntry(entry)
	if err != nil {
		return domain.Analysis{}, err
	}
	a = a.WithRulesVersion(rules.Version)

	if a.Status == domain.AnalysisPending {
		if a, err = a.WithStatus(domain.AnalysisProcessing); err != nil {
			return domain.Analysis{}, err
		}
	}
	if a.Status == domain.AnalysisProcessing {
		if a, err = a.WithStatus(domain.AnalysisCompleted); err != nil {
			return domain.Analysis{}, err
		}
	}

	if err := s.analyses.Save(a); err != nil {
		return domain.Analysis{}, err
	}
	return a, nil
}

// Get returns one analysis snapshot.
func (s *Service) Get(id uuid.UUID) (domain.Analysis, error) {
	return s.analyses.GetByID(id)
}

// ListByOwner returns an owner's analyses.
func (s *Service) ListByOwner(ownerID string) ([]domain.Analysis, error) {
	return s.analyses.ListByOwner(ownerID)
}

// Delete removes an analysis and its entries.
func (s *Service) Delete(id uuid.UUID) error {
	return s.analyses.Delete(id)
}

// Progress returns the tracker snapshot for a submission id.
func (s *Service) Progress(submissionID uuid.UUID) (progress.Snapshot, bool) {
	t, ok := s.progress.Get(submissionID)
	if !ok {
		return progress.Snapshot{}, false
	}
	return t.Snapshot(), true
}
