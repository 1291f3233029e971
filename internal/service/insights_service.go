package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kuxala/hackathon-project-sub000/internal/analytics"
	"github.com/kuxala/hackathon-project-sub000/internal/auth"
	"github.com/kuxala/hackathon-project-sub000/internal/jobs"
	"github.com/kuxala/hackathon-project-sub000/internal/logger"
	"github.com/kuxala/hackathon-project-sub000/internal/store"
	"github.com/rs/zerolog"
)

const (
	defaultPredictionMonths = 6

	// Predictions never look further back than a year, so the fetch is bounded.
	maxPredictionMonths = 12

	// ReasonImport tags refresh jobs enqueued after a transaction import.
	ReasonImport = "import"
)

// InsightsService fetches a user's transactions, runs the analytics engine
// and persists the results. Persistence and archiving are best-effort: a
// failure is logged and the computed result is still returned.
type InsightsService struct {
	store            store.Store
	engine           *analytics.Engine
	archiver         store.Archiver
	publisher        jobs.Publisher
	jobStore         jobs.JobStore
	predictionMonths int
	log              zerolog.Logger
}

// Option configures an InsightsService.
type Option func(*InsightsService)

// WithArchiver copies every generated insight batch to a.
func WithArchiver(a store.Archiver) Option {
	return func(s *InsightsService) { s.archiver = a }
}

// WithPublisher enqueues a refresh job after each import.
func WithPublisher(p jobs.Publisher) Option {
	return func(s *InsightsService) { s.publisher = p }
}

// WithJobStore exposes refresh job status through RefreshJob and RefreshJobs.
func WithJobStore(js jobs.JobStore) Option {
	return func(s *InsightsService) { s.jobStore = js }
}

// WithPredictionMonths sets the history window used when a caller does not ask for one.
func WithPredictionMonths(n int) Option {
	return func(s *InsightsService) {
		if n > 0 {
			s.predictionMonths = n
		}
	}
}

// WithLogger sets the logger used for background work.
func WithLogger(log zerolog.Logger) Option {
	return func(s *InsightsService) { s.log = log }
}

func NewInsightsService(st store.Store, engine *analytics.Engine, opts ...Option) *InsightsService {
	s := &InsightsService{
		store:            st,
		engine:           engine,
		predictionMonths: defaultPredictionMonths,
		log:              zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RefreshInsights generates and stores a fresh insight batch for userID.
// Only a failure to read transactions is returned as an error.
func (s *InsightsService) RefreshInsights(ctx context.Context, userID string) (*store.InsightBatch, error) {
	txns, err := s.store.ListTransactions(ctx, userID, nil, nil)
	if err != nil {
		return nil, auth.WrapStoreError("list transactions", err)
	}

	insights := s.engine.GenerateInsights(txns)
	batch := &store.InsightBatch{
		ID:          uuid.New().String(),
		UserID:      userID,
		GeneratedAt: s.engine.Now(),
		Sample:      len(insights) > 0 && insights[0].Sample,
		Insights:    insights,
	}

	log := logger.FromContext(ctx)
	if err := s.store.SaveInsights(ctx, batch); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to save insight batch")
	}
	if s.archiver != nil {
		if err := s.archiver.ArchiveInsights(ctx, batch); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to archive insight batch")
		}
	}

	log.Debug().
		Str("user_id", userID).
		Int("transactions", len(txns)).
		Int("insights", len(insights)).
		Bool("sample", batch.Sample).
		Msg("generated insights")
	return batch, nil
}

// RefreshPrediction generates and upserts next month's prediction for userID.
// monthsToUse <= 0 selects the configured default.
func (s *InsightsService) RefreshPrediction(ctx context.Context, userID string, monthsToUse int) (*analytics.PredictionSnapshot, error) {
	if monthsToUse <= 0 {
		monthsToUse = s.predictionMonths
	}

	now := s.engine.Now()
	start := time.Date(now.Year(), now.Month()-maxPredictionMonths, 1, 0, 0, 0, 0, now.Location())
	txns, err := s.store.ListTransactions(ctx, userID, &start, nil)
	if err != nil {
		return nil, auth.WrapStoreError("list transactions", err)
	}

	snapshot := s.engine.GeneratePrediction(txns, monthsToUse)
	if err := s.store.SavePrediction(ctx, userID, &snapshot); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).
			Str("user_id", userID).
			Str("target_period", snapshot.TargetPeriod).
			Msg("failed to save prediction")
	}
	return &snapshot, nil
}

// StoredPrediction returns the last persisted prediction for next month.
func (s *InsightsService) StoredPrediction(ctx context.Context, userID string) (*analytics.PredictionSnapshot, error) {
	snapshot, err := s.store.GetPrediction(ctx, userID, analytics.TargetPeriod(s.engine.Now()))
	if err != nil {
		return nil, auth.WrapStoreError("get prediction", err)
	}
	return snapshot, nil
}

// LatestInsights returns the most recently stored insight batch.
func (s *InsightsService) LatestInsights(ctx context.Context, userID string) (*store.InsightBatch, error) {
	batch, err := s.store.GetLatestInsights(ctx, userID)
	if err != nil {
		return nil, auth.WrapStoreError("get latest insights", err)
	}
	return batch, nil
}

// Import stores txns for userID and enqueues a refresh. The returned job ID
// is empty when no publisher is configured or publishing failed.
func (s *InsightsService) Import(ctx context.Context, userID string, txns []analytics.TransactionRecord) (int, string, error) {
	saved, err := s.store.CreateTransactions(ctx, userID, txns)
	if err != nil {
		return 0, "", auth.WrapStoreError("create transactions", err)
	}
	if s.publisher == nil {
		return len(saved), "", nil
	}

	job := &jobs.RefreshInsightsJob{UserID: userID, Reason: ReasonImport}
	if err := s.publisher.PublishRefreshInsights(ctx, job); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to enqueue insight refresh")
		return len(saved), "", nil
	}
	return len(saved), job.JobID, nil
}

// RefreshJob returns one of userID's refresh jobs. Jobs owned by another
// user are reported as missing.
func (s *InsightsService) RefreshJob(ctx context.Context, userID, jobID string) (*jobs.RefreshInsightsJob, error) {
	if s.jobStore == nil {
		return nil, fmt.Errorf("%w: %s", jobs.ErrJobNotFound, jobID)
	}
	job, err := s.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.UserID != userID {
		return nil, fmt.Errorf("%w: %s", jobs.ErrJobNotFound, jobID)
	}
	return job, nil
}

// RefreshJobs lists userID's refresh jobs, oldest first.
func (s *InsightsService) RefreshJobs(ctx context.Context, userID string, status jobs.JobStatus, limit int) ([]*jobs.RefreshInsightsJob, error) {
	if s.jobStore == nil {
		return nil, nil
	}
	list, err := s.jobStore.ListJobs(ctx, jobs.JobFilter{UserID: userID, Status: status, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return list, nil
}

// HandleJob is the jobs.JobHandler for refresh jobs. It regenerates both the
// insight feed and the prediction so the stored copies track the latest import.
func (s *InsightsService) HandleJob(ctx context.Context, job jobs.Job) error {
	refresh, ok := job.(*jobs.RefreshInsightsJob)
	if !ok {
		return fmt.Errorf("unsupported job type %q", job.GetType())
	}

	ctx = logger.WithContext(ctx, s.log.With().
		Str("job_id", refresh.JobID).
		Str("user_id", refresh.UserID).
		Logger())

	if _, err := s.RefreshInsights(ctx, refresh.UserID); err != nil {
		return err
	}
	if _, err := s.RefreshPrediction(ctx, refresh.UserID, 0); err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	log.Info().Str("reason", refresh.Reason).Msg("refreshed insights")
	return nil
}
