package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/etl"
	"sheetsfdw/internal/storage"
)

// ErrJobRunning is returned when a run is requested for a job already in flight.
var ErrJobRunning = errors.New("job is already running")

// DefaultRunTimeout bounds a single sync run.
const DefaultRunTimeout = 5 * time.Minute

// ─────────────────────────────────────────────────────────────
// Sync Service: business logic for sync jobs
// ─────────────────────────────────────────────────────────────

// SyncService manages sync jobs, their run history and cron schedules.
type SyncService struct {
	store       domain.SyncJobStore
	engine      *etl.Engine
	emitter     EventEmitter
	logger      *slog.Logger
	runningJobs runningJobsGuard

	// RunTimeout bounds each run; zero means DefaultRunTimeout.
	RunTimeout time.Duration

	mu        sync.Mutex
	cronSched *cron.Cron
	scheduled int
}

// NewSyncService creates a SyncService ready for use.
func NewSyncService(store domain.SyncJobStore, engine *etl.Engine, emitter EventEmitter, logger *slog.Logger) *SyncService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if emitter == nil {
		emitter = LogEmitter{}
	}
	return &SyncService{
		store:   store,
		engine:  engine,
		emitter: emitter,
		logger:  logger.With("component", "sync"),
	}
}

// ── Job CRUD ───────────────────────────────────────────────

// CreateSyncJobInput carries the user-editable fields of a job.
type CreateSyncJobInput struct {
	Name          string `json:"name"`
	Table         string `json:"table"`
	Destination   string `json:"destination"`
	TargetTable   string `json:"targetTable"`
	SyncMode      string `json:"syncMode"`
	TriggerType   string `json:"triggerType"`
	TriggerConfig string `json:"triggerConfig"`
	Enabled       bool   `json:"enabled"`
}

func (s *SyncService) validate(input CreateSyncJobInput) error {
	if input.Name == "" {
		return fmt.Errorf("job name is required")
	}
	cat := s.engine.Catalog.Catalog()
	if _, err := cat.Table(input.Table); err != nil {
		return err
	}
	if _, err := cat.Destination(input.Destination); err != nil {
		return err
	}
	switch domain.SyncMode(input.SyncMode) {
	case "", domain.SyncReplace, domain.SyncAppend:
	default:
		return fmt.Errorf("unknown sync mode %q", input.SyncMode)
	}
	switch input.TriggerType {
	case "", domain.TriggerManual:
	case domain.TriggerSchedule:
		if _, err := cron.ParseStandard(input.TriggerConfig); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", input.TriggerConfig, err)
		}
	default:
		return fmt.Errorf("unknown trigger type %q", input.TriggerType)
	}
	return nil
}

func (s *SyncService) CreateJob(ctx context.Context, input CreateSyncJobInput) (*domain.SyncJob, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	job := &domain.SyncJob{
		Name:          input.Name,
		Table:         input.Table,
		Destination:   input.Destination,
		TargetTable:   input.TargetTable,
		SyncMode:      domain.SyncMode(input.SyncMode),
		TriggerType:   input.TriggerType,
		TriggerConfig: input.TriggerConfig,
		Enabled:       input.Enabled,
	}
	if err := s.store.CreateJob(job); err != nil {
		return nil, fmt.Errorf("create sync job: %w", err)
	}
	s.RestartSchedules(ctx)
	return job, nil
}

// GetJob looks a job up by ID, then by name.
func (s *SyncService) GetJob(ref string) (*domain.SyncJob, error) {
	job, err := s.store.GetJob(ref)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return s.store.FindJobByName(ref)
}

func (s *SyncService) ListJobs() ([]domain.SyncJob, error) {
	return s.store.ListJobs()
}

func (s *SyncService) UpdateJob(ctx context.Context, ref string, input CreateSyncJobInput) error {
	if err := s.validate(input); err != nil {
		return err
	}
	job, err := s.GetJob(ref)
	if err != nil {
		return err
	}
	job.Name = input.Name
	job.Table = input.Table
	job.Destination = input.Destination
	job.TargetTable = input.TargetTable
	job.SyncMode = domain.SyncMode(input.SyncMode)
	job.TriggerType = input.TriggerType
	job.TriggerConfig = input.TriggerConfig
	job.Enabled = input.Enabled

	if err := s.store.UpdateJob(job); err != nil {
		return err
	}
	s.RestartSchedules(ctx)
	return nil
}

func (s *SyncService) DeleteJob(ctx context.Context, ref string) error {
	job, err := s.GetJob(ref)
	if err != nil {
		return err
	}
	if err := s.store.DeleteJob(job.ID); err != nil {
		return err
	}
	s.RestartSchedules(ctx)
	return nil
}

// IsRunning reports whether a run of jobID is in flight.
func (s *SyncService) IsRunning(jobID string) bool {
	return s.runningJobs.IsRunning(jobID)
}

// ── Run ────────────────────────────────────────────────────

// RunJob executes a sync job synchronously, records a run log and emits
// sync:completed whatever the outcome.
func (s *SyncService) RunJob(ctx context.Context, ref string) (*etl.SyncResult, error) {
	job, err := s.GetJob(ref)
	if err != nil {
		return nil, err
	}

	// Prevent concurrent execution of the same job.
	if !s.runningJobs.TryLock(job.ID) {
		return nil, fmt.Errorf("%s: %w", job.Name, ErrJobRunning)
	}
	defer s.runningJobs.Unlock(job.ID)

	if err := s.store.UpdateJobStatus(job.ID, domain.StatusRunning, ""); err != nil {
		s.logger.Warn("update job status", "job", job.Name, "error", err)
	}

	timeout := s.RunTimeout
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result, runErr := s.engine.RunSync(runCtx, job)

	runLog := &domain.SyncRunLog{
		JobID:       job.ID,
		StartedAt:   start,
		FinishedAt:  time.Now(),
		Status:      result.Status,
		RowsRead:    result.RowsRead,
		RowsWritten: result.RowsWritten,
		ErrorKind:   result.ErrorKind,
		Error:       result.Error,
	}
	if err := s.store.CreateRunLog(runLog); err != nil {
		s.logger.Warn("create run log", "job", job.Name, "error", err)
	}
	if err := s.store.UpdateJobStatus(job.ID, result.Status, result.Error); err != nil {
		s.logger.Warn("update job status", "job", job.Name, "error", err)
	}

	s.emitter.Emit(ctx, EventSyncCompleted, map[string]any{
		"jobId":       job.ID,
		"job":         job.Name,
		"status":      result.Status,
		"rowsWritten": result.RowsWritten,
		"errorKind":   result.ErrorKind,
	})
	return result, runErr
}

// ListRunLogs returns the newest run logs for a job.
func (s *SyncService) ListRunLogs(ref string, limit int) ([]domain.SyncRunLog, error) {
	job, err := s.GetJob(ref)
	if err != nil {
		return nil, err
	}
	return s.store.ListRunLogs(job.ID, limit)
}

// ── Schedules ──────────────────────────────────────────────

// RestartSchedules tears down the cron scheduler and rebuilds it from the
// enabled scheduled jobs. Cancelling ctx stops new runs from starting; runs
// already in flight keep going until they finish or hit RunTimeout, so callers
// shut down with Stop followed by WaitRunning.
func (s *SyncService) RestartSchedules(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	runCtx := context.WithoutCancel(ctx)

	jobs, err := s.store.ListEnabledScheduledJobs()
	if err != nil {
		s.logger.Error("list scheduled jobs", "error", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	c := cron.New()
	for _, j := range jobs {
		jid, name := j.ID, j.Name
		_, err := c.AddFunc(j.TriggerConfig, func() {
			if ctx.Err() != nil {
				return
			}
			s.logger.Info("cron: running job", "job", name)
			if _, err := s.RunJob(runCtx, jid); err != nil {
				s.logger.Error("cron: job failed", "job", name, "error", err)
			}
		})
		if err != nil {
			s.logger.Error("cron: invalid expression", "job", name, "expr", j.TriggerConfig, "error", err)
			continue
		}
		s.scheduled++
	}
	c.Start()
	s.cronSched = c
	s.logger.Info("cron: scheduled jobs", "count", s.scheduled)
}

// Scheduled returns how many jobs the scheduler currently holds.
func (s *SyncService) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// WaitRunning blocks until all running jobs finish or ctx is cancelled.
// Used for graceful shutdown.
func (s *SyncService) WaitRunning(ctx context.Context) {
	s.runningJobs.WaitAll(ctx)
}

// Stop tears down the scheduler. Safe to call repeatedly.
func (s *SyncService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *SyncService) stopLocked() {
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
	s.scheduled = 0
}
