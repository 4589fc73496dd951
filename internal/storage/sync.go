package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sheetsfdw/internal/domain"
)

// ErrNotFound is returned when a job lookup matches nothing.
var ErrNotFound = errors.New("not found")

// SyncStore implements domain.SyncJobStore on SQLite.
type SyncStore struct {
	db *DB
}

// NewSyncStore creates a new SyncStore.
func NewSyncStore(db *DB) *SyncStore {
	return &SyncStore{db: db}
}

var _ domain.SyncJobStore = (*SyncStore)(nil)

const jobColumns = `id, name, table_name, destination, target_table, sync_mode,
	trigger_type, trigger_config, enabled, last_run_at, last_status, last_error,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (*domain.SyncJob, error) {
	job := &domain.SyncJob{}
	var lastRun sql.NullTime
	if err := r.Scan(
		&job.ID, &job.Name, &job.Table, &job.Destination, &job.TargetTable, &job.SyncMode,
		&job.TriggerType, &job.TriggerConfig, &job.Enabled,
		&lastRun, &job.LastStatus, &job.LastError,
		&job.CreatedAt, &job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lastRun.Valid {
		job.LastRunAt = lastRun.Time
	}
	return job, nil
}

// ── SyncJob CRUD ───────────────────────────────────────────

func (s *SyncStore) CreateJob(job *domain.SyncJob) error {
	now := time.Now()
	job.ID = uuid.New().String()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.SyncMode == "" {
		job.SyncMode = domain.SyncReplace
	}
	if job.TriggerType == "" {
		job.TriggerType = domain.TriggerManual
	}

	_, err := s.db.conn.Exec(
		`INSERT INTO sync_jobs (id, name, table_name, destination, target_table, sync_mode,
		 trigger_type, trigger_config, enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Name, job.Table, job.Destination, job.TargetTable, job.SyncMode,
		job.TriggerType, job.TriggerConfig, job.Enabled,
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sync job %s: %w", job.Name, err)
	}
	return nil
}

func (s *SyncStore) GetJob(id string) (*domain.SyncJob, error) {
	job, err := scanJob(s.db.conn.QueryRow(`SELECT `+jobColumns+` FROM sync_jobs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sync job %s: %w", id, ErrNotFound)
	}
	return job, err
}

// FindJobByName looks a job up by its unique name.
func (s *SyncStore) FindJobByName(name string) (*domain.SyncJob, error) {
	job, err := scanJob(s.db.conn.QueryRow(`SELECT `+jobColumns+` FROM sync_jobs WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sync job %s: %w", name, ErrNotFound)
	}
	return job, err
}

func (s *SyncStore) UpdateJob(job *domain.SyncJob) error {
	job.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE sync_jobs SET name=?, table_name=?, destination=?, target_table=?, sync_mode=?,
		 trigger_type=?, trigger_config=?, enabled=?, updated_at=? WHERE id=?`,
		job.Name, job.Table, job.Destination, job.TargetTable, job.SyncMode,
		job.TriggerType, job.TriggerConfig, job.Enabled,
		job.UpdatedAt, job.ID,
	)
	return err
}

func (s *SyncStore) UpdateJobStatus(id, status, errMsg string) error {
	now := time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE sync_jobs SET last_run_at=?, last_status=?, last_error=?, updated_at=? WHERE id=?`,
		now, status, errMsg, now, id,
	)
	return err
}

func (s *SyncStore) DeleteJob(id string) error {
	// Delete run logs first.
	if _, err := s.db.conn.Exec(`DELETE FROM sync_run_logs WHERE job_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.conn.Exec(`DELETE FROM sync_jobs WHERE id = ?`, id)
	return err
}

func (s *SyncStore) ListJobs() ([]domain.SyncJob, error) {
	return s.queryJobs(`SELECT ` + jobColumns + ` FROM sync_jobs ORDER BY created_at ASC`)
}

// ListEnabledScheduledJobs returns jobs that are enabled with a schedule trigger.
func (s *SyncStore) ListEnabledScheduledJobs() ([]domain.SyncJob, error) {
	return s.queryJobs(`SELECT `+jobColumns+` FROM sync_jobs
		WHERE enabled = 1 AND trigger_type = ? ORDER BY created_at ASC`, domain.TriggerSchedule)
}

func (s *SyncStore) queryJobs(query string, args ...any) ([]domain.SyncJob, error) {
	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.SyncJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// ── Run Logs ───────────────────────────────────────────────

func (s *SyncStore) CreateRunLog(log *domain.SyncRunLog) error {
	log.ID = uuid.New().String()
	_, err := s.db.conn.Exec(
		`INSERT INTO sync_run_logs (id, job_id, started_at, finished_at, status, rows_read, rows_written, error_kind, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.JobID, log.StartedAt, log.FinishedAt, log.Status,
		log.RowsRead, log.RowsWritten, log.ErrorKind, log.Error,
	)
	return err
}

// ListRunLogs returns the newest logs first. limit <= 0 returns all of them.
func (s *SyncStore) ListRunLogs(jobID string, limit int) ([]domain.SyncRunLog, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.conn.Query(
		`SELECT id, job_id, started_at, finished_at, status, rows_read, rows_written, error_kind, error
		 FROM sync_run_logs WHERE job_id = ? ORDER BY started_at DESC LIMIT ?`,
		jobID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.SyncRunLog
	for rows.Next() {
		var l domain.SyncRunLog
		if err := rows.Scan(&l.ID, &l.JobID, &l.StartedAt, &l.FinishedAt, &l.Status,
			&l.RowsRead, &l.RowsWritten, &l.ErrorKind, &l.Error); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
