package domain

import "time"

// SyncMode determines how rows are written to the destination.
type SyncMode string

const (
	SyncReplace SyncMode = "replace" // delete all existing rows, insert fresh
	SyncAppend  SyncMode = "append"  // add rows without deleting existing
)

// Trigger types for a sync job.
const (
	TriggerManual   = "manual"
	TriggerSchedule = "schedule"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusRunning = "running"
)

// SyncJob copies one foreign table into a destination table.
type SyncJob struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Table         string    `json:"table"`       // foreign table name
	Destination   string    `json:"destination"` // destination name
	TargetTable   string    `json:"targetTable"` // table or collection in the destination
	SyncMode      SyncMode  `json:"syncMode"`
	TriggerType   string    `json:"triggerType"`   // "manual" | "schedule"
	TriggerConfig string    `json:"triggerConfig"` // cron expression
	Enabled       bool      `json:"enabled"`
	LastRunAt     time.Time `json:"lastRunAt"`
	LastStatus    string    `json:"lastStatus"` // "success" | "error" | "running" | ""
	LastError     string    `json:"lastError"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SyncRunLog is a historical record of a sync run.
type SyncRunLog struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Status      string    `json:"status"`
	RowsRead    int       `json:"rowsRead"`
	RowsWritten int       `json:"rowsWritten"`
	ErrorKind   string    `json:"errorKind,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// SyncJobStore persists sync jobs and their run history.
type SyncJobStore interface {
	CreateJob(job *SyncJob) error
	GetJob(id string) (*SyncJob, error)
	FindJobByName(name string) (*SyncJob, error)
	ListJobs() ([]SyncJob, error)
	ListEnabledScheduledJobs() ([]SyncJob, error)
	UpdateJob(job *SyncJob) error
	UpdateJobStatus(id, status, errMsg string) error
	DeleteJob(id string) error

	CreateRunLog(log *SyncRunLog) error
	ListRunLogs(jobID string, limit int) ([]SyncRunLog, error)
}
