// Package jobs defines the job model used to run the independent per-source
// normalization pipelines. Sources share no mutable state, so a period's
// sources can run concurrently; one source failing never touches the others.
package jobs

import (
	"context"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeNormalizeSource runs one source's normalization pipeline for
	// the configured period.
	JobTypeNormalizeSource JobType = "normalize_source"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// NormalizeSourceJob is one source/period normalization run. Normalization
// jobs are never retried automatically: a failed source means a broken or
// missing export, which the operator fixes before re-running.
type NormalizeSourceJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// SourceCode is the account code of the source descriptor to run.
	SourceCode string `json:"source_code"`

	// Month and Year name the reporting period.
	Month int `json:"month"`
	Year  int `json:"year"`

	Status JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains failure details when Status is failed.
	Error string `json:"error,omitempty"`
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishNormalizeSource enqueues a source normalization job.
	PublishNormalizeSource(ctx context.Context, job *NormalizeSourceJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs; handler is called for each job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the job failed.
type JobHandler func(ctx context.Context, job *NormalizeSourceJob) error

// JobStore stores and retrieves job status.
type JobStore interface {
	SaveJob(ctx context.Context, job *NormalizeSourceJob) error
	GetJob(ctx context.Context, jobID string) (*NormalizeSourceJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*NormalizeSourceJob, error)
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	SourceCode string
	Status     JobStatus
}
