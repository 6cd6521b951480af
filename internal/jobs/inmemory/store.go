package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/jobs"
)

// Store is an in-memory implementation of JobStore, safe for concurrent
// use. A batch run lives and dies with one process, so nothing needs to
// survive a restart.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.NormalizeSourceJob
}

// NewStore creates a new in-memory job store.
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*jobs.NormalizeSourceJob),
	}
}

// SaveJob saves or updates a job. Jobs are copied on the way in so callers
// cannot mutate stored state.
func (s *Store) SaveJob(ctx context.Context, job *jobs.NormalizeSourceJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jobCopy := *job
	s.jobs[job.JobID] = &jobCopy
	return nil
}

// GetJob retrieves a job by ID.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.NormalizeSourceJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	jobCopy := *job
	return &jobCopy, nil
}

// ListJobs retrieves jobs matching the filter.
func (s *Store) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.NormalizeSourceJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*jobs.NormalizeSourceJob
	for _, job := range s.jobs {
		if filter.SourceCode != "" && job.SourceCode != filter.SourceCode {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		jobCopy := *job
		result = append(result, &jobCopy)
	}

	return result, nil
}

// Ensure Store implements JobStore.
var _ jobs.JobStore = (*Store)(nil)
