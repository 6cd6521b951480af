package inmemory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/jobs"
)

func TestQueueProcessesJobs(t *testing.T) {
	store := NewStore()
	queue := NewQueue(4, 2, store)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	seen := map[string]bool{}

	handler := func(ctx context.Context, job *jobs.NormalizeSourceJob) error {
		defer wg.Done()
		mu.Lock()
		seen[job.SourceCode] = true
		mu.Unlock()
		if job.SourceCode == "BROKEN" {
			return errors.New("missing export file")
		}
		return nil
	}

	if err := queue.Start(ctx, handler); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	good := &jobs.NormalizeSourceJob{SourceCode: "BBVA_DEB", Month: 1, Year: 2024}
	bad := &jobs.NormalizeSourceJob{SourceCode: "BROKEN", Month: 1, Year: 2024}
	if err := queue.PublishNormalizeSource(ctx, good); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := queue.PublishNormalizeSource(ctx, bad); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	wg.Wait()
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := queue.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if !seen["BBVA_DEB"] || !seen["BROKEN"] {
		t.Fatalf("not all jobs were handled: %v", seen)
	}

	stored, err := store.GetJob(ctx, good.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if stored.Status != jobs.JobStatusCompleted {
		t.Errorf("good job status = %q, want completed", stored.Status)
	}

	failed, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusFailed})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(failed) != 1 || failed[0].SourceCode != "BROKEN" {
		t.Errorf("failed jobs = %+v, want only BROKEN", failed)
	}
	if len(failed) == 1 && failed[0].Error == "" {
		t.Error("failed job has no error message")
	}
}

func TestQueueClosedRejectsPublish(t *testing.T) {
	queue := NewQueue(1, 1, NewStore())
	if err := queue.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	job := &jobs.NormalizeSourceJob{SourceCode: "BBVA_DEB"}
	if err := queue.PublishNormalizeSource(context.Background(), job); err == nil {
		t.Error("Publish on closed queue succeeded, want error")
	}
}

func TestStoreCopiesJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.NormalizeSourceJob{JobID: "j1", SourceCode: "HEY", Status: jobs.JobStatusPending}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	job.Status = jobs.JobStatusFailed

	got, err := store.GetJob(ctx, "j1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != jobs.JobStatusPending {
		t.Errorf("stored status = %q, want pending", got.Status)
	}
}

func TestStoreRequiresJobID(t *testing.T) {
	if err := NewStore().SaveJob(context.Background(), &jobs.NormalizeSourceJob{}); err == nil {
		t.Error("SaveJob without ID succeeded, want error")
	}
}
