package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// MockSeeder is a mock implementation of CategorySeeder
type MockSeeder struct {
	mu                      sync.Mutex
	seen                    []string
	SeedDefaultsIfEmptyFunc func(ctx context.Context, userID string) (bool, error)
}

func (m *MockSeeder) SeedDefaultsIfEmpty(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	m.seen = append(m.seen, userID)
	m.mu.Unlock()
	if m.SeedDefaultsIfEmptyFunc != nil {
		return m.SeedDefaultsIfEmptyFunc(ctx, userID)
	}
	return true, nil
}

type blockingJob struct {
	userID  string
	started chan struct{}
}

func (j *blockingJob) Execute(ctx context.Context) error {
	close(j.started)
	<-ctx.Done()
	return ctx.Err()
}

func (j *blockingJob) UserID() string      { return j.userID }
func (j *blockingJob) Description() string { return "blocking job" }

func TestRun_SeedsEveryUser(t *testing.T) {
	seeder := &MockSeeder{
		SeedDefaultsIfEmptyFunc: func(ctx context.Context, userID string) (bool, error) {
			if userID == "user-3" {
				return false, errors.New("db down")
			}
			return userID != "user-2", nil
		},
	}

	ids := make([]string, 0, 10)
	for i := 1; i <= 10; i++ {
		ids = append(ids, fmt.Sprintf("user-%d", i))
	}

	stats := Run(context.Background(), 3, time.Second, SeedCategoryJobs(ids, seeder))

	if stats.Succeeded != 9 || stats.Failed != 1 {
		t.Errorf("Run() stats = %+v, want 9 succeeded, 1 failed", stats)
	}
	if len(seeder.seen) != 10 {
		t.Errorf("seeder called %d times, want 10", len(seeder.seen))
	}
}

func TestRun_Empty(t *testing.T) {
	stats := Run(context.Background(), 4, 0, nil)
	if stats != (Stats{}) {
		t.Errorf("Run() stats = %+v, want zero", stats)
	}
}

func TestWorkerPool_JobTimeout(t *testing.T) {
	job := &blockingJob{userID: "user-1", started: make(chan struct{})}

	stats := Run(context.Background(), 1, 20*time.Millisecond, []Job{job})

	if stats.Failed != 1 {
		t.Errorf("stats = %+v, want the timed out job to fail", stats)
	}
}

func TestWorkerPool_SubmitQueueFull(t *testing.T) {
	wp := NewWorkerPool(context.Background(), 1, 0, 1)
	// not started, so the single slot fills up
	if err := wp.Submit(NewSeedCategoriesJob("user-1", &MockSeeder{})); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	err := wp.Submit(NewSeedCategoriesJob("user-2", &MockSeeder{}))
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("Submit() error = %v, want %v", err, ErrQueueFull)
	}

	wp.Start()
	if stats := wp.Shutdown(); stats.Succeeded != 1 {
		t.Errorf("Shutdown() stats = %+v, want 1 succeeded", stats)
	}
}

func TestWorkerPool_CancelledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	wp := NewWorkerPool(ctx, 1, 0, 4)
	wp.Start()

	job := &blockingJob{userID: "user-1", started: make(chan struct{})}
	if err := wp.Submit(job); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	<-job.started
	cancel()

	if err := wp.Submit(NewSeedCategoriesJob("user-2", &MockSeeder{})); !errors.Is(err, context.Canceled) {
		t.Errorf("Submit() after cancel error = %v, want %v", err, context.Canceled)
	}

	stats := wp.Shutdown()
	if stats.Failed != 1 || stats.Succeeded != 0 {
		t.Errorf("Shutdown() stats = %+v, want 1 failed", stats)
	}
}
