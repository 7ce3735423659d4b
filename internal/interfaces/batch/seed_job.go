package batch

import (
	"context"
	"fmt"
	"log"
)

// CategorySeeder seeds the default categories for principals that have none.
type CategorySeeder interface {
	SeedDefaultsIfEmpty(ctx context.Context, userID string) (bool, error)
}

// SeedCategoriesJob backfills the default categories for one principal.
type SeedCategoriesJob struct {
	userID string
	seeder CategorySeeder
}

func NewSeedCategoriesJob(userID string, seeder CategorySeeder) *SeedCategoriesJob {
	return &SeedCategoriesJob{userID: userID, seeder: seeder}
}

func (j *SeedCategoriesJob) Execute(ctx context.Context) error {
	seeded, err := j.seeder.SeedDefaultsIfEmpty(ctx, j.userID)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	if seeded {
		log.Printf("Seeded default categories for user %s", j.userID)
	}
	return nil
}

func (j *SeedCategoriesJob) UserID() string {
	return j.userID
}

func (j *SeedCategoriesJob) Description() string {
	return fmt.Sprintf("Category backfill for user %s", j.userID)
}

// SeedCategoryJobs builds one backfill job per principal.
func SeedCategoryJobs(userIDs []string, seeder CategorySeeder) []Job {
	jobs := make([]Job, 0, len(userIDs))
	for _, id := range userIDs {
		jobs = append(jobs, NewSeedCategoriesJob(id, seeder))
	}
	return jobs
}
