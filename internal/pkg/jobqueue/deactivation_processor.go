package jobqueue

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"coursebox/app/models"
	"coursebox/app/repository"
)

// UserDeactivator flips stale users to inactive and reports the count.
type UserDeactivator interface {
	DeactivateInactiveSince(threshold time.Time) (int64, error)
}

// DeactivationSweepProcessor deactivates users whose last successful login is
// older than the inactivity window. Users who never logged in are untouched.
type DeactivationSweepProcessor struct {
	users UserDeactivator
}

func NewDeactivationSweepProcessor(users UserDeactivator) *DeactivationSweepProcessor {
	return &DeactivationSweepProcessor{users: users}
}

// Process runs a single sweep and returns the number of deactivated users.
func (p *DeactivationSweepProcessor) Process() (int64, error) {
	threshold := time.Now().Add(-models.InactivityWindow)
	return p.users.DeactivateInactiveSince(threshold)
}

func (q *Queue) processDeactivationSweepJob(_ context.Context, _ *Job) error {
	repos := repository.GetGlobalRepositories()
	processor := NewDeactivationSweepProcessor(repos.User)

	count, err := processor.Process()
	if err != nil {
		return err
	}

	log.Infof("[JobQueue] Deactivation sweep turned %d users inactive", count)
	return nil
}

// EnqueueDeactivationSweep submits an inactive-user sweep job.
func EnqueueDeactivationSweep(q *Queue) {
	payload := DeactivationSweepJobPayload{RequestedAt: time.Now()}
	if _, err := q.EnqueueJob(JobTypeDeactivationSweep, payload.ToMap()); err != nil {
		log.Errorf("[JobQueue] Failed to enqueue deactivation sweep: %v", err)
	}
}
