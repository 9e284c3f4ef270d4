package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

// terminalTTL bounds how long completed and failed job records linger.
// Live records (queued, processing) never expire on their own.
const terminalTTL = 24 * time.Hour

// JobStore keeps async job records in Redis as JSON documents.
// Key format: job:<job_id>
type JobStore struct {
	client *redis.Client
}

// NewJobStore creates a JobStore wrapping the given Redis client.
func NewJobStore(client *redis.Client) *JobStore {
	return &JobStore{client: client}
}

// Save writes the job record. Terminal records pick up the housekeeping TTL;
// saving a terminal status over a live record also starts the clock.
func (s *JobStore) Save(ctx context.Context, job *domain.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("job store save: %w", err)
	}

	var ttl time.Duration // 0 = no expiry
	if job.Status.Terminal() {
		ttl = terminalTTL
	}
	if err := s.client.Set(ctx, s.key(job.JobID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("job store save: %w", err)
	}
	return nil
}

// Get returns the stored job, or domain.ErrJobNotFound for unknown and
// expired ids alike.
func (s *JobStore) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	payload, err := s.client.Get(ctx, s.key(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("job store get: %w", err)
	}

	var job domain.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("job store decode: %w", err)
	}
	return &job, nil
}

func (s *JobStore) key(jobID string) string {
	return "job:" + jobID
}
