package ports

import (
	"context"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

// JobDispatcher hands jobs to the asynchronous execution path.
type JobDispatcher interface {
	// Enqueue hands the job to a worker. It fails fast when the dispatcher
	// is not running or the target queue is full; it never blocks.
	Enqueue(job *domain.Job) error
	// Available reports whether the async path can accept work right now.
	Available() bool
}

// JobService owns the async shipment-processing path and its job records.
type JobService interface {
	// EnqueueShipmentJob creates a PENDING shipment, records a queued job
	// referencing it, and hands the job off. On handoff failure the job is
	// recorded failed and the error is surfaced; the shipment stays PENDING
	// and the caller owns deciding whether to retry or fall back to the
	// sync path.
	EnqueueShipmentJob(ctx context.Context, input CreateShipmentInput) (*domain.Job, *domain.Shipment, error)
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
	// UpdateJobStatus applies a worker callback (processing/completed/failed).
	UpdateJobStatus(ctx context.Context, jobID string, status domain.JobStatus, result, errMsg string) (*domain.Job, error)
	// Available mirrors the dispatcher capability check for callers.
	Available() bool
}
