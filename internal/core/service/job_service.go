package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

// JobService owns async shipment processing: it records job state and hands
// work to the dispatcher. It is also the worker-side processor, so the same
// service closes its own loop when a job runs.
type JobService struct {
	store      ports.JobStore
	dispatcher ports.JobDispatcher
	shipments  ports.ShipmentService
	bus        ports.Broadcaster
	logger     zerolog.Logger
}

func NewJobService(
	store ports.JobStore,
	dispatcher ports.JobDispatcher,
	shipments ports.ShipmentService,
	bus ports.Broadcaster,
	logger zerolog.Logger,
) *JobService {
	return &JobService{
		store:      store,
		dispatcher: dispatcher,
		shipments:  shipments,
		bus:        bus,
		logger:     logger,
	}
}

// Available reports whether the async path can accept work right now.
func (s *JobService) Available() bool {
	return s.dispatcher.Available()
}

// EnqueueShipmentJob creates the shipment as PENDING, records a queued job
// referencing it and hands the job to the dispatcher. On handoff failure
// the job record is marked failed before the error is surfaced, so a later
// GetJob never shows a queued job that nobody owns; the PENDING shipment
// stays as it is.
func (s *JobService) EnqueueShipmentJob(ctx context.Context, input ports.CreateShipmentInput) (*domain.Job, *domain.Shipment, error) {
	shipment, err := s.shipments.CreatePendingShipment(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	job := &domain.Job{
		JobID:  uuid.NewString(),
		Type:   domain.JobTypeProcessShipment,
		Status: domain.JobQueued,
		Payload: domain.ShipmentJobPayload{
			ShipmentID:  shipment.ID,
			CustomerID:  input.CustomerID,
			WeightKg:    input.WeightKg,
			Origin:      toLocation(input.Origin),
			Destination: toLocation(input.Destination),
			Urgency:     input.Urgency,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(ctx, job); err != nil {
		return nil, nil, fmt.Errorf("enqueue shipment job: %w", err)
	}

	if err := s.dispatcher.Enqueue(job); err != nil {
		job.Status = domain.JobFailed
		job.Error = err.Error()
		job.UpdatedAt = time.Now().UTC()
		if saveErr := s.store.Save(ctx, job); saveErr != nil {
			s.logger.Error().Err(saveErr).Str("job_id", job.JobID).Msg("failed to record job handoff failure")
		}
		return nil, nil, fmt.Errorf("enqueue shipment job: %w", err)
	}

	s.logger.Info().
		Str("job_id", job.JobID).
		Str("tracking_id", shipment.TrackingID).
		Str("customer_id", input.CustomerID).
		Msg("shipment job queued")
	s.broadcastJob(job)
	return job, shipment, nil
}

// GetJob returns the stored job record.
func (s *JobService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// UpdateJobStatus applies a worker callback. Result and errMsg overwrite the
// stored fields only when non-empty. Terminal records never change again: a
// late or duplicate callback cannot resurrect a completed or failed job.
func (s *JobService) UpdateJobStatus(ctx context.Context, jobID string, status domain.JobStatus, result, errMsg string) (*domain.Job, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("update job status: %w", err)
	}
	if job.Status.Terminal() {
		return nil, fmt.Errorf("update job status: job %s already %s: %w", jobID, job.Status, domain.ErrInvalidTransition)
	}

	job.Status = status
	if result != "" {
		job.Result = result
	}
	if errMsg != "" {
		job.Error = errMsg
	}
	job.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("update job status: %w", err)
	}
	s.broadcastJob(job)
	return job, nil
}

// Process runs one job on a worker goroutine. It marks the record
// processing, finalizes the PENDING shipment through the same factory the
// sync path uses, then settles the record as completed or failed.
func (s *JobService) Process(ctx context.Context, job *domain.Job) {
	if _, err := s.UpdateJobStatus(ctx, job.JobID, domain.JobProcessing, "", ""); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.JobID).Msg("failed to mark job processing")
	}

	result, err := s.finalize(ctx, job)
	if err != nil {
		s.logger.Error().Err(err).Str("job_id", job.JobID).Msg("shipment job failed")
		if _, saveErr := s.UpdateJobStatus(ctx, job.JobID, domain.JobFailed, "", err.Error()); saveErr != nil {
			s.logger.Error().Err(saveErr).Str("job_id", job.JobID).Msg("failed to record job failure")
		}
		return
	}

	s.logger.Info().
		Str("job_id", job.JobID).
		Str("tracking_id", result.Shipment.TrackingID).
		Msg("shipment job completed")
	if _, err := s.UpdateJobStatus(ctx, job.JobID, domain.JobCompleted, result.Shipment.TrackingID, ""); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.JobID).Msg("failed to record job completion")
	}
}

// finalize completes the shipment the job refers to. Jobs from older
// records without a shipment id run the full factory instead.
func (s *JobService) finalize(ctx context.Context, job *domain.Job) (*ports.CreateShipmentResult, error) {
	if job.Payload.ShipmentID != "" {
		return s.shipments.FinalizeShipment(ctx, job.Payload.ShipmentID, job.Payload.Urgency)
	}
	return s.shipments.CreateShipment(ctx, ports.CreateShipmentInput{
		CustomerID:  job.Payload.CustomerID,
		WeightKg:    job.Payload.WeightKg,
		Origin:      fromLocation(job.Payload.Origin),
		Destination: fromLocation(job.Payload.Destination),
		Urgency:     job.Payload.Urgency,
	})
}

func (s *JobService) broadcastJob(job *domain.Job) {
	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventStatsUpdate, map[string]any{
		"jobId":  job.JobID,
		"status": job.Status,
	}), domain.ChannelJobs)
}

func fromLocation(loc domain.Location) ports.LocationInput {
	return ports.LocationInput{
		Lat:     loc.Lat,
		Lng:     loc.Lng,
		Address: loc.Address,
		City:    loc.City,
		Country: loc.Country,
	}
}
