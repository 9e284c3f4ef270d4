package domain

import "time"

// JobStatus tracks an asynchronous job through its lifecycle.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// JobTypeProcessShipment is the only job type the dispatch path carries today.
const JobTypeProcessShipment = "process-shipment"

// Terminal reports whether the job will receive no further updates.
// Terminal job records expire from the store after a housekeeping TTL.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// ShipmentJobPayload is the work order handed to the async worker. It
// mirrors the synchronous creation input so both paths converge on the
// same shipment invariants.
type ShipmentJobPayload struct {
	ShipmentID  string   `json:"shipmentId,omitempty"`
	CustomerID  string   `json:"customerId"`
	WeightKg    float64  `json:"weight"`
	Origin      Location `json:"origin"`
	Destination Location `json:"destination"`
	Urgency     string   `json:"urgency"`
}

// Job is a unit of deferred shipment processing.
type Job struct {
	JobID     string             `json:"jobId"`
	Type      string             `json:"type"`
	Payload   ShipmentJobPayload `json:"data"`
	Status    JobStatus          `json:"status"`
	Result    string             `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
