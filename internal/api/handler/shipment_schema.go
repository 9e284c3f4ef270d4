package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type locationRequest struct {
	Lat     float64 `json:"lat"     validate:"required,latitude"`
	Lng     float64 `json:"lng"     validate:"required,longitude"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

type createShipmentRequest struct {
	CustomerID  string          `json:"customer_id" validate:"required"`
	WeightKg    float64         `json:"weight_kg"   validate:"required,gt=0"`
	Origin      locationRequest `json:"origin"      validate:"required"`
	Destination locationRequest `json:"destination" validate:"required"`
	Urgency     string          `json:"urgency"     validate:"omitempty,oneof=high standard"`
}

type cancelShipmentRequest struct {
	Reason string `json:"reason"`
}

type insuranceRequest struct {
	Value float64 `json:"value" validate:"gte=0"`
}

type noteRequest struct {
	Text string `json:"text" validate:"required"`
}

type paymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type refundRequest struct {
	TransactionID string  `json:"transaction_id" validate:"required"`
	Amount        float64 `json:"amount"         validate:"required,gt=0"`
}

type signatureRequest struct {
	Name string `json:"name" validate:"required"`
}

type shipmentTypeRequest struct {
	Type string `json:"type" validate:"required,oneof=STANDARD EXPRESS"`
}

type etaRequest struct {
	EstimatedDelivery time.Time `json:"estimated_delivery" validate:"required"`
}

// --- Response types ---
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type locationResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	Country string  `json:"country,omitempty"`
}

type trackingEntryResponse struct {
	Timestamp   time.Time        `json:"timestamp"`
	Status      string           `json:"status"`
	Location    locationResponse `json:"location"`
	Description string           `json:"description,omitempty"`
}

type paymentEntryResponse struct {
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	RefundOf      string    `json:"refund_of,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type shipmentResponse struct {
	ID                string                  `json:"id"`
	TrackingID        string                  `json:"tracking_id"`
	CustomerID        string                  `json:"customer_id"`
	WeightKg          float64                 `json:"weight_kg"`
	Origin            locationResponse        `json:"origin"`
	Destination       locationResponse        `json:"destination"`
	Status            string                  `json:"status"`
	Type              string                  `json:"type"`
	Cost              float64                 `json:"cost"`
	IsInsured         bool                    `json:"is_insured"`
	InsuranceValue    float64                 `json:"insurance_value,omitempty"`
	Notes             []string                `json:"notes,omitempty"`
	TrackingHistory   []trackingEntryResponse `json:"tracking_history"`
	PaymentLedger     []paymentEntryResponse  `json:"payment_ledger,omitempty"`
	AssignedVehicleID string                  `json:"assigned_vehicle_id,omitempty"`
	EstimatedDelivery *time.Time              `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time              `json:"actual_delivery,omitempty"`
	Signature         string                  `json:"signature,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
}

type vehicleResponse struct {
	ID              string            `json:"id"`
	LicenseID       string            `json:"license_id"`
	Variant         string            `json:"variant"`
	CapacityKg      float64           `json:"capacity_kg"`
	CurrentFuelPct  float64           `json:"current_fuel_pct"`
	SpeedDegPerTick float64           `json:"speed_deg_per_tick"`
	Status          string            `json:"status"`
	Position        *locationResponse `json:"position,omitempty"`
	CurrentShipment string            `json:"current_shipment_id,omitempty"`
}

type createShipmentResponse struct {
	Shipment shipmentResponse `json:"shipment"`
	Vehicle  vehicleResponse  `json:"vehicle"`
}

// shipmentStubResponse is the minimal shipment view returned on the async
// path: the record exists but finalization is still pending.
type shipmentStubResponse struct {
	ID         string `json:"id"`
	TrackingID string `json:"tracking_id"`
	Status     string `json:"status"`
}

type asyncCreateResponse struct {
	Shipment shipmentStubResponse `json:"shipment"`
	JobID    string               `json:"job_id"`
}

type getShipmentResponse struct {
	Shipment        shipmentResponse `json:"shipment"`
	CurrentLocation locationResponse `json:"current_location"`
}

// shipmentSummaryResponse is the lightweight item used in list responses.
// It intentionally omits history and ledger to keep payloads small.
type shipmentSummaryResponse struct {
	TrackingID  string           `json:"tracking_id"`
	CustomerID  string           `json:"customer_id"`
	Status      string           `json:"status"`
	Type        string           `json:"type"`
	WeightKg    float64          `json:"weight_kg"`
	Cost        float64          `json:"cost"`
	Origin      locationResponse `json:"origin"`
	Destination locationResponse `json:"destination"`
	CreatedAt   time.Time        `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listShipmentsResponse struct {
	Data       []shipmentSummaryResponse `json:"data"`
	Pagination paginationResponse        `json:"pagination"`
}

type transactionResponse struct {
	TransactionID string `json:"transaction_id"`
}

type jobResponse struct {
	JobID     string    `json:"job_id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Result    string    `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
