package domain

import "errors"

// State machine and assignment errors.
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrCapacityExceeded = errors.New("vehicle capacity exceeded")
var ErrVehicleAlreadyAssigned = errors.New("shipment already has a vehicle assigned")
var ErrVehicleUnavailable = errors.New("vehicle is not available for assignment")

// Shipment mutation guards.
var ErrNegativeInsurance = errors.New("insurance value cannot be negative")
var ErrAlreadyInTransit = errors.New("shipment processing already started")
var ErrEmptyNote = errors.New("note cannot be empty")
var ErrNonPositiveAmount = errors.New("payment amount must be positive")
var ErrPaymentNotFound = errors.New("payment transaction not found")
var ErrRefundExceedsBalance = errors.New("refund exceeds remaining transaction balance")
var ErrNotYetDelivered = errors.New("shipment has not been delivered")
var ErrProcessingStarted = errors.New("shipment type locked after processing started")
var ErrPastDeliveryTime = errors.New("estimated delivery time must be in the future")

// Input validation.
var ErrInvalidWeight = errors.New("weight must be greater than zero")
var ErrMissingCoordinates = errors.New("origin and destination coordinates are required")
var ErrSameOriginDestination = errors.New("origin and destination must differ")

// Not-found conditions.
var ErrShipmentNotFound = errors.New("shipment not found")
var ErrVehicleNotFound = errors.New("vehicle not found")
var ErrCustomerNotFound = errors.New("customer not found")
var ErrJobNotFound = errors.New("job not found")

// Async dispatch.
var ErrDispatchUnavailable = errors.New("async dispatch unavailable")
var ErrQueueFull = errors.New("job queue is full")

var ErrForbidden = errors.New("access forbidden")
