package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrShipmentNotFound):
		return http.StatusNotFound, "shipment not found"
	case errors.Is(err, domain.ErrVehicleNotFound):
		return http.StatusNotFound, "vehicle not found"
	case errors.Is(err, domain.ErrCustomerNotFound):
		return http.StatusNotFound, "customer not found"
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, "job not found"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, "payment not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"

	// State machine and business-rule violations: the request was
	// well-formed but the entity cannot accept it.
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyInTransit),
		errors.Is(err, domain.ErrNotYetDelivered),
		errors.Is(err, domain.ErrProcessingStarted),
		errors.Is(err, domain.ErrRefundExceedsBalance),
		errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, err.Error()

	case errors.Is(err, domain.ErrVehicleAlreadyAssigned),
		errors.Is(err, domain.ErrVehicleUnavailable):
		return http.StatusConflict, err.Error()

	// Malformed input rejected before any state mutation.
	case errors.Is(err, domain.ErrInvalidWeight),
		errors.Is(err, domain.ErrMissingCoordinates),
		errors.Is(err, domain.ErrSameOriginDestination),
		errors.Is(err, domain.ErrNegativeInsurance),
		errors.Is(err, domain.ErrEmptyNote),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrPastDeliveryTime):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrQueueFull),
		errors.Is(err, domain.ErrDispatchUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
