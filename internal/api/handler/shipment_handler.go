package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetline/logistics-platform/internal/api/metrics"
	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	service ports.ShipmentService
	jobs    ports.JobService
}

func NewShipmentHandler(service ports.ShipmentService, jobs ports.JobService) *ShipmentHandler {
	return &ShipmentHandler{service: service, jobs: jobs}
}

// Create handles POST /v1/shipments. With ?async=true and a running
// dispatcher the shipment is created PENDING and finalized by a worker
// (202); otherwise the whole factory runs inline (201). An unavailable
// dispatcher silently falls back to the synchronous path.
func (h *ShipmentHandler) Create(c echo.Context) error {
	var req createShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, customerID, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if !domain.CanCreateShipments(role) {
		return domain.ErrForbidden
	}

	input := toCreateInput(req)
	if role == domain.RoleCustomer {
		// Customers only ever create for themselves.
		input.CustomerID = customerID
	}

	if c.QueryParam("async") == "true" && h.jobs.Available() {
		job, shipment, err := h.jobs.EnqueueShipmentJob(c.Request().Context(), input)
		if err != nil {
			metrics.JobsEnqueuedTotal.WithLabelValues("rejected").Inc()
			return err
		}
		metrics.JobsEnqueuedTotal.WithLabelValues("accepted").Inc()
		return c.JSON(http.StatusAccepted, toAsyncCreateResponse(job, shipment))
	}

	result, err := h.service.CreateShipment(c.Request().Context(), input)
	if err != nil {
		return err
	}
	metrics.ShipmentsCreatedTotal.WithLabelValues(string(result.Vehicle.Variant), "sync").Inc()
	return c.JSON(http.StatusCreated, toCreateResponse(result))
}

// Get handles GET /v1/shipments/:tracking_id.
func (h *ShipmentHandler) Get(c echo.Context) error {
	role, customerID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetShipment(c.Request().Context(), c.Param("tracking_id"))
	if err != nil {
		return err
	}
	if role == domain.RoleCustomer && detail.Shipment.CustomerID != customerID {
		return domain.ErrForbidden
	}

	return c.JSON(http.StatusOK, toGetResponse(detail))
}

// List handles GET /v1/shipments with filters and pagination.
func (h *ShipmentHandler) List(c echo.Context) error {
	role, customerID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	input := ports.ListShipmentsInput{
		Role:       role,
		CustomerID: customerID,
		Status:     c.QueryParam("status"),
		Type:       c.QueryParam("type"),
		Search:     c.QueryParam("search"),
	}
	input.Page, _ = strconv.Atoi(c.QueryParam("page"))
	input.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if from := c.QueryParam("date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_from must be RFC3339")
		}
		input.DateFrom = t
	}
	if to := c.QueryParam("date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_to must be RFC3339")
		}
		input.DateTo = t
	}

	result, err := h.service.ListShipments(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Dispatch handles POST /v1/shipments/:tracking_id/dispatch.
func (h *ShipmentHandler) Dispatch(c echo.Context) error {
	shipment, err := h.service.Dispatch(c.Request().Context(), c.Param("tracking_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// Cancel handles POST /v1/shipments/:tracking_id/cancel.
func (h *ShipmentHandler) Cancel(c echo.Context) error {
	var req cancelShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	shipment, err := h.service.Cancel(c.Request().Context(), c.Param("tracking_id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// AddInsurance handles POST /v1/shipments/:tracking_id/insurance.
func (h *ShipmentHandler) AddInsurance(c echo.Context) error {
	var req insuranceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	shipment, err := h.service.AddInsurance(c.Request().Context(), c.Param("tracking_id"), req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// AddNote handles POST /v1/shipments/:tracking_id/notes.
func (h *ShipmentHandler) AddNote(c echo.Context) error {
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	shipment, err := h.service.AddNote(c.Request().Context(), c.Param("tracking_id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// ProcessPayment handles POST /v1/shipments/:tracking_id/payments.
func (h *ShipmentHandler) ProcessPayment(c echo.Context) error {
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	txnID, err := h.service.ProcessPayment(c.Request().Context(), c.Param("tracking_id"), req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transactionResponse{TransactionID: txnID})
}

// Refund handles POST /v1/shipments/:tracking_id/refunds.
func (h *ShipmentHandler) Refund(c echo.Context) error {
	var req refundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	refundID, err := h.service.Refund(c.Request().Context(), c.Param("tracking_id"), req.TransactionID, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transactionResponse{TransactionID: refundID})
}

// RecordSignature handles POST /v1/shipments/:tracking_id/signature.
func (h *ShipmentHandler) RecordSignature(c echo.Context) error {
	var req signatureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	shipment, err := h.service.RecordSignature(c.Request().Context(), c.Param("tracking_id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// SetType handles POST /v1/shipments/:tracking_id/type.
func (h *ShipmentHandler) SetType(c echo.Context) error {
	var req shipmentTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	shipment, err := h.service.SetType(c.Request().Context(), c.Param("tracking_id"), domain.ShipmentType(req.Type))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// SetEstimatedDelivery handles POST /v1/shipments/:tracking_id/eta.
func (h *ShipmentHandler) SetEstimatedDelivery(c echo.Context) error {
	var req etaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	shipment, err := h.service.SetEstimatedDelivery(c.Request().Context(), c.Param("tracking_id"), req.EstimatedDelivery)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}
