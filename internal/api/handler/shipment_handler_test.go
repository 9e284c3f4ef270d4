package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

// stubShipmentService overrides only the methods a test exercises; calling
// anything else panics through the embedded nil interface, which is exactly
// what we want from an unexpected call.
type stubShipmentService struct {
	ports.ShipmentService
	createFn func(ctx context.Context, input ports.CreateShipmentInput) (*ports.CreateShipmentResult, error)
	getFn    func(ctx context.Context, trackingID string) (*ports.ShipmentDetail, error)
	listFn   func(ctx context.Context, input ports.ListShipmentsInput) (*ports.ListShipmentsResult, error)
}

func (s *stubShipmentService) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) (*ports.CreateShipmentResult, error) {
	return s.createFn(ctx, input)
}

func (s *stubShipmentService) GetShipment(ctx context.Context, trackingID string) (*ports.ShipmentDetail, error) {
	return s.getFn(ctx, trackingID)
}

func (s *stubShipmentService) ListShipments(ctx context.Context, input ports.ListShipmentsInput) (*ports.ListShipmentsResult, error) {
	return s.listFn(ctx, input)
}

type stubJobService struct {
	ports.JobService
	available bool
	enqueueFn func(ctx context.Context, input ports.CreateShipmentInput) (*domain.Job, *domain.Shipment, error)
}

func (s *stubJobService) Available() bool { return s.available }

func (s *stubJobService) EnqueueShipmentJob(ctx context.Context, input ports.CreateShipmentInput) (*domain.Job, *domain.Shipment, error) {
	return s.enqueueFn(ctx, input)
}

func testShipment(t *testing.T, customerID string) *domain.Shipment {
	t.Helper()
	shipment, err := domain.NewShipment(customerID, 5,
		domain.Location{Lat: 40.7128, Lng: -74.0060},
		domain.Location{Lat: 34.0522, Lng: -118.2437})
	if err != nil {
		t.Fatalf("build shipment: %v", err)
	}
	shipment.ID = "ship-1"
	return shipment
}

func newTestContext(t *testing.T, method, target string, body string, role, customerID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}
	if customerID != "" {
		c.Set("customer_id", customerID)
	}
	return c, rec
}

const createBody = `{
	"customer_id": "cust-1",
	"weight_kg": 5,
	"origin": {"lat": 40.7128, "lng": -74.0060},
	"destination": {"lat": 34.0522, "lng": -118.2437}
}`

func TestShipmentHandler_Create_Sync(t *testing.T) {
	shipment := testShipment(t, "cust-1")
	svc := &stubShipmentService{
		createFn: func(ctx context.Context, input ports.CreateShipmentInput) (*ports.CreateShipmentResult, error) {
			if input.CustomerID != "cust-1" || input.WeightKg != 5 {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.Urgency != ports.UrgencyStandard {
				t.Fatalf("expected default urgency, got %q", input.Urgency)
			}
			return &ports.CreateShipmentResult{
				Shipment: shipment,
				Vehicle:  domain.NewVehicle(domain.VariantTruck, "TRK-TEST0001"),
			}, nil
		},
	}
	handler := NewShipmentHandler(svc, &stubJobService{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/shipments", createBody, domain.RoleAdmin, "")
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	got, ok := resp["shipment"].(map[string]any)
	if !ok {
		t.Fatalf("expected shipment in response: %v", resp)
	}
	if got["tracking_id"] != shipment.TrackingID {
		t.Fatalf("unexpected tracking id: %v", got["tracking_id"])
	}
	vehicle, ok := resp["vehicle"].(map[string]any)
	if !ok || vehicle["license_id"] != "TRK-TEST0001" {
		t.Fatalf("unexpected vehicle payload: %v", resp["vehicle"])
	}
}

func TestShipmentHandler_Create_CustomerForcedToOwnID(t *testing.T) {
	svc := &stubShipmentService{
		createFn: func(ctx context.Context, input ports.CreateShipmentInput) (*ports.CreateShipmentResult, error) {
			if input.CustomerID != "cust-9" {
				t.Fatalf("expected caller's customer id, got %q", input.CustomerID)
			}
			return &ports.CreateShipmentResult{
				Shipment: testShipment(t, input.CustomerID),
				Vehicle:  domain.NewVehicle(domain.VariantDrone, "DRN-TEST0001"),
			}, nil
		},
	}
	handler := NewShipmentHandler(svc, &stubJobService{})

	// Body names cust-1; the identity wins.
	c, rec := newTestContext(t, http.MethodPost, "/v1/shipments", createBody, domain.RoleCustomer, "cust-9")
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestShipmentHandler_Create_DriverForbidden(t *testing.T) {
	handler := NewShipmentHandler(&stubShipmentService{}, &stubJobService{})

	c, _ := newTestContext(t, http.MethodPost, "/v1/shipments", createBody, domain.RoleDriver, "")
	if err := handler.Create(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestShipmentHandler_Create_InvalidPayload(t *testing.T) {
	handler := NewShipmentHandler(&stubShipmentService{}, &stubJobService{})

	c, _ := newTestContext(t, http.MethodPost, "/v1/shipments", `{"weight_kg": 5}`, domain.RoleAdmin, "")
	err := handler.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestShipmentHandler_Create_AsyncAccepted(t *testing.T) {
	shipment := testShipment(t, "cust-1")
	jobs := &stubJobService{
		available: true,
		enqueueFn: func(ctx context.Context, input ports.CreateShipmentInput) (*domain.Job, *domain.Shipment, error) {
			return &domain.Job{JobID: "job-1", Status: domain.JobQueued}, shipment, nil
		},
	}
	handler := NewShipmentHandler(&stubShipmentService{}, jobs)

	c, rec := newTestContext(t, http.MethodPost, "/v1/shipments?async=true", createBody, domain.RoleAdmin, "")
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["job_id"] != "job-1" {
		t.Fatalf("expected job id, got %v", resp["job_id"])
	}
	stub, ok := resp["shipment"].(map[string]any)
	if !ok || stub["status"] != string(domain.StatusPending) {
		t.Fatalf("unexpected shipment stub: %v", resp["shipment"])
	}
}

func TestShipmentHandler_Create_AsyncFallsBackWhenUnavailable(t *testing.T) {
	called := false
	svc := &stubShipmentService{
		createFn: func(ctx context.Context, input ports.CreateShipmentInput) (*ports.CreateShipmentResult, error) {
			called = true
			return &ports.CreateShipmentResult{
				Shipment: testShipment(t, "cust-1"),
				Vehicle:  domain.NewVehicle(domain.VariantTruck, "TRK-TEST0002"),
			}, nil
		},
	}
	handler := NewShipmentHandler(svc, &stubJobService{available: false})

	c, rec := newTestContext(t, http.MethodPost, "/v1/shipments?async=true", createBody, domain.RoleAdmin, "")
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("expected synchronous fallback")
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestShipmentHandler_Get_CustomerCrossAccessForbidden(t *testing.T) {
	shipment := testShipment(t, "cust-1")
	svc := &stubShipmentService{
		getFn: func(ctx context.Context, trackingID string) (*ports.ShipmentDetail, error) {
			return &ports.ShipmentDetail{Shipment: shipment, CurrentLocation: shipment.Origin}, nil
		},
	}
	handler := NewShipmentHandler(svc, &stubJobService{})

	c, _ := newTestContext(t, http.MethodGet, "/v1/shipments/"+shipment.TrackingID, "", domain.RoleCustomer, "cust-2")
	c.SetParamNames("tracking_id")
	c.SetParamValues(shipment.TrackingID)

	if err := handler.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestShipmentHandler_Get_Success(t *testing.T) {
	shipment := testShipment(t, "cust-1")
	svc := &stubShipmentService{
		getFn: func(ctx context.Context, trackingID string) (*ports.ShipmentDetail, error) {
			if trackingID != shipment.TrackingID {
				t.Fatalf("unexpected tracking id: %s", trackingID)
			}
			return &ports.ShipmentDetail{Shipment: shipment, CurrentLocation: shipment.Origin}, nil
		},
	}
	handler := NewShipmentHandler(svc, &stubJobService{})

	c, rec := newTestContext(t, http.MethodGet, "/v1/shipments/"+shipment.TrackingID, "", domain.RoleCustomer, "cust-1")
	c.SetParamNames("tracking_id")
	c.SetParamValues(shipment.TrackingID)

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp["current_location"]; !ok {
		t.Fatalf("expected current_location in response: %v", resp)
	}
}

func TestShipmentHandler_List_ParsesFiltersAndIdentity(t *testing.T) {
	svc := &stubShipmentService{
		listFn: func(ctx context.Context, input ports.ListShipmentsInput) (*ports.ListShipmentsResult, error) {
			if input.Role != domain.RoleCustomer || input.CustomerID != "cust-1" {
				t.Fatalf("identity not propagated: %+v", input)
			}
			if input.Status != "IN_TRANSIT" || input.Page != 2 || input.Limit != 5 {
				t.Fatalf("filters not parsed: %+v", input)
			}
			if input.DateFrom.IsZero() {
				t.Fatal("expected date_from to be parsed")
			}
			return &ports.ListShipmentsResult{Items: nil, Total: 0, Page: 2, Limit: 5}, nil
		},
	}
	handler := NewShipmentHandler(svc, &stubJobService{})

	target := "/v1/shipments?status=IN_TRANSIT&page=2&limit=5&date_from=2026-01-01T00:00:00Z"
	c, rec := newTestContext(t, http.MethodGet, target, "", domain.RoleCustomer, "cust-1")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestShipmentHandler_List_RejectsBadDate(t *testing.T) {
	handler := NewShipmentHandler(&stubShipmentService{}, &stubJobService{})

	c, _ := newTestContext(t, http.MethodGet, "/v1/shipments?date_from=yesterday", "", domain.RoleAdmin, "")
	err := handler.List(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestShipmentHandler_MissingIdentityRejected(t *testing.T) {
	handler := NewShipmentHandler(&stubShipmentService{}, &stubJobService{})

	c, _ := newTestContext(t, http.MethodPost, "/v1/shipments", createBody, "", "")
	err := handler.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
