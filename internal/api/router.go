package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fleetline/logistics-platform/internal/api/handler"
	"github.com/fleetline/logistics-platform/internal/api/middleware"
	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

// Deps carries everything the HTTP surface needs, assembled in main.
type Deps struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Shipments ports.ShipmentService
	Jobs      ports.JobService
	Fleet     ports.FleetService
	Sim       ports.SimulationService
	Stream    handler.EventStream

	StreamPingInterval time.Duration
	Logger             zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("logistics"))

	// --- Health probes and metrics (no identity required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Handlers ---
	shipmentHandler := handler.NewShipmentHandler(deps.Shipments, deps.Jobs)
	vehicleHandler := handler.NewVehicleHandler(deps.Fleet)
	simulationHandler := handler.NewSimulationHandler(deps.Sim)
	jobHandler := handler.NewJobHandler(deps.Jobs)
	streamHandler := handler.NewStreamHandler(deps.Stream, deps.StreamPingInterval, deps.Logger)

	v1 := e.Group("/v1", middleware.Identity())

	// Shipments
	shipments := v1.Group("/shipments")
	shipments.POST("", shipmentHandler.Create, middleware.RBAC(domain.RoleCustomer, domain.RoleAdmin))
	shipments.GET("", shipmentHandler.List)
	shipments.GET("/:tracking_id", shipmentHandler.Get)
	shipments.POST("/:tracking_id/dispatch", shipmentHandler.Dispatch, middleware.RBAC(domain.RoleDriver, domain.RoleAdmin))
	shipments.POST("/:tracking_id/cancel", shipmentHandler.Cancel, middleware.RBAC(domain.RoleCustomer, domain.RoleAdmin))
	shipments.POST("/:tracking_id/insurance", shipmentHandler.AddInsurance, middleware.RBAC(domain.RoleCustomer, domain.RoleAdmin))
	shipments.POST("/:tracking_id/notes", shipmentHandler.AddNote)
	shipments.POST("/:tracking_id/payments", shipmentHandler.ProcessPayment, middleware.RBAC(domain.RoleCustomer, domain.RoleAdmin))
	shipments.POST("/:tracking_id/refunds", shipmentHandler.Refund, middleware.RBAC(domain.RoleAdmin))
	shipments.POST("/:tracking_id/signature", shipmentHandler.RecordSignature, middleware.RBAC(domain.RoleDriver, domain.RoleAdmin))
	shipments.POST("/:tracking_id/type", shipmentHandler.SetType, middleware.RBAC(domain.RoleCustomer, domain.RoleAdmin))
	shipments.POST("/:tracking_id/eta", shipmentHandler.SetEstimatedDelivery, middleware.RBAC(domain.RoleAdmin))

	// Fleet
	fleetOnly := middleware.RBAC(domain.RoleAdmin)
	vehicles := v1.Group("/vehicles")
	vehicles.POST("", vehicleHandler.Provision, fleetOnly)
	vehicles.GET("", vehicleHandler.List)
	vehicles.POST("/:id/maintenance", vehicleHandler.Maintenance, fleetOnly)
	vehicles.POST("/:id/refuel", vehicleHandler.Refuel, fleetOnly)

	// Simulation
	v1.POST("/simulation/tick", simulationHandler.Tick, fleetOnly)

	// Jobs
	v1.GET("/jobs/:job_id", jobHandler.Get)
	v1.POST("/jobs/:job_id/status", jobHandler.UpdateStatus, fleetOnly)

	// Live event stream
	v1.GET("/events/stream", streamHandler.Stream)

	return e
}
