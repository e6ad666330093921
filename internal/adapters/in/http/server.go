package http

import (
	"errors"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pack"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	assignOrderHandler      commands.AssignOrderCommandHandler
	generatePackagesHandler commands.GeneratePackagesCommandHandler
	optimizeRouteHandler    commands.OptimizeRouteCommandHandler

	// Query handlers
	getPendingPackagesHandler queries.GetPendingPackagesQueryHandler
	getPackageEventsHandler   queries.GetPackageEventsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	assignOrderHandler commands.AssignOrderCommandHandler,
	generatePackagesHandler commands.GeneratePackagesCommandHandler,
	optimizeRouteHandler commands.OptimizeRouteCommandHandler,
	getPendingPackagesHandler queries.GetPendingPackagesQueryHandler,
	getPackageEventsHandler queries.GetPackageEventsQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		assignOrderHandler:        assignOrderHandler,
		generatePackagesHandler:   generatePackagesHandler,
		optimizeRouteHandler:      optimizeRouteHandler,
		getPendingPackagesHandler: getPendingPackagesHandler,
		getPackageEventsHandler:   getPackageEventsHandler,
	}
}

// RegisterRoutes attaches all dispatch routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/orders", s.CreateOrder)
	e.POST("/api/v1/orders/:id/assign", s.AssignOrder)
	e.POST("/api/v1/packages/generate", s.GeneratePackages)
	e.POST("/api/v1/packages/:id/route", s.OptimizeRoute)
	e.GET("/api/v1/packages/pending", s.GetPendingPackages)
	e.GET("/api/v1/packages/:id/events", s.GetPackageEvents)
}

// Error is the JSON body returned for every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder is the request body for order intake.
type NewOrder struct {
	Lat        *float64  `json:"lat,omitempty"`
	Lon        *float64  `json:"lon,omitempty"`
	WindowFrom time.Time `json:"windowFrom"`
	WindowTo   time.Time `json:"windowTo"`
}

// OrderCreated is the response body for successful order intake.
type OrderCreated struct {
	ID uuid.UUID `json:"id"`
}

// GeneratePackagesRequest is the request body for a batch dispatch run.
// FacilityID narrows the run to one facility; empty means all active ones.
type GeneratePackagesRequest struct {
	Date       time.Time `json:"date"`
	FacilityID *string   `json:"facilityId,omitempty"`
}

// PendingPackage is one driverless package in the pending listing.
type PendingPackage struct {
	ID          uuid.UUID `json:"id"`
	FacilityID  uuid.UUID `json:"facilityId"`
	ServiceDate time.Time `json:"serviceDate"`
	OrderCount  int       `json:"orderCount"`
}

// PackageEvent is one record in a package's event feed.
type PackageEvent struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Payload    string    `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

// CreateOrder handles POST /api/v1/orders - registers a new order for dispatch.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var newOrder NewOrder
	if err := ctx.Bind(&newOrder); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var location *kernel.GeoPoint
	if newOrder.Lat != nil && newOrder.Lon != nil {
		point, err := kernel.NewGeoPoint(*newOrder.Lat, *newOrder.Lon)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid order data: " + err.Error(),
			})
		}
		location = &point
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, location, newOrder.WindowFrom, newOrder.WindowTo)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorJSON(ctx, handleErr, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, OrderCreated{ID: orderID.Bytes()})
}

// AssignOrder handles POST /api/v1/orders/:id/assign - dispatches one order
// into a package. Repeating the call for an assigned order is a no-op.
func (s *Server) AssignOrder(ctx echo.Context) error {
	orderID, ok := pathUUID(ctx, "id")
	if !ok {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewAssignOrderCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	if handleErr := s.assignOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorJSON(ctx, handleErr, "Failed to assign order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GeneratePackages handles POST /api/v1/packages/generate - runs batch
// dispatch for a service date.
func (s *Server) GeneratePackages(ctx echo.Context) error {
	var req GeneratePackagesRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var facilityID *kernel.UUID
	if req.FacilityID != nil {
		id, err := kernel.UUIDFromString(*req.FacilityID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid facility id",
			})
		}
		facilityID = &id
	}

	cmd, err := commands.NewGeneratePackagesCommand(facilityID, req.Date)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid batch request: " + err.Error(),
		})
	}

	if handleErr := s.generatePackagesHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorJSON(ctx, handleErr, "Failed to generate packages")
	}

	return ctx.NoContent(http.StatusAccepted)
}

// OptimizeRoute handles POST /api/v1/packages/:id/route - re-sequences the
// package's delivery route.
func (s *Server) OptimizeRoute(ctx echo.Context) error {
	packageID, ok := pathUUID(ctx, "id")
	if !ok {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid package id",
		})
	}

	cmd, err := commands.NewOptimizeRouteCommand(packageID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid package id: " + err.Error(),
		})
	}

	if handleErr := s.optimizeRouteHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorJSON(ctx, handleErr, "Failed to optimize route")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetPendingPackages handles GET /api/v1/packages/pending - lists driverless
// packages for operators.
func (s *Server) GetPendingPackages(ctx echo.Context) error {
	query := queries.NewGetPendingPackagesQuery()

	pending, err := s.getPendingPackagesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve pending packages",
		})
	}

	response := make([]PendingPackage, len(pending))
	for i, p := range pending {
		response[i] = PendingPackage{
			ID:          p.ID.Bytes(),
			FacilityID:  p.FacilityID.Bytes(),
			ServiceDate: p.ServiceDate,
			OrderCount:  p.OrderCount,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetPackageEvents handles GET /api/v1/packages/:id/events - returns the
// package's event feed.
func (s *Server) GetPackageEvents(ctx echo.Context) error {
	packageID, ok := pathUUID(ctx, "id")
	if !ok {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid package id",
		})
	}

	query, err := queries.NewGetPackageEventsQuery(packageID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid package id: " + err.Error(),
		})
	}

	events, err := s.getPackageEventsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve package events",
		})
	}

	response := make([]PackageEvent, len(events))
	for i, e := range events {
		response[i] = PackageEvent{
			ID:         e.ID.Bytes(),
			Kind:       e.Kind,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// pathUUID parses a kernel.UUID from a path parameter.
func pathUUID(ctx echo.Context, name string) (kernel.UUID, bool) {
	id, err := kernel.UUIDFromString(ctx.Param(name))
	if err != nil {
		return kernel.UUID{}, false
	}
	return id, true
}

// errorJSON maps a use case error onto an HTTP error response.
func errorJSON(ctx echo.Context, err error, fallback string) error {
	code := statusFor(err)
	message := fallback
	if code != http.StatusInternalServerError {
		message = err.Error()
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}

// statusFor classifies use case errors. Not-found maps to 404, dispatch
// rule violations and races to 409, everything else is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrConflict),
		errors.Is(err, order.ErrOrderAlreadyAssigned),
		errors.Is(err, pack.ErrPackageIsFull),
		errors.Is(err, services.ErrNoFacilityAvailable),
		errors.Is(err, services.ErrCoordinatesUnresolved),
		errors.Is(err, services.ErrDriverMismatch),
		errors.Is(err, services.ErrDriverDoubleBooked),
		errors.Is(err, services.ErrInactiveEntity):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
