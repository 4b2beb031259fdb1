// Package http exposes the fulfillment use cases over a REST API built on
// github.com/labstack/echo/v4. Handlers translate JSON payloads into commands
// and queries and map the domain error families onto HTTP status codes.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler      commands.PlaceOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler
	assignPartnerHandler   commands.AssignPartnerCommandHandler
	createPartnerHandler   commands.CreatePartnerCommandHandler
	reportLocationHandler  commands.ReportPartnerLocationCommandHandler
	recordRejectionHandler commands.RecordRejectionCommandHandler

	// Query handlers
	getOrderTimelineHandler     queries.GetOrderTimelineQueryHandler
	getUndeliveredOrdersHandler queries.GetUndeliveredOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	assignPartnerHandler commands.AssignPartnerCommandHandler,
	createPartnerHandler commands.CreatePartnerCommandHandler,
	reportLocationHandler commands.ReportPartnerLocationCommandHandler,
	recordRejectionHandler commands.RecordRejectionCommandHandler,
	getOrderTimelineHandler queries.GetOrderTimelineQueryHandler,
	getUndeliveredOrdersHandler queries.GetUndeliveredOrdersQueryHandler,
) *Server {
	return &Server{
		placeOrderHandler:           placeOrderHandler,
		transitionOrderHandler:      transitionOrderHandler,
		assignPartnerHandler:        assignPartnerHandler,
		createPartnerHandler:        createPartnerHandler,
		reportLocationHandler:       reportLocationHandler,
		recordRejectionHandler:      recordRejectionHandler,
		getOrderTimelineHandler:     getOrderTimelineHandler,
		getUndeliveredOrdersHandler: getUndeliveredOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.PlaceOrder)
	api.POST("/orders/:id/transition", s.TransitionOrder)
	api.POST("/orders/:id/assign", s.AssignPartner)
	api.GET("/orders/:id/timeline", s.GetOrderTimeline)
	api.GET("/orders/undelivered", s.GetUndeliveredOrders)

	api.POST("/partners", s.CreatePartner)
	api.POST("/partners/:id/location", s.ReportPartnerLocation)
	api.POST("/partners/:id/rejections", s.RecordRejection)
}

// Error is the JSON body returned for every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Location is a point on the fulfillment grid.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewOrderItem is one line item in an order placement request.
type NewOrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// NewOrder is the request body for POST /api/v1/orders.
type NewOrder struct {
	CustomerID    string         `json:"customerId"`
	Destination   Location       `json:"destination"`
	Items         []NewOrderItem `json:"items"`
	PaymentMethod string         `json:"paymentMethod"`
}

// OrderCreated is the response body for a successful order placement.
type OrderCreated struct {
	ID string `json:"id"`
}

// TransitionRequest is the request body for POST /api/v1/orders/:id/transition.
type TransitionRequest struct {
	ToStatus         string `json:"toStatus"`
	ActorRole        string `json:"actorRole"`
	ActorID          string `json:"actorId"`
	VerificationCode string `json:"verificationCode,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// NewPartner is the request body for POST /api/v1/partners.
type NewPartner struct {
	Name     string    `json:"name"`
	Location *Location `json:"location,omitempty"`
}

// PartnerCreated is the response body for a successful partner registration.
type PartnerCreated struct {
	ID string `json:"id"`
}

// LocationReport is the request body for POST /api/v1/partners/:id/location.
type LocationReport struct {
	Location Location `json:"location"`
}

// TimelineEntry is one recorded transition in an order timeline response.
type TimelineEntry struct {
	FromStatus string `json:"fromStatus,omitempty"`
	ToStatus   string `json:"toStatus"`
	ActorRole  string `json:"actorRole"`
	ActorID    string `json:"actorId"`
	At         string `json:"at"`
	Reason     string `json:"reason,omitempty"`
}

// OrderTimeline is the response body for GET /api/v1/orders/:id/timeline.
type OrderTimeline struct {
	OrderID string          `json:"orderId"`
	Status  string          `json:"status"`
	Entries []TimelineEntry `json:"entries"`
}

// UndeliveredOrder is one element of the GET /api/v1/orders/undelivered response.
type UndeliveredOrder struct {
	ID          string   `json:"id"`
	CustomerID  string   `json:"customerId"`
	Status      string   `json:"status"`
	Destination Location `json:"destination"`
	TotalAmount int64    `json:"totalAmount"`
}

// PlaceOrder handles POST /api/v1/orders - places a new order and reserves stock.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var newOrder NewOrder
	if err := ctx.Bind(&newOrder); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromString(newOrder.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}

	destination, err := kernel.NewLocation(
		kernel.Coordinate(newOrder.Destination.X),
		kernel.Coordinate(newOrder.Destination.Y),
	)
	if err != nil {
		return badRequest(ctx, "Invalid destination: "+err.Error())
	}

	items := make([]order.Item, 0, len(newOrder.Items))
	for _, requested := range newOrder.Items {
		productID, itemErr := kernel.UUIDFromString(requested.ProductID)
		if itemErr != nil {
			return badRequest(ctx, "Invalid product id: "+itemErr.Error())
		}

		item, itemErr := order.NewItem(productID, requested.Name, requested.UnitPrice, requested.Quantity)
		if itemErr != nil {
			return badRequest(ctx, "Invalid order item: "+itemErr.Error())
		}

		items = append(items, item)
	}

	orderID := kernel.NewUUID()

	cmd, err := commands.NewPlaceOrderCommand(orderID, customerID, destination, items, newOrder.PaymentMethod)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, OrderCreated{ID: orderID.String()})
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - moves an order
// through its lifecycle on behalf of the requesting actor.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var request TransitionRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	toStatus, err := order.StatusFromString(request.ToStatus)
	if err != nil {
		return badRequest(ctx, "Invalid target status: "+err.Error())
	}

	role, err := order.RoleFromString(request.ActorRole)
	if err != nil {
		return badRequest(ctx, "Invalid actor role: "+err.Error())
	}

	actorID, err := kernel.UUIDFromString(request.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id: "+err.Error())
	}

	actor, err := order.NewActor(role, actorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor: "+err.Error())
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, toStatus, actor, request.VerificationCode, request.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	if handleErr := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignPartner handles POST /api/v1/orders/:id/assign - assigns the best
// ranked delivery partner with free capacity to a packed order.
func (s *Server) AssignPartner(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	cmd, err := commands.NewAssignPartnerCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid assignment data: "+err.Error())
	}

	if handleErr := s.assignPartnerHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreatePartner handles POST /api/v1/partners - registers a delivery partner.
func (s *Server) CreatePartner(ctx echo.Context) error {
	var newPartner NewPartner
	if err := ctx.Bind(&newPartner); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := partnerStartLocation(newPartner.Location)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	partnerID := kernel.NewUUID()

	cmd, err := commands.NewCreatePartnerCommand(partnerID, newPartner.Name, location)
	if err != nil {
		return badRequest(ctx, "Invalid partner data: "+err.Error())
	}

	if handleErr := s.createPartnerHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, PartnerCreated{ID: partnerID.String()})
}

// ReportPartnerLocation handles POST /api/v1/partners/:id/location - records
// a partner position report, subject to per-partner rate limiting.
func (s *Server) ReportPartnerLocation(ctx echo.Context) error {
	partnerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid partner id: "+err.Error())
	}

	var report LocationReport
	if err = ctx.Bind(&report); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := kernel.NewLocation(
		kernel.Coordinate(report.Location.X),
		kernel.Coordinate(report.Location.Y),
	)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	cmd, err := commands.NewReportPartnerLocationCommand(partnerID, location)
	if err != nil {
		return badRequest(ctx, "Invalid location report: "+err.Error())
	}

	if handleErr := s.reportLocationHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RecordRejection handles POST /api/v1/partners/:id/rejections - records that
// a partner declined an offered assignment.
func (s *Server) RecordRejection(ctx echo.Context) error {
	partnerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid partner id: "+err.Error())
	}

	cmd, err := commands.NewRecordRejectionCommand(partnerID)
	if err != nil {
		return badRequest(ctx, "Invalid rejection data: "+err.Error())
	}

	if handleErr := s.recordRejectionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderTimeline handles GET /api/v1/orders/:id/timeline - retrieves an
// order's audit trail.
func (s *Server) GetOrderTimeline(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderTimelineQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid timeline query: "+err.Error())
	}

	timeline, err := s.getOrderTimelineHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}

		return internalError(ctx, "Failed to retrieve order timeline")
	}

	entries := make([]TimelineEntry, len(timeline.Entries))
	for i, entry := range timeline.Entries {
		entries[i] = TimelineEntry{
			FromStatus: entry.FromStatus,
			ToStatus:   entry.ToStatus,
			ActorRole:  entry.ActorRole,
			ActorID:    entry.ActorID.String(),
			At:         entry.At.Format(timeFormat),
			Reason:     entry.Reason,
		}
	}

	return ctx.JSON(http.StatusOK, OrderTimeline{
		OrderID: timeline.OrderID.String(),
		Status:  timeline.Status,
		Entries: entries,
	})
}

// GetUndeliveredOrders handles GET /api/v1/orders/undelivered - retrieves all
// orders that have not reached a terminal status.
func (s *Server) GetUndeliveredOrders(ctx echo.Context) error {
	query := queries.NewGetUndeliveredOrdersQuery()

	openOrders, err := s.getUndeliveredOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve undelivered orders")
	}

	response := make([]UndeliveredOrder, len(openOrders))
	for i, openOrder := range openOrders {
		response[i] = UndeliveredOrder{
			ID:         openOrder.ID.String(),
			CustomerID: openOrder.CustomerID.String(),
			Status:     openOrder.Status,
			Destination: Location{
				X: int(openOrder.Destination.X()),
				Y: int(openOrder.Destination.Y()),
			},
			TotalAmount: openOrder.TotalAmount,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

// partnerStartLocation resolves the registration location, falling back to a
// random grid point when the request omits one.
func partnerStartLocation(requested *Location) (kernel.Location, error) {
	if requested == nil {
		return kernel.NewRandomLocation()
	}

	return kernel.NewLocation(kernel.Coordinate(requested.X), kernel.Coordinate(requested.Y))
}

// commandError maps a command handler failure onto the HTTP status that fits
// its error family: authorization problems are 403, state races and business
// conflicts are 409, rate limiting is 429, unknown objects are 404, and
// anything else is a 500.
func commandError(ctx echo.Context, err error) error {
	var forbidden *order.ForbiddenTransitionError
	var verification *order.VerificationError
	var invalidTransition *order.InvalidTransitionError
	var reservationConflict *inventory.ReservationConflictError

	switch {
	case errors.As(err, &forbidden) || errors.As(err, &verification):
		return ctx.JSON(http.StatusForbidden, Error{
			Code:    http.StatusForbidden,
			Message: err.Error(),
		})

	case errors.As(err, &invalidTransition),
		errors.As(err, &reservationConflict),
		errors.Is(err, ports.ErrOrderAlreadyAssigned),
		errors.Is(err, ports.ErrStaleOrder),
		errors.Is(err, commands.ErrNoPartnerAvailable):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})

	case errors.Is(err, commands.ErrLocationRateLimited):
		return ctx.JSON(http.StatusTooManyRequests, Error{
			Code:    http.StatusTooManyRequests,
			Message: err.Error(),
		})

	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})

	default:
		return internalError(ctx, "Request failed")
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}
