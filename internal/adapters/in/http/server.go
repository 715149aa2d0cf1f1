package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"osrorders/internal/core/application/usecases/commands"
	"osrorders/internal/core/application/usecases/queries"
	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/core/domain/services"
	"osrorders/internal/core/ports"
	"osrorders/internal/metrics"
	"osrorders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server handles the HTTP API for order submission and history.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	submitOrderHandler   commands.SubmitOrderCommandHandler
	cancelOrderHandler   commands.CancelOrderCommandHandler
	refreshStatusHandler commands.RefreshStatusCommandHandler
	purgeHistoryHandler  commands.PurgeHistoryCommandHandler

	// Query handlers
	getOrderHandler   queries.GetOrderQueryHandler
	listOrdersHandler queries.ListOrdersQueryHandler

	// Domain services
	sandbox services.SandboxCommandGenerator
	catalog ports.CatalogReader
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	submitOrderHandler commands.SubmitOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	refreshStatusHandler commands.RefreshStatusCommandHandler,
	purgeHistoryHandler commands.PurgeHistoryCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	sandbox services.SandboxCommandGenerator,
	catalog ports.CatalogReader,
) *Server {
	return &Server{
		submitOrderHandler:   submitOrderHandler,
		cancelOrderHandler:   cancelOrderHandler,
		refreshStatusHandler: refreshStatusHandler,
		purgeHistoryHandler:  purgeHistoryHandler,
		getOrderHandler:      getOrderHandler,
		listOrdersHandler:    listOrdersHandler,
		sandbox:              sandbox,
		catalog:              catalog,
	}
}

// RegisterRoutes attaches all API routes to the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.SubmitOrder)
	api.GET("/orders", s.GetOrders)
	api.DELETE("/orders", s.PurgeHistory)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/refresh", s.RefreshOrder)
	api.GET("/orders/:id/sandbox-commands", s.GetSandboxCommands)
	api.GET("/catalog/products", s.GetProducts)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// SubmitOrder handles POST /api/v1/orders - builds, persists and transmits a new order.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	var newOrder NewOrder
	if err := ctx.Bind(&newOrder); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if ctx.QueryParam("dry_run") == "true" {
		newOrder.DryRun = true
	}

	kind, err := order.KindFromName(newOrder.Kind)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order kind: " + newOrder.Kind,
		})
	}

	spec, err := orderSpecFromRequest(kind, newOrder)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewSubmitOrderCommand(orderID, spec)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	started := time.Now()
	handleErr := s.submitOrderHandler.Handle(ctx.Request().Context(), cmd)
	metrics.OrderSubmissionDuration.Observe(time.Since(started).Seconds())

	var submissionErr *commands.SubmissionError
	switch {
	case handleErr == nil:
		metrics.OrdersSubmittedTotal.WithLabelValues("sent").Inc()
		return ctx.JSON(http.StatusCreated, OrderCreated{ID: orderID.String()})
	case errors.As(handleErr, &submissionErr):
		// The Failed record with its audit trail is persisted; the
		// operator can inspect it under the returned identifier.
		metrics.OrdersSubmittedTotal.WithLabelValues("failed").Inc()
		return ctx.JSON(http.StatusBadGateway, Error{
			Code:    http.StatusBadGateway,
			Message: "Order " + orderID.String() + ": " + submissionErr.Error(),
		})
	default:
		metrics.OrdersSubmittedTotal.WithLabelValues("rejected").Inc()
		return s.domainError(ctx, handleErr)
	}
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - requests remote cancellation.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.domainError(ctx, handleErr)
	}

	metrics.OrdersCancelledTotal.Inc()
	return ctx.NoContent(http.StatusNoContent)
}

// RefreshOrder handles POST /api/v1/orders/:id/refresh - reconciles the record
// with the remote system.
func (s *Server) RefreshOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewRefreshStatusCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if handleErr := s.refreshStatusHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.domainError(ctx, handleErr)
	}

	metrics.StatusRefreshesTotal.Inc()
	return ctx.NoContent(http.StatusNoContent)
}

// GetOrders handles GET /api/v1/orders - lists history records, optionally
// filtered by repeated status query parameters.
func (s *Server) GetOrders(ctx echo.Context) error {
	var statuses []order.Status
	for _, name := range ctx.QueryParams()["status"] {
		status, err := order.StatusFromName(name)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid status filter: " + name,
			})
		}
		statuses = append(statuses, status)
	}

	query, err := queries.NewListOrdersQuery(statuses...)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	records, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]OrderSummary, len(records))
	for i, record := range records {
		response[i] = OrderSummary{
			ID:              record.ID.String(),
			OrderNumber:     record.OrderNumber,
			Kind:            record.Kind,
			Status:          record.Status,
			RemoteReference: record.RemoteReference,
			Attempts:        record.Attempts,
			LastError:       record.LastError,
			CreatedAt:       record.CreatedAt,
			LastUpdatedAt:   record.LastUpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:id - retrieves one record with its document.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	record, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Order not found: " + orderID.String(),
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	return ctx.JSON(http.StatusOK, Order{
		ID:              record.ID.String(),
		OrderNumber:     record.OrderNumber,
		Kind:            record.Kind,
		Status:          record.Status,
		Document:        record.Document,
		RemoteReference: record.RemoteReference,
		Attempts:        record.Attempts,
		LastError:       record.LastError,
		CreatedAt:       record.CreatedAt,
		LastUpdatedAt:   record.LastUpdatedAt,
	})
}

// GetProducts handles GET /api/v1/catalog/products - lists catalog products.
// With available=true only products currently usable in orders are returned.
func (s *Server) GetProducts(ctx echo.Context) error {
	var (
		descriptors []ports.Descriptor
		err         error
	)
	if ctx.QueryParam("available") == "true" {
		descriptors, err = s.catalog.ListAvailable(ctx.Request().Context())
	} else {
		descriptors, err = s.catalog.ListAll(ctx.Request().Context())
	}
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve products",
		})
	}

	response := make([]Product, len(descriptors))
	for i, descriptor := range descriptors {
		response[i] = Product{
			Code:      descriptor.Code,
			Name:      descriptor.Name,
			Available: descriptor.Available,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetSandboxCommands handles GET /api/v1/orders/:id/sandbox-commands - derives
// simulator shell commands from the stored document, for exercising the order
// against a sandbox installation. The element query parameter selects the
// target element and defaults to 1.
func (s *Server) GetSandboxCommands(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	element := 1
	if raw := ctx.QueryParam("element"); raw != "" {
		element, err = strconv.Atoi(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid element number",
			})
		}
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	record, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Order not found: " + orderID.String(),
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	carrier, err := services.CarrierFromDocument(record.Document)
	if err != nil {
		if errors.Is(err, services.ErrNoCarrierInDocument) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Document carries no carrier number",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to parse order document",
		})
	}

	insert, err := s.sandbox.InsertCarrier(element, carrier)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}
	remove, err := s.sandbox.RemoveCarrier(element, carrier)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, SandboxCommands{
		Carrier:       carrier,
		InsertCarrier: insert,
		RemoveCarrier: remove,
	})
}

// PurgeHistory handles DELETE /api/v1/orders - removes records last updated
// longer ago than the older_than duration (e.g. 720h), regardless of status.
func (s *Server) PurgeHistory(ctx echo.Context) error {
	maxAge, err := time.ParseDuration(ctx.QueryParam("older_than"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid older_than duration",
		})
	}

	cmd, err := commands.NewPurgeHistoryCommand(maxAge)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	removed, err := s.purgeHistoryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to purge history",
		})
	}

	metrics.HistoryRecordsPurgedTotal.Add(float64(removed))
	return ctx.JSON(http.StatusOK, PurgeResult{Removed: removed})
}

// domainError maps command errors onto HTTP statuses.
func (s *Server) domainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrOrderBusy),
		errors.Is(err, commands.ErrOrderNotCancellable),
		errors.Is(err, commands.ErrOrderNotRefreshable),
		errors.Is(err, commands.ErrCancelRejected),
		errors.Is(err, ports.ErrRecordAlreadyExists):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrOrderValidation),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	case ports.IsTransient(err):
		return ctx.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
	}
}

func orderSpecFromRequest(kind order.Kind, newOrder NewOrder) (order.OrderSpec, error) {
	fields := make([]order.Field, len(newOrder.Fields))
	for i, f := range newOrder.Fields {
		fields[i] = order.Field{Name: f.Name, Value: f.Value}
	}

	if len(newOrder.Lines) == 0 {
		return order.NewOrderSpec(kind, fields, newOrder.DryRun)
	}

	lines := make([][]order.Field, len(newOrder.Lines))
	for i, line := range newOrder.Lines {
		lines[i] = make([]order.Field, len(line))
		for j, f := range line {
			lines[i][j] = order.Field{Name: f.Name, Value: f.Value}
		}
	}
	return order.NewOrderSpecWithLines(kind, fields, lines, newOrder.DryRun)
}
