package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/matheusmosca/bookstore-microservices/shared/envelope"
)

// OrderUseCaseInterface define a interface para o use case
type OrderUseCaseInterface interface {
	ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	CreateOrder(ctx context.Context, userID string, items []OrderItem) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error)
	DeleteOrder(ctx context.Context, orderID string) (*Order, error)
	AddItem(ctx context.Context, orderID, bookID string, quantity int, unitPrice float64) (*Order, error)
	RemoveItem(ctx context.Context, orderID, bookID string) (*Order, error)
	Stats(ctx context.Context) (*OrderStats, error)
}

// CreateOrderRequest representa a requisição para criar um pedido
type CreateOrderRequest struct {
	UserID string      `json:"userId"`
	Items  []OrderItem `json:"items"`
}

// UpdateStatusRequest representa a requisição para trocar o status
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// AddItemRequest representa a requisição para adicionar um item
type AddItemRequest struct {
	BookID    string  `json:"bookId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderHandler contém os handlers HTTP
type OrderHandler struct {
	useCase OrderUseCaseInterface
	tracer  trace.Tracer
	logger  *zap.Logger
}

// NewOrderHandler cria uma nova instância de OrderHandler
func NewOrderHandler(useCase OrderUseCaseInterface, tracer trace.Tracer, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: useCase,
		tracer:  tracer,
		logger:  logger,
	}
}

// RegisterRoutes registra as rotas de pedidos no grupo /api/orders
func (h *OrderHandler) RegisterRoutes(r gin.IRouter) {
	orders := r.Group("/api/orders")
	orders.GET("", h.ListOrders)
	orders.GET("/stats", h.Stats)
	orders.GET("/:id", h.GetOrder)
	orders.POST("", h.CreateOrder)
	orders.PATCH("/:id/status", h.UpdateOrderStatus)
	orders.POST("/:id/items", h.AddItem)
	orders.DELETE("/:id/items/:bookId", h.RemoveItem)
	orders.DELETE("/:id", h.DeleteOrder)
}

// ListOrders lista pedidos, opcionalmente filtrados por userId ou status
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.ListOrders")
	defer span.End()

	filter := OrderFilter{
		UserID: c.Query("userId"),
		Status: OrderStatus(c.Query("status")),
	}
	span.SetAttributes(
		attribute.String("user_id", filter.UserID),
		attribute.String("status", string(filter.Status)),
	)

	orders, err := h.useCase.ListOrders(ctx, filter)
	if err != nil {
		h.fail(c, span, err, "Failed to fetch orders")
		return
	}

	envelope.List(c, http.StatusOK, orders)
}

// GetOrder busca um pedido pelo ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.GetOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", c.Param("id")))

	order, err := h.useCase.GetOrder(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, span, err, "Failed to fetch order")
		return
	}

	envelope.Data(c, http.StatusOK, order)
}

// CreateOrder cria um novo pedido
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.CreateOrder")
	defer span.End()

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		envelope.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		envelope.Fail(c, http.StatusBadRequest, "User ID is required")
		return
	}

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.Int("items", len(req.Items)),
	)

	order, err := h.useCase.CreateOrder(ctx, req.UserID, req.Items)
	if err != nil {
		h.fail(c, span, err, "Failed to create order")
		return
	}

	span.SetAttributes(attribute.String("order_id", order.ID))
	envelope.Data(c, http.StatusCreated, order)
}

// UpdateOrderStatus troca o status de um pedido
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.UpdateOrderStatus")
	defer span.End()

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		envelope.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		envelope.Fail(c, http.StatusBadRequest, "Status is required")
		return
	}

	span.SetAttributes(
		attribute.String("order_id", c.Param("id")),
		attribute.String("status", string(req.Status)),
	)

	order, err := h.useCase.UpdateOrderStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, span, err, "Failed to update order status")
		return
	}

	envelope.Data(c, http.StatusOK, order)
}

// DeleteOrder remove um pedido
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.DeleteOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", c.Param("id")))

	if _, err := h.useCase.DeleteOrder(ctx, c.Param("id")); err != nil {
		h.fail(c, span, err, "Failed to delete order")
		return
	}

	envelope.Message(c, http.StatusOK, "Order deleted successfully")
}

// AddItem adiciona um item a um pedido pendente
func (h *OrderHandler) AddItem(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.AddItem")
	defer span.End()

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		envelope.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.BookID == "" || req.Quantity == 0 || req.UnitPrice == 0 {
		envelope.Fail(c, http.StatusBadRequest, "Book ID, quantity, and price are required")
		return
	}

	span.SetAttributes(
		attribute.String("order_id", c.Param("id")),
		attribute.String("book_id", req.BookID),
		attribute.Int("quantity", req.Quantity),
		attribute.Float64("unit_price", req.UnitPrice),
	)

	order, err := h.useCase.AddItem(ctx, c.Param("id"), req.BookID, req.Quantity, req.UnitPrice)
	if err != nil {
		h.fail(c, span, err, "Failed to add item to order")
		return
	}

	envelope.Data(c, http.StatusOK, order)
}

// RemoveItem remove um item de um pedido pendente
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.RemoveItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("order_id", c.Param("id")),
		attribute.String("book_id", c.Param("bookId")),
	)

	order, err := h.useCase.RemoveItem(ctx, c.Param("id"), c.Param("bookId"))
	if err != nil {
		h.fail(c, span, err, "Failed to remove item from order")
		return
	}

	envelope.Data(c, http.StatusOK, order)
}

// Stats retorna as estatísticas agregadas dos pedidos
func (h *OrderHandler) Stats(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.Stats")
	defer span.End()

	stats, err := h.useCase.Stats(ctx)
	if err != nil {
		h.fail(c, span, err, "Failed to fetch order statistics")
		return
	}

	envelope.Data(c, http.StatusOK, stats)
}

// HealthCheck verifica a saúde do serviço
func (h *OrderHandler) HealthCheck(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"service": serviceName,
			"status":  "healthy",
		})
	}
}

// fail traduz o erro de domínio para o status HTTP. Erros desconhecidos viram 500
// com a mensagem genérica da operação.
func (h *OrderHandler) fail(c *gin.Context, span trace.Span, err error, internalMessage string) {
	span.RecordError(err)

	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		span.SetStatus(codes.Error, internalMessage)
		h.logger.Error(internalMessage, zap.Error(err), zap.String("path", c.FullPath()))
		message = internalMessage
	}

	envelope.Fail(c, status, message)
}

func statusFor(err error) (int, string) {
	switch kindOf(err) {
	case KindValidation, KindInvalidStatus, KindInvalidState:
		return http.StatusBadRequest, err.Error()
	case KindNotFound:
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}
