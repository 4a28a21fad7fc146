package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// OrderStats é o resumo agregado dos pedidos
type OrderStats struct {
	TotalOrders     int                 `json:"totalOrders"`
	TotalRevenue    float64             `json:"totalRevenue"`
	StatusBreakdown map[OrderStatus]int `json:"statusBreakdown"`
}

// OrderUseCase contém a lógica de negócio dos pedidos
type OrderUseCase struct {
	repository OrderRepository
	logger     *zap.Logger

	ordersCreatedCounter metric.Int64Counter
	statusUpdatesCounter metric.Int64Counter
	itemMutationsCounter metric.Int64Counter
	ordersDeletedCounter metric.Int64Counter
}

// NewOrderUseCase cria uma nova instância de OrderUseCase
func NewOrderUseCase(
	repository OrderRepository,
	logger *zap.Logger,
	meter metric.Meter,
) (*OrderUseCase, error) {
	uc := &OrderUseCase{
		repository: repository,
		logger:     logger,
	}

	var err error
	if uc.ordersCreatedCounter, err = meter.Int64Counter("orders.created",
		metric.WithDescription("Number of orders created")); err != nil {
		return nil, fmt.Errorf("creating orders.created counter: %w", err)
	}
	if uc.statusUpdatesCounter, err = meter.Int64Counter("orders.status_updates",
		metric.WithDescription("Number of order status changes")); err != nil {
		return nil, fmt.Errorf("creating orders.status_updates counter: %w", err)
	}
	if uc.itemMutationsCounter, err = meter.Int64Counter("orders.item_mutations",
		metric.WithDescription("Number of items added to or removed from pending orders")); err != nil {
		return nil, fmt.Errorf("creating orders.item_mutations counter: %w", err)
	}
	if uc.ordersDeletedCounter, err = meter.Int64Counter("orders.deleted",
		metric.WithDescription("Number of orders deleted")); err != nil {
		return nil, fmt.Errorf("creating orders.deleted counter: %w", err)
	}

	return uc, nil
}

// ListOrders lista os pedidos, filtrando por usuário ou, na falta dele, por status
func (uc *OrderUseCase) ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error) {
	orders, err := uc.repository.ListOrders(ctx, filter)
	if err != nil {
		return nil, internal("failed to list orders", err)
	}
	return orders, nil
}

// GetOrder busca um pedido pelo ID
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	order, err := uc.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, internal("failed to get order", err)
	}
	return order, nil
}

// CreateOrder valida os itens e registra um novo pedido pendente
func (uc *OrderUseCase) CreateOrder(ctx context.Context, userID string, items []OrderItem) (*Order, error) {
	order, err := NewOrder(userID, items)
	if err != nil {
		uc.logger.Warn("❌ Order rejected",
			zap.String("user_id", userID),
			zap.Int("items", len(items)),
			zap.Error(err))
		return nil, err
	}

	created, err := uc.repository.CreateOrder(ctx, order)
	if err != nil {
		uc.logger.Error("❌ Failed to create order", zap.String("user_id", userID), zap.Error(err))
		return nil, internal("failed to create order", err)
	}

	uc.ordersCreatedCounter.Add(ctx, 1)
	uc.logger.Info("✅ Order created",
		zap.String("order_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.Float64("total_amount", created.TotalAmount))

	return created, nil
}

// UpdateOrderStatus troca o status de um pedido
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error) {
	order, err := uc.repository.UpdateOrder(ctx, orderID, func(o *Order) error {
		return o.UpdateStatus(status)
	})
	if err != nil {
		uc.logger.Warn("❌ Failed to update order status",
			zap.String("order_id", orderID),
			zap.String("status", string(status)),
			zap.Error(err))
		return nil, internal("failed to update order status", err)
	}

	uc.statusUpdatesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	uc.logger.Info("✅ Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)))

	return order, nil
}

// DeleteOrder remove um pedido
func (uc *OrderUseCase) DeleteOrder(ctx context.Context, orderID string) (*Order, error) {
	order, err := uc.repository.DeleteOrder(ctx, orderID)
	if err != nil {
		return nil, internal("failed to delete order", err)
	}

	uc.ordersDeletedCounter.Add(ctx, 1)
	uc.logger.Info("🗑️ Order deleted", zap.String("order_id", orderID))
	return order, nil
}

// AddItem adiciona um livro a um pedido pendente
func (uc *OrderUseCase) AddItem(ctx context.Context, orderID, bookID string, quantity int, unitPrice float64) (*Order, error) {
	order, err := uc.repository.UpdateOrder(ctx, orderID, func(o *Order) error {
		return o.AddItem(bookID, quantity, unitPrice)
	})
	if err != nil {
		uc.logger.Warn("❌ Failed to add item",
			zap.String("order_id", orderID),
			zap.String("book_id", bookID),
			zap.Error(err))
		return nil, internal("failed to add item to order", err)
	}

	uc.itemMutationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "add")))
	uc.logger.Info("➕ Item added",
		zap.String("order_id", orderID),
		zap.String("book_id", bookID),
		zap.Int("quantity", quantity),
		zap.Float64("total_amount", order.TotalAmount))

	return order, nil
}

// RemoveItem remove um livro de um pedido pendente
func (uc *OrderUseCase) RemoveItem(ctx context.Context, orderID, bookID string) (*Order, error) {
	order, err := uc.repository.UpdateOrder(ctx, orderID, func(o *Order) error {
		return o.RemoveItem(bookID)
	})
	if err != nil {
		uc.logger.Warn("❌ Failed to remove item",
			zap.String("order_id", orderID),
			zap.String("book_id", bookID),
			zap.Error(err))
		return nil, internal("failed to remove item from order", err)
	}

	uc.itemMutationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "remove")))
	uc.logger.Info("➖ Item removed",
		zap.String("order_id", orderID),
		zap.String("book_id", bookID),
		zap.Float64("total_amount", order.TotalAmount))

	return order, nil
}

// Stats calcula o resumo dos pedidos a cada chamada
func (uc *OrderUseCase) Stats(ctx context.Context) (*OrderStats, error) {
	orders, err := uc.repository.ListOrders(ctx, OrderFilter{})
	if err != nil {
		return nil, internal("failed to fetch order statistics", err)
	}

	stats := &OrderStats{
		TotalOrders:     len(orders),
		StatusBreakdown: make(map[OrderStatus]int),
	}
	for _, o := range orders {
		stats.TotalRevenue += o.TotalAmount
		stats.StatusBreakdown[o.Status]++
	}

	return stats, nil
}

// internal preserva os erros de domínio e embrulha qualquer outro como falha interna
func internal(op string, err error) error {
	if kindOf(err) != KindInternal {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
