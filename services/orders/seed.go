package main

import (
	"context"
	"fmt"
)

type sampleOrder struct {
	userID string
	items  []OrderItem
	status OrderStatus
}

var sampleOrders = []sampleOrder{
	{
		userID: "user-1",
		items: []OrderItem{
			{BookID: "book-1", Quantity: 2, UnitPrice: 12.99},
			{BookID: "book-2", Quantity: 1, UnitPrice: 14.99},
		},
		status: OrderStatusConfirmed,
	},
	{
		userID: "user-2",
		items: []OrderItem{
			{BookID: "book-3", Quantity: 1, UnitPrice: 45.99},
		},
		status: OrderStatusShipped,
	},
}

// SeedSampleOrders carrega os pedidos de demonstração
func (uc *OrderUseCase) SeedSampleOrders(ctx context.Context) error {
	for _, sample := range sampleOrders {
		order, err := uc.CreateOrder(ctx, sample.userID, sample.items)
		if err != nil {
			return fmt.Errorf("seeding order for %s: %w", sample.userID, err)
		}
		if _, err := uc.UpdateOrderStatus(ctx, order.ID, sample.status); err != nil {
			return fmt.Errorf("seeding status for order %s: %w", order.ID, err)
		}
	}
	return nil
}
