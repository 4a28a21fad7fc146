package main

import (
	"context"
	"errors"

	"github.com/matheusmosca/bookstore-microservices/shared/store"
)

// OrderFilter restringe a listagem de pedidos. UserID tem precedência sobre Status.
type OrderFilter struct {
	UserID string
	Status OrderStatus
}

// OrderRepository define a interface para operações de persistência de pedidos
type OrderRepository interface {
	// CreateOrder guarda o pedido e retorna a cópia com o id gerado
	CreateOrder(ctx context.Context, order *Order) (*Order, error)

	// GetOrder busca um pedido pelo ID
	GetOrder(ctx context.Context, orderID string) (*Order, error)

	// ListOrders retorna os pedidos em ordem de criação
	ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error)

	// UpdateOrder aplica mutate de forma atômica; se mutate falhar o pedido não é alterado
	UpdateOrder(ctx context.Context, orderID string, mutate func(*Order) error) (*Order, error)

	// DeleteOrder remove e retorna o pedido
	DeleteOrder(ctx context.Context, orderID string) (*Order, error)
}

// MemoryOrderRepository implementa OrderRepository sobre o store em memória
type MemoryOrderRepository struct {
	orders *store.MemoryStore[*Order]
}

// NewMemoryOrderRepository cria uma nova instância de MemoryOrderRepository
func NewMemoryOrderRepository(opts ...store.Option) *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: store.New[*Order](opts...),
	}
}

func (r *MemoryOrderRepository) CreateOrder(_ context.Context, order *Order) (*Order, error) {
	return r.orders.Insert(order), nil
}

func (r *MemoryOrderRepository) GetOrder(_ context.Context, orderID string) (*Order, error) {
	order, err := r.orders.Find(orderID)
	return order, translate(err)
}

func (r *MemoryOrderRepository) ListOrders(_ context.Context, filter OrderFilter) ([]*Order, error) {
	switch {
	case filter.UserID != "":
		return r.orders.Filter(func(o *Order) bool { return o.UserID == filter.UserID }), nil
	case filter.Status != "":
		return r.orders.Filter(func(o *Order) bool { return o.Status == filter.Status }), nil
	default:
		return r.orders.All(), nil
	}
}

func (r *MemoryOrderRepository) UpdateOrder(_ context.Context, orderID string, mutate func(*Order) error) (*Order, error) {
	order, err := r.orders.Update(orderID, mutate)
	return order, translate(err)
}

func (r *MemoryOrderRepository) DeleteOrder(_ context.Context, orderID string) (*Order, error) {
	order, err := r.orders.RemoveByID(orderID)
	return order, translate(err)
}

func translate(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}
