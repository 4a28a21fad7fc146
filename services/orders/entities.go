package main

import (
	"time"
)

// OrderStatus representa os possíveis status de um pedido
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Statuses retorna os status aceitos, na ordem do ciclo de vida
func Statuses() []OrderStatus {
	return append([]OrderStatus(nil), validStatuses...)
}

// ValidStatus informa se o status pertence ao conjunto aceito
func ValidStatus(status OrderStatus) bool {
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

var now = func() time.Time { return time.Now().UTC() }

// OrderItem é uma linha do pedido
type OrderItem struct {
	BookID    string  `json:"bookId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Subtotal retorna quantity * unitPrice
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// Order representa um pedido no sistema.
// TotalAmount é sempre derivado de Items e só é alterado por recalculateTotal.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
	OrderDate   time.Time   `json:"orderDate"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewOrder valida os itens e cria um pedido pendente. O id é atribuído pelo store.
func NewOrder(userID string, items []OrderItem) (*Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	createdAt := now()
	order := &Order{
		UserID:    userID,
		Items:     append([]OrderItem(nil), items...),
		Status:    OrderStatusPending,
		OrderDate: createdAt,
		UpdatedAt: createdAt,
	}
	order.recalculateTotal()

	return order, nil
}

func validateItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}

	for _, item := range items {
		// zero conta como campo ausente
		if item.BookID == "" || item.Quantity == 0 || item.UnitPrice == 0 {
			return ErrMissingItemField
		}
		if item.Quantity < 0 || item.UnitPrice < 0 {
			return ErrNonPositiveItemValue
		}
	}
	return nil
}

// UpdateStatus troca o status do pedido. Qualquer status válido é aceito a partir de qualquer outro.
func (o *Order) UpdateStatus(status OrderStatus) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}

	o.Status = status
	o.UpdatedAt = now()
	return nil
}

// IsPending informa se os itens do pedido ainda podem ser alterados
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// AddItem soma a quantidade numa linha existente do mesmo livro (mantendo o preço
// original da linha) ou adiciona uma nova linha.
func (o *Order) AddItem(bookID string, quantity int, unitPrice float64) error {
	if !o.IsPending() {
		return ErrOrderNotPending
	}
	if quantity <= 0 || unitPrice <= 0 {
		return ErrNonPositiveItemValue
	}

	merged := false
	for i := range o.Items {
		if o.Items[i].BookID == bookID {
			o.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		o.Items = append(o.Items, OrderItem{BookID: bookID, Quantity: quantity, UnitPrice: unitPrice})
	}

	o.recalculateTotal()
	o.UpdatedAt = now()
	return nil
}

// RemoveItem remove todas as linhas do livro. Remover um livro ausente não altera o pedido.
func (o *Order) RemoveItem(bookID string) error {
	if !o.IsPending() {
		return ErrOrderNotPending
	}

	kept := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.BookID != bookID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(o.Items) {
		return nil
	}

	o.Items = kept
	o.recalculateTotal()
	o.UpdatedAt = now()
	return nil
}

func (o *Order) recalculateTotal() {
	total := 0.0
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	o.TotalAmount = total
}

// RecordID, AssignID e Clone permitem guardar o pedido no store em memória

func (o *Order) RecordID() string {
	return o.ID
}

func (o *Order) AssignID(id string) {
	o.ID = id
}

func (o *Order) Clone() *Order {
	c := *o
	c.Items = append(make([]OrderItem, 0, len(o.Items)), o.Items...)
	return &c
}
