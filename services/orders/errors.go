package main

import "errors"

// ErrorKind classifica as falhas do domínio de pedidos para o mapeamento HTTP
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindInvalidStatus
	KindInvalidState
)

// OrderError é o erro tipado retornado pela entidade e pelo caso de uso
type OrderError struct {
	Kind    ErrorKind
	Message string
}

func (e *OrderError) Error() string {
	return e.Message
}

// Erros de domínio
var (
	ErrEmptyItems           = &OrderError{Kind: KindValidation, Message: "Order must contain at least one item"}
	ErrMissingItemField     = &OrderError{Kind: KindValidation, Message: "Each item must have bookId, quantity, and price"}
	ErrNonPositiveItemValue = &OrderError{Kind: KindValidation, Message: "Quantity and price must be positive numbers"}
	ErrOrderNotFound        = &OrderError{Kind: KindNotFound, Message: "Order not found"}
	ErrInvalidStatus        = &OrderError{Kind: KindInvalidStatus, Message: "Invalid status"}
	ErrOrderNotPending      = &OrderError{Kind: KindInvalidState, Message: "Cannot modify order that is not pending"}
)

// kindOf retorna KindInternal para qualquer erro que não seja um OrderError
func kindOf(err error) ErrorKind {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindInternal
}
