package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrNotEnoughBalance = errors.New("not enough balance")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrOrderNotPending  = errors.New("order is not pending")
	ErrInvalidCategory  = errors.New("invalid product category")
	ErrNonPositiveValue = errors.New("value must be positive")
)

// DuplicateFieldError уточняет какое именно уникальное поле нарушено
// при регистрации.
type DuplicateFieldError struct {
	Field string
}

func NewDuplicateFieldError(field string) error {
	return &DuplicateFieldError{Field: field}
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

func (e *DuplicateFieldError) Unwrap() error {
	return ErrDuplicateKey
}

// InsufficientStockError возвращается при попытке списать со склада больше,
// чем осталось. Несем наружу спецификацию аккаунта, а не id - так ошибку
// можно показать покупателю как есть.
type InsufficientStockError struct {
	AccountID     int64
	Specification string
}

func NewInsufficientStockError(accountID int64, specification string) error {
	return &InsufficientStockError{AccountID: accountID, Specification: specification}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for account `%s`", e.Specification)
}
