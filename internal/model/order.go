package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderActive    OrderStatus = "ACTIVE"
	OrderFilled    OrderStatus = "FILLED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// PendingOrder is a limit order waiting to be filled or cancelled. FILLED and
// CANCELLED are terminal; the backend rejects further mutations.
type PendingOrder struct {
	ID             int64
	Ticker         string
	Exchange       string
	HolderID       string
	LimitPrice     decimal.Decimal
	Quantity       decimal.Decimal
	Expiration     time.Time
	Status         OrderStatus
	AdviceSourceID *int64
}

// PrefillOrder is the one-shot transfer carrying ticker/price/source hints
// from the sources screen into the orders form.
type PrefillOrder struct {
	Ticker         string
	Exchange       string
	Price          decimal.Decimal
	AdviceSourceID int64
}

// OrderDraft accumulates the create-order form input across chat steps.
type OrderDraft struct {
	Ticker         string
	Exchange       string
	LimitPrice     decimal.Decimal
	Quantity       decimal.Decimal
	Expiration     time.Time
	AdviceSourceID *int64
}
