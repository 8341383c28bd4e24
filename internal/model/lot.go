package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceLimit is an optional take-profit or stop-loss attached to a lot.
type PriceLimit struct {
	Price      decimal.Decimal
	Expiration time.Time
}

// Lot is a BUY transaction tracked with remaining open quantity. It is
// considered closed once QuantityRemaining reaches zero and no longer shows
// up on the dashboard.
type Lot struct {
	ID                int64
	Ticker            string
	Exchange          string
	HolderID          string
	PurchaseDate      time.Time
	CostBasis         decimal.Decimal
	Quantity          decimal.Decimal
	QuantityRemaining decimal.Decimal
	LimitUp           *PriceLimit
	LimitDown         *PriceLimit
	AdviceSourceID    *int64

	// CurrentPrice is filled from the price cache at render time, not part
	// of the backend record.
	CurrentPrice decimal.Decimal
}

// LimitsDraft accumulates the set-limits form input across chat steps. A nil
// price means the corresponding limit is cleared.
type LimitsDraft struct {
	LotID     int64
	Ticker    string
	CostBasis decimal.Decimal
	Up        *decimal.Decimal
	Down      *decimal.Decimal
}

// SaleDraft accumulates the sell-position form input across chat steps.
type SaleDraft struct {
	Ticker   string
	Exchange string
	LotID    int64
	Quantity decimal.Decimal
	Price    decimal.Decimal
}
