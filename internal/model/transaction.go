package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionSide string

const (
	SideBuy  TransactionSide = "BUY"
	SideSell TransactionSide = "SELL"
)

// Transaction is one ledger row.
type Transaction struct {
	ID       int64
	Side     TransactionSide
	Ticker   string
	Exchange string
	HolderID string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Total    decimal.Decimal
	Date     time.Time

	// RealizedPL is only set on SELL rows.
	RealizedPL decimal.Decimal

	AdviceSourceID *int64
}

type LedgerSortField string

const (
	LedgerSortDate   LedgerSortField = "date"
	LedgerSortTicker LedgerSortField = "ticker"
	LedgerSortTotal  LedgerSortField = "total"
)

type LedgerSort struct {
	Field LedgerSortField
	Desc  bool
}
