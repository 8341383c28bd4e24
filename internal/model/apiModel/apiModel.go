// Package apiModel holds the wire types of the trade-journal REST backend.
// Dates travel as "2006-01-02" strings; conversion to internal models lives
// in apiConverter.
package apiModel

import "github.com/shopspring/decimal"

const DateLayout = "2006-01-02"

// OperationResult is the generic mutation response. A 204 from the backend
// is synthesized into {"message": "Operation successful."} by the gateway.
type OperationResult struct {
	Message string `json:"message"`
}

type Lot struct {
	ID                  int64            `json:"id"`
	Ticker              string           `json:"ticker"`
	Exchange            string           `json:"exchange"`
	AccountHolderID     string           `json:"account_holder_id"`
	PurchaseDate        string           `json:"purchase_date"`
	CostBasis           decimal.Decimal  `json:"cost_basis"`
	Quantity            decimal.Decimal  `json:"quantity"`
	QuantityRemaining   decimal.Decimal  `json:"quantity_remaining"`
	LimitUpPrice        *decimal.Decimal `json:"limit_up_price,omitempty"`
	LimitUpExpiration   *string          `json:"limit_up_expiration,omitempty"`
	LimitDownPrice      *decimal.Decimal `json:"limit_down_price,omitempty"`
	LimitDownExpiration *string          `json:"limit_down_expiration,omitempty"`
	AdviceSourceID      *int64           `json:"advice_source_id,omitempty"`
}

type Transaction struct {
	ID              int64           `json:"id"`
	Side            string          `json:"side"`
	Ticker          string          `json:"ticker"`
	Exchange        string          `json:"exchange"`
	AccountHolderID string          `json:"account_holder_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Total           decimal.Decimal `json:"total"`
	Date            string          `json:"date"`
	RealizedPL      decimal.Decimal `json:"realized_pl"`
	AdviceSourceID  *int64          `json:"advice_source_id,omitempty"`
}

type CreateTransactionRequest struct {
	Side            string          `json:"side"`
	Ticker          string          `json:"ticker"`
	Exchange        string          `json:"exchange"`
	AccountHolderID string          `json:"account_holder_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Date            string          `json:"date"`
	LotID           *int64          `json:"lot_id,omitempty"`
	AdviceSourceID  *int64          `json:"advice_source_id,omitempty"`
}

type UpdateLimitsRequest struct {
	LimitUpPrice        *decimal.Decimal `json:"limit_up_price,omitempty"`
	LimitUpExpiration   *string          `json:"limit_up_expiration,omitempty"`
	LimitDownPrice      *decimal.Decimal `json:"limit_down_price,omitempty"`
	LimitDownExpiration *string          `json:"limit_down_expiration,omitempty"`
}

type PendingOrder struct {
	ID              int64           `json:"id"`
	Ticker          string          `json:"ticker"`
	Exchange        string          `json:"exchange"`
	AccountHolderID string          `json:"account_holder_id"`
	LimitPrice      decimal.Decimal `json:"limit_price"`
	Quantity        decimal.Decimal `json:"quantity"`
	Expiration      string          `json:"expiration"`
	Status          string          `json:"status"`
	AdviceSourceID  *int64          `json:"advice_source_id,omitempty"`
}

type CreateOrderRequest struct {
	Ticker          string          `json:"ticker"`
	Exchange        string          `json:"exchange"`
	AccountHolderID string          `json:"account_holder_id"`
	LimitPrice      decimal.Decimal `json:"limit_price"`
	Quantity        decimal.Decimal `json:"quantity"`
	Expiration      string          `json:"expiration"`
	AdviceSourceID  *int64          `json:"advice_source_id,omitempty"`
}

type OrderStatusRequest struct {
	Status    string           `json:"status"`
	FillPrice *decimal.Decimal `json:"fill_price,omitempty"`
}

type Notification struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	Ticker    string `json:"ticker"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type NotificationStatusRequest struct {
	Status string `json:"status"`
}

type AccountHolder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Exchange struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type AdviceSource struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Ticker  string `json:"ticker"`
	Notes   string `json:"notes"`
	Watched bool   `json:"watched"`
}

type AdviceSourceRequest struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Ticker string `json:"ticker"`
	Notes  string `json:"notes"`
}

type WatchlistRequest struct {
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
}

type Quote struct {
	Ticker   string          `json:"ticker"`
	Exchange string          `json:"exchange"`
	Price    decimal.Decimal `json:"price"`
}

type SnapshotRequest struct {
	FileName     string `json:"file_name"`
	DownloadLink string `json:"download_link"`
}
