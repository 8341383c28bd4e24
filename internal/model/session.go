package model

type action int

const (
	DefaultAction action = iota
	ExpectingSellQuantity
	ExpectingSellPrice
	ExpectingOrderTicker
	ExpectingOrderExchange
	ExpectingOrderLimitPrice
	ExpectingOrderQuantity
	ExpectingLimitUp
	ExpectingLimitDown
	ExpectingSourceName
	ExpectingRiskPercent
)

// AllHolders is the sentinel for "no specific account holder selected".
const AllHolders = "all"

// Session is the per-chat UI state. It lives for the whole process and is
// only ever replaced field-by-field through state.Store.Update.
type Session struct {
	Action           action
	SelectedHolderID string
	CurrentView      CurrentView
	Settings         Settings

	// Reference collections mirroring backend tables, overwritten wholesale
	// on refresh.
	AllAccountHolders []AccountHolder
	AllExchanges      []Exchange
	AllAdviceSources  []AdviceSource

	// One-shot transfer from the sources screen to the orders form. Cleared
	// on consumption whether or not the submission succeeds.
	PrefillOrderFromSource *PrefillOrder

	// View-local caches, consistent with the backend only right after a load.
	PendingOrders     []PendingOrder
	DashboardOpenLots []Lot
	Transactions      []Transaction
	LedgerSort        LedgerSort

	// In-progress form input, keyed by Action.
	DraftSale   *SaleDraft
	DraftOrder  *OrderDraft
	DraftLimits *LimitsDraft
}

// Partial is a shallow-merge patch for Session: nil fields are left
// untouched, non-nil fields overwrite. There is no validation.
type Partial struct {
	Action           *action
	SelectedHolderID *string
	CurrentView      *CurrentView
	Settings         *Settings

	AllAccountHolders *[]AccountHolder
	AllExchanges      *[]Exchange
	AllAdviceSources  *[]AdviceSource

	PrefillOrderFromSource **PrefillOrder

	PendingOrders     *[]PendingOrder
	DashboardOpenLots *[]Lot
	Transactions      *[]Transaction
	LedgerSort        *LedgerSort

	DraftSale   **SaleDraft
	DraftOrder  **OrderDraft
	DraftLimits **LimitsDraft
}
