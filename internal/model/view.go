package model

// View names one bot screen. The router only ever shows one at a time.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewOrders    View = "orders"
	ViewLedger    View = "ledger"
	ViewAlerts    View = "alerts"
	ViewSources   View = "sources"
	ViewSettings  View = "settings"
)

// CurrentView carries the active screen plus an optional parameter
// (e.g. an open source detail id).
type CurrentView struct {
	Type  View
	Value string
}
