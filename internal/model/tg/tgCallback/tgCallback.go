package tgCallback

// Callback button prefixes
const (
	ShowDashboard string = "show_dashboard"
	ShowOrders    string = "show_orders"
	ShowLedger    string = "show_ledger"
	ShowAlerts    string = "show_alerts"
	ShowSources   string = "show_sources"
	ShowSettings  string = "show_settings"

	ExportLedger string = "export_ledger"
	CreateOrder  string = "create_order"
	AddSource    string = "add_source"
	SaveSettings string = "save_settings"

	SellLotPrefix        string = "sell_lot:"
	SetLimitsPrefix      string = "set_limits:"
	DeleteTxPrefix       string = "delete_tx:"
	SetDefHolderPrefix   string = "set_def_holder:"
	OrderExchangePrefix  string = "order_exch:"
	FillOrderPrefix      string = "fill_order:"
	CancelOrderPrefix    string = "cancel_order:"
	SelectHolderPrefix   string = "select_holder:"
	DismissAlertPrefix   string = "dismiss_alert:"
	SnoozeAlertPrefix    string = "snooze_alert:"
	SourceDetailPrefix   string = "source_detail:"
	OrderFromIdeaPrefix  string = "order_from_idea:"
	ToggleWatchPrefix    string = "toggle_watch:"
	DeleteSourcePrefix   string = "delete_source:"
	LedgerSortPrefix     string = "ledger_sort:"
	SetRiskPercentPrefix string = "set_risk:"
)
