package telebotConverter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/tg/tgCallback"
	tele "gopkg.in/telebot.v4"
)

// SortExchanges orders the exchange dropdown alphabetically with the literal
// "Other" entry forced last regardless of its alphabetical position.
func SortExchanges(exchanges []model.Exchange) []model.Exchange {
	sorted := make([]model.Exchange, len(exchanges))
	copy(sorted, exchanges)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name == "Other" {
			return false
		}
		if sorted[j].Name == "Other" {
			return true
		}
		return sorted[i].Name < sorted[j].Name
	})

	return sorted
}

func MenuRow(markup *tele.ReplyMarkup) tele.Row {
	return markup.Row(
		markup.Data("📊", tgCallback.ShowDashboard),
		markup.Data("📝", tgCallback.ShowOrders),
		markup.Data("📒", tgCallback.ShowLedger),
		markup.Data("🔔", tgCallback.ShowAlerts),
		markup.Data("💡", tgCallback.ShowSources),
		markup.Data("⚙️", tgCallback.ShowSettings),
	)
}

func HolderPromptResponse(holders []model.AccountHolder) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}

	rows := make([]tele.Row, 0, len(holders)+2)
	for _, holder := range holders {
		rows = append(rows, markup.Row(markup.Data(holder.Name, tgCallback.SelectHolderPrefix+holder.ID)))
	}
	rows = append(rows, markup.Row(markup.Data("All holders", tgCallback.SelectHolderPrefix+model.AllHolders)))
	rows = append(rows, MenuRow(markup))
	markup.Inline(rows...)

	return "Pick an account holder to scope this view:", markup
}

// ExchangePromptResponse builds the exchange picker for the order form.
// Typing a name works too, for exchanges missing from the reference list.
func ExchangePromptResponse(exchanges []model.Exchange) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}

	sorted := SortExchanges(exchanges)

	rows := make([]tele.Row, 0, len(sorted)/3+1)
	btns := make([]tele.Btn, 0, 3)
	for _, exchange := range sorted {
		btns = append(btns, markup.Data(exchange.Name, tgCallback.OrderExchangePrefix+exchange.Name))
		if len(btns) == 3 {
			rows = append(rows, markup.Row(btns...))
			btns = make([]tele.Btn, 0, 3)
		}
	}
	if len(btns) > 0 {
		rows = append(rows, markup.Row(btns...))
	}
	markup.Inline(rows...)

	return "Which exchange? Pick one or type a name.", markup
}

func DashboardResponse(lots []model.Lot, holderName string) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 Open positions — %s\n\n", holderName))

	if len(lots) == 0 {
		sb.WriteString("No open lots.\n")
	}

	lotRows := make([]tele.Row, 0, len(lots))
	for _, lot := range lots {
		sb.WriteString(fmt.Sprintf("**%s (%s)**\n", lot.Ticker, lot.Exchange))
		sb.WriteString(fmt.Sprintf("   ▸ Remaining: **%s** of %s\n", lot.QuantityRemaining.String(), lot.Quantity.String()))
		sb.WriteString(fmt.Sprintf("   ▸ Cost basis: %s\n", lot.CostBasis.StringFixed(2)))
		if !lot.CurrentPrice.IsZero() {
			gain := lot.CurrentPrice.Sub(lot.CostBasis).Mul(lot.QuantityRemaining)
			sb.WriteString(fmt.Sprintf("   ▸ Last price: %s (P/L %s)\n", lot.CurrentPrice.StringFixed(2), gain.StringFixed(2)))
		}
		if lot.LimitUp != nil {
			sb.WriteString(fmt.Sprintf("   ▸ Take profit: %s until %s\n", lot.LimitUp.Price.StringFixed(2), lot.LimitUp.Expiration.Format("2006-01-02")))
		}
		if lot.LimitDown != nil {
			sb.WriteString(fmt.Sprintf("   ▸ Stop loss: %s until %s\n", lot.LimitDown.Price.StringFixed(2), lot.LimitDown.Expiration.Format("2006-01-02")))
		}
		sb.WriteString("\n")

		id := strconv.FormatInt(lot.ID, 10)
		lotRows = append(lotRows, markup.Row(
			markup.Data("Sell "+lot.Ticker, tgCallback.SellLotPrefix+id),
			markup.Data("Limits", tgCallback.SetLimitsPrefix+id),
		))
	}

	rows := make([]tele.Row, 0, len(lotRows)+1)
	rows = append(rows, lotRows...)
	rows = append(rows, MenuRow(markup))
	markup.Inline(rows...)

	return sb.String(), markup
}

func OrdersResponse(orders []model.PendingOrder) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString("📝 Pending orders\n\n")

	if len(orders) == 0 {
		sb.WriteString("No active orders.\n")
	}

	rows := make([]tele.Row, 0, len(orders)+2)
	for _, order := range orders {
		sb.WriteString(fmt.Sprintf("**%s (%s)** — %s @ %s, expires %s\n",
			order.Ticker,
			order.Exchange,
			order.Quantity.String(),
			order.LimitPrice.StringFixed(2),
			order.Expiration.Format("2006-01-02"),
		))

		id := strconv.FormatInt(order.ID, 10)
		rows = append(rows, markup.Row(
			markup.Data("Fill "+order.Ticker, tgCallback.FillOrderPrefix+id),
			markup.Data("Cancel "+order.Ticker, tgCallback.CancelOrderPrefix+id),
		))
	}

	rows = append(rows, markup.Row(markup.Data("➕ New order", tgCallback.CreateOrder)))
	rows = append(rows, MenuRow(markup))
	markup.Inline(rows...)

	return sb.String(), markup
}

func LedgerResponse(txs []model.Transaction, ledgerSort model.LedgerSort) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📒 Ledger (sorted by %s)\n\n", ledgerSort.Field))

	if len(txs) == 0 {
		sb.WriteString("No transactions.\n")
	}

	deleteBtns := make([]tele.Btn, 0, len(txs))
	for _, tx := range txs {
		sb.WriteString(fmt.Sprintf("%s **%s** %s × %s @ %s",
			tx.Date.Format("2006-01-02"),
			tx.Side,
			tx.Ticker,
			tx.Quantity.String(),
			tx.Price.StringFixed(2),
		))
		if tx.Side == model.SideSell {
			sb.WriteString(fmt.Sprintf(" (P/L %s)", tx.RealizedPL.StringFixed(2)))
		}
		sb.WriteString("\n")

		label := fmt.Sprintf("🗑 %s %s", tx.Ticker, tx.Date.Format("01-02"))
		deleteBtns = append(deleteBtns, markup.Data(label, tgCallback.DeleteTxPrefix+strconv.FormatInt(tx.ID, 10)))
	}

	rows := []tele.Row{
		markup.Row(
			markup.Data("By date", tgCallback.LedgerSortPrefix+string(model.LedgerSortDate)),
			markup.Data("By ticker", tgCallback.LedgerSortPrefix+string(model.LedgerSortTicker)),
			markup.Data("By total", tgCallback.LedgerSortPrefix+string(model.LedgerSortTotal)),
		),
	}
	for _, btn := range deleteBtns {
		rows = append(rows, markup.Row(btn))
	}
	rows = append(rows, markup.Row(markup.Data("📤 Export snapshot", tgCallback.ExportLedger)))
	rows = append(rows, MenuRow(markup))
	markup.Inline(rows...)

	return sb.String(), markup
}

func AlertsResponse(notifs []model.Notification) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString("🔔 Alerts\n\n")

	if len(notifs) == 0 {
		sb.WriteString("Nothing new.\n")
	}

	rows := make([]tele.Row, 0, len(notifs)+1)
	for _, notif := range notifs {
		marker := "•"
		if notif.Status == model.NotificationUnread {
			marker = "🆕"
		}
		sb.WriteString(fmt.Sprintf("%s %s — %s\n", marker, notif.Ticker, notif.Message))

		id := strconv.FormatInt(notif.ID, 10)
		rows = append(rows, markup.Row(
			markup.Data("Dismiss", tgCallback.DismissAlertPrefix+id),
			markup.Data("Later", tgCallback.SnoozeAlertPrefix+id),
		))
	}

	rows = append(rows, MenuRow(markup))
	markup.Inline(rows...)

	return sb.String(), markup
}

func SourcesResponse(sources []model.AdviceSource) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString("💡 Advice sources & watchlist\n\n")

	if len(sources) == 0 {
		sb.WriteString("No sources yet. Use ➕ Add source below.\n")
	}

	rows := make([]tele.Row, 0, len(sources)+1)
	for _, source := range sources {
		watched := ""
		if source.Watched {
			watched = " 👁"
		}
		sb.WriteString(fmt.Sprintf("**%s** (%s)%s\n", source.Name, source.Kind, watched))

		rows = append(rows, markup.Row(markup.Data(source.Name, tgCallback.SourceDetailPrefix+strconv.FormatInt(source.ID, 10))))
	}

	rows = append(rows, markup.Row(markup.Data("➕ Add source", tgCallback.AddSource)))
	rows = append(rows, MenuRow(markup))
	markup.Inline(rows...)

	return sb.String(), markup
}

func SourceDetailResponse(source model.AdviceSource) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("💡 **%s** (%s)\n", source.Name, source.Kind))
	if source.Ticker != "" {
		sb.WriteString(fmt.Sprintf("Ticker: %s\n", source.Ticker))
	}
	if !source.CurrentPrice.IsZero() {
		sb.WriteString(fmt.Sprintf("Last price: %s\n", source.CurrentPrice.StringFixed(2)))
	}
	if source.Notes != "" {
		sb.WriteString(source.Notes + "\n")
	}

	watchLabel := "👁 Watch"
	if source.Watched {
		watchLabel = "🚫 Unwatch"
	}

	id := strconv.FormatInt(source.ID, 10)
	markup.Inline(
		markup.Row(
			markup.Data("📝 Order from idea", tgCallback.OrderFromIdeaPrefix+id),
			markup.Data(watchLabel, tgCallback.ToggleWatchPrefix+id),
		),
		markup.Row(markup.Data("🗑 Delete", tgCallback.DeleteSourcePrefix+id)),
		MenuRow(markup),
	)

	return sb.String(), markup
}

func SettingsResponse(settings model.Settings, holders []model.AccountHolder) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString("⚙️ Settings\n\n")
	sb.WriteString(fmt.Sprintf("Theme: %s\n", settings.Theme))
	sb.WriteString(fmt.Sprintf("Risk per trade: %s%%\n", settings.RiskPercent.String()))
	sb.WriteString(fmt.Sprintf("Default holder: %s\n", settings.DefaultHolderID))
	sb.WriteString(fmt.Sprintf("Notification cooldown: %s\n", settings.NotificationCooldown))

	riskRow := markup.Row(
		markup.Data("Risk 1%", tgCallback.SetRiskPercentPrefix+"1"),
		markup.Data("Risk 2%", tgCallback.SetRiskPercentPrefix+"2"),
		markup.Data("Risk 5%", tgCallback.SetRiskPercentPrefix+"5"),
		markup.Data("Custom…", tgCallback.SetRiskPercentPrefix+"custom"),
	)

	holderBtns := make([]tele.Btn, 0, len(holders)+1)
	for _, holder := range holders {
		holderBtns = append(holderBtns, markup.Data(holder.Name, tgCallback.SetDefHolderPrefix+holder.ID))
	}
	holderBtns = append(holderBtns, markup.Data("All", tgCallback.SetDefHolderPrefix+model.AllHolders))

	markup.Inline(
		riskRow,
		markup.Row(holderBtns...),
		markup.Row(markup.Data("💾 Save", tgCallback.SaveSettings)),
		MenuRow(markup),
	)

	return sb.String(), markup
}
