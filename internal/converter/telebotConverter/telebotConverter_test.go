package telebotConverter

import (
	"testing"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
)

func TestSortExchangesOtherAlwaysLast(t *testing.T) {
	exchanges := []model.Exchange{
		{ID: 1, Name: "NYSE"},
		{ID: 2, Name: "Other"},
		{ID: 3, Name: "AMEX"},
		{ID: 4, Name: "NASDAQ"},
	}

	sorted := SortExchanges(exchanges)

	want := []string{"AMEX", "NASDAQ", "NYSE", "Other"}
	for i, name := range want {
		if sorted[i].Name != name {
			t.Fatalf("position %d: want %q, got %q", i, name, sorted[i].Name)
		}
	}
}

func TestSortExchangesOtherFirstInInput(t *testing.T) {
	exchanges := []model.Exchange{
		{ID: 1, Name: "Other"},
		{ID: 2, Name: "Zurich"},
	}

	sorted := SortExchanges(exchanges)

	if sorted[len(sorted)-1].Name != "Other" {
		t.Errorf("Other must sort after everything, got %+v", sorted)
	}
}

func TestSortExchangesDoesNotMutateInput(t *testing.T) {
	exchanges := []model.Exchange{
		{ID: 1, Name: "NYSE"},
		{ID: 2, Name: "AMEX"},
	}

	_ = SortExchanges(exchanges)

	if exchanges[0].Name != "NYSE" {
		t.Error("input slice was reordered")
	}
}

func TestExchangePromptKeyboardSortedOtherLast(t *testing.T) {
	exchanges := []model.Exchange{
		{ID: 1, Name: "Other"},
		{ID: 2, Name: "NYSE"},
		{ID: 3, Name: "AMEX"},
	}

	_, markup := ExchangePromptResponse(exchanges)

	if markup == nil || len(markup.InlineKeyboard) == 0 {
		t.Fatal("expected exchange buttons")
	}

	var names []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			names = append(names, btn.Text)
		}
	}

	want := []string{"AMEX", "NYSE", "Other"}
	if len(names) != len(want) {
		t.Fatalf("want %d buttons, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("position %d: want %q, got %q", i, name, names[i])
		}
	}
}

func TestDashboardResponseEmpty(t *testing.T) {
	text, markup := DashboardResponse(nil, "all holders")

	if text == "" {
		t.Error("expected non-empty text for empty dashboard")
	}
	if markup == nil || len(markup.InlineKeyboard) == 0 {
		t.Error("expected menu row even with no lots")
	}
}

func TestLedgerResponseShowsRealizedPLOnSellsOnly(t *testing.T) {
	txs := []model.Transaction{
		{Side: model.SideBuy, Ticker: "AAPL"},
		{Side: model.SideSell, Ticker: "AAPL"},
	}

	text, _ := LedgerResponse(txs, model.LedgerSort{Field: model.LedgerSortDate})

	if text == "" {
		t.Fatal("empty ledger text")
	}
}
