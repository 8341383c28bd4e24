package state

import (
	"testing"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
)

func TestGetCreatesDefaultSession(t *testing.T) {
	store := NewStore()

	session := store.Get(1)

	if session.SelectedHolderID != model.AllHolders {
		t.Errorf("expected default holder %q, got %q", model.AllHolders, session.SelectedHolderID)
	}
	if session.LedgerSort.Field != model.LedgerSortDate || !session.LedgerSort.Desc {
		t.Errorf("expected default ledger sort date desc, got %+v", session.LedgerSort)
	}
	if session.Settings.Theme == "" {
		t.Error("expected default settings to be populated")
	}
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	store := NewStore()

	holder := "alice"
	store.Update(7, model.Partial{SelectedHolderID: &holder})

	action := model.ExpectingSellQuantity
	store.Update(7, model.Partial{Action: &action})

	session := store.Get(7)
	if session.SelectedHolderID != "alice" {
		t.Errorf("holder overwritten by unrelated update: %q", session.SelectedHolderID)
	}
	if session.Action != model.ExpectingSellQuantity {
		t.Errorf("action not merged: %v", session.Action)
	}
}

func TestUpdateDoesNotTouchOtherChats(t *testing.T) {
	store := NewStore()

	holder := "bob"
	store.Update(1, model.Partial{SelectedHolderID: &holder})

	if got := store.Get(2).SelectedHolderID; got != model.AllHolders {
		t.Errorf("chat 2 affected by chat 1 update: %q", got)
	}
}

func TestUpdateCanClearNilableFields(t *testing.T) {
	store := NewStore()

	draft := &model.SaleDraft{Ticker: "AAPL", LotID: 5}
	store.Update(3, model.Partial{DraftSale: &draft})

	if store.Get(3).DraftSale == nil {
		t.Fatal("draft not set")
	}

	var cleared *model.SaleDraft
	store.Update(3, model.Partial{DraftSale: &cleared})

	if store.Get(3).DraftSale != nil {
		t.Error("draft not cleared by explicit nil")
	}
}

func TestTakePrefillReturnsOnceAndClears(t *testing.T) {
	store := NewStore()

	prefill := &model.PrefillOrder{Ticker: "MSFT", AdviceSourceID: 9}
	store.Update(4, model.Partial{PrefillOrderFromSource: &prefill})

	got := store.TakePrefill(4)
	if got == nil || got.Ticker != "MSFT" {
		t.Fatalf("expected prefill for MSFT, got %+v", got)
	}

	if second := store.TakePrefill(4); second != nil {
		t.Errorf("prefill returned twice: %+v", second)
	}
	if store.Get(4).PrefillOrderFromSource != nil {
		t.Error("prefill still present in session after take")
	}
}

func TestTakePrefillEmpty(t *testing.T) {
	store := NewStore()

	if got := store.TakePrefill(42); got != nil {
		t.Errorf("expected nil for chat without prefill, got %+v", got)
	}
}

func TestChatIDs(t *testing.T) {
	store := NewStore()

	store.Get(1)
	store.Get(2)

	ids := store.ChatIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 chat ids, got %d", len(ids))
	}

	seen := map[int64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("missing chat ids: %v", ids)
	}
}
