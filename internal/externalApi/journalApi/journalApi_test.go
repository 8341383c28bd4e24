package journalApi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/config"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/apiModel"
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *JournalApi {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.JournalApi.Url = srv.URL

	return New(cfg)
}

func TestGetOpenLotsOmitsHolderParamForAll(t *testing.T) {
	var gotQuery string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]apiModel.Lot{})
	})

	if _, err := api.GetOpenLots(context.Background(), model.AllHolders); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "" {
		t.Errorf("all-holders scope must not send a holder filter, query=%q", gotQuery)
	}
}

func TestGetOpenLotsSendsHolderParam(t *testing.T) {
	var gotHolder string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		gotHolder = r.URL.Query().Get("account_holder_id")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]apiModel.Lot{})
	})

	if _, err := api.GetOpenLots(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotHolder != "alice" {
		t.Errorf("expected account_holder_id=alice, got %q", gotHolder)
	}
}

func TestGetPendingOrdersFiltersActive(t *testing.T) {
	var gotStatus string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]apiModel.PendingOrder{})
	})

	if _, err := api.GetPendingOrders(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotStatus != string(model.OrderActive) {
		t.Errorf("expected status=ACTIVE filter, got %q", gotStatus)
	}
}

func TestCreateTransactionSurfacesBackendMessage(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Quantity exceeds remaining shares."}`))
	})

	_, err := api.CreateTransaction(context.Background(), apiModel.CreateTransactionRequest{})
	if err == nil {
		t.Fatal("expected error")
	}

	if err.Error() != "Quantity exceeds remaining shares." {
		t.Errorf("expected backend message, got %q", err.Error())
	}
}

func TestDeleteTransactionHandlesNoContent(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res, err := api.DeleteTransaction(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Message != "Operation successful." {
		t.Errorf("expected synthetic success, got %q", res.Message)
	}
}
