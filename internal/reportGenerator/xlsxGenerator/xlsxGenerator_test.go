package xlsxGenerator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestGenerateProducesReadableWorkbook(t *testing.T) {
	report := model.LedgerReport{
		HolderID:    "alice",
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		OpenLots: []model.Lot{
			{
				Ticker:            "AAPL",
				Exchange:          "NASDAQ",
				PurchaseDate:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
				CostBasis:         decimal.NewFromInt(150),
				Quantity:          decimal.NewFromInt(10),
				QuantityRemaining: decimal.NewFromInt(7),
			},
		},
		Transactions: []model.Transaction{
			{
				Side:       model.SideSell,
				Ticker:     "AAPL",
				Exchange:   "NASDAQ",
				Quantity:   decimal.NewFromInt(3),
				Price:      decimal.NewFromInt(180),
				Total:      decimal.NewFromInt(540),
				Date:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
				RealizedPL: decimal.NewFromInt(90),
			},
		},
	}

	fileBytes, ext, err := New().Generate(context.Background(), report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext != ".xlsx" {
		t.Errorf("expected .xlsx extension, got %q", ext)
	}

	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		t.Fatalf("generated bytes are not a valid workbook: %v", err)
	}
	defer f.Close()

	ticker, err := f.GetCellValue("Ledger", "A3")
	if err != nil {
		t.Fatalf("reading cell: %v", err)
	}
	if ticker != "AAPL" {
		t.Errorf("expected open lot ticker in A3, got %q", ticker)
	}
}

func TestGenerateEmptyReport(t *testing.T) {
	report := model.LedgerReport{HolderID: "all", GeneratedAt: time.Now()}

	fileBytes, _, err := New().Generate(context.Background(), report)
	if err != nil {
		t.Fatalf("empty report must still generate: %v", err)
	}
	if len(fileBytes) == 0 {
		t.Error("empty workbook bytes")
	}
}
