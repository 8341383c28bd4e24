package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	"github.com/xuri/excelize/v2"
)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate renders a ledger snapshot into a two-section sheet: open positions
// on top, full transaction history below.
func (g *XLSXGenerator) Generate(ctx context.Context, report model.LedgerReport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	sheetName := "Ledger"
	if _, err := f.NewSheet(sheetName); err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := g.fillSheet(f, sheetName, report); err != nil {
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillSheet(f *excelize.File, sheetName string, report model.LedgerReport) error {
	if err := f.MergeCell(sheetName, "A1", "H1"); err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Open positions — holder: %s, generated %s", report.HolderID, report.GeneratedAt.Format("2006-01-02 15:04")))

	if err := g.applyHeaderStyle(f, sheetName, "A1", "#cfe2f3"); err != nil {
		return err
	}

	_ = f.SetCellStr(sheetName, "A2", "ticker")
	_ = f.SetCellStr(sheetName, "B2", "exchange")
	_ = f.SetCellStr(sheetName, "C2", "purchase date")
	_ = f.SetCellStr(sheetName, "D2", "cost basis")
	_ = f.SetCellStr(sheetName, "E2", "quantity")
	_ = f.SetCellStr(sheetName, "F2", "remaining")
	_ = f.SetCellStr(sheetName, "G2", "take profit")
	_ = f.SetCellStr(sheetName, "H2", "stop loss")

	for i, lot := range report.OpenLots {
		row := i + 3
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), lot.Ticker)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), lot.Exchange)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), lot.PurchaseDate.Format("2006-01-02"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), lot.CostBasis.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), lot.Quantity.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), lot.QuantityRemaining.InexactFloat64())
		if lot.LimitUp != nil {
			_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), lot.LimitUp.Price.InexactFloat64())
		}
		if lot.LimitDown != nil {
			_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), lot.LimitDown.Price.InexactFloat64())
		}
	}

	rowNum := len(report.OpenLots) + 5

	if err := f.MergeCell(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("H%d", rowNum)); err != nil {
		return err
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), "Transaction history")

	if err := g.applyHeaderStyle(f, sheetName, fmt.Sprintf("A%d", rowNum), "#d9ead3"); err != nil {
		return err
	}

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "date")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", rowNum), "side")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", rowNum), "ticker")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("D%d", rowNum), "exchange")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("E%d", rowNum), "quantity")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("F%d", rowNum), "price")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("G%d", rowNum), "total")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("H%d", rowNum), "realized P/L")

	for _, tx := range report.Transactions {
		rowNum++
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), tx.Date.Format("2006-01-02"))
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", rowNum), string(tx.Side))
		_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", rowNum), tx.Ticker)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("D%d", rowNum), tx.Exchange)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), tx.Quantity.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), tx.Price.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), tx.Total.InexactFloat64())
		if tx.Side == model.SideSell {
			_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowNum), tx.RealizedPL.InexactFloat64())
		}
	}

	return nil
}

func (g *XLSXGenerator) applyHeaderStyle(f *excelize.File, sheetName, cell, color string) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, cell, cell, styleID); err != nil {
		return fmt.Errorf("applying style: %w", err)
	}

	return nil
}
