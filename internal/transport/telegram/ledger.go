package telegram

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/converter/telebotConverter"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	tele "gopkg.in/telebot.v4"
)

func (ctrl *Controller) LoadLedger(ctx context.Context, chatID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	gen := ctrl.guard.begin(model.ViewLedger, chatID)

	session := ctrl.store.Get(chatID)

	txs, err := ctrl.service.LedgerTransactions(ctx, session.SelectedHolderID, session.LedgerSort)
	if err != nil {
		slog.Error("got error from service.LedgerTransactions", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.render(chatID, model.ViewLedger, "⚠️ Error loading ledger.", nil)
		return err
	}

	if ctrl.guard.stale(model.ViewLedger, chatID, gen) {
		slog.Debug("discarding superseded ledger load", slog.String("rqID", rqID), slog.Int64("chatID", chatID))
		return nil
	}

	ctrl.store.Update(chatID, model.Partial{Transactions: &txs})

	shown := txs
	if ctrl.cfg.LedgerPerPage > 0 && len(shown) > ctrl.cfg.LedgerPerPage {
		shown = shown[:ctrl.cfg.LedgerPerPage]
	}

	text, markup := telebotConverter.LedgerResponse(shown, ctrl.store.Get(chatID).LedgerSort)
	ctrl.render(chatID, model.ViewLedger, text, markup)

	return nil
}

// SortLedger flips the ledger sort and re-runs this screen's own loader;
// sorting is view-local state, not a data change, so nothing is published.
func (ctrl *Controller) SortLedger(c tele.Context, field string) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatID := c.Chat().ID

	current := ctrl.store.Get(chatID).LedgerSort
	next := model.LedgerSort{Field: model.LedgerSortField(field)}
	if current.Field == next.Field {
		next.Desc = !current.Desc
	}
	ctrl.store.Update(chatID, model.Partial{LedgerSort: &next})

	return ctrl.LoadLedger(ctx, chatID)
}

// DeleteTransaction removes a ledger row; the backend restores the lot's
// remaining quantity when a SELL is deleted.
func (ctrl *Controller) DeleteTransaction(c tele.Context, txID string) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	id, err := strconv.ParseInt(txID, 10, 64)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	_, err = ctrl.service.DeleteTransaction(ctx, id)
	if err != nil {
		slog.Error("got error from service.DeleteTransaction", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Delete failed: " + err.Error())
	}

	ctrl.publishChange(chatID)

	return c.Send("🗑 Transaction deleted.")
}

// ExportLedger builds the spreadsheet snapshot and replies with the share
// link.
func (ctrl *Controller) ExportLedger(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	holderID := ctrl.store.Get(chatID).SelectedHolderID

	link, err := ctrl.service.ExportLedger(ctx, holderID)
	if err != nil {
		slog.Error("got error from service.ExportLedger", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Export failed: " + err.Error())
	}

	ctrl.publishChange(chatID)

	return c.Send("📤 Snapshot ready: " + link)
}
