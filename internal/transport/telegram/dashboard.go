package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/converter/telebotConverter"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/apiModel"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const defaultLimitLifetime = 90 * 24 * time.Hour

// LoadDashboard fetches the open lots for the selected holder and re-renders
// the dashboard if it is the active view. Never leaves the screen in a
// half-loaded state: failures render an error line instead.
func (ctrl *Controller) LoadDashboard(ctx context.Context, chatID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	gen := ctrl.guard.begin(model.ViewDashboard, chatID)

	holderID := ctrl.store.Get(chatID).SelectedHolderID

	lots, err := ctrl.service.DashboardLots(ctx, holderID)
	if err != nil {
		slog.Error("got error from service.DashboardLots", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.render(chatID, model.ViewDashboard, "⚠️ Error loading dashboard.", nil)
		return err
	}

	if ctrl.guard.stale(model.ViewDashboard, chatID, gen) {
		slog.Debug("discarding superseded dashboard load", slog.String("rqID", rqID), slog.Int64("chatID", chatID))
		return nil
	}

	ctrl.store.Update(chatID, model.Partial{DashboardOpenLots: &lots})

	shown := lots
	if ctrl.cfg.LotsPerPage > 0 && len(shown) > ctrl.cfg.LotsPerPage {
		shown = shown[:ctrl.cfg.LotsPerPage]
	}

	text, markup := telebotConverter.DashboardResponse(shown, ctrl.holderName(chatID))
	ctrl.render(chatID, model.ViewDashboard, text, markup)

	return nil
}

// SellLot starts the sell-position flow for one open lot. Requires a
// specific account holder: with the "all" scope selected this short-circuits
// before any network call.
func (ctrl *Controller) SellLot(c tele.Context, lotID string) error {
	chatID := c.Chat().ID

	session := ctrl.store.Get(chatID)
	if session.SelectedHolderID == model.AllHolders {
		return c.Send(holderScopeError)
	}

	id, err := strconv.ParseInt(lotID, 10, 64)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	var lot *model.Lot
	for i := range session.DashboardOpenLots {
		if session.DashboardOpenLots[i].ID == id {
			lot = &session.DashboardOpenLots[i]
			break
		}
	}
	if lot == nil {
		return c.Send("That lot is no longer open. Refresh the dashboard.")
	}

	draft := &model.SaleDraft{Ticker: lot.Ticker, Exchange: lot.Exchange, LotID: lot.ID}
	action := model.ExpectingSellQuantity
	ctrl.store.Update(chatID, model.Partial{Action: &action, DraftSale: &draft})

	return c.Send("How many shares of " + lot.Ticker + " to sell? (remaining: " + lot.QuantityRemaining.String() + ")")
}

// ProcessSellQuantity handles the quantity step of the sale flow.
func (ctrl *Controller) ProcessSellQuantity(c tele.Context) error {
	chatID := c.Chat().ID
	session := ctrl.store.Get(chatID)

	if session.DraftSale == nil {
		return ctrl.resetAction(c)
	}

	quantity, err := decimal.NewFromString(c.Message().Text)
	if err != nil || !quantity.IsPositive() {
		return c.Send("Enter a positive number of shares.")
	}

	for _, lot := range session.DashboardOpenLots {
		if lot.ID == session.DraftSale.LotID && quantity.GreaterThan(lot.QuantityRemaining) {
			return c.Send("You only hold " + lot.QuantityRemaining.String() + " shares of that lot.")
		}
	}

	draft := *session.DraftSale
	draft.Quantity = quantity
	draftPtr := &draft
	action := model.ExpectingSellPrice
	ctrl.store.Update(chatID, model.Partial{Action: &action, DraftSale: &draftPtr})

	return c.Send("At what price?")
}

// ProcessSellPrice finishes the sale: validates, submits, publishes the
// generic change event exactly once on success.
func (ctrl *Controller) ProcessSellPrice(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID
	session := ctrl.store.Get(chatID)

	if session.DraftSale == nil {
		return ctrl.resetAction(c)
	}

	price, err := decimal.NewFromString(c.Message().Text)
	if err != nil || !price.IsPositive() {
		return c.Send("Enter a positive price.")
	}

	draft := *session.DraftSale
	draft.Price = price

	// Re-read the holder after validation; another handler may have
	// rescoped the session while we waited for input.
	holderID := ctrl.store.Get(chatID).SelectedHolderID
	if holderID == model.AllHolders {
		return c.Send(holderScopeError)
	}

	_, err = ctrl.service.SubmitSale(ctx, holderID, draft)
	if err != nil {
		slog.Error("got error from service.SubmitSale", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Sale failed: " + err.Error())
	}

	action := model.DefaultAction
	var cleared *model.SaleDraft
	ctrl.store.Update(chatID, model.Partial{Action: &action, DraftSale: &cleared})

	ctrl.publishChange(chatID)

	return c.Send("✅ Sale recorded.")
}

// SetLotLimits starts the take-profit/stop-loss flow for one open lot.
func (ctrl *Controller) SetLotLimits(c tele.Context, lotID string) error {
	chatID := c.Chat().ID

	session := ctrl.store.Get(chatID)
	if session.SelectedHolderID == model.AllHolders {
		return c.Send(holderScopeError)
	}

	id, err := strconv.ParseInt(lotID, 10, 64)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	var lot *model.Lot
	for i := range session.DashboardOpenLots {
		if session.DashboardOpenLots[i].ID == id {
			lot = &session.DashboardOpenLots[i]
			break
		}
	}
	if lot == nil {
		return c.Send("That lot is no longer open. Refresh the dashboard.")
	}

	draft := &model.LimitsDraft{LotID: lot.ID, Ticker: lot.Ticker, CostBasis: lot.CostBasis}
	action := model.ExpectingLimitUp
	ctrl.store.Update(chatID, model.Partial{Action: &action, DraftLimits: &draft})

	return c.Send("Take-profit price for " + lot.Ticker + "? (must be above cost basis " + lot.CostBasis.StringFixed(2) + "; send \"-\" to clear)")
}

func (ctrl *Controller) ProcessLimitUp(c tele.Context) error {
	chatID := c.Chat().ID
	session := ctrl.store.Get(chatID)

	if session.DraftLimits == nil {
		return ctrl.resetAction(c)
	}

	draft := *session.DraftLimits

	input := c.Message().Text
	if input != "-" {
		price, err := decimal.NewFromString(input)
		if err != nil || !price.IsPositive() {
			return c.Send("Enter a positive price or \"-\".")
		}
		if price.LessThanOrEqual(draft.CostBasis) {
			return c.Send("Take profit must be above the cost basis " + draft.CostBasis.StringFixed(2) + ".")
		}
		draft.Up = &price
	}

	draftPtr := &draft
	action := model.ExpectingLimitDown
	ctrl.store.Update(chatID, model.Partial{Action: &action, DraftLimits: &draftPtr})

	return c.Send("Stop-loss price? (must be below cost basis; send \"-\" to clear)")
}

func (ctrl *Controller) ProcessLimitDown(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID
	session := ctrl.store.Get(chatID)

	if session.DraftLimits == nil {
		return ctrl.resetAction(c)
	}

	draft := *session.DraftLimits

	input := c.Message().Text
	if input != "-" {
		price, err := decimal.NewFromString(input)
		if err != nil || !price.IsPositive() {
			return c.Send("Enter a positive price or \"-\".")
		}
		if price.GreaterThanOrEqual(draft.CostBasis) {
			return c.Send("Stop loss must be below the cost basis " + draft.CostBasis.StringFixed(2) + ".")
		}
		draft.Down = &price
	}

	expiration := time.Now().Add(defaultLimitLifetime).Format(apiModel.DateLayout)
	req := apiModel.UpdateLimitsRequest{}
	if draft.Up != nil {
		req.LimitUpPrice = draft.Up
		req.LimitUpExpiration = &expiration
	}
	if draft.Down != nil {
		req.LimitDownPrice = draft.Down
		req.LimitDownExpiration = &expiration
	}

	_, err := ctrl.service.UpdateLotLimits(ctx, draft.LotID, req)
	if err != nil {
		slog.Error("got error from service.UpdateLotLimits", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Update failed: " + err.Error())
	}

	action := model.DefaultAction
	var cleared *model.LimitsDraft
	ctrl.store.Update(chatID, model.Partial{Action: &action, DraftLimits: &cleared})

	ctrl.publishChange(chatID)

	return c.Send("✅ Limits updated for " + draft.Ticker + ".")
}

func (ctrl *Controller) resetAction(c tele.Context) error {
	action := model.DefaultAction
	ctrl.store.Update(c.Chat().ID, model.Partial{Action: &action})
	return c.Send("Start over from one of the screens.")
}
