package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/converter/telebotConverter"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const defaultOrderLifetime = 30 * 24 * time.Hour

func (ctrl *Controller) LoadOrders(ctx context.Context, chatID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	gen := ctrl.guard.begin(model.ViewOrders, chatID)

	holderID := ctrl.store.Get(chatID).SelectedHolderID

	orders, err := ctrl.service.PendingOrders(ctx, holderID)
	if err != nil {
		slog.Error("got error from service.PendingOrders", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.render(chatID, model.ViewOrders, "⚠️ Error loading orders.", nil)
		return err
	}

	if ctrl.guard.stale(model.ViewOrders, chatID, gen) {
		slog.Debug("discarding superseded orders load", slog.String("rqID", rqID), slog.Int64("chatID", chatID))
		return nil
	}

	ctrl.store.Update(chatID, model.Partial{PendingOrders: &orders})

	text, markup := telebotConverter.OrdersResponse(orders)
	ctrl.render(chatID, model.ViewOrders, text, markup)

	return nil
}

// StartOrderCreation opens the order form. The prefill transfer from the
// sources screen is consumed and cleared here no matter how the rest of the
// flow goes, including a scope-guard rejection: a lingering prefill would
// prime a later, unrelated form.
func (ctrl *Controller) StartOrderCreation(c tele.Context) error {
	chatID := c.Chat().ID

	prefill := ctrl.store.TakePrefill(chatID)

	if ctrl.store.Get(chatID).SelectedHolderID == model.AllHolders {
		return c.Send(holderScopeError)
	}

	if prefill != nil {
		sourceID := prefill.AdviceSourceID
		draft := &model.OrderDraft{
			Ticker:         prefill.Ticker,
			Exchange:       prefill.Exchange,
			LimitPrice:     prefill.Price,
			Expiration:     time.Now().Add(defaultOrderLifetime),
			AdviceSourceID: &sourceID,
		}
		ctrl.store.Update(chatID, model.Partial{DraftOrder: &draft})

		if err := c.Send("New order for " + prefill.Ticker + " (from idea)."); err != nil {
			return err
		}
		return ctrl.nextOrderStep(c, draft)
	}

	draft := &model.OrderDraft{Expiration: time.Now().Add(defaultOrderLifetime)}
	action := model.ExpectingOrderTicker
	ctrl.store.Update(chatID, model.Partial{Action: &action, DraftOrder: &draft})

	return c.Send("Ticker for the new order?")
}

// nextOrderStep advances the form to the first field the draft is still
// missing: exchange, then limit price, then quantity.
func (ctrl *Controller) nextOrderStep(c tele.Context, draft *model.OrderDraft) error {
	chatID := c.Chat().ID

	switch {
	case draft.Exchange == "":
		return ctrl.askOrderExchange(c)
	case draft.LimitPrice.IsZero():
		action := model.ExpectingOrderLimitPrice
		ctrl.store.Update(chatID, model.Partial{Action: &action})
		return c.Send("Limit price?")
	default:
		action := model.ExpectingOrderQuantity
		ctrl.store.Update(chatID, model.Partial{Action: &action})
		return c.Send("How many shares?")
	}
}

func (ctrl *Controller) askOrderExchange(c tele.Context) error {
	chatID := c.Chat().ID

	exchanges := ctrl.store.Get(chatID).AllExchanges
	if len(exchanges) == 0 {
		ctx := utils.CreateCtxWithRqID(c)
		if ref, err := ctrl.service.ReferenceData(ctx); err == nil {
			ctrl.store.Update(chatID, model.Partial{
				AllAccountHolders: &ref.Holders,
				AllExchanges:      &ref.Exchanges,
				AllAdviceSources:  &ref.Sources,
			})
			exchanges = ref.Exchanges
		}
	}

	action := model.ExpectingOrderExchange
	ctrl.store.Update(chatID, model.Partial{Action: &action})

	text, markup := telebotConverter.ExchangePromptResponse(exchanges)
	return c.Send(text, markup)
}

// SetOrderExchange handles the exchange picker buttons.
func (ctrl *Controller) SetOrderExchange(c tele.Context, name string) error {
	return ctrl.applyOrderExchange(c, name)
}

// ProcessOrderExchange handles a typed exchange name, for exchanges missing
// from the reference list.
func (ctrl *Controller) ProcessOrderExchange(c tele.Context) error {
	name := strings.TrimSpace(c.Message().Text)
	if name == "" {
		return c.Send("Exchange is required.")
	}
	return ctrl.applyOrderExchange(c, name)
}

func (ctrl *Controller) applyOrderExchange(c tele.Context, name string) error {
	chatID := c.Chat().ID
	session := ctrl.store.Get(chatID)

	if session.DraftOrder == nil {
		return ctrl.resetAction(c)
	}

	draft := *session.DraftOrder
	draft.Exchange = name
	draftPtr := &draft
	ctrl.store.Update(chatID, model.Partial{DraftOrder: &draftPtr})

	return ctrl.nextOrderStep(c, draftPtr)
}

func (ctrl *Controller) ProcessOrderTicker(c tele.Context) error {
	chatID := c.Chat().ID
	session := ctrl.store.Get(chatID)

	if session.DraftOrder == nil {
		return ctrl.resetAction(c)
	}

	ticker := strings.ToUpper(strings.TrimSpace(c.Message().Text))
	if ticker == "" {
		return c.Send("Ticker is required.")
	}

	draft := *session.DraftOrder
	draft.Ticker = ticker
	draftPtr := &draft
	ctrl.store.Update(chatID, model.Partial{DraftOrder: &draftPtr})

	return ctrl.nextOrderStep(c, draftPtr)
}

func (ctrl *Controller) ProcessOrderLimitPrice(c tele.Context) error {
	chatID := c.Chat().ID
	session := ctrl.store.Get(chatID)

	if session.DraftOrder == nil {
		return ctrl.resetAction(c)
	}

	price, err := decimal.NewFromString(c.Message().Text)
	if err != nil || !price.IsPositive() {
		return c.Send("Enter a positive limit price.")
	}

	draft := *session.DraftOrder
	draft.LimitPrice = price
	draftPtr := &draft
	ctrl.store.Update(chatID, model.Partial{DraftOrder: &draftPtr})

	return ctrl.nextOrderStep(c, draftPtr)
}

func (ctrl *Controller) ProcessOrderQuantity(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID
	session := ctrl.store.Get(chatID)

	if session.DraftOrder == nil {
		return ctrl.resetAction(c)
	}

	quantity, err := decimal.NewFromString(c.Message().Text)
	if err != nil || !quantity.IsPositive() {
		return c.Send("Enter a positive number of shares.")
	}

	draft := *session.DraftOrder
	draft.Quantity = quantity

	holderID := ctrl.store.Get(chatID).SelectedHolderID
	if holderID == model.AllHolders {
		return c.Send(holderScopeError)
	}

	_, err = ctrl.service.CreateOrder(ctx, holderID, draft)
	if err != nil {
		slog.Error("got error from service.CreateOrder", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Order failed: " + err.Error())
	}

	action := model.DefaultAction
	var cleared *model.OrderDraft
	ctrl.store.Update(chatID, model.Partial{Action: &action, DraftOrder: &cleared})

	ctrl.publishChange(chatID)

	return c.Send("✅ Order placed.")
}

// FillOrder marks a pending order filled at its limit price; the backend
// creates the BUY lot.
func (ctrl *Controller) FillOrder(c tele.Context, orderID string) error {
	return ctrl.finishOrder(c, orderID, true)
}

func (ctrl *Controller) CancelOrder(c tele.Context, orderID string) error {
	return ctrl.finishOrder(c, orderID, false)
}

func (ctrl *Controller) finishOrder(c tele.Context, orderID string, fill bool) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	id, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	session := ctrl.store.Get(chatID)
	var order *model.PendingOrder
	for i := range session.PendingOrders {
		if session.PendingOrders[i].ID == id {
			order = &session.PendingOrders[i]
			break
		}
	}
	if order == nil {
		return c.Send("That order is gone. Refresh the orders screen.")
	}

	if fill {
		_, err = ctrl.service.FillOrder(ctx, *order, order.LimitPrice)
	} else {
		_, err = ctrl.service.CancelOrder(ctx, *order)
	}
	if err != nil {
		slog.Error("got error finishing order", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Update failed: " + err.Error())
	}

	ctrl.publishChange(chatID)

	if fill {
		return c.Send("✅ Order filled.")
	}
	return c.Send("✅ Order cancelled.")
}
