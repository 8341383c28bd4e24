package tgbot

import (
	"log/slog"
	"strings"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/config"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/tg/tgCallback"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/state"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/transport/telegram"
	customMW "github.com/JoeOster/stock-tracker-app-v2-sub001/internal/transport/telegram/middleware"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type TGBot struct {
	bot   *tele.Bot
	ctrl  *telegram.Controller
	store *state.Store
}

func New(cfg *config.Config, ctrl *telegram.Controller, store *state.Store) *TGBot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	ctrl.AttachSender(b)
	ctrl.InitHandlers()

	return &TGBot{bot: b, ctrl: ctrl, store: store}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle("/start", b.ctrl.Start)

	b.bot.Handle("/dashboard", b.showView(model.ViewDashboard))
	b.bot.Handle("/orders", b.showView(model.ViewOrders))
	b.bot.Handle("/ledger", b.showView(model.ViewLedger))
	b.bot.Handle("/alerts", b.showView(model.ViewAlerts))
	b.bot.Handle("/sources", b.showView(model.ViewSources))
	b.bot.Handle("/settings", b.showView(model.ViewSettings))

	// Typed input routes on the chat's current form step.
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		ctx := utils.CreateCtxWithRqID(c)
		rqID := utils.GetRequestIDFromCtx(ctx)

		session := b.store.Get(c.Chat().ID)

		switch session.Action {
		case model.ExpectingSellQuantity:
			return b.ctrl.ProcessSellQuantity(c)
		case model.ExpectingSellPrice:
			return b.ctrl.ProcessSellPrice(c)
		case model.ExpectingOrderTicker:
			return b.ctrl.ProcessOrderTicker(c)
		case model.ExpectingOrderExchange:
			return b.ctrl.ProcessOrderExchange(c)
		case model.ExpectingOrderLimitPrice:
			return b.ctrl.ProcessOrderLimitPrice(c)
		case model.ExpectingOrderQuantity:
			return b.ctrl.ProcessOrderQuantity(c)
		case model.ExpectingLimitUp:
			return b.ctrl.ProcessLimitUp(c)
		case model.ExpectingLimitDown:
			return b.ctrl.ProcessLimitDown(c)
		case model.ExpectingSourceName:
			return b.ctrl.ProcessSourceName(c)
		case model.ExpectingRiskPercent:
			return b.ctrl.ProcessRiskPercent(c)
		default:
			slog.Debug("text outside of a form step", slog.String("rqID", rqID), slog.Int64("chatID", c.Chat().ID))
			return c.Send("Use one of the commands: /dashboard /orders /ledger /alerts /sources /settings")
		}
	})

	b.bot.Handle(tele.OnCallback, b.dispatchCallback)
}

func (b *TGBot) showView(view model.View) tele.HandlerFunc {
	return func(c tele.Context) error {
		return b.ctrl.ShowView(c, view)
	}
}

// dispatchCallback routes button presses by their data prefix.
func (b *TGBot) dispatchCallback(c tele.Context) error {
	defer func() {
		_ = c.Respond()
	}()

	data := strings.TrimPrefix(strings.TrimSpace(c.Callback().Data), "\f")

	switch data {
	case tgCallback.ShowDashboard:
		return b.ctrl.ShowView(c, model.ViewDashboard)
	case tgCallback.ShowOrders:
		return b.ctrl.ShowView(c, model.ViewOrders)
	case tgCallback.ShowLedger:
		return b.ctrl.ShowView(c, model.ViewLedger)
	case tgCallback.ShowAlerts:
		return b.ctrl.ShowView(c, model.ViewAlerts)
	case tgCallback.ShowSources:
		return b.ctrl.ShowView(c, model.ViewSources)
	case tgCallback.ShowSettings:
		return b.ctrl.ShowView(c, model.ViewSettings)
	case tgCallback.ExportLedger:
		return b.ctrl.ExportLedger(c)
	case tgCallback.CreateOrder:
		return b.ctrl.StartOrderCreation(c)
	case tgCallback.AddSource:
		return b.ctrl.AddSource(c)
	case tgCallback.SaveSettings:
		return b.ctrl.SaveSettings(c)
	}

	for prefix, handler := range map[string]func(tele.Context, string) error{
		tgCallback.SellLotPrefix:        b.ctrl.SellLot,
		tgCallback.SetLimitsPrefix:      b.ctrl.SetLotLimits,
		tgCallback.DeleteTxPrefix:       b.ctrl.DeleteTransaction,
		tgCallback.SetDefHolderPrefix:   b.ctrl.SetDefaultHolder,
		tgCallback.OrderExchangePrefix:  b.ctrl.SetOrderExchange,
		tgCallback.FillOrderPrefix:      b.ctrl.FillOrder,
		tgCallback.CancelOrderPrefix:    b.ctrl.CancelOrder,
		tgCallback.SelectHolderPrefix:   b.ctrl.SelectHolder,
		tgCallback.DismissAlertPrefix:   b.ctrl.DismissAlert,
		tgCallback.SnoozeAlertPrefix:    b.ctrl.SnoozeAlert,
		tgCallback.SourceDetailPrefix:   b.ctrl.SourceDetail,
		tgCallback.OrderFromIdeaPrefix:  b.ctrl.OrderFromIdea,
		tgCallback.ToggleWatchPrefix:    b.ctrl.ToggleWatch,
		tgCallback.DeleteSourcePrefix:   b.ctrl.DeleteSource,
		tgCallback.LedgerSortPrefix:     b.ctrl.SortLedger,
		tgCallback.SetRiskPercentPrefix: b.ctrl.SetRiskPercent,
	} {
		if strings.HasPrefix(data, prefix) {
			return handler(c, strings.TrimPrefix(data, prefix))
		}
	}

	slog.Warn("unknown callback", slog.String("data", data))
	return nil
}
