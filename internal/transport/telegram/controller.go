// Package telegram holds the screen controllers. Every screen follows the
// same shape: a loader that reads the session filters, fetches, stores into
// its view-local cache and re-renders; and a handler initializer that wires
// callbacks plus a bus subscription re-running the loader. A successful
// mutation publishes the generic change event exactly once and never calls
// another screen's loader directly.
package telegram

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/config"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/converter/telebotConverter"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/eventbus"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/apiModel"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/router"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/service/journalService"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/state"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg   = "something went wrong..."
	holderScopeError = "Pick a specific account holder first — this action is not available for \"all\"."
)

type JournalService interface {
	ReferenceData(ctx context.Context) (journalService.ReferenceData, error)
	DashboardLots(ctx context.Context, holderID string) ([]model.Lot, error)
	LedgerTransactions(ctx context.Context, holderID string, ledgerSort model.LedgerSort) ([]model.Transaction, error)
	SubmitSale(ctx context.Context, holderID string, draft model.SaleDraft) (apiModel.OperationResult, error)
	UpdateLotLimits(ctx context.Context, lotID int64, req apiModel.UpdateLimitsRequest) (apiModel.OperationResult, error)
	DeleteTransaction(ctx context.Context, txID int64) (apiModel.OperationResult, error)
	PendingOrders(ctx context.Context, holderID string) ([]model.PendingOrder, error)
	CreateOrder(ctx context.Context, holderID string, draft model.OrderDraft) (apiModel.OperationResult, error)
	FillOrder(ctx context.Context, order model.PendingOrder, fillPrice decimal.Decimal) (apiModel.OperationResult, error)
	CancelOrder(ctx context.Context, order model.PendingOrder) (apiModel.OperationResult, error)
	Notifications(ctx context.Context) ([]model.Notification, error)
	UpdateNotificationStatus(ctx context.Context, notificationID int64, status model.NotificationStatus) (apiModel.OperationResult, error)
	SourceDetail(ctx context.Context, sourceID int64) (model.AdviceSource, error)
	SaveAdviceSource(ctx context.Context, sourceID int64, req apiModel.AdviceSourceRequest) (apiModel.OperationResult, error)
	DeleteAdviceSource(ctx context.Context, sourceID int64) (apiModel.OperationResult, error)
	ToggleWatch(ctx context.Context, source model.AdviceSource) (apiModel.OperationResult, error)
	ExportLedger(ctx context.Context, holderID string) (string, error)
}

type SettingsRepo interface {
	GetSettings(ctx context.Context, chatID int64) (model.Settings, error)
	SetSettings(ctx context.Context, chatID int64, settings model.Settings) error
}

// Sender is the rendering surface; *tele.Bot satisfies it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Controller struct {
	cfg          *config.Config
	service      JournalService
	settingsRepo SettingsRepo
	store        *state.Store
	bus          *eventbus.Bus
	router       *router.Router
	sender       Sender

	guard loadGuard
}

func NewController(cfg *config.Config, service JournalService, settingsRepo SettingsRepo, store *state.Store, bus *eventbus.Bus, rtr *router.Router) *Controller {
	ctrl := &Controller{
		cfg:          cfg,
		service:      service,
		settingsRepo: settingsRepo,
		store:        store,
		bus:          bus,
		router:       rtr,
		guard:        loadGuard{gens: make(map[guardKey]uint64)},
	}

	rtr.Register(model.ViewDashboard, ctrl.LoadDashboard)
	rtr.Register(model.ViewOrders, ctrl.LoadOrders)
	rtr.Register(model.ViewLedger, ctrl.LoadLedger)
	rtr.Register(model.ViewAlerts, ctrl.LoadAlerts)
	rtr.Register(model.ViewSources, ctrl.LoadSources)
	rtr.Register(model.ViewSettings, ctrl.LoadSettings)

	return ctrl
}

// AttachSender wires the bot as the rendering surface. Must happen before
// the first load; tgbot does it during construction.
func (ctrl *Controller) AttachSender(s Sender) {
	ctrl.sender = s
}

// InitHandlers registers the bus subscriptions: every screen re-runs its own
// loader on the generic change event, independent of where the change came
// from.
func (ctrl *Controller) InitHandlers() {
	reload := func(loader func(ctx context.Context, chatID int64) error) eventbus.Handler {
		return func(e eventbus.Event) {
			ctx := utils.NewCtxWithRqID()
			_ = loader(ctx, e.ChatID)
		}
	}

	ctrl.bus.Subscribe(eventbus.TopicJournalUpdated, reload(ctrl.LoadDashboard))
	ctrl.bus.Subscribe(eventbus.TopicJournalUpdated, reload(ctrl.LoadOrders))
	ctrl.bus.Subscribe(eventbus.TopicJournalUpdated, reload(ctrl.LoadLedger))
	ctrl.bus.Subscribe(eventbus.TopicJournalUpdated, reload(ctrl.LoadAlerts))
	ctrl.bus.Subscribe(eventbus.TopicJournalUpdated, reload(ctrl.LoadSources))

	ctrl.bus.Subscribe(eventbus.TopicSourceDetailsRefresh, ctrl.onSourceDetailsRefresh)

	// Price refreshes are not chat-scoped: re-render every chat currently
	// looking at the dashboard.
	ctrl.bus.Subscribe(eventbus.TopicPricesUpdated, func(e eventbus.Event) {
		for _, chatID := range ctrl.store.ChatIDs() {
			if ctrl.store.Get(chatID).CurrentView.Type == model.ViewDashboard {
				ctx := utils.NewCtxWithRqID()
				_ = ctrl.LoadDashboard(ctx, chatID)
			}
		}
	})
}

// render shows a screen to the chat, but only when that screen is the active
// view; background refreshes of hidden screens update the cache silently.
func (ctrl *Controller) render(chatID int64, view model.View, text string, markup *tele.ReplyMarkup) {
	if ctrl.store.Get(chatID).CurrentView.Type != view {
		return
	}
	if ctrl.sender == nil {
		return
	}
	if _, err := ctrl.sender.Send(tele.ChatID(chatID), text, markup); err != nil {
		slog.Error("failed to send message", slog.Int64("chatID", chatID), slog.String("err", err.Error()))
	}
}

func (ctrl *Controller) holderName(chatID int64) string {
	session := ctrl.store.Get(chatID)
	if session.SelectedHolderID == model.AllHolders {
		return "all holders"
	}
	for _, holder := range session.AllAccountHolders {
		if holder.ID == session.SelectedHolderID {
			return holder.Name
		}
	}
	return session.SelectedHolderID
}

// publishChange is the single place mutations announce themselves. Exactly
// one publish per successful create/update/delete.
func (ctrl *Controller) publishChange(chatID int64) {
	ctrl.bus.Publish(eventbus.TopicJournalUpdated, eventbus.Event{ChatID: chatID})
}

// Start greets a new chat: loads the reference collections, asks for an
// account holder scope and opens the dashboard.
func (ctrl *Controller) Start(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	ref, err := ctrl.service.ReferenceData(ctx)
	if err != nil {
		slog.Error("got error from service.ReferenceData", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	ctrl.store.Update(chatID, model.Partial{
		AllAccountHolders: &ref.Holders,
		AllExchanges:      &ref.Exchanges,
		AllAdviceSources:  &ref.Sources,
	})

	// Saved preferences scope the chat from the first screen on.
	if saved, err := ctrl.settingsRepo.GetSettings(ctx, chatID); err == nil {
		holderID := saved.DefaultHolderID
		ctrl.store.Update(chatID, model.Partial{Settings: &saved, SelectedHolderID: &holderID})
	}

	text, markup := telebotConverter.HolderPromptResponse(ref.Holders)
	if err := c.Send(text, markup); err != nil {
		return err
	}

	return ctrl.router.SwitchView(ctx, chatID, model.ViewDashboard, "")
}

// ShowView is the navigation entry point shared by the menu buttons and the
// slash commands.
func (ctrl *Controller) ShowView(c tele.Context, view model.View) error {
	ctx := utils.CreateCtxWithRqID(c)
	return ctrl.router.SwitchView(ctx, c.Chat().ID, view, "")
}

// SelectHolder is the global account-holder filter: it rescopes the session
// and re-runs the active view's loader.
func (ctrl *Controller) SelectHolder(c tele.Context, holderID string) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatID := c.Chat().ID

	ctrl.store.Update(chatID, model.Partial{SelectedHolderID: &holderID})

	session := ctrl.store.Get(chatID)
	view := session.CurrentView.Type
	if view == "" {
		view = model.ViewDashboard
	}
	return ctrl.router.SwitchView(ctx, chatID, view, session.CurrentView.Value)
}

type guardKey struct {
	view   model.View
	chatID int64
}

// loadGuard hands out per-view, per-chat load generations so that a response
// arriving after a newer load has started for the same view is discarded.
type loadGuard struct {
	mu   sync.Mutex
	gens map[guardKey]uint64
}

func (g *loadGuard) begin(view model.View, chatID int64) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := guardKey{view: view, chatID: chatID}
	g.gens[key]++
	return g.gens[key]
}

func (g *loadGuard) stale(view model.View, chatID int64, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[guardKey{view: view, chatID: chatID}] != gen
}
