package telegram

import (
	"context"
	"testing"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/config"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/eventbus"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/apiModel"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/router"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/service/journalService"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/state"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

type fakeService struct {
	referenceDataCalls int
	dashboardCalls     int
	ledgerCalls        int
	ordersCalls        int
	notificationsCalls int
	submitSaleCalls    int

	lots          []model.Lot
	exchanges     []model.Exchange
	createdOrders []model.OrderDraft
	savedSources  []apiModel.AdviceSourceRequest
}

func (f *fakeService) ReferenceData(ctx context.Context) (journalService.ReferenceData, error) {
	f.referenceDataCalls++
	return journalService.ReferenceData{Exchanges: f.exchanges}, nil
}

func (f *fakeService) DashboardLots(ctx context.Context, holderID string) ([]model.Lot, error) {
	f.dashboardCalls++
	return f.lots, nil
}

func (f *fakeService) LedgerTransactions(ctx context.Context, holderID string, ledgerSort model.LedgerSort) ([]model.Transaction, error) {
	f.ledgerCalls++
	return nil, nil
}

func (f *fakeService) SubmitSale(ctx context.Context, holderID string, draft model.SaleDraft) (apiModel.OperationResult, error) {
	f.submitSaleCalls++
	return apiModel.OperationResult{Message: "Operation successful."}, nil
}

func (f *fakeService) UpdateLotLimits(ctx context.Context, lotID int64, req apiModel.UpdateLimitsRequest) (apiModel.OperationResult, error) {
	return apiModel.OperationResult{}, nil
}

func (f *fakeService) DeleteTransaction(ctx context.Context, txID int64) (apiModel.OperationResult, error) {
	return apiModel.OperationResult{}, nil
}

func (f *fakeService) PendingOrders(ctx context.Context, holderID string) ([]model.PendingOrder, error) {
	f.ordersCalls++
	return nil, nil
}

func (f *fakeService) CreateOrder(ctx context.Context, holderID string, draft model.OrderDraft) (apiModel.OperationResult, error) {
	f.createdOrders = append(f.createdOrders, draft)
	return apiModel.OperationResult{}, nil
}

func (f *fakeService) FillOrder(ctx context.Context, order model.PendingOrder, fillPrice decimal.Decimal) (apiModel.OperationResult, error) {
	return apiModel.OperationResult{}, nil
}

func (f *fakeService) CancelOrder(ctx context.Context, order model.PendingOrder) (apiModel.OperationResult, error) {
	return apiModel.OperationResult{}, nil
}

func (f *fakeService) Notifications(ctx context.Context) ([]model.Notification, error) {
	f.notificationsCalls++
	return nil, nil
}

func (f *fakeService) UpdateNotificationStatus(ctx context.Context, notificationID int64, status model.NotificationStatus) (apiModel.OperationResult, error) {
	return apiModel.OperationResult{}, nil
}

func (f *fakeService) SourceDetail(ctx context.Context, sourceID int64) (model.AdviceSource, error) {
	return model.AdviceSource{}, nil
}

func (f *fakeService) SaveAdviceSource(ctx context.Context, sourceID int64, req apiModel.AdviceSourceRequest) (apiModel.OperationResult, error) {
	f.savedSources = append(f.savedSources, req)
	return apiModel.OperationResult{}, nil
}

func (f *fakeService) DeleteAdviceSource(ctx context.Context, sourceID int64) (apiModel.OperationResult, error) {
	return apiModel.OperationResult{}, nil
}

func (f *fakeService) ToggleWatch(ctx context.Context, source model.AdviceSource) (apiModel.OperationResult, error) {
	return apiModel.OperationResult{}, nil
}

func (f *fakeService) ExportLedger(ctx context.Context, holderID string) (string, error) {
	return "", nil
}

func (f *fakeService) totalCalls() int {
	return f.referenceDataCalls + f.dashboardCalls + f.ledgerCalls + f.ordersCalls + f.notificationsCalls + f.submitSaleCalls
}

type fakeSettingsRepo struct{}

func (f *fakeSettingsRepo) GetSettings(ctx context.Context, chatID int64) (model.Settings, error) {
	return model.DefaultSettings(), nil
}

func (f *fakeSettingsRepo) SetSettings(ctx context.Context, chatID int64, settings model.Settings) error {
	return nil
}

// fakeTeleCtx implements just enough of tele.Context for the handlers under
// test; anything else panics via the embedded nil interface.
type fakeTeleCtx struct {
	tele.Context

	chatID int64
	text   string
	sent   []string
}

func (f *fakeTeleCtx) Chat() *tele.Chat { return &tele.Chat{ID: f.chatID} }

func (f *fakeTeleCtx) Message() *tele.Message { return &tele.Message{Text: f.text} }

func (f *fakeTeleCtx) Get(key string) any { return nil }

func (f *fakeTeleCtx) Send(what interface{}, opts ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

func newTestController(service JournalService) (*Controller, *state.Store, *eventbus.Bus) {
	store := state.NewStore()
	bus := eventbus.New()
	rtr := router.New(store)
	ctrl := NewController(&config.Config{}, service, &fakeSettingsRepo{}, store, bus, rtr)
	return ctrl, store, bus
}

func TestSellLotRequiresSpecificHolder(t *testing.T) {
	service := &fakeService{}
	ctrl, _, _ := newTestController(service)

	c := &fakeTeleCtx{chatID: 1}

	if err := ctrl.SellLot(c, "5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if service.totalCalls() != 0 {
		t.Errorf("expected no backend calls with the all-holders scope, got %d", service.totalCalls())
	}
	if len(c.sent) != 1 || c.sent[0] != holderScopeError {
		t.Errorf("expected holder scope error message, got %v", c.sent)
	}
}

func TestSuccessfulSalePublishesOnceAndReloadsEachScreen(t *testing.T) {
	lot := model.Lot{
		ID:                5,
		Ticker:            "AAPL",
		Quantity:          decimal.NewFromInt(10),
		QuantityRemaining: decimal.NewFromInt(10),
	}
	service := &fakeService{lots: []model.Lot{lot}}
	ctrl, store, bus := newTestController(service)
	ctrl.InitHandlers()

	publishes := 0
	bus.Subscribe(eventbus.TopicJournalUpdated, func(e eventbus.Event) { publishes++ })

	holder := "alice"
	lots := []model.Lot{lot}
	store.Update(1, model.Partial{SelectedHolderID: &holder, DashboardOpenLots: &lots})

	if err := ctrl.SellLot(&fakeTeleCtx{chatID: 1}, "5"); err != nil {
		t.Fatalf("SellLot: %v", err)
	}
	if err := ctrl.ProcessSellQuantity(&fakeTeleCtx{chatID: 1, text: "3"}); err != nil {
		t.Fatalf("ProcessSellQuantity: %v", err)
	}
	if err := ctrl.ProcessSellPrice(&fakeTeleCtx{chatID: 1, text: "150.50"}); err != nil {
		t.Fatalf("ProcessSellPrice: %v", err)
	}

	if service.submitSaleCalls != 1 {
		t.Errorf("expected exactly one sale submission, got %d", service.submitSaleCalls)
	}
	if publishes != 1 {
		t.Errorf("expected exactly one change publish, got %d", publishes)
	}
	if service.dashboardCalls != 1 || service.ordersCalls != 1 || service.ledgerCalls != 1 ||
		service.notificationsCalls != 1 || service.referenceDataCalls != 1 {
		t.Errorf("expected each subscribed loader to run once, got dashboard=%d orders=%d ledger=%d alerts=%d sources=%d",
			service.dashboardCalls, service.ordersCalls, service.ledgerCalls, service.notificationsCalls, service.referenceDataCalls)
	}

	session := store.Get(1)
	if session.DraftSale != nil || session.Action != model.DefaultAction {
		t.Errorf("sale draft not cleared after success: %+v", session)
	}
}

func TestSellQuantityValidatedAgainstRemaining(t *testing.T) {
	lot := model.Lot{
		ID:                5,
		Ticker:            "AAPL",
		QuantityRemaining: decimal.NewFromInt(2),
	}
	service := &fakeService{lots: []model.Lot{lot}}
	ctrl, store, _ := newTestController(service)

	holder := "alice"
	lots := []model.Lot{lot}
	store.Update(1, model.Partial{SelectedHolderID: &holder, DashboardOpenLots: &lots})

	_ = ctrl.SellLot(&fakeTeleCtx{chatID: 1}, "5")

	if err := ctrl.ProcessSellQuantity(&fakeTeleCtx{chatID: 1, text: "3"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Get(1).Action != model.ExpectingSellQuantity {
		t.Error("over-remaining quantity must keep the chat on the quantity step")
	}
	if service.submitSaleCalls != 0 {
		t.Error("no submission may happen on invalid quantity")
	}
}

func TestStartOrderCreationConsumesPrefill(t *testing.T) {
	service := &fakeService{exchanges: []model.Exchange{{ID: 1, Name: "NASDAQ"}}}
	ctrl, store, _ := newTestController(service)

	holder := "alice"
	prefill := &model.PrefillOrder{Ticker: "MSFT", Price: decimal.NewFromInt(300), AdviceSourceID: 7}
	store.Update(1, model.Partial{SelectedHolderID: &holder, PrefillOrderFromSource: &prefill})

	if err := ctrl.StartOrderCreation(&fakeTeleCtx{chatID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session := store.Get(1)
	if session.PrefillOrderFromSource != nil {
		t.Error("prefill must be cleared on consumption")
	}
	if session.Action != model.ExpectingOrderExchange {
		t.Errorf("prefill has no exchange, form should ask for one, got %v", session.Action)
	}
	if session.DraftOrder == nil || session.DraftOrder.Ticker != "MSFT" {
		t.Errorf("draft not primed from prefill: %+v", session.DraftOrder)
	}
	if session.DraftOrder.AdviceSourceID == nil || *session.DraftOrder.AdviceSourceID != 7 {
		t.Error("advice source not carried into the draft")
	}

	// Exchange picked; the price came with the prefill, so quantity is next.
	if err := ctrl.SetOrderExchange(&fakeTeleCtx{chatID: 1}, "NASDAQ"); err != nil {
		t.Fatalf("SetOrderExchange: %v", err)
	}
	session = store.Get(1)
	if session.Action != model.ExpectingOrderQuantity {
		t.Errorf("priced prefill should skip the limit-price step, got %v", session.Action)
	}
	if session.DraftOrder.Exchange != "NASDAQ" {
		t.Errorf("exchange not applied to the draft: %+v", session.DraftOrder)
	}
}

func TestOrderCarriesSelectedExchange(t *testing.T) {
	service := &fakeService{exchanges: []model.Exchange{{ID: 1, Name: "NYSE"}, {ID: 2, Name: "Other"}}}
	ctrl, store, _ := newTestController(service)

	holder := "alice"
	store.Update(1, model.Partial{SelectedHolderID: &holder})

	if err := ctrl.StartOrderCreation(&fakeTeleCtx{chatID: 1}); err != nil {
		t.Fatalf("StartOrderCreation: %v", err)
	}
	if err := ctrl.ProcessOrderTicker(&fakeTeleCtx{chatID: 1, text: "aapl"}); err != nil {
		t.Fatalf("ProcessOrderTicker: %v", err)
	}
	if store.Get(1).Action != model.ExpectingOrderExchange {
		t.Fatalf("ticker step must lead to the exchange step, got %v", store.Get(1).Action)
	}

	if err := ctrl.SetOrderExchange(&fakeTeleCtx{chatID: 1}, "NYSE"); err != nil {
		t.Fatalf("SetOrderExchange: %v", err)
	}
	if store.Get(1).Action != model.ExpectingOrderLimitPrice {
		t.Fatalf("exchange step must lead to the limit-price step, got %v", store.Get(1).Action)
	}

	if err := ctrl.ProcessOrderLimitPrice(&fakeTeleCtx{chatID: 1, text: "150"}); err != nil {
		t.Fatalf("ProcessOrderLimitPrice: %v", err)
	}
	if err := ctrl.ProcessOrderQuantity(&fakeTeleCtx{chatID: 1, text: "10"}); err != nil {
		t.Fatalf("ProcessOrderQuantity: %v", err)
	}

	if len(service.createdOrders) != 1 {
		t.Fatalf("expected one created order, got %d", len(service.createdOrders))
	}
	order := service.createdOrders[0]
	if order.Exchange != "NYSE" {
		t.Errorf("order submitted with exchange %q, want NYSE", order.Exchange)
	}
	if order.Ticker != "AAPL" {
		t.Errorf("order ticker %q, want AAPL", order.Ticker)
	}
}

func TestTypedExchangeAccepted(t *testing.T) {
	service := &fakeService{}
	ctrl, store, _ := newTestController(service)

	holder := "alice"
	store.Update(1, model.Partial{SelectedHolderID: &holder})

	_ = ctrl.StartOrderCreation(&fakeTeleCtx{chatID: 1})
	_ = ctrl.ProcessOrderTicker(&fakeTeleCtx{chatID: 1, text: "AAPL"})

	if err := ctrl.ProcessOrderExchange(&fakeTeleCtx{chatID: 1, text: "Euronext"}); err != nil {
		t.Fatalf("ProcessOrderExchange: %v", err)
	}

	session := store.Get(1)
	if session.DraftOrder == nil || session.DraftOrder.Exchange != "Euronext" {
		t.Errorf("typed exchange not applied: %+v", session.DraftOrder)
	}
	if session.Action != model.ExpectingOrderLimitPrice {
		t.Errorf("expected limit-price step after exchange, got %v", session.Action)
	}
}

func TestPrefillClearedEvenWhenScopeGuardFires(t *testing.T) {
	service := &fakeService{}
	ctrl, store, _ := newTestController(service)

	prefill := &model.PrefillOrder{Ticker: "MSFT", AdviceSourceID: 7}
	store.Update(1, model.Partial{PrefillOrderFromSource: &prefill})

	c := &fakeTeleCtx{chatID: 1}
	if err := ctrl.StartOrderCreation(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.sent) != 1 || c.sent[0] != holderScopeError {
		t.Fatalf("expected holder scope error, got %v", c.sent)
	}
	if store.Get(1).PrefillOrderFromSource != nil {
		t.Error("rejected form opening must still consume the prefill")
	}

	// A later, unrelated press must open a blank form.
	holder := "alice"
	store.Update(1, model.Partial{SelectedHolderID: &holder})
	if err := ctrl.StartOrderCreation(&fakeTeleCtx{chatID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Get(1).Action != model.ExpectingOrderTicker {
		t.Errorf("stale prefill primed a later form, got %v", store.Get(1).Action)
	}
}

func TestAddSourceOpensNameStep(t *testing.T) {
	service := &fakeService{}
	ctrl, store, _ := newTestController(service)

	if err := ctrl.AddSource(&fakeTeleCtx{chatID: 1}); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if store.Get(1).Action != model.ExpectingSourceName {
		t.Fatalf("expected name step, got %v", store.Get(1).Action)
	}

	if err := ctrl.ProcessSourceName(&fakeTeleCtx{chatID: 1, text: "Uncle Jim"}); err != nil {
		t.Fatalf("ProcessSourceName: %v", err)
	}
	if len(service.savedSources) != 1 || service.savedSources[0].Name != "Uncle Jim" {
		t.Errorf("source not created: %+v", service.savedSources)
	}
	if store.Get(1).Action != model.DefaultAction {
		t.Error("action not reset after creating a source")
	}
}

func TestStartOrderCreationWithoutPrefillAsksForTicker(t *testing.T) {
	service := &fakeService{}
	ctrl, store, _ := newTestController(service)

	holder := "alice"
	store.Update(1, model.Partial{SelectedHolderID: &holder})

	if err := ctrl.StartOrderCreation(&fakeTeleCtx{chatID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Get(1).Action != model.ExpectingOrderTicker {
		t.Errorf("expected ticker step, got %v", store.Get(1).Action)
	}
}

func TestLimitUpMustExceedCostBasis(t *testing.T) {
	lot := model.Lot{
		ID:        5,
		Ticker:    "AAPL",
		CostBasis: decimal.NewFromInt(150),
	}
	service := &fakeService{lots: []model.Lot{lot}}
	ctrl, store, _ := newTestController(service)

	holder := "alice"
	lots := []model.Lot{lot}
	store.Update(1, model.Partial{SelectedHolderID: &holder, DashboardOpenLots: &lots})

	_ = ctrl.SetLotLimits(&fakeTeleCtx{chatID: 1}, "5")

	if err := ctrl.ProcessLimitUp(&fakeTeleCtx{chatID: 1, text: "140"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Get(1).Action != model.ExpectingLimitUp {
		t.Error("take-profit at or below cost basis must keep the chat on the same step")
	}

	if err := ctrl.ProcessLimitUp(&fakeTeleCtx{chatID: 1, text: "200"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Get(1).Action != model.ExpectingLimitDown {
		t.Error("valid take-profit must advance to the stop-loss step")
	}
}

func TestRenderSkipsInactiveView(t *testing.T) {
	service := &fakeService{lots: []model.Lot{{ID: 1, Ticker: "AAPL"}}}
	ctrl, store, _ := newTestController(service)

	sent := 0
	ctrl.AttachSender(senderFunc(func(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
		sent++
		return &tele.Message{}, nil
	}))

	view := model.CurrentView{Type: model.ViewLedger}
	store.Update(1, model.Partial{CurrentView: &view})

	if err := ctrl.LoadDashboard(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sent != 0 {
		t.Errorf("dashboard rendered while ledger is active, sent=%d", sent)
	}
	if len(store.Get(1).DashboardOpenLots) != 1 {
		t.Error("background load must still refresh the cache")
	}
}

type senderFunc func(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)

func (f senderFunc) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	return f(to, what, opts...)
}
