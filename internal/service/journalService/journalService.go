// Package journalService orchestrates the REST gateway, the price cache and
// the export pipeline for the screen controllers. It holds no UI state; the
// state store belongs to the transport layer.
package journalService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/externalApi"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/apiModel"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/service"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	"github.com/shopspring/decimal"
)

type JournalApi interface {
	GetOpenLots(ctx context.Context, holderID string) ([]model.Lot, error)
	GetTransactions(ctx context.Context, holderID string) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, req apiModel.CreateTransactionRequest) (apiModel.OperationResult, error)
	UpdateLotLimits(ctx context.Context, lotID int64, req apiModel.UpdateLimitsRequest) (apiModel.OperationResult, error)
	DeleteTransaction(ctx context.Context, txID int64) (apiModel.OperationResult, error)
	GetPendingOrders(ctx context.Context, holderID string) ([]model.PendingOrder, error)
	CreateOrder(ctx context.Context, req apiModel.CreateOrderRequest) (apiModel.OperationResult, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, req apiModel.OrderStatusRequest) (apiModel.OperationResult, error)
	GetAccountHolders(ctx context.Context) ([]model.AccountHolder, error)
	GetExchanges(ctx context.Context) ([]model.Exchange, error)
	GetAdviceSources(ctx context.Context) ([]model.AdviceSource, error)
	GetAdviceSource(ctx context.Context, sourceID int64) (model.AdviceSource, error)
	CreateAdviceSource(ctx context.Context, req apiModel.AdviceSourceRequest) (apiModel.OperationResult, error)
	UpdateAdviceSource(ctx context.Context, sourceID int64, req apiModel.AdviceSourceRequest) (apiModel.OperationResult, error)
	DeleteAdviceSource(ctx context.Context, sourceID int64) (apiModel.OperationResult, error)
	GetNotifications(ctx context.Context) ([]model.Notification, error)
	UpdateNotificationStatus(ctx context.Context, notificationID int64, status model.NotificationStatus) (apiModel.OperationResult, error)
	AddWatchlistItem(ctx context.Context, req apiModel.WatchlistRequest) (apiModel.OperationResult, error)
	RemoveWatchlistItem(ctx context.Context, ticker string) (apiModel.OperationResult, error)
	GetQuotes(ctx context.Context, tickers []string) ([]apiModel.Quote, error)
	CreateSnapshot(ctx context.Context, req apiModel.SnapshotRequest) (apiModel.OperationResult, error)
}

type Cache interface {
	SetPrices(ctx context.Context, prices map[string]decimal.Decimal) error
	GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
	GetPrices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.LedgerReport) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader *bytes.Reader, filename string) (downloadLink string, err error)
}

type ReferenceData struct {
	Holders   []model.AccountHolder
	Exchanges []model.Exchange
	Sources   []model.AdviceSource
}

type JournalService struct {
	api          JournalApi
	cache        Cache
	reportGen    ReportGenerator
	cloudStorage CloudStorage
}

func New(api JournalApi, cache Cache, reportGen ReportGenerator, cloudStorage CloudStorage) *JournalService {
	return &JournalService{
		api:          api,
		cache:        cache,
		reportGen:    reportGen,
		cloudStorage: cloudStorage,
	}
}

// ReferenceData fetches the server-side collections the screens cache in the
// session: account holders, exchanges, advice sources.
func (s *JournalService) ReferenceData(ctx context.Context) (ReferenceData, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "JournalService.ReferenceData"

	slog.Debug("ReferenceData start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("ReferenceData finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	holders, err := s.api.GetAccountHolders(ctx)
	if err != nil {
		return ReferenceData{}, err
	}

	exchanges, err := s.api.GetExchanges(ctx)
	if err != nil {
		return ReferenceData{}, err
	}

	sources, err := s.api.GetAdviceSources(ctx)
	if err != nil {
		return ReferenceData{}, err
	}

	return ReferenceData{Holders: holders, Exchanges: exchanges, Sources: sources}, nil
}

// DashboardLots returns the open lots for a holder, enriched with cached
// prices where available. A missing price leaves CurrentPrice zero.
func (s *JournalService) DashboardLots(ctx context.Context, holderID string) ([]model.Lot, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "JournalService.DashboardLots"

	slog.Debug("DashboardLots start", slog.String("rqID", rqID), slog.String("op", op), slog.String("holderID", holderID))
	defer func() {
		slog.Debug("DashboardLots finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	lots, err := s.api.GetOpenLots(ctx, holderID)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(lots))
	for _, lot := range lots {
		tickers = append(tickers, lot.Ticker)
	}

	prices, err := s.cache.GetPrices(ctx, tickers)
	if err != nil {
		slog.Warn("can't get prices from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return lots, nil
	}

	for i := range lots {
		if price, ok := prices[lots[i].Ticker]; ok {
			lots[i].CurrentPrice = price
		}
	}

	return lots, nil
}

// LedgerTransactions fetches the holder's ledger and applies the session's
// sort locally, the way the browser table did.
func (s *JournalService) LedgerTransactions(ctx context.Context, holderID string, ledgerSort model.LedgerSort) ([]model.Transaction, error) {
	txs, err := s.api.GetTransactions(ctx, holderID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(txs, func(i, j int) bool {
		var less bool
		switch ledgerSort.Field {
		case model.LedgerSortTicker:
			less = txs[i].Ticker < txs[j].Ticker
		case model.LedgerSortTotal:
			less = txs[i].Total.LessThan(txs[j].Total)
		default:
			less = txs[i].Date.Before(txs[j].Date)
		}
		if ledgerSort.Desc {
			return !less
		}
		return less
	})

	return txs, nil
}

// SubmitSale records a SELL transaction against a lot.
func (s *JournalService) SubmitSale(ctx context.Context, holderID string, draft model.SaleDraft) (apiModel.OperationResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "JournalService.SubmitSale"

	slog.Debug("SubmitSale start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", draft.Ticker))
	defer func() {
		slog.Debug("SubmitSale finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", draft.Ticker))
	}()

	lotID := draft.LotID
	req := apiModel.CreateTransactionRequest{
		Side:            string(model.SideSell),
		Ticker:          draft.Ticker,
		Exchange:        draft.Exchange,
		AccountHolderID: holderID,
		Quantity:        draft.Quantity,
		Price:           draft.Price,
		Date:            time.Now().Format(apiModel.DateLayout),
		LotID:           &lotID,
	}

	return s.api.CreateTransaction(ctx, req)
}

func (s *JournalService) PendingOrders(ctx context.Context, holderID string) ([]model.PendingOrder, error) {
	return s.api.GetPendingOrders(ctx, holderID)
}

func (s *JournalService) CreateOrder(ctx context.Context, holderID string, draft model.OrderDraft) (apiModel.OperationResult, error) {
	req := apiModel.CreateOrderRequest{
		Ticker:          draft.Ticker,
		Exchange:        draft.Exchange,
		AccountHolderID: holderID,
		LimitPrice:      draft.LimitPrice,
		Quantity:        draft.Quantity,
		Expiration:      draft.Expiration.Format(apiModel.DateLayout),
		AdviceSourceID:  draft.AdviceSourceID,
	}

	return s.api.CreateOrder(ctx, req)
}

// FillOrder marks an ACTIVE order FILLED; the backend creates the matching
// BUY lot. Terminal orders are rejected before any call.
func (s *JournalService) FillOrder(ctx context.Context, order model.PendingOrder, fillPrice decimal.Decimal) (apiModel.OperationResult, error) {
	if order.Status != model.OrderActive {
		return apiModel.OperationResult{}, service.ErrOrderTerminal
	}

	req := apiModel.OrderStatusRequest{Status: string(model.OrderFilled), FillPrice: &fillPrice}
	return s.api.UpdateOrderStatus(ctx, order.ID, req)
}

func (s *JournalService) CancelOrder(ctx context.Context, order model.PendingOrder) (apiModel.OperationResult, error) {
	if order.Status != model.OrderActive {
		return apiModel.OperationResult{}, service.ErrOrderTerminal
	}

	return s.api.UpdateOrderStatus(ctx, order.ID, apiModel.OrderStatusRequest{Status: string(model.OrderCancelled)})
}

func (s *JournalService) UpdateLotLimits(ctx context.Context, lotID int64, req apiModel.UpdateLimitsRequest) (apiModel.OperationResult, error) {
	return s.api.UpdateLotLimits(ctx, lotID, req)
}

func (s *JournalService) DeleteTransaction(ctx context.Context, txID int64) (apiModel.OperationResult, error) {
	return s.api.DeleteTransaction(ctx, txID)
}

func (s *JournalService) Notifications(ctx context.Context) ([]model.Notification, error) {
	return s.api.GetNotifications(ctx)
}

func (s *JournalService) UpdateNotificationStatus(ctx context.Context, notificationID int64, status model.NotificationStatus) (apiModel.OperationResult, error) {
	return s.api.UpdateNotificationStatus(ctx, notificationID, status)
}

// SourceDetail fetches one advice source, enriched with the cached price of
// its ticker when there is one. A cache miss leaves CurrentPrice zero.
func (s *JournalService) SourceDetail(ctx context.Context, sourceID int64) (model.AdviceSource, error) {
	source, err := s.api.GetAdviceSource(ctx, sourceID)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			return model.AdviceSource{}, service.ErrNotFound
		}
		return model.AdviceSource{}, err
	}

	if source.Ticker != "" {
		if price, priceErr := s.cache.GetPrice(ctx, source.Ticker); priceErr == nil {
			source.CurrentPrice = price
		}
	}

	return source, nil
}

func (s *JournalService) SaveAdviceSource(ctx context.Context, sourceID int64, req apiModel.AdviceSourceRequest) (apiModel.OperationResult, error) {
	if sourceID == 0 {
		return s.api.CreateAdviceSource(ctx, req)
	}
	return s.api.UpdateAdviceSource(ctx, sourceID, req)
}

func (s *JournalService) DeleteAdviceSource(ctx context.Context, sourceID int64) (apiModel.OperationResult, error) {
	return s.api.DeleteAdviceSource(ctx, sourceID)
}

// ToggleWatch adds the source's ticker to the watchlist or removes it,
// depending on its current flag.
func (s *JournalService) ToggleWatch(ctx context.Context, source model.AdviceSource) (apiModel.OperationResult, error) {
	if source.Watched {
		return s.api.RemoveWatchlistItem(ctx, source.Ticker)
	}
	return s.api.AddWatchlistItem(ctx, apiModel.WatchlistRequest{Ticker: source.Ticker})
}

// RefreshPrices is the polling job body: it pulls quotes for every open
// ticker and overwrites the cache. Writers never block each other; the last
// write wins.
func (s *JournalService) RefreshPrices(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "JournalService.RefreshPrices"

	slog.Debug("RefreshPrices start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("RefreshPrices finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	lots, err := s.api.GetOpenLots(ctx, model.AllHolders)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(lots))
	tickers := make([]string, 0, len(lots))
	for _, lot := range lots {
		if _, ok := seen[lot.Ticker]; ok {
			continue
		}
		seen[lot.Ticker] = struct{}{}
		tickers = append(tickers, lot.Ticker)
	}

	if len(tickers) == 0 {
		return nil
	}

	quotes, err := s.api.GetQuotes(ctx, tickers)
	if err != nil {
		return err
	}

	prices := make(map[string]decimal.Decimal, len(quotes))
	for _, quote := range quotes {
		prices[quote.Ticker] = quote.Price
	}

	return s.cache.SetPrices(ctx, prices)
}

// ExportLedger renders the holder's ledger to a spreadsheet, uploads it to
// cloud storage and registers the snapshot with the backend. Returns the
// share link.
func (s *JournalService) ExportLedger(ctx context.Context, holderID string) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "JournalService.ExportLedger"

	slog.Debug("ExportLedger start", slog.String("rqID", rqID), slog.String("op", op), slog.String("holderID", holderID))
	defer func() {
		slog.Debug("ExportLedger finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	txs, err := s.api.GetTransactions(ctx, holderID)
	if err != nil {
		return "", err
	}

	lots, err := s.api.GetOpenLots(ctx, holderID)
	if err != nil {
		return "", err
	}

	report := model.LedgerReport{
		HolderID:     holderID,
		GeneratedAt:  time.Now(),
		OpenLots:     lots,
		Transactions: txs,
	}

	fileBytes, ext, err := s.reportGen.Generate(ctx, report)
	if err != nil {
		slog.Error("got error from reportGen.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	filename := fmt.Sprintf("ledger_%s_%s%s", holderID, time.Now().Format("2006-01-02_15-04-05"), ext)

	link, err := s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
	if err != nil {
		slog.Error("got error from cloudStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	_, err = s.api.CreateSnapshot(ctx, apiModel.SnapshotRequest{FileName: filename, DownloadLink: link})
	if err != nil {
		slog.Error("got error from api.CreateSnapshot", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	return link, nil
}
