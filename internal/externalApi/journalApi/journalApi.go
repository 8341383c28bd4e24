// Package journalApi is the gateway to the trade-journal REST backend. Each
// method does one request and runs the shared handleResponse interpretation;
// errors are never swallowed here, every caller surfaces them.
package journalApi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/config"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/converter/apiConverter"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/apiModel"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	"github.com/go-resty/resty/v2"
)

type JournalApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *JournalApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.JournalApi.Url)
	return &JournalApi{client: client}
}

func (a *JournalApi) get(ctx context.Context, op, url string, params map[string]string, out any) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start request", slog.String("rqID", rqID), slog.String("op", op))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(url)
	if err != nil {
		slog.Error("error while dialing journal api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err := handleResponse(resp, out); err != nil {
		slog.Error("journal api returned error", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("request complete", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

func (a *JournalApi) send(ctx context.Context, op, method, url string, body any, out any) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start request", slog.String("rqID", rqID), slog.String("op", op))

	req := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		slog.Error("error while dialing journal api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err := handleResponse(resp, out); err != nil {
		slog.Error("journal api returned error", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("request complete", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

func holderParams(holderID string) map[string]string {
	params := map[string]string{}
	if holderID != "" && holderID != model.AllHolders {
		params["account_holder_id"] = holderID
	}
	return params
}

func (a *JournalApi) GetOpenLots(ctx context.Context, holderID string) ([]model.Lot, error) {
	var apiLots []apiModel.Lot
	err := a.get(ctx, "JournalApi.GetOpenLots", "/api/transactions/open", holderParams(holderID), &apiLots)
	if err != nil {
		return nil, err
	}
	return apiConverter.ConvertLots(apiLots), nil
}

func (a *JournalApi) GetTransactions(ctx context.Context, holderID string) ([]model.Transaction, error) {
	var apiTxs []apiModel.Transaction
	err := a.get(ctx, "JournalApi.GetTransactions", "/api/transactions", holderParams(holderID), &apiTxs)
	if err != nil {
		return nil, err
	}
	return apiConverter.ConvertTransactions(apiTxs), nil
}

func (a *JournalApi) CreateTransaction(ctx context.Context, req apiModel.CreateTransactionRequest) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	err := a.send(ctx, "JournalApi.CreateTransaction", resty.MethodPost, "/api/transactions", req, &res)
	return res, err
}

func (a *JournalApi) UpdateLotLimits(ctx context.Context, lotID int64, req apiModel.UpdateLimitsRequest) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	url := fmt.Sprintf("/api/transactions/%d/limits", lotID)
	err := a.send(ctx, "JournalApi.UpdateLotLimits", resty.MethodPut, url, req, &res)
	return res, err
}

func (a *JournalApi) DeleteTransaction(ctx context.Context, txID int64) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	url := fmt.Sprintf("/api/transactions/%d", txID)
	err := a.send(ctx, "JournalApi.DeleteTransaction", resty.MethodDelete, url, nil, &res)
	return res, err
}

func (a *JournalApi) GetPendingOrders(ctx context.Context, holderID string) ([]model.PendingOrder, error) {
	params := holderParams(holderID)
	params["status"] = string(model.OrderActive)

	var apiOrders []apiModel.PendingOrder
	err := a.get(ctx, "JournalApi.GetPendingOrders", "/api/orders", params, &apiOrders)
	if err != nil {
		return nil, err
	}
	return apiConverter.ConvertPendingOrders(apiOrders), nil
}

func (a *JournalApi) CreateOrder(ctx context.Context, req apiModel.CreateOrderRequest) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	err := a.send(ctx, "JournalApi.CreateOrder", resty.MethodPost, "/api/orders", req, &res)
	return res, err
}

func (a *JournalApi) UpdateOrderStatus(ctx context.Context, orderID int64, req apiModel.OrderStatusRequest) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	url := fmt.Sprintf("/api/orders/%d/status", orderID)
	err := a.send(ctx, "JournalApi.UpdateOrderStatus", resty.MethodPut, url, req, &res)
	return res, err
}

func (a *JournalApi) GetAccountHolders(ctx context.Context) ([]model.AccountHolder, error) {
	var apiHolders []apiModel.AccountHolder
	err := a.get(ctx, "JournalApi.GetAccountHolders", "/api/accounts/holders", nil, &apiHolders)
	if err != nil {
		return nil, err
	}
	return apiConverter.ConvertAccountHolders(apiHolders), nil
}

func (a *JournalApi) GetExchanges(ctx context.Context) ([]model.Exchange, error) {
	var apiExchanges []apiModel.Exchange
	err := a.get(ctx, "JournalApi.GetExchanges", "/api/accounts/exchanges", nil, &apiExchanges)
	if err != nil {
		return nil, err
	}
	return apiConverter.ConvertExchanges(apiExchanges), nil
}

func (a *JournalApi) GetAdviceSources(ctx context.Context) ([]model.AdviceSource, error) {
	var apiSources []apiModel.AdviceSource
	err := a.get(ctx, "JournalApi.GetAdviceSources", "/api/sources", nil, &apiSources)
	if err != nil {
		return nil, err
	}
	return apiConverter.ConvertAdviceSources(apiSources), nil
}

func (a *JournalApi) GetAdviceSource(ctx context.Context, sourceID int64) (model.AdviceSource, error) {
	var apiSource apiModel.AdviceSource
	url := fmt.Sprintf("/api/sources/%d", sourceID)
	err := a.get(ctx, "JournalApi.GetAdviceSource", url, nil, &apiSource)
	if err != nil {
		return model.AdviceSource{}, err
	}
	sources := apiConverter.ConvertAdviceSources([]apiModel.AdviceSource{apiSource})
	return sources[0], nil
}

func (a *JournalApi) CreateAdviceSource(ctx context.Context, req apiModel.AdviceSourceRequest) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	err := a.send(ctx, "JournalApi.CreateAdviceSource", resty.MethodPost, "/api/sources", req, &res)
	return res, err
}

func (a *JournalApi) UpdateAdviceSource(ctx context.Context, sourceID int64, req apiModel.AdviceSourceRequest) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	url := fmt.Sprintf("/api/sources/%d", sourceID)
	err := a.send(ctx, "JournalApi.UpdateAdviceSource", resty.MethodPut, url, req, &res)
	return res, err
}

func (a *JournalApi) DeleteAdviceSource(ctx context.Context, sourceID int64) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	url := fmt.Sprintf("/api/sources/%d", sourceID)
	err := a.send(ctx, "JournalApi.DeleteAdviceSource", resty.MethodDelete, url, nil, &res)
	return res, err
}

func (a *JournalApi) GetNotifications(ctx context.Context) ([]model.Notification, error) {
	var apiNotifs []apiModel.Notification
	err := a.get(ctx, "JournalApi.GetNotifications", "/api/notifications", nil, &apiNotifs)
	if err != nil {
		return nil, err
	}
	return apiConverter.ConvertNotifications(apiNotifs), nil
}

func (a *JournalApi) UpdateNotificationStatus(ctx context.Context, notificationID int64, status model.NotificationStatus) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	url := fmt.Sprintf("/api/notifications/%d", notificationID)
	err := a.send(ctx, "JournalApi.UpdateNotificationStatus", resty.MethodPut, url, apiModel.NotificationStatusRequest{Status: string(status)}, &res)
	return res, err
}

func (a *JournalApi) AddWatchlistItem(ctx context.Context, req apiModel.WatchlistRequest) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	err := a.send(ctx, "JournalApi.AddWatchlistItem", resty.MethodPost, "/api/watchlist", req, &res)
	return res, err
}

func (a *JournalApi) RemoveWatchlistItem(ctx context.Context, ticker string) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	url := fmt.Sprintf("/api/watchlist/%s", ticker)
	err := a.send(ctx, "JournalApi.RemoveWatchlistItem", resty.MethodDelete, url, nil, &res)
	return res, err
}

func (a *JournalApi) GetQuotes(ctx context.Context, tickers []string) ([]apiModel.Quote, error) {
	params := map[string]string{}
	if len(tickers) > 0 {
		params["tickers"] = strings.Join(tickers, ",")
	}

	var quotes []apiModel.Quote
	err := a.get(ctx, "JournalApi.GetQuotes", "/api/prices", params, &quotes)
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (a *JournalApi) CreateSnapshot(ctx context.Context, req apiModel.SnapshotRequest) (apiModel.OperationResult, error) {
	var res apiModel.OperationResult
	err := a.send(ctx, "JournalApi.CreateSnapshot", resty.MethodPost, "/api/snapshots", req, &res)
	return res, err
}
