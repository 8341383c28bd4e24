package apiConverter

import (
	"time"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/apiModel"
	"github.com/shopspring/decimal"
)

func parseDate(s string) time.Time {
	t, err := time.Parse(apiModel.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func convertLimit(price *decimal.Decimal, expiration *string) *model.PriceLimit {
	if price == nil {
		return nil
	}
	limit := &model.PriceLimit{Price: *price}
	if expiration != nil {
		limit.Expiration = parseDate(*expiration)
	}
	return limit
}

func ConvertLot(apiLot apiModel.Lot) model.Lot {
	return model.Lot{
		ID:                apiLot.ID,
		Ticker:            apiLot.Ticker,
		Exchange:          apiLot.Exchange,
		HolderID:          apiLot.AccountHolderID,
		PurchaseDate:      parseDate(apiLot.PurchaseDate),
		CostBasis:         apiLot.CostBasis,
		Quantity:          apiLot.Quantity,
		QuantityRemaining: apiLot.QuantityRemaining,
		LimitUp:           convertLimit(apiLot.LimitUpPrice, apiLot.LimitUpExpiration),
		LimitDown:         convertLimit(apiLot.LimitDownPrice, apiLot.LimitDownExpiration),
		AdviceSourceID:    apiLot.AdviceSourceID,
	}
}

func ConvertLots(apiLots []apiModel.Lot) []model.Lot {
	lots := make([]model.Lot, 0, len(apiLots))
	for _, l := range apiLots {
		lots = append(lots, ConvertLot(l))
	}
	return lots
}

func ConvertTransaction(apiTx apiModel.Transaction) model.Transaction {
	return model.Transaction{
		ID:             apiTx.ID,
		Side:           model.TransactionSide(apiTx.Side),
		Ticker:         apiTx.Ticker,
		Exchange:       apiTx.Exchange,
		HolderID:       apiTx.AccountHolderID,
		Quantity:       apiTx.Quantity,
		Price:          apiTx.Price,
		Total:          apiTx.Total,
		Date:           parseDate(apiTx.Date),
		RealizedPL:     apiTx.RealizedPL,
		AdviceSourceID: apiTx.AdviceSourceID,
	}
}

func ConvertTransactions(apiTxs []apiModel.Transaction) []model.Transaction {
	txs := make([]model.Transaction, 0, len(apiTxs))
	for _, tx := range apiTxs {
		txs = append(txs, ConvertTransaction(tx))
	}
	return txs
}

func ConvertPendingOrder(apiOrder apiModel.PendingOrder) model.PendingOrder {
	return model.PendingOrder{
		ID:             apiOrder.ID,
		Ticker:         apiOrder.Ticker,
		Exchange:       apiOrder.Exchange,
		HolderID:       apiOrder.AccountHolderID,
		LimitPrice:     apiOrder.LimitPrice,
		Quantity:       apiOrder.Quantity,
		Expiration:     parseDate(apiOrder.Expiration),
		Status:         model.OrderStatus(apiOrder.Status),
		AdviceSourceID: apiOrder.AdviceSourceID,
	}
}

func ConvertPendingOrders(apiOrders []apiModel.PendingOrder) []model.PendingOrder {
	orders := make([]model.PendingOrder, 0, len(apiOrders))
	for _, o := range apiOrders {
		orders = append(orders, ConvertPendingOrder(o))
	}
	return orders
}

func ConvertNotification(apiNotif apiModel.Notification) model.Notification {
	createdAt, err := time.Parse(time.RFC3339, apiNotif.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}
	return model.Notification{
		ID:        apiNotif.ID,
		OrderID:   apiNotif.OrderID,
		Ticker:    apiNotif.Ticker,
		Message:   apiNotif.Message,
		Status:    model.NotificationStatus(apiNotif.Status),
		CreatedAt: createdAt,
	}
}

func ConvertNotifications(apiNotifs []apiModel.Notification) []model.Notification {
	notifs := make([]model.Notification, 0, len(apiNotifs))
	for _, n := range apiNotifs {
		notifs = append(notifs, ConvertNotification(n))
	}
	return notifs
}

func ConvertAccountHolders(apiHolders []apiModel.AccountHolder) []model.AccountHolder {
	holders := make([]model.AccountHolder, 0, len(apiHolders))
	for _, h := range apiHolders {
		holders = append(holders, model.AccountHolder{ID: h.ID, Name: h.Name})
	}
	return holders
}

func ConvertExchanges(apiExchanges []apiModel.Exchange) []model.Exchange {
	exchanges := make([]model.Exchange, 0, len(apiExchanges))
	for _, e := range apiExchanges {
		exchanges = append(exchanges, model.Exchange{ID: e.ID, Name: e.Name})
	}
	return exchanges
}

func ConvertAdviceSources(apiSources []apiModel.AdviceSource) []model.AdviceSource {
	sources := make([]model.AdviceSource, 0, len(apiSources))
	for _, s := range apiSources {
		sources = append(sources, model.AdviceSource{
			ID:      s.ID,
			Name:    s.Name,
			Kind:    s.Kind,
			Ticker:  s.Ticker,
			Notes:   s.Notes,
			Watched: s.Watched,
		})
	}
	return sources
}
