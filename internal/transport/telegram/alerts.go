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

// LoadAlerts shows the order notifications. Alerts are account-wide; the
// holder filter does not apply here.
func (ctrl *Controller) LoadAlerts(ctx context.Context, chatID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	gen := ctrl.guard.begin(model.ViewAlerts, chatID)

	notifs, err := ctrl.service.Notifications(ctx)
	if err != nil {
		slog.Error("got error from service.Notifications", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.render(chatID, model.ViewAlerts, "⚠️ Error loading alerts.", nil)
		return err
	}

	if ctrl.guard.stale(model.ViewAlerts, chatID, gen) {
		slog.Debug("discarding superseded alerts load", slog.String("rqID", rqID), slog.Int64("chatID", chatID))
		return nil
	}

	text, markup := telebotConverter.AlertsResponse(notifs)
	ctrl.render(chatID, model.ViewAlerts, text, markup)

	return nil
}

func (ctrl *Controller) DismissAlert(c tele.Context, notificationID string) error {
	return ctrl.updateAlert(c, notificationID, model.NotificationDismissed)
}

// SnoozeAlert pushes the notification back to PENDING so it resurfaces after
// the cooldown.
func (ctrl *Controller) SnoozeAlert(c tele.Context, notificationID string) error {
	return ctrl.updateAlert(c, notificationID, model.NotificationPending)
}

func (ctrl *Controller) updateAlert(c tele.Context, notificationID string, status model.NotificationStatus) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	id, err := strconv.ParseInt(notificationID, 10, 64)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	_, err = ctrl.service.UpdateNotificationStatus(ctx, id, status)
	if err != nil {
		slog.Error("got error from service.UpdateNotificationStatus", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Update failed: " + err.Error())
	}

	ctrl.publishChange(chatID)

	return nil
}
