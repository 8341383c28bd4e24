package telegram

import (
	"context"
	"errors"
	"log/slog"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/data/session"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/converter/telebotConverter"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

// LoadSettings restores the persisted preference blob into the session (first
// visit wins; after that the session copy is authoritative until save) and
// renders the settings screen.
func (ctrl *Controller) LoadSettings(ctx context.Context, chatID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	gen := ctrl.guard.begin(model.ViewSettings, chatID)

	saved, err := ctrl.settingsRepo.GetSettings(ctx, chatID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		slog.Error("got error from settingsRepo.GetSettings", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.render(chatID, model.ViewSettings, "⚠️ Error loading settings.", nil)
		return err
	}
	if err == nil {
		ctrl.store.Update(chatID, model.Partial{Settings: &saved})
	}

	sess := ctrl.store.Get(chatID)
	holders := sess.AllAccountHolders
	if len(holders) == 0 {
		ref, refErr := ctrl.service.ReferenceData(ctx)
		if refErr != nil {
			slog.Error("got error from service.ReferenceData", slog.String("rqID", rqID), slog.String("err", refErr.Error()))
			ctrl.render(chatID, model.ViewSettings, "⚠️ Error loading settings.", nil)
			return refErr
		}
		ctrl.store.Update(chatID, model.Partial{
			AllAccountHolders: &ref.Holders,
			AllExchanges:      &ref.Exchanges,
			AllAdviceSources:  &ref.Sources,
		})
		holders = ref.Holders
	}

	if ctrl.guard.stale(model.ViewSettings, chatID, gen) {
		slog.Debug("discarding superseded settings load", slog.String("rqID", rqID), slog.Int64("chatID", chatID))
		return nil
	}

	text, markup := telebotConverter.SettingsResponse(ctrl.store.Get(chatID).Settings, holders)
	ctrl.render(chatID, model.ViewSettings, text, markup)

	return nil
}

// SetRiskPercent applies a preset risk value, or switches to typed input for
// the custom button. Changes live in the session until an explicit save.
func (ctrl *Controller) SetRiskPercent(c tele.Context, value string) error {
	chatID := c.Chat().ID

	if value == "custom" {
		action := model.ExpectingRiskPercent
		ctrl.store.Update(chatID, model.Partial{Action: &action})
		return c.Send("Risk per trade, in percent?")
	}

	risk, err := decimal.NewFromString(value)
	if err != nil || !risk.IsPositive() {
		return c.Send(internalErrMsg)
	}

	ctrl.applyRisk(chatID, risk)

	return c.Send("Risk per trade set to " + risk.String() + "%. Don't forget to save.")
}

func (ctrl *Controller) ProcessRiskPercent(c tele.Context) error {
	chatID := c.Chat().ID

	risk, err := decimal.NewFromString(c.Message().Text)
	if err != nil || !risk.IsPositive() || risk.GreaterThan(decimal.NewFromInt(100)) {
		return c.Send("Enter a percentage between 0 and 100.")
	}

	ctrl.applyRisk(chatID, risk)

	action := model.DefaultAction
	ctrl.store.Update(chatID, model.Partial{Action: &action})

	return c.Send("Risk per trade set to " + risk.String() + "%. Don't forget to save.")
}

func (ctrl *Controller) applyRisk(chatID int64, risk decimal.Decimal) {
	settings := ctrl.store.Get(chatID).Settings
	settings.RiskPercent = risk
	ctrl.store.Update(chatID, model.Partial{Settings: &settings})
}

// SetDefaultHolder updates the default-holder preference and rescopes the
// session right away so the choice is visible without a restart.
func (ctrl *Controller) SetDefaultHolder(c tele.Context, holderID string) error {
	chatID := c.Chat().ID

	settings := ctrl.store.Get(chatID).Settings
	settings.DefaultHolderID = holderID
	ctrl.store.Update(chatID, model.Partial{Settings: &settings, SelectedHolderID: &holderID})

	return c.Send("Default holder set to " + holderID + ". Don't forget to save.")
}

// SaveSettings persists the session's settings blob. This is the only write
// path; everything else edits the in-memory copy.
func (ctrl *Controller) SaveSettings(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	settings := ctrl.store.Get(chatID).Settings
	if err := ctrl.settingsRepo.SetSettings(ctx, chatID, settings); err != nil {
		slog.Error("got error from settingsRepo.SetSettings", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Save failed: " + err.Error())
	}

	return c.Send("💾 Settings saved.")
}
