package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/converter/telebotConverter"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/eventbus"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/apiModel"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/service"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	tele "gopkg.in/telebot.v4"
)

// LoadSources refreshes the reference collections and shows the source list.
// When a detail pane is open (CurrentView.Value set) the collections are
// refreshed silently; the detail re-render goes through the dedicated
// source-details event instead.
func (ctrl *Controller) LoadSources(ctx context.Context, chatID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	gen := ctrl.guard.begin(model.ViewSources, chatID)

	ref, err := ctrl.service.ReferenceData(ctx)
	if err != nil {
		slog.Error("got error from service.ReferenceData", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.render(chatID, model.ViewSources, "⚠️ Error loading sources.", nil)
		return err
	}

	if ctrl.guard.stale(model.ViewSources, chatID, gen) {
		slog.Debug("discarding superseded sources load", slog.String("rqID", rqID), slog.Int64("chatID", chatID))
		return nil
	}

	ctrl.store.Update(chatID, model.Partial{
		AllAccountHolders: &ref.Holders,
		AllExchanges:      &ref.Exchanges,
		AllAdviceSources:  &ref.Sources,
	})

	if ctrl.store.Get(chatID).CurrentView.Value != "" {
		return nil
	}

	text, markup := telebotConverter.SourcesResponse(ref.Sources)
	ctrl.render(chatID, model.ViewSources, text, markup)

	return nil
}

// SourceDetail opens the detail pane for one advice source.
func (ctrl *Controller) SourceDetail(c tele.Context, sourceID string) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	id, err := strconv.ParseInt(sourceID, 10, 64)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	source, err := ctrl.service.SourceDetail(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Send("That source no longer exists.")
		}
		slog.Error("got error from service.SourceDetail", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	view := model.CurrentView{Type: model.ViewSources, Value: sourceID}
	ctrl.store.Update(chatID, model.Partial{CurrentView: &view})

	text, markup := telebotConverter.SourceDetailResponse(source)
	ctrl.render(chatID, model.ViewSources, text, markup)

	return nil
}

// onSourceDetailsRefresh re-renders an open detail pane after one of its
// actions changed the source. The event detail carries the source id.
func (ctrl *Controller) onSourceDetailsRefresh(e eventbus.Event) {
	ctx := utils.NewCtxWithRqID()
	rqID := utils.GetRequestIDFromCtx(ctx)

	id, ok := e.Detail.(int64)
	if !ok {
		return
	}

	current := ctrl.store.Get(e.ChatID).CurrentView
	if current.Type != model.ViewSources || current.Value != strconv.FormatInt(id, 10) {
		return
	}

	source, err := ctrl.service.SourceDetail(ctx, id)
	if err != nil {
		slog.Error("got error refreshing source detail", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return
	}

	text, markup := telebotConverter.SourceDetailResponse(source)
	ctrl.render(e.ChatID, model.ViewSources, text, markup)
}

// OrderFromIdea stashes a one-shot prefill from the source and jumps to the
// orders screen, where the form opens already primed.
func (ctrl *Controller) OrderFromIdea(c tele.Context, sourceID string) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatID := c.Chat().ID

	id, err := strconv.ParseInt(sourceID, 10, 64)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	source, err := ctrl.service.SourceDetail(ctx, id)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	if source.Ticker == "" {
		return c.Send("This source has no ticker attached; create the order manually.")
	}

	prefill := &model.PrefillOrder{Ticker: source.Ticker, AdviceSourceID: source.ID}
	ctrl.store.Update(chatID, model.Partial{PrefillOrderFromSource: &prefill})

	if err := ctrl.router.SwitchView(ctx, chatID, model.ViewOrders, ""); err != nil {
		return err
	}

	return ctrl.StartOrderCreation(c)
}

func (ctrl *Controller) ToggleWatch(c tele.Context, sourceID string) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	id, err := strconv.ParseInt(sourceID, 10, 64)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	source, err := ctrl.service.SourceDetail(ctx, id)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	if source.Ticker == "" {
		return c.Send("This source has no ticker to watch.")
	}

	_, err = ctrl.service.ToggleWatch(ctx, source)
	if err != nil {
		slog.Error("got error from service.ToggleWatch", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Update failed: " + err.Error())
	}

	ctrl.publishChange(chatID)
	ctrl.bus.Publish(eventbus.TopicSourceDetailsRefresh, eventbus.Event{ChatID: chatID, Detail: id})

	return nil
}

func (ctrl *Controller) DeleteSource(c tele.Context, sourceID string) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	id, err := strconv.ParseInt(sourceID, 10, 64)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	_, err = ctrl.service.DeleteAdviceSource(ctx, id)
	if err != nil {
		slog.Error("got error from service.DeleteAdviceSource", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Delete failed: " + err.Error())
	}

	// Back to the list before the reload triggered by the publish.
	view := model.CurrentView{Type: model.ViewSources}
	ctrl.store.Update(chatID, model.Partial{CurrentView: &view})

	ctrl.publishChange(chatID)

	return c.Send("🗑 Source deleted.")
}

// AddSource opens the add-source form: the next text message is the name.
func (ctrl *Controller) AddSource(c tele.Context) error {
	chatID := c.Chat().ID

	action := model.ExpectingSourceName
	ctrl.store.Update(chatID, model.Partial{Action: &action})

	return c.Send("Name of the new source?")
}

// ProcessSourceName creates a new advice source from a typed name.
func (ctrl *Controller) ProcessSourceName(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	name := strings.TrimSpace(c.Message().Text)
	if name == "" {
		return c.Send("Source name is required.")
	}

	_, err := ctrl.service.SaveAdviceSource(ctx, 0, apiModel.AdviceSourceRequest{Name: name, Kind: "person"})
	if err != nil {
		slog.Error("got error from service.SaveAdviceSource", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Create failed: " + err.Error())
	}

	action := model.DefaultAction
	ctrl.store.Update(chatID, model.Partial{Action: &action})

	ctrl.publishChange(chatID)

	return c.Send("✅ Source added.")
}
