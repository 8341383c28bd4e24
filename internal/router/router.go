// Package router maps view names to their screen loaders. Switching views
// updates CurrentView in the state store and runs exactly one loader;
// switching to the already-active view re-runs it, which is how screens
// force a refresh.
package router

import (
	"context"
	"log/slog"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/state"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
)

type Loader func(ctx context.Context, chatID int64) error

type Router struct {
	store   *state.Store
	loaders map[model.View]Loader
}

func New(store *state.Store) *Router {
	return &Router{
		store:   store,
		loaders: make(map[model.View]Loader),
	}
}

func (r *Router) Register(view model.View, loader Loader) {
	r.loaders[view] = loader
}

// SwitchView activates a view for a chat. An unregistered view name logs a
// warning and leaves the navigation state untouched.
func (r *Router) SwitchView(ctx context.Context, chatID int64, view model.View, value string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	loader, ok := r.loaders[view]
	if !ok {
		slog.Warn("no loader registered for view", slog.String("rqID", rqID), slog.String("view", string(view)))
		return nil
	}

	current := model.CurrentView{Type: view, Value: value}
	r.store.Update(chatID, model.Partial{CurrentView: &current})

	return loader(ctx, chatID)
}
