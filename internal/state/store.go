// Package state holds the in-memory per-chat session state. The store lives
// for the whole process; records are only ever replaced field-by-field via
// Update, never wholesale.
package state

import (
	"sync"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[int64]model.Session
	defaults model.Settings
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]model.Session),
		defaults: model.DefaultSettings(),
	}
}

// Get returns the current session snapshot for a chat, creating a fresh one
// on first access. Handlers must re-read after any network call instead of
// trusting a snapshot taken before it: other handlers may have merged fields
// in between.
func (s *Store) Get(chatID int64) model.Session {
	s.mu.RLock()
	session, ok := s.sessions[chatID]
	s.mu.RUnlock()
	if ok {
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok = s.sessions[chatID]; ok {
		return session
	}
	session = model.Session{
		SelectedHolderID: model.AllHolders,
		Settings:         s.defaults,
		LedgerSort:       model.LedgerSort{Field: model.LedgerSortDate, Desc: true},
	}
	s.sessions[chatID] = session
	return session
}

// Update shallow-merges the non-nil fields of partial into the chat session.
// No validation, no re-render: callers publish on the bus or render
// explicitly afterwards.
func (s *Store) Update(chatID int64, partial model.Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		session = model.Session{
			SelectedHolderID: model.AllHolders,
			Settings:         s.defaults,
			LedgerSort:       model.LedgerSort{Field: model.LedgerSortDate, Desc: true},
		}
	}

	if partial.Action != nil {
		session.Action = *partial.Action
	}
	if partial.SelectedHolderID != nil {
		session.SelectedHolderID = *partial.SelectedHolderID
	}
	if partial.CurrentView != nil {
		session.CurrentView = *partial.CurrentView
	}
	if partial.Settings != nil {
		session.Settings = *partial.Settings
	}
	if partial.AllAccountHolders != nil {
		session.AllAccountHolders = *partial.AllAccountHolders
	}
	if partial.AllExchanges != nil {
		session.AllExchanges = *partial.AllExchanges
	}
	if partial.AllAdviceSources != nil {
		session.AllAdviceSources = *partial.AllAdviceSources
	}
	if partial.PrefillOrderFromSource != nil {
		session.PrefillOrderFromSource = *partial.PrefillOrderFromSource
	}
	if partial.PendingOrders != nil {
		session.PendingOrders = *partial.PendingOrders
	}
	if partial.DashboardOpenLots != nil {
		session.DashboardOpenLots = *partial.DashboardOpenLots
	}
	if partial.Transactions != nil {
		session.Transactions = *partial.Transactions
	}
	if partial.LedgerSort != nil {
		session.LedgerSort = *partial.LedgerSort
	}
	if partial.DraftSale != nil {
		session.DraftSale = *partial.DraftSale
	}
	if partial.DraftOrder != nil {
		session.DraftOrder = *partial.DraftOrder
	}
	if partial.DraftLimits != nil {
		session.DraftLimits = *partial.DraftLimits
	}

	s.sessions[chatID] = session
}

// ChatIDs lists every chat that has touched the store. Used by broadcast
// events (price refreshes) that are not tied to one chat.
func (s *Store) ChatIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// TakePrefill returns the one-shot order prefill and clears it atomically.
// The caller gets it exactly once, whether or not the subsequent form
// submission succeeds.
func (s *Store) TakePrefill(chatID int64) *model.PrefillOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok || session.PrefillOrderFromSource == nil {
		return nil
	}
	prefill := session.PrefillOrderFromSource
	session.PrefillOrderFromSource = nil
	s.sessions[chatID] = session
	return prefill
}
