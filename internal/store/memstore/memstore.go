// Package memstore is an in-memory journal.Store used by tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tradevo/internal/journal"
)

type Store struct {
	mu      sync.RWMutex
	trades  map[string]journal.TradeRecord
	account *journal.AccountState
	goals   *journal.GoalConfig
}

func New() *Store {
	return &Store{trades: make(map[string]journal.TradeRecord)}
}

var _ journal.Store = (*Store)(nil)

func (s *Store) ListTrades(ctx context.Context) ([]journal.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]journal.TradeRecord, 0, len(s.trades))
	for _, rec := range s.trades {
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *Store) GetTrade(ctx context.Context, id string) (journal.TradeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.trades[strings.TrimSpace(id)]
	return rec, ok, nil
}

func (s *Store) UpsertTrade(ctx context.Context, rec journal.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades[rec.ID] = rec
	return nil
}

func (s *Store) DeleteTrade(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trades, strings.TrimSpace(id))
	return nil
}

func (s *Store) Account(ctx context.Context) (journal.AccountState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return journal.AccountState{}, false, nil
	}
	return *s.account, true, nil
}

func (s *Store) SetAccount(ctx context.Context, state journal.AccountState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = &state
	return nil
}

func (s *Store) Goals(ctx context.Context) (journal.GoalConfig, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.goals == nil {
		return journal.GoalConfig{}, false, nil
	}
	return *s.goals, true, nil
}

func (s *Store) SetGoals(ctx context.Context, goals journal.GoalConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = &goals
	return nil
}
