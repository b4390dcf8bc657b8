// Package service owns the write path of the journal: committing and
// annotating trades, freezing derived fields, account and goal settings,
// and mapping MT5 webhook payloads into records. Reads hand snapshots to
// the metrics engine untouched.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tradevo/internal/journal"
	"tradevo/internal/logger"
	"tradevo/internal/metrics"
)

type Service struct {
	store          journal.Store
	defaultBalance float64
	defaultGoals   journal.GoalConfig
	now            func() time.Time
}

func New(store journal.Store, defaultBalance float64, defaultGoals journal.GoalConfig) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("journal service requires a store")
	}
	return &Service{
		store:          store,
		defaultBalance: defaultBalance,
		defaultGoals:   defaultGoals,
		now:            time.Now,
	}, nil
}

// TradeInput carries the entry-form fields for a create or edit.
type TradeInput struct {
	ID         string `json:"id"`
	Date       string `json:"date"` // YYYY-MM-DD; empty means today
	Symbol     string `json:"symbol"`
	AssetClass string `json:"assetClass"`
	Type       string `json:"type"`
	Lots       string `json:"lots"`
	Entry      string `json:"entry"`
	SL         string `json:"sl"`
	TP         string `json:"tp"`
	Analysis   string `json:"analysis"`
	Screenshot string `json:"screenshot"`
	Session    string `json:"session"`
}

// CommitTrade freezes the derived fields and persists the record. With an
// ID set it edits in place, otherwise it mints a new TRD id. When the form
// date is today the commit instant's time-of-day is stamped onto it, so
// same-day trades keep their relative order.
func (s *Service) CommitTrade(ctx context.Context, in TradeInput) (journal.TradeRecord, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return journal.TradeRecord{}, fmt.Errorf("symbol is required")
	}
	now := s.now()
	ts := tradeTimestamp(in.Date, now)

	rec := journal.TradeRecord{
		ID:      strings.TrimSpace(in.ID),
		Rating:  journal.RatingNone,
		Session: journal.NormalizeSession(in.Session),
	}
	if rec.ID == "" {
		rec.ID = NewTradeID()
	} else {
		existing, found, err := s.store.GetTrade(ctx, rec.ID)
		if err != nil {
			return journal.TradeRecord{}, fmt.Errorf("loading trade %s failed: %w", rec.ID, err)
		}
		if !found {
			return journal.TradeRecord{}, fmt.Errorf("trade %s not found", rec.ID)
		}
		// Journal annotations survive an execution-field edit.
		rec = existing
		if in.Session != "" {
			rec.Session = journal.NormalizeSession(in.Session)
		}
	}

	class := journal.ParseAssetClass(in.AssetClass)
	derived := metrics.Derive(in.Entry, in.SL, in.TP, in.Lots, class)

	rec.Timestamp = ts
	rec.Symbol = symbol
	rec.AssetClass = class
	rec.Type = journal.ParseDirection(in.Type)
	rec.Lots = strings.TrimSpace(in.Lots)
	rec.Entry = strings.TrimSpace(in.Entry)
	rec.SL = strings.TrimSpace(in.SL)
	rec.TP = strings.TrimSpace(in.TP)
	rec.RR = derived.RR
	rec.Pips = derived.Pips
	rec.Profit = derived.Profit
	if in.Analysis != "" {
		rec.Analysis = in.Analysis
	}
	if in.Screenshot != "" {
		rec.Screenshot = in.Screenshot
	}

	if err := s.store.UpsertTrade(ctx, rec); err != nil {
		return journal.TradeRecord{}, fmt.Errorf("saving trade %s failed: %w", rec.ID, err)
	}
	logger.Infof("trade committed id=%s symbol=%s profit=%s", rec.ID, rec.Symbol, rec.Profit)
	return rec, nil
}

// Annotation is a partial journal update; nil fields are left untouched.
type Annotation struct {
	Rating             *string   `json:"rating"`
	Session            *string   `json:"session"`
	Tags               *[]string `json:"tags"`
	Mistakes           *[]string `json:"mistakes"`
	Emotions           *[]string `json:"emotions"`
	Analysis           *string   `json:"analysis"`
	PreMarketAnalysis  *string   `json:"preMarketAnalysis"`
	PostMarketAnalysis *string   `json:"postMarketAnalysis"`
	LessonsLearned     *string   `json:"lessonsLearned"`
	WouldDoDifferently *string   `json:"wouldDoDifferently"`
	Screenshot         *string   `json:"screenshot"`
	PreChecklist       *bool     `json:"preChecklist"`
}

// Annotate applies journal edits (rating, tags, narrative) to an existing
// trade without touching the frozen execution fields.
func (s *Service) Annotate(ctx context.Context, id string, upd Annotation) (journal.TradeRecord, error) {
	rec, found, err := s.store.GetTrade(ctx, id)
	if err != nil {
		return journal.TradeRecord{}, fmt.Errorf("loading trade %s failed: %w", id, err)
	}
	if !found {
		return journal.TradeRecord{}, fmt.Errorf("trade %s not found", id)
	}

	if upd.Rating != nil {
		rec.Rating = journal.ParseRating(*upd.Rating)
	}
	if upd.Session != nil {
		rec.Session = journal.NormalizeSession(*upd.Session)
	}
	if upd.Tags != nil {
		rec.Tags = cleanLabels(*upd.Tags)
	}
	if upd.Mistakes != nil {
		rec.Mistakes = cleanLabels(*upd.Mistakes)
	}
	if upd.Emotions != nil {
		rec.Emotions = cleanLabels(*upd.Emotions)
	}
	if upd.Analysis != nil {
		rec.Analysis = *upd.Analysis
	}
	if upd.PreMarketAnalysis != nil {
		rec.PreMarketAnalysis = *upd.PreMarketAnalysis
	}
	if upd.PostMarketAnalysis != nil {
		rec.PostMarketAnalysis = *upd.PostMarketAnalysis
	}
	if upd.LessonsLearned != nil {
		rec.LessonsLearned = *upd.LessonsLearned
	}
	if upd.WouldDoDifferently != nil {
		rec.WouldDoDifferently = *upd.WouldDoDifferently
	}
	if upd.Screenshot != nil {
		rec.Screenshot = *upd.Screenshot
	}
	if upd.PreChecklist != nil {
		rec.PreChecklist = *upd.PreChecklist
	}

	if err := s.store.UpsertTrade(ctx, rec); err != nil {
		return journal.TradeRecord{}, fmt.Errorf("saving trade %s failed: %w", id, err)
	}
	return rec, nil
}

// ListTrades returns the snapshot newest-first, optionally filtered by a
// case-insensitive id/symbol substring.
func (s *Service) ListTrades(ctx context.Context, query string) ([]journal.TradeRecord, error) {
	records, err := s.store.ListTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing trades failed: %w", err)
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		filtered := records[:0]
		for _, rec := range records {
			if strings.Contains(strings.ToLower(rec.ID), query) ||
				strings.Contains(strings.ToLower(rec.Symbol), query) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

func (s *Service) GetTrade(ctx context.Context, id string) (journal.TradeRecord, bool, error) {
	return s.store.GetTrade(ctx, id)
}

func (s *Service) DeleteTrade(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("trade id is required")
	}
	if err := s.store.DeleteTrade(ctx, id); err != nil {
		return fmt.Errorf("deleting trade %s failed: %w", id, err)
	}
	logger.Infof("trade deleted id=%s", id)
	return nil
}

// Account returns the stored account state, falling back to the configured
// default balance before first-time setup has run.
func (s *Service) Account(ctx context.Context) (journal.AccountState, error) {
	state, found, err := s.store.Account(ctx)
	if err != nil {
		return journal.AccountState{}, fmt.Errorf("loading account failed: %w", err)
	}
	if !found {
		return journal.AccountState{InitialBalance: s.defaultBalance}, nil
	}
	return state, nil
}

func (s *Service) SetAccount(ctx context.Context, state journal.AccountState) error {
	if state.InitialBalance < 0 {
		return fmt.Errorf("initial balance cannot be negative")
	}
	return s.store.SetAccount(ctx, state)
}

func (s *Service) Goals(ctx context.Context) (journal.GoalConfig, error) {
	goals, found, err := s.store.Goals(ctx)
	if err != nil {
		return journal.GoalConfig{}, fmt.Errorf("loading goals failed: %w", err)
	}
	if !found {
		return s.defaultGoals, nil
	}
	return goals, nil
}

func (s *Service) SetGoals(ctx context.Context, goals journal.GoalConfig) error {
	if goals.Daily < 0 || goals.Weekly < 0 || goals.Monthly < 0 {
		return fmt.Errorf("goals cannot be negative")
	}
	return s.store.SetGoals(ctx, goals)
}

// GoalProgress evaluates goal attainment against the current clock.
func (s *Service) GoalProgress(ctx context.Context) (metrics.GoalProgress, error) {
	records, err := s.store.ListTrades(ctx)
	if err != nil {
		return metrics.GoalProgress{}, fmt.Errorf("listing trades failed: %w", err)
	}
	goals, err := s.Goals(ctx)
	if err != nil {
		return metrics.GoalProgress{}, err
	}
	return metrics.GoalProgressAt(records, goals, s.now()), nil
}

// NewTradeID mints a journal trade id. The TRD prefix distinguishes manual
// entries from MT5-imported ones.
func NewTradeID() string {
	return "TRD-" + strings.ToUpper(uuid.NewString()[:8])
}

func tradeTimestamp(date string, now time.Time) time.Time {
	date = strings.TrimSpace(date)
	if date == "" {
		return now
	}
	day, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return now
	}
	if day.Year() == now.Year() && day.YearDay() == now.YearDay() {
		return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
	}
	return day
}

func cleanLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, raw := range labels {
		label := strings.TrimSpace(raw)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}
