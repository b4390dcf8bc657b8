package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradevo/internal/journal"
	"tradevo/internal/logger"
)

// MT5Trade is a closed trade pushed by the MT5 expert advisor. All numeric
// fields arrive as decimal strings; the transport layer coerces raw JSON
// numbers before handing the payload over.
type MT5Trade struct {
	Ticket     string
	Symbol     string
	AssetClass string
	Type       string
	Lots       string
	Entry      string
	Exit       string
	SL         string
	TP         string
	Profit     string
	Pips       string
	EntryTime  string
	ExitTime   string
}

// ImportMT5 maps a webhook payload onto a journal record and upserts it
// keyed by the MT5 ticket, so replayed syncs stay idempotent. Returns the
// stored record and whether it was newly created.
func (s *Service) ImportMT5(ctx context.Context, in MT5Trade) (journal.TradeRecord, bool, error) {
	ticket := strings.TrimSpace(in.Ticket)
	if ticket == "" {
		return journal.TradeRecord{}, false, fmt.Errorf("mt5 import requires a ticket")
	}
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return journal.TradeRecord{}, false, fmt.Errorf("mt5 import requires a symbol")
	}

	entryPrice := journal.ParseDecimal(in.Entry)
	slPrice := journal.ParseDecimal(in.SL)
	if slPrice == 0 {
		slPrice = entryPrice
	}
	tpPrice := journal.ParseDecimal(in.TP)
	if tpPrice == 0 {
		tpPrice = journal.ParseDecimal(in.Exit)
	}
	risk := math.Abs(entryPrice - slPrice)
	reward := math.Abs(tpPrice - entryPrice)
	rr := "0.00"
	if risk != 0 {
		rr = decimal.NewFromFloat(reward / risk).StringFixed(2)
	}

	now := s.now()
	entryTime := parseInstant(in.EntryTime)
	exitTime := parseInstant(in.ExitTime)
	timestamp := entryTime
	if timestamp.IsZero() {
		timestamp = now
	}

	sl := strings.TrimSpace(in.SL)
	if sl == "" {
		sl = "0"
	}
	tp := strings.TrimSpace(in.TP)
	if tp == "" {
		tp = strings.TrimSpace(in.Exit)
	}
	pips := strings.TrimSpace(in.Pips)
	if pips == "" {
		pips = "0"
	}

	id := "MT5-" + ticket
	_, exists, err := s.store.GetTrade(ctx, id)
	if err != nil {
		return journal.TradeRecord{}, false, fmt.Errorf("loading trade %s failed: %w", id, err)
	}

	rec := journal.TradeRecord{
		ID:         id,
		Timestamp:  timestamp,
		EntryTime:  entryTime,
		ExitTime:   exitTime,
		Symbol:     symbol,
		AssetClass: journal.ParseAssetClass(in.AssetClass),
		Type:       journal.ParseDirection(in.Type),
		Lots:       strings.TrimSpace(in.Lots),
		Entry:      strings.TrimSpace(in.Entry),
		SL:         sl,
		TP:         tp,
		RR:         rr,
		Pips:       pips,
		Profit:     strings.TrimSpace(in.Profit),
		Rating:     journal.RatingNone,
		Session:    journal.InferSession(exitTime),
		Tags:       []string{"MT5 Import", "Auto-Sync"},
		Analysis:   "Auto-imported from MT5",
	}
	if err := s.store.UpsertTrade(ctx, rec); err != nil {
		return journal.TradeRecord{}, false, fmt.Errorf("saving trade %s failed: %w", id, err)
	}
	logger.Infof("mt5 trade synced id=%s symbol=%s profit=%s created=%v", id, symbol, rec.Profit, !exists)
	return rec, !exists, nil
}

func parseInstant(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006.01.02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}
