package metrics

import (
	"sort"

	"tradevo/internal/journal"
)

// StartLabel names the synthetic first point of the equity and drawdown
// series.
const StartLabel = "Start"

// EquityPoint is one step of the equity curve, labelled by trade ID.
type EquityPoint struct {
	Label  string  `json:"label"`
	Equity float64 `json:"equity"`
}

// DrawdownPoint extends an equity step with the percentage decline from the
// running peak. Drawdown is always <= 0.
type DrawdownPoint struct {
	Label    string  `json:"label"`
	Equity   float64 `json:"equity"`
	Drawdown float64 `json:"drawdown"`
}

// EquityCurve builds the running balance series: a Start point at the
// initial balance followed by one point per trade in ascending timestamp
// order. Recomputed from scratch on every call.
func EquityCurve(records []journal.TradeRecord, initialBalance float64) []EquityPoint {
	ordered := sortedAscending(records)
	curve := make([]EquityPoint, 0, len(ordered)+1)
	curve = append(curve, EquityPoint{Label: StartLabel, Equity: initialBalance})
	balance := initialBalance
	for _, rec := range ordered {
		balance += rec.ProfitValue()
		curve = append(curve, EquityPoint{Label: rec.ID, Equity: balance})
	}
	return curve
}

// DrawdownSeries parallels the equity curve with the percent-below-peak at
// each step. The peak includes the start point; a non-positive peak yields
// a drawdown of 0.
func DrawdownSeries(records []journal.TradeRecord, initialBalance float64) []DrawdownPoint {
	ordered := sortedAscending(records)
	series := make([]DrawdownPoint, 0, len(ordered)+1)
	equity := initialBalance
	peak := initialBalance
	series = append(series, DrawdownPoint{Label: StartLabel, Equity: equity, Drawdown: drawdownAt(equity, peak)})
	for _, rec := range ordered {
		equity += rec.ProfitValue()
		if equity > peak {
			peak = equity
		}
		series = append(series, DrawdownPoint{Label: rec.ID, Equity: equity, Drawdown: drawdownAt(equity, peak)})
	}
	return series
}

func drawdownAt(equity, peak float64) float64 {
	if peak <= 0 {
		return 0
	}
	return -100 * (peak - equity) / peak
}

// sortedAscending returns a copy of the snapshot in ascending timestamp
// order. The store's native order is newest-first; every sequential metric
// re-sorts instead of trusting it.
func sortedAscending(records []journal.TradeRecord) []journal.TradeRecord {
	out := make([]journal.TradeRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
