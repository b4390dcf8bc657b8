package metrics

import (
	"sort"
	"strings"
	"time"

	"tradevo/internal/journal"
)

// DayCell is one calendar-day bucket for the performance calendar.
type DayCell struct {
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
}

// DailyPnL buckets profit by the trade's calendar date (the timestamp's own
// wall-clock date), keyed YYYY-MM-DD.
func DailyPnL(records []journal.TradeRecord) map[string]DayCell {
	out := make(map[string]DayCell)
	for _, rec := range records {
		key := rec.Timestamp.Format("2006-01-02")
		cell := out[key]
		cell.PnL += rec.ProfitValue()
		cell.Trades++
		out[key] = cell
	}
	return out
}

// WeekdayBucket is one Mon-Fri column of the day-performance chart.
type WeekdayBucket struct {
	Name   string  `json:"name"`
	Profit float64 `json:"profit"`
}

// WeekdayPnL sums profit per weekday, Monday through Friday. Weekend trades
// are excluded from this view.
func WeekdayPnL(records []journal.TradeRecord) []WeekdayBucket {
	buckets := []WeekdayBucket{
		{Name: "Mon"}, {Name: "Tue"}, {Name: "Wed"}, {Name: "Thu"}, {Name: "Fri"},
	}
	for _, rec := range records {
		wd := rec.Timestamp.Weekday()
		if wd >= time.Monday && wd <= time.Friday {
			buckets[int(wd)-1].Profit += rec.ProfitValue()
		}
	}
	return buckets
}

// HourBucket aggregates trades entered during one hour of the day.
type HourBucket struct {
	Hour    int     `json:"hour"`
	Trades  int     `json:"trades"`
	Profit  float64 `json:"profit"`
	WinRate float64 `json:"winRate"`
}

// HourlyBreakdown returns all 24 hour buckets, including empty ones, so the
// chart axis stays complete.
func HourlyBreakdown(records []journal.TradeRecord) []HourBucket {
	buckets := make([]HourBucket, 24)
	wins := make([]int, 24)
	for i := range buckets {
		buckets[i].Hour = i
	}
	for _, rec := range records {
		h := rec.Timestamp.Hour()
		buckets[h].Trades++
		p := rec.ProfitValue()
		buckets[h].Profit += p
		if p > 0 {
			wins[h]++
		}
	}
	for i := range buckets {
		if buckets[i].Trades > 0 {
			buckets[i].WinRate = float64(wins[i]) / float64(buckets[i].Trades) * 100
		}
	}
	return buckets
}

// SymbolBucket is one row of the top-assets table.
type SymbolBucket struct {
	Symbol string  `json:"symbol"`
	Trades int     `json:"trades"`
	Profit float64 `json:"profit"`
}

// TopSymbols ranks symbols by trade count descending and keeps the top
// limit rows (5 when limit <= 0). Ties break alphabetically so the output
// is deterministic.
func TopSymbols(records []journal.TradeRecord, limit int) []SymbolBucket {
	if limit <= 0 {
		limit = 5
	}
	acc := make(map[string]*SymbolBucket)
	for _, rec := range records {
		b := acc[rec.Symbol]
		if b == nil {
			b = &SymbolBucket{Symbol: rec.Symbol}
			acc[rec.Symbol] = b
		}
		b.Trades++
		b.Profit += rec.ProfitValue()
	}
	out := make([]SymbolBucket, 0, len(acc))
	for _, b := range acc {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trades != out[j].Trades {
			return out[i].Trades > out[j].Trades
		}
		return out[i].Symbol < out[j].Symbol
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SessionBucket is one of the four fixed session columns.
type SessionBucket struct {
	Session journal.Session `json:"session"`
	Trades  int             `json:"trades"`
	Profit  float64         `json:"profit"`
}

// SessionBreakdown returns all four session buckets in display order.
// Records with an unknown or legacy session value land in LONDON.
func SessionBreakdown(records []journal.TradeRecord) []SessionBucket {
	order := journal.Sessions()
	index := make(map[journal.Session]int, len(order))
	buckets := make([]SessionBucket, len(order))
	for i, s := range order {
		index[s] = i
		buckets[i].Session = s
	}
	for _, rec := range records {
		i := index[journal.NormalizeSession(string(rec.Session))]
		buckets[i].Trades++
		buckets[i].Profit += rec.ProfitValue()
	}
	return buckets
}

// TagBucket aggregates one tag across every record that carries it.
type TagBucket struct {
	Tag     string  `json:"tag"`
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	Profit  float64 `json:"profit"`
	WinRate float64 `json:"winRate"`
	AvgRR   float64 `json:"avgRR"`
}

// TagBreakdown fans each record out to all of its tags (a record with N
// tags contributes to N buckets), then ranks by trade count descending and
// keeps the top limit rows (10 when limit <= 0).
func TagBreakdown(records []journal.TradeRecord, limit int) []TagBucket {
	if limit <= 0 {
		limit = 10
	}
	type accum struct {
		trades int
		wins   int
		profit float64
		rrSum  float64
	}
	acc := make(map[string]*accum)
	for _, rec := range records {
		p := rec.ProfitValue()
		rr := rec.RRValue()
		for _, tag := range uniqueLabels(rec.Tags) {
			a := acc[tag]
			if a == nil {
				a = &accum{}
				acc[tag] = a
			}
			a.trades++
			if p > 0 {
				a.wins++
			}
			a.profit += p
			a.rrSum += rr
		}
	}
	out := make([]TagBucket, 0, len(acc))
	for tag, a := range acc {
		b := TagBucket{Tag: tag, Trades: a.trades, Wins: a.wins, Profit: a.profit}
		if a.trades > 0 {
			b.WinRate = float64(a.wins) / float64(a.trades) * 100
			b.AvgRR = a.rrSum / float64(a.trades)
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trades != out[j].Trades {
			return out[i].Trades > out[j].Trades
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MistakeBucket counts how often a mistake label occurs and how much it
// cost. TotalLoss accumulates the magnitude of losing trades only; winning
// trades tagged with a mistake add to the count but not the loss.
type MistakeBucket struct {
	Mistake   string  `json:"mistake"`
	Count     int     `json:"count"`
	TotalLoss float64 `json:"totalLoss"`
}

// MistakeBreakdown fans each record out to all of its mistake labels and
// ranks by occurrence count descending.
func MistakeBreakdown(records []journal.TradeRecord) []MistakeBucket {
	acc := make(map[string]*MistakeBucket)
	for _, rec := range records {
		p := rec.ProfitValue()
		for _, m := range uniqueLabels(rec.Mistakes) {
			b := acc[m]
			if b == nil {
				b = &MistakeBucket{Mistake: m}
				acc[m] = b
			}
			b.Count++
			if p < 0 {
				b.TotalLoss += -p
			}
		}
	}
	out := make([]MistakeBucket, 0, len(acc))
	for _, b := range acc {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mistake < out[j].Mistake
	})
	return out
}

// MonthBucket is one column of the monthly P&L chart.
type MonthBucket struct {
	Label string  `json:"label"`
	PnL   float64 `json:"pnl"`
}

// MonthlyPnL sums profit per calendar month and returns the last 12 months
// present in the data, oldest first, labelled like "Jan 2026".
func MonthlyPnL(records []journal.TradeRecord) []MonthBucket {
	type month struct {
		key time.Time
		pnl float64
	}
	acc := make(map[time.Time]*month)
	for _, rec := range records {
		ts := rec.Timestamp
		key := time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
		m := acc[key]
		if m == nil {
			m = &month{key: key}
			acc[key] = m
		}
		m.pnl += rec.ProfitValue()
	}
	months := make([]*month, 0, len(acc))
	for _, m := range acc {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].key.Before(months[j].key) })
	if len(months) > 12 {
		months = months[len(months)-12:]
	}
	out := make([]MonthBucket, 0, len(months))
	for _, m := range months {
		out = append(out, MonthBucket{Label: m.key.Format("Jan 2006"), PnL: m.pnl})
	}
	return out
}

// AssetClassCounts tallies records per asset class for the distribution
// donut. Every known class is present, even at zero.
func AssetClassCounts(records []journal.TradeRecord) map[journal.AssetClass]int {
	out := make(map[journal.AssetClass]int, 4)
	for _, class := range journal.AssetClasses() {
		out[class] = 0
	}
	for _, rec := range records {
		out[journal.ParseAssetClass(string(rec.AssetClass))]++
	}
	return out
}

// uniqueLabels trims, drops empties and de-duplicates a label list while
// keeping first-seen order.
func uniqueLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
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
