package metrics

import (
	"tradevo/internal/journal"
)

// Summary aggregates account-level performance over a record snapshot.
// Every field is 0 for an empty snapshot; nothing here is ever NaN.
type Summary struct {
	TotalTrades int `json:"totalTrades"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`

	NetPnL       float64 `json:"netPnl"`
	WinRate      float64 `json:"winRate"`
	GrossProfit  float64 `json:"grossProfit"`
	GrossLoss    float64 `json:"grossLoss"`
	ProfitFactor float64 `json:"profitFactor"`
	AvgWin       float64 `json:"avgWin"`
	AvgLoss      float64 `json:"avgLoss"`
	Expectancy   float64 `json:"expectancy"`
	BestTrade    float64 `json:"bestTrade"`
	WorstTrade   float64 `json:"worstTrade"`
	MaxDrawdown  float64 `json:"maxDrawdown"`
	AvgRR        float64 `json:"avgRR"`

	MaxWinStreak  int `json:"maxWinStreak"`
	MaxLossStreak int `json:"maxLossStreak"`
}

// profitFactorSentinel stands in for "gross loss is zero but there are
// gains": the UI shows 99.9 instead of infinity.
const profitFactorSentinel = 99.9

// Summarize computes the dashboard's headline statistics. Order of the
// input does not matter; sequential metrics (drawdown, streaks) re-sort by
// timestamp internally.
func Summarize(records []journal.TradeRecord, initialBalance float64) Summary {
	total := len(records)
	if total == 0 {
		return Summary{}
	}

	var (
		netPnL      float64
		grossProfit float64
		grossLoss   float64
		wins        int
		losses      int
		best        float64
		worst       float64
		rrSum       float64
	)
	for _, rec := range records {
		p := rec.ProfitValue()
		netPnL += p
		switch {
		case p > 0:
			wins++
			grossProfit += p
		case p < 0:
			losses++
			grossLoss += -p
		}
		if p > best {
			best = p
		}
		if p < worst {
			worst = p
		}
		rrSum += rec.RRValue()
	}

	profitFactor := 0.0
	switch {
	case grossLoss == 0 && grossProfit > 0:
		profitFactor = profitFactorSentinel
	case grossLoss > 0:
		profitFactor = grossProfit / grossLoss
	}

	avgWin := 0.0
	if wins > 0 {
		avgWin = grossProfit / float64(wins)
	}
	avgLoss := 0.0
	if losses > 0 {
		avgLoss = grossLoss / float64(losses)
	}

	winFrac := float64(wins) / float64(total)
	lossFrac := float64(losses) / float64(total)
	expectancy := winFrac*avgWin - lossFrac*avgLoss

	ordered := sortedAscending(records)
	maxWinStreak, maxLossStreak := streaks(ordered)

	return Summary{
		TotalTrades:   total,
		Wins:          wins,
		Losses:        losses,
		NetPnL:        netPnL,
		WinRate:       winFrac * 100,
		GrossProfit:   grossProfit,
		GrossLoss:     grossLoss,
		ProfitFactor:  profitFactor,
		AvgWin:        avgWin,
		AvgLoss:       avgLoss,
		Expectancy:    expectancy,
		BestTrade:     best,
		WorstTrade:    worst,
		MaxDrawdown:   maxDrawdown(ordered, initialBalance),
		AvgRR:         rrSum / float64(total),
		MaxWinStreak:  maxWinStreak,
		MaxLossStreak: maxLossStreak,
	}
}

// maxDrawdown walks the ordered records with a running equity and peak and
// reports the deepest percentage decline from the peak. A non-positive peak
// contributes 0 rather than a division blowup.
func maxDrawdown(ordered []journal.TradeRecord, initialBalance float64) float64 {
	equity := initialBalance
	peak := initialBalance
	maxDD := 0.0
	for _, rec := range ordered {
		equity += rec.ProfitValue()
		if equity > peak {
			peak = equity
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - equity) / peak * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// streaks counts the longest runs of consecutive wins and losses in
// chronological order. Breakeven trades extend neither run and break
// neither: they are skipped outright.
func streaks(ordered []journal.TradeRecord) (maxWin, maxLoss int) {
	curWin, curLoss := 0, 0
	for _, rec := range ordered {
		p := rec.ProfitValue()
		switch {
		case p > 0:
			curWin++
			curLoss = 0
			if curWin > maxWin {
				maxWin = curWin
			}
		case p < 0:
			curLoss++
			curWin = 0
			if curLoss > maxLoss {
				maxLoss = curLoss
			}
		}
	}
	return maxWin, maxLoss
}
