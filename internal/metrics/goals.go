package metrics

import (
	"time"

	"tradevo/internal/journal"
)

// GoalProgress reports realized P&L against the configured targets for the
// current day, week and calendar month relative to "now".
type GoalProgress struct {
	TodayPnL float64 `json:"todayPnl"`
	WeekPnL  float64 `json:"weekPnl"`
	MonthPnL float64 `json:"monthPnl"`

	DailyProgress   float64 `json:"dailyProgress"`
	WeeklyProgress  float64 `json:"weeklyProgress"`
	MonthlyProgress float64 `json:"monthlyProgress"`
}

// GoalProgressAt computes goal attainment at the given instant. The week
// starts on Sunday in now's location. Progress is capped at 100 so bars
// never overflow; a zero or negative goal reads as 0% regardless of the
// realized amount.
func GoalProgressAt(records []journal.TradeRecord, goals journal.GoalConfig, now time.Time) GoalProgress {
	loc := now.Location()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekStart := dayStart.AddDate(0, 0, -int(now.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	var today, week, month float64
	for _, rec := range records {
		ts := rec.Timestamp.In(loc)
		if ts.After(now) {
			continue
		}
		p := rec.ProfitValue()
		if !ts.Before(dayStart) {
			today += p
		}
		if !ts.Before(weekStart) {
			week += p
		}
		if !ts.Before(monthStart) {
			month += p
		}
	}

	return GoalProgress{
		TodayPnL:        today,
		WeekPnL:         week,
		MonthPnL:        month,
		DailyProgress:   progressPct(today, goals.Daily),
		WeeklyProgress:  progressPct(week, goals.Weekly),
		MonthlyProgress: progressPct(month, goals.Monthly),
	}
}

func progressPct(actual, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	pct := actual / goal * 100
	if pct > 100 {
		return 100
	}
	return pct
}
