// Package metrics is the analytics engine of the journal: pure functions
// that turn a snapshot of trade records plus the account's initial balance
// into summary statistics, chart series and aggregation tables. Nothing in
// here does I/O, reads the wall clock or returns errors; malformed numeric
// input silently contributes 0.
package metrics

import (
	"math"

	"github.com/shopspring/decimal"

	"tradevo/internal/journal"
)

// Derived holds the frozen string form of the per-trade computed fields.
type Derived struct {
	RR     string `json:"rr"`
	Pips   string `json:"pips"`
	Profit string `json:"profit"`
}

// Multiplier converts a price distance into profit-per-lot units. The
// constants are fixed design values, not derived from contract specs, and
// must stay bit-for-bit stable for compatibility with stored records.
func Multiplier(class journal.AssetClass) float64 {
	switch class {
	case journal.AssetForex:
		return 10000
	case journal.AssetCommodities:
		return 100
	case journal.AssetFutures:
		return 10
	case journal.AssetCrypto:
		return 1
	default:
		return 1
	}
}

// Derive computes risk:reward, pip distance and projected profit from raw
// entry-form fields. The same code path serves the live preview and the
// commit-time freeze. A missing, malformed or zero entry/sl/tp collapses the
// whole result to zeros; malformed lots only zeroes the profit.
func Derive(entry, sl, tp, lots string, class journal.AssetClass) Derived {
	e := journal.ParseDecimal(entry)
	s := journal.ParseDecimal(sl)
	t := journal.ParseDecimal(tp)
	if e == 0 || s == 0 || t == 0 {
		return Derived{RR: "0.00", Pips: "0", Profit: "0.00"}
	}

	risk := math.Abs(e - s)
	reward := math.Abs(t - e)

	rr := "0.00"
	if risk != 0 {
		rr = decimal.NewFromFloat(reward / risk).StringFixed(2)
	}

	mult := Multiplier(class)
	l := journal.ParseDecimal(lots)
	profit := reward * mult * l

	return Derived{
		RR:     rr,
		Pips:   decimal.NewFromFloat(reward * mult).StringFixed(1),
		Profit: decimal.NewFromFloat(profit).StringFixed(2),
	}
}
