package metrics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradevo/internal/journal"
)

func TestEquityCurveEmpty(t *testing.T) {
	curve := EquityCurve(nil, 10000)
	assert.Equal(t, []EquityPoint{{Label: StartLabel, Equity: 10000}}, curve)
}

func TestEquityCurve(t *testing.T) {
	records := profitSeq("100", "-50", "200")
	curve := EquityCurve(records, 10000)

	assert.Len(t, curve, 4)
	assert.Equal(t, StartLabel, curve[0].Label)
	assert.Equal(t, float64(10000), curve[0].Equity)
	assert.Equal(t, "TRD-00001", curve[1].Label)
	assert.InDelta(t, 10100, curve[1].Equity, 1e-9)
	assert.InDelta(t, 10050, curve[2].Equity, 1e-9)
	assert.InDelta(t, 10250, curve[3].Equity, 1e-9)
}

func TestEquityCurveResortsInput(t *testing.T) {
	// Store order is newest-first; the curve must still run oldest-first.
	records := profitSeq("100", "-50", "200")
	reversed := []journal.TradeRecord{records[2], records[1], records[0]}
	curve := EquityCurve(reversed, 10000)
	assert.Equal(t, "TRD-00001", curve[1].Label)
	assert.InDelta(t, 10250, curve[len(curve)-1].Equity, 1e-9)
}

func TestEquityCurveEndpointsUnderPermutation(t *testing.T) {
	records := profitSeq("5", "-20", "300", "0", "-7")
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 10; i++ {
		shuffled := make([]journal.TradeRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		curve := EquityCurve(shuffled, 1000)
		assert.Equal(t, float64(1000), curve[0].Equity)
		assert.InDelta(t, 1278, curve[len(curve)-1].Equity, 1e-9)
	}
}

func TestDrawdownSeriesNeverPositive(t *testing.T) {
	records := profitSeq("200", "-600", "100", "-50", "800")
	series := DrawdownSeries(records, 1000)
	assert.Len(t, series, len(records)+1)
	for _, p := range series {
		assert.LessOrEqual(t, p.Drawdown, float64(0))
	}
}

func TestDrawdownSeriesValues(t *testing.T) {
	series := DrawdownSeries(profitSeq("200", "-600"), 1000)
	assert.Equal(t, float64(0), series[0].Drawdown)
	assert.Equal(t, float64(0), series[1].Drawdown)
	// Equity 600 against peak 1200.
	assert.InDelta(t, -50, series[2].Drawdown, 1e-9)
}

func TestDrawdownSeriesNonPositivePeak(t *testing.T) {
	series := DrawdownSeries(profitSeq("-10"), 0)
	for _, p := range series {
		assert.Equal(t, float64(0), p.Drawdown)
	}
}
