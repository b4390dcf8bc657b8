package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradevo/internal/journal"
)

func sampleTrades() []journal.TradeRecord {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return []journal.TradeRecord{
		{ID: "TRD-A", Timestamp: base, Symbol: "EURUSD", Profit: "150.00"},
		{ID: "TRD-B", Timestamp: base.Add(2 * time.Hour), Symbol: "XAUUSD", Profit: "-60.00"},
		{ID: "TRD-C", Timestamp: base.Add(26 * time.Hour), Symbol: "BTCUSDT", Profit: "90.00"},
	}
}

func TestRenderContainsCharts(t *testing.T) {
	html, err := Render(Input{Trades: sampleTrades(), InitialBalance: 10000})
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "Equity Curve")
	assert.Contains(t, body, "Drawdown")
	assert.Contains(t, body, "Monthly P")
	assert.Contains(t, body, "echarts")
}

func TestRenderEmptyJournal(t *testing.T) {
	html, err := Render(Input{InitialBalance: 5000})
	require.NoError(t, err)
	assert.NotEmpty(t, html)
}

func TestWriteCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, Input{
		Trades:         sampleTrades(),
		InitialBalance: 10000,
		GeneratedAt:    time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "report_20260311_143000.html"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}
