// Package report renders the performance report: a self-contained HTML
// page of equity, drawdown, monthly and hourly charts over the journal.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"tradevo/internal/journal"
	"tradevo/internal/metrics"
)

const (
	colorBackground    = "#060c1b"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorEquity        = "#3b82f6"
	colorDrawdown      = "#f87171"
	colorWin           = "#34d399"
	colorLoss          = "#f87171"

	chartWidthPx  = 1200
	chartHeightPx = 420
)

// Input is everything the report needs, already loaded.
type Input struct {
	Trades         []journal.TradeRecord
	InitialBalance float64
	GeneratedAt    time.Time
}

// Render builds the report HTML.
func Render(in Input) ([]byte, error) {
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}
	summary := metrics.Summarize(in.Trades, in.InitialBalance)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.PageTitle = "Trading Performance Report"
	page.AddCharts(
		buildEquityChart(in, summary),
		buildDrawdownChart(in),
		buildMonthlyChart(in.Trades),
		buildHourlyChart(in.Trades),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render report failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders the report into dir with a date-stamped filename and
// returns the file path.
func Write(dir string, in Input) (string, error) {
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}
	html, err := Render(in)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir failed: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("report_%s.html", in.GeneratedAt.Format("20060102_150405")))
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", fmt.Errorf("write report failed: %w", err)
	}
	return path, nil
}

func chartInit() opts.Initialization {
	return opts.Initialization{
		Theme:           types.ThemeWesteros,
		Width:           fmt.Sprintf("%dpx", chartWidthPx),
		Height:          fmt.Sprintf("%dpx", chartHeightPx),
		BackgroundColor: colorBackground,
	}
}

func axisOptions() []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	}
}

func buildEquityChart(in Input, summary metrics.Summary) *charts.Line {
	points := metrics.EquityCurve(in.Trades, in.InitialBalance)
	line := charts.NewLine()
	globalOpts := append([]charts.GlobalOpts{
		charts.WithInitializationOpts(chartInit()),
		charts.WithTitleOpts(opts.Title{
			Title: "Equity Curve",
			Subtitle: fmt.Sprintf("trades %d | win rate %.1f%% | net P&L %.2f | profit factor %.2f",
				summary.TotalTrades, summary.WinRate, summary.NetPnL, summary.ProfitFactor),
			Left:          "left",
			Top:           "10",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
	}, axisOptions()...)
	line.SetGlobalOptions(globalOpts...)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	labels := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		labels[i] = p.Label
		data[i] = opts.LineData{Value: p.Equity}
	}
	line.SetXAxis(labels)
	line.AddSeries("Equity", data, charts.WithLineStyleOpts(opts.LineStyle{Color: colorEquity, Width: 2}))
	return line
}

func buildDrawdownChart(in Input) *charts.Line {
	points := metrics.DrawdownSeries(in.Trades, in.InitialBalance)
	line := charts.NewLine()
	globalOpts := append([]charts.GlobalOpts{
		charts.WithInitializationOpts(chartInit()),
		charts.WithTitleOpts(opts.Title{Title: "Drawdown %", Left: "left", TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
	}, axisOptions()...)
	line.SetGlobalOptions(globalOpts...)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	labels := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		labels[i] = p.Label
		data[i] = opts.LineData{Value: p.Drawdown}
	}
	line.SetXAxis(labels)
	line.AddSeries("Drawdown", data, charts.WithLineStyleOpts(opts.LineStyle{Color: colorDrawdown, Width: 2}))
	return line
}

func buildMonthlyChart(trades []journal.TradeRecord) *charts.Bar {
	months := metrics.MonthlyPnL(trades)
	bar := charts.NewBar()
	globalOpts := append([]charts.GlobalOpts{
		charts.WithInitializationOpts(chartInit()),
		charts.WithTitleOpts(opts.Title{Title: "Monthly P&L", Left: "left", TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}, axisOptions()...)
	bar.SetGlobalOptions(globalOpts...)

	labels := make([]string, len(months))
	data := make([]opts.BarData, len(months))
	for i, m := range months {
		labels[i] = m.Label
		color := colorLoss
		if m.PnL >= 0 {
			color = colorWin
		}
		data[i] = opts.BarData{Value: m.PnL, ItemStyle: &opts.ItemStyle{Color: color, Opacity: opts.Float(0.8)}}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("P&L", data)
	return bar
}

func buildHourlyChart(trades []journal.TradeRecord) *charts.Bar {
	hours := metrics.HourlyBreakdown(trades)
	bar := charts.NewBar()
	globalOpts := append([]charts.GlobalOpts{
		charts.WithInitializationOpts(chartInit()),
		charts.WithTitleOpts(opts.Title{Title: "P&L by Hour", Left: "left", TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}, axisOptions()...)
	bar.SetGlobalOptions(globalOpts...)

	labels := make([]string, len(hours))
	data := make([]opts.BarData, len(hours))
	for i, h := range hours {
		labels[i] = fmt.Sprintf("%02d:00", h.Hour)
		color := colorLoss
		if h.Profit >= 0 {
			color = colorWin
		}
		data[i] = opts.BarData{Value: h.Profit, ItemStyle: &opts.ItemStyle{Color: color, Opacity: opts.Float(0.8)}}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("P&L", data)
	return bar
}
