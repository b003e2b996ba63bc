// Package report renders a backtest as a standalone HTML page: candles with
// fill markers on top and the equity curve below.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/evdnx/stratbook/backtest"
	"github.com/evdnx/stratbook/types"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/shopspring/decimal"
)

var ErrNoCandles = errors.New("report: no candles")

const (
	width  = "1600px"
	height = "700px"
	// candles visible when the page opens
	initialWindow = 150
)

// Options tune the page. The zero value is usable.
type Options struct {
	Title string
}

// WriteHTML renders candles (one symbol), the fills booked on it and the
// equity curve. Trades on other symbols are ignored.
func WriteHTML(w io.Writer, candles []types.Candle, trades []types.Trade, equity []backtest.EquityPoint, o Options) error {
	if len(candles) == 0 {
		return ErrNoCandles
	}
	if o.Title == "" {
		o.Title = candles[0].Symbol
	}

	page := components.NewPage()
	page.PageTitle = o.Title
	page.AddCharts(priceChart(candles, trades, o.Title), equityChart(equity))
	return page.Render(w)
}

func priceChart(candles []types.Candle, trades []types.Trade, title string) *charts.Kline {
	kline := charts.NewKLine()
	start := float32(0)
	if len(candles) > initialWindow {
		start = 100 - float32(initialWindow)/float32(len(candles))*100
	}
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Start:      start,
			End:        100,
			XAxisIndex: []int{0},
			Type:       "inside",
		}, opts.DataZoom{
			Start:      start,
			End:        100,
			XAxisIndex: []int{0},
			Type:       "slider",
		}),
	)

	x := make([]string, len(candles))
	y := make([]opts.KlineData, len(candles))
	for i, c := range candles {
		x[i] = c.OpenTime.UTC().Format("2006-01-02 15:04")
		y[i] = opts.KlineData{Value: []float64{c.Open, c.Close, c.Low, c.High}}
	}
	kline.SetXAxis(x).AddSeries("Price", y).
		SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        "#26a69a",
			Color0:       "#ef5350",
			BorderColor:  "#26a69a",
			BorderColor0: "#ef5350",
		}))

	buys, sells := markers(candles, trades)
	kline.Overlap(
		scatter(x, "Buy", buys, "#2e7d32", 0, "bottom"),
		scatter(x, "Sell", sells, "#c62828", 180, "top"),
	)
	return kline
}

// markers places each fill on the candle whose span [open, close] holds its
// time. A fill stamped at a close belongs to the candle that just closed.
// Several fills on one candle collapse into a single marker at their volume
// weighted price.
func markers(candles []types.Candle, trades []types.Trade) (buys, sells []opts.ScatterData) {
	type agg struct{ qty, notional float64 }
	buyAt := make(map[int]*agg)
	sellAt := make(map[int]*agg)
	symbol := candles[0].Symbol
	for _, tr := range trades {
		if tr.Symbol != symbol {
			continue
		}
		i := sort.Search(len(candles), func(i int) bool { return !candles[i].CloseTime().Before(tr.Time) })
		if i == len(candles) || tr.Time.Before(candles[i].OpenTime) {
			continue
		}
		m := buyAt
		if tr.Side == types.Sell {
			m = sellAt
		}
		a := m[i]
		if a == nil {
			a = &agg{}
			m[i] = a
		}
		a.qty += tr.Qty
		a.notional += tr.Qty * tr.Price
	}

	build := func(m map[int]*agg, side string) []opts.ScatterData {
		out := make([]opts.ScatterData, len(candles))
		for i := range out {
			a, ok := m[i]
			if !ok {
				out[i] = opts.ScatterData{Value: "-", SymbolSize: 0}
				continue
			}
			avg := a.notional / a.qty
			label := fmt.Sprintf("%s %s @ %s", side,
				decimal.NewFromFloat(a.qty).String(),
				decimal.NewFromFloat(avg).Round(4).String())
			out[i] = opts.ScatterData{
				Value:      avg,
				Symbol:     "triangle",
				SymbolSize: 14,
				Name:       label,
			}
		}
		return out
	}
	return build(buyAt, "buy"), build(sellAt, "sell")
}

func scatter(x []string, name string, data []opts.ScatterData, color string, rotate int, labelPos string) *charts.Scatter {
	for i := range data {
		if data[i].SymbolSize > 0 {
			data[i].SymbolRotate = rotate
		}
	}
	s := charts.NewScatter()
	s.SetXAxis(x).AddSeries(name, data).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color, BorderColor: color}),
			charts.WithLabelOpts(opts.Label{
				Show:      true,
				Position:  labelPos,
				Formatter: "{b}",
			}),
		)
	return s
}

func equityChart(equity []backtest.EquityPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: "350px"}),
		charts.WithTitleOpts(opts.Title{Title: "Equity"}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Start: 0, End: 100, Type: "inside"}),
	)
	x := make([]string, len(equity))
	y := make([]opts.LineData, len(equity))
	for i, p := range equity {
		x[i] = p.Time.UTC().Format("2006-01-02 15:04")
		y[i] = opts.LineData{Value: decimal.NewFromFloat(p.Equity).Round(2).InexactFloat64()}
	}
	line.SetXAxis(x).AddSeries("Equity", y).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: false}))
	return line
}
