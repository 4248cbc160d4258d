package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	"salesdash/internal/errors"
	"salesdash/internal/models"
	"salesdash/internal/observability"
	"salesdash/internal/services"
)

const (
	chartWidth  = 900
	chartHeight = 400
	maxTicks    = 12
)

// renderable is satisfied by both chart.Chart and chart.BarChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

type ChartHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewChartHandlers(analytics *services.Analytics, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleChartPNG renders one of the six datasets as a PNG, for embedding the
// dashboard's charts outside the browser (reports, chat previews).
func (h *ChartHandlers) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())
	name := strings.TrimSuffix(r.PathValue("name"), ".png")

	var (
		c   renderable
		err error
	)
	switch name {
	case "revenue-over-time":
		c, err = lineChart("Revenue Over Time", h.analytics.RevenueOverTime())
	case "product-revenue":
		c, err = barChart("Revenue by Product", h.analytics.ProductRevenue())
	case "quantity-sold":
		c, err = barChart("Quantity Sold by Product", h.analytics.QuantitySold())
	case "average-revenue":
		c, err = barChart("Average Revenue per Unit", h.analytics.AverageRevenue())
	case "revenue-vs-quantity":
		c, err = scatterChart("Revenue vs Quantity", h.analytics.RevenueVsQuantity())
	case "monthly-growth":
		c, err = lineChart("Monthly Growth %", h.analytics.MonthlyGrowth())
	default:
		errors.WriteError(w, h.logger, errors.NotFound(fmt.Sprintf("unknown chart %q", name)), requestID)
		return
	}
	if err != nil {
		errors.WriteError(w, h.logger, errors.NotFound(err.Error()), requestID)
		return
	}

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		h.logger.Error("render chart", "chart", name, "error", err, "request_id", requestID)
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to render chart"), requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", datasetCacheControl)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("write chart response", "chart", name, "error", err)
	}
}

func lineChart(title string, ds models.Dataset) (renderable, error) {
	var xs, ys []float64
	for i, v := range ds.Series[0].Values {
		if v == nil {
			// Undefined point, rendered as a gap.
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, *v)
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("not enough data to render %q", title)
	}

	return chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Ticks: axisTicks(ds.Labels)},
		YAxis:  chart.YAxis{Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    ds.Series[0].Name,
				XValues: xs,
				YValues: ys,
			},
		},
	}, nil
}

func barChart(title string, ds models.Dataset) (renderable, error) {
	bars := make([]chart.Value, 0, len(ds.Labels))
	for i, label := range ds.Labels {
		v := ds.Series[0].Values[i]
		if v == nil {
			continue
		}
		bars = append(bars, chart.Value{Label: label, Value: *v})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("not enough data to render %q", title)
	}

	vals := make([]float64, len(bars))
	for i, b := range bars {
		vals[i] = b.Value
	}

	return chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Bars:     bars,
		YAxis:    chart.YAxis{Range: barRange(vals)},
	}, nil
}

func scatterChart(title string, ds models.ScatterDataset) (renderable, error) {
	if len(ds.Points) < 2 {
		return nil, fmt.Errorf("not enough data to render %q", title)
	}

	xs := make([]float64, len(ds.Points))
	ys := make([]float64, len(ds.Points))
	for i, p := range ds.Points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	return chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Range: paddedRange(xs)},
		YAxis:  chart.YAxis{Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColor:    chart.ColorBlue,
				},
			},
		},
	}, nil
}

// paddedRange gives go-chart an explicit axis range; it refuses to render a
// range with zero delta, which happens whenever every value is identical.
func paddedRange(vals []float64) *chart.ContinuousRange {
	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		min--
		max++
	}
	return &chart.ContinuousRange{Min: min, Max: max}
}

// barRange anchors bar charts at zero.
func barRange(vals []float64) *chart.ContinuousRange {
	r := paddedRange(vals)
	if r.Min > 0 {
		r.Min = 0
	}
	return r
}

// axisTicks labels the x axis when the label count is small enough to stay
// legible; otherwise the default numeric axis is used.
func axisTicks(labels []string) []chart.Tick {
	if len(labels) == 0 || len(labels) > maxTicks {
		return nil
	}
	ticks := make([]chart.Tick, len(labels))
	for i, label := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	return ticks
}
