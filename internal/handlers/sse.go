package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"salesdash/internal/models"
	"salesdash/internal/services"
)

const maxTableRows = 50

var productTableTemplate = template.Must(template.New("productTable").Parse(`
<div id="products-table">
<table class="modern-table">
<thead><tr><th>Product</th><th>Revenue</th><th>Quantity</th><th>Avg Revenue</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Product}}</td>
<td><strong>${{printf "%.2f" .Revenue}}</strong></td>
<td>{{printf "%.0f" .Quantity}}</td>
<td>{{if .HasAverage}}${{printf "%.2f" .Average}}{{else}}&mdash;{{end}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type productTableRow struct {
	Product    string
	Revenue    float64
	Quantity   float64
	Average    float64
	HasAverage bool
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderProductTable(report models.Report) (string, error) {
	labels := report.ProductRevenue.Labels
	if len(labels) > maxTableRows {
		labels = labels[:maxTableRows]
	}

	rows := make([]productTableRow, 0, len(labels))
	for i := range labels {
		row := productTableRow{
			Product:  labels[i],
			Revenue:  deref(report.ProductRevenue.Series[0].Values[i]),
			Quantity: deref(report.QuantitySold.Series[0].Values[i]),
		}
		if avg := report.AverageRevenue.Series[0].Values[i]; avg != nil {
			row.Average = *avg
			row.HasAverage = true
		}
		rows = append(rows, row)
	}

	var buf strings.Builder
	err := productTableTemplate.Execute(&buf, map[string]any{"Rows": rows})
	return buf.String(), err
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (h *SSEHandlers) patchSignals(w http.ResponseWriter, r *http.Request, signals map[string]any) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRevenueOverTime(w http.ResponseWriter, r *http.Request) {
	h.patchSignals(w, r, map[string]any{
		"revenueOverTime": h.analytics.RevenueOverTime(),
	})
}

func (h *SSEHandlers) HandleProductRevenue(w http.ResponseWriter, r *http.Request) {
	h.patchSignals(w, r, map[string]any{
		"productRevenue": h.analytics.ProductRevenue(),
	})
}

func (h *SSEHandlers) HandleQuantitySold(w http.ResponseWriter, r *http.Request) {
	h.patchSignals(w, r, map[string]any{
		"quantitySold": h.analytics.QuantitySold(),
	})
}

func (h *SSEHandlers) HandleAverageRevenue(w http.ResponseWriter, r *http.Request) {
	h.patchSignals(w, r, map[string]any{
		"averageRevenue": h.analytics.AverageRevenue(),
	})
}

func (h *SSEHandlers) HandleRevenueVsQuantity(w http.ResponseWriter, r *http.Request) {
	h.patchSignals(w, r, map[string]any{
		"revenueVsQuantity": h.analytics.RevenueVsQuantity(),
	})
}

func (h *SSEHandlers) HandleMonthlyGrowth(w http.ResponseWriter, r *http.Request) {
	h.patchSignals(w, r, map[string]any{
		"monthlyGrowth": h.analytics.MonthlyGrowth(),
	})
}

// HandleRefreshAll pushes every dataset plus the rendered product table in a
// single SSE response, used right after an upload completes.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	report := h.analytics.Report()

	html, err := h.renderProductTable(report)
	if err != nil {
		h.logger.Error("render product table", "error", err)
		return
	}
	sse.PatchElements(html)

	allSignals, err := json.Marshal(map[string]any{
		"revenueOverTime":   report.RevenueOverTime,
		"productRevenue":    report.ProductRevenue,
		"quantitySold":      report.QuantitySold,
		"averageRevenue":    report.AverageRevenue,
		"revenueVsQuantity": report.RevenueVsQuantity,
		"monthlyGrowth":     report.MonthlyGrowth,
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
