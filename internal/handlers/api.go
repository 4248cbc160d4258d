package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"salesdash/internal/errors"
	"salesdash/internal/services"
)

const datasetCacheControl = "no-store"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// Dataset responses are never cached: every upload replaces the report and
// the dashboard should see it immediately.
func writeDataset(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": datasetCacheControl,
	})
}

func (h *APIHandlers) HandleRevenueOverTime(w http.ResponseWriter, r *http.Request) {
	writeDataset(w, h.analytics.RevenueOverTime())
}

func (h *APIHandlers) HandleProductRevenue(w http.ResponseWriter, r *http.Request) {
	writeDataset(w, h.analytics.ProductRevenue())
}

func (h *APIHandlers) HandleQuantitySold(w http.ResponseWriter, r *http.Request) {
	writeDataset(w, h.analytics.QuantitySold())
}

func (h *APIHandlers) HandleAverageRevenue(w http.ResponseWriter, r *http.Request) {
	writeDataset(w, h.analytics.AverageRevenue())
}

func (h *APIHandlers) HandleRevenueVsQuantity(w http.ResponseWriter, r *http.Request) {
	writeDataset(w, h.analytics.RevenueVsQuantity())
}

func (h *APIHandlers) HandleMonthlyGrowth(w http.ResponseWriter, r *http.Request) {
	writeDataset(w, h.analytics.MonthlyGrowth())
}

func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	writeDataset(w, h.analytics.Report())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}
