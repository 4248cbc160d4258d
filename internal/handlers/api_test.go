package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salesdash/internal/models"
	"salesdash/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRows() []models.SaleRow {
	return []models.SaleRow{
		{Date: time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), Product: "A", Revenue: 100, Quantity: 10},
		{Date: time.Date(2023, 1, 6, 0, 0, 0, 0, time.UTC), Product: "B", Revenue: 50, Quantity: 5},
		{Date: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), Product: "A", Revenue: 200, Quantity: 20},
	}
}

func loadedAnalytics() *services.Analytics {
	a := services.NewAnalytics()
	a.SetRows(sampleRows())
	return a
}

type datasetEnvelope struct {
	Data    models.Dataset `json:"data"`
	Success bool           `json:"success"`
}

func TestAPIHandlers_Datasets(t *testing.T) {
	h := NewAPIHandlers(loadedAnalytics(), testLogger())

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantLabels int
	}{
		{"revenue over time", h.HandleRevenueOverTime, 3},
		{"product revenue", h.HandleProductRevenue, 2},
		{"quantity sold", h.HandleQuantitySold, 2},
		{"average revenue", h.HandleAverageRevenue, 2},
		{"monthly growth", h.HandleMonthlyGrowth, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			rec := httptest.NewRecorder()

			tt.handler(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q, want application/json", ct)
			}

			var envelope datasetEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if !envelope.Success {
				t.Error("success = false, want true")
			}
			if len(envelope.Data.Labels) != tt.wantLabels {
				t.Errorf("labels = %v, want %d entries", envelope.Data.Labels, tt.wantLabels)
			}
			if len(envelope.Data.Series) != 1 {
				t.Fatalf("series count = %d, want 1", len(envelope.Data.Series))
			}
			if len(envelope.Data.Series[0].Values) != tt.wantLabels {
				t.Errorf("values length %d does not match labels length %d",
					len(envelope.Data.Series[0].Values), tt.wantLabels)
			}
		})
	}
}

func TestAPIHandlers_RevenueVsQuantity(t *testing.T) {
	h := NewAPIHandlers(loadedAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/revenue-vs-quantity", nil)
	rec := httptest.NewRecorder()

	h.HandleRevenueVsQuantity(rec, req)

	var envelope struct {
		Data    models.ScatterDataset `json:"data"`
		Success bool                  `json:"success"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	want := []models.Point{{X: 30, Y: 300}, {X: 5, Y: 50}}
	if len(envelope.Data.Points) != len(want) {
		t.Fatalf("points = %v, want %v", envelope.Data.Points, want)
	}
	for i := range want {
		if envelope.Data.Points[i] != want[i] {
			t.Errorf("point[%d] = %v, want %v", i, envelope.Data.Points[i], want[i])
		}
	}
}

func TestAPIHandlers_AverageRevenueNulls(t *testing.T) {
	a := services.NewAnalytics()
	a.SetRows([]models.SaleRow{
		{Date: time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), Product: "Freebie", Revenue: 100, Quantity: 0},
	})
	h := NewAPIHandlers(a, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/average-revenue", nil)
	rec := httptest.NewRecorder()

	h.HandleAverageRevenue(rec, req)

	var envelope datasetEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if v := envelope.Data.Series[0].Values[0]; v != nil {
		t.Errorf("undefined average = %v, want JSON null", *v)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	h := NewAPIHandlers(services.NewAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var envelope struct {
		Data    map[string]string `json:"data"`
		Success bool              `json:"success"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", envelope.Data["status"])
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	h := NewAPIHandlers(loadedAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()

	h.HandleStats(rec, req)

	var envelope struct {
		Data    map[string]any `json:"data"`
		Success bool           `json:"success"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got := envelope.Data["row_count"]; got != float64(3) {
		t.Errorf("row_count = %v, want 3", got)
	}
}
