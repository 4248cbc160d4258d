package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"salesdash/internal/ingest"
	"salesdash/internal/models"
)

// Analytics holds the chart datasets derived from the most recent upload.
// Each upload replaces the whole report; there is no incremental update and
// no cross-upload state beyond the upload counter.
type Analytics struct {
	mu      sync.RWMutex
	report  *models.Report
	logger  *slog.Logger
	uploads atomic.Int64
}

func NewAnalytics() *Analytics {
	return &Analytics{
		report: Aggregate(nil),
		logger: slog.Default(),
	}
}

// SetRows recomputes every dataset from scratch and swaps in the result.
func (a *Analytics) SetRows(rows []models.SaleRow) *models.Report {
	report := Aggregate(rows)
	report.GeneratedAt = time.Now().UTC()

	a.mu.Lock()
	a.report = report
	a.mu.Unlock()

	a.uploads.Add(1)
	return report
}

// LoadFromFile seeds the dashboard from a local CSV or spreadsheet file at
// startup. The file is read whole into memory, same as an upload.
func (a *Analytics) LoadFromFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	rows, err := ingest.Parse(data, path)
	if err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	report := a.SetRows(rows)
	a.logger.Info("seed data loaded",
		"path", path,
		"rows", report.RowCount,
		"products", len(report.ProductRevenue.Labels),
		"months", len(report.MonthlyGrowth.Labels),
		"duration", time.Since(start),
	)
	return nil
}

// Report returns the full current report.
func (a *Analytics) Report() models.Report {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return *a.report
}

func (a *Analytics) RevenueOverTime() models.Dataset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.report.RevenueOverTime
}

func (a *Analytics) ProductRevenue() models.Dataset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.report.ProductRevenue
}

func (a *Analytics) QuantitySold() models.Dataset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.report.QuantitySold
}

func (a *Analytics) AverageRevenue() models.Dataset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.report.AverageRevenue
}

func (a *Analytics) RevenueVsQuantity() models.ScatterDataset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.report.RevenueVsQuantity
}

func (a *Analytics) MonthlyGrowth() models.Dataset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.report.MonthlyGrowth
}

// Stats reports counters for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"row_count":    a.report.RowCount,
		"generated_at": a.report.GeneratedAt,
		"products":     len(a.report.ProductRevenue.Labels),
		"months":       len(a.report.MonthlyGrowth.Labels),
		"uploads":      a.uploads.Load(),
	}
}
