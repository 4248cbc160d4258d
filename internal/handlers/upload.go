package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"salesdash/internal/errors"
	"salesdash/internal/ingest"
	"salesdash/internal/observability"
	"salesdash/internal/services"
)

type UploadHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
	maxBytes  int64
}

func NewUploadHandlers(analytics *services.Analytics, logger *slog.Logger, maxBytes int64) *UploadHandlers {
	return &UploadHandlers{
		analytics: analytics,
		logger:    logger,
		maxBytes:  maxBytes,
	}
}

// HandleDatasetUpload ingests a CSV/XLS/XLSX file, recomputes every dataset
// and responds with the fresh report. The file is held in memory only for the
// duration of the request.
func (h *UploadHandlers) HandleDatasetUpload(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequest("no file uploaded"), requestID)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "failed to read uploaded file"), requestID)
		return
	}

	start := time.Now()
	rows, err := ingest.Parse(data, header.Filename)
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "failed to parse uploaded file"), requestID)
		return
	}

	report := h.analytics.SetRows(rows)

	h.logger.Info("dataset replaced",
		"filename", header.Filename,
		"format", ingest.DetectFormat(header.Filename).String(),
		"rows", report.RowCount,
		"products", len(report.ProductRevenue.Labels),
		"months", len(report.MonthlyGrowth.Labels),
		"duration", time.Since(start),
		"request_id", requestID,
	)

	errors.WriteSuccess(w, report)
}

// HandleJSONEcho implements the legacy upload contract: the uploaded file's
// bytes are parsed as JSON and echoed back. Error bodies are plain text and
// must stay byte-for-byte stable for existing clients.
func (h *UploadHandlers) HandleJSONEcho(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file uploaded.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Invalid JSON file.", http.StatusBadRequest)
		return
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		http.Error(w, "Invalid JSON file.", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(parsed); err != nil {
		h.logger.Error("encode echo response", "error", err)
	}
}
