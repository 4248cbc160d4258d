package server

import (
	"log/slog"
	"net/http"

	"salesdash/internal/handlers"
	"salesdash/internal/services"
)

type Server struct {
	analytics      *services.Analytics
	mux            *http.ServeMux
	logger         *slog.Logger
	apiHandlers    *handlers.APIHandlers
	uploadHandlers *handlers.UploadHandlers
	sseHandlers    *handlers.SSEHandlers
	chartHandlers  *handlers.ChartHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers, maxUploadBytes int64) *Server {
	s := &Server{
		analytics:      analytics,
		mux:            http.NewServeMux(),
		logger:         logger,
		apiHandlers:    handlers.NewAPIHandlers(analytics, logger),
		uploadHandlers: handlers.NewUploadHandlers(analytics, logger, maxUploadBytes),
		sseHandlers:    handlers.NewSSEHandlers(analytics, logger),
		chartHandlers:  handlers.NewChartHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// Upload endpoints: /api/upload feeds the dashboard, /upload is the
	// legacy JSON echo contract.
	s.mux.HandleFunc("POST /api/upload", s.uploadHandlers.HandleDatasetUpload)
	s.mux.HandleFunc("POST /upload", s.uploadHandlers.HandleJSONEcho)

	// REST API endpoints, one per derived dataset
	s.mux.HandleFunc("GET /api/report", s.apiHandlers.HandleReport)
	s.mux.HandleFunc("GET /api/revenue-over-time", s.apiHandlers.HandleRevenueOverTime)
	s.mux.HandleFunc("GET /api/product-revenue", s.apiHandlers.HandleProductRevenue)
	s.mux.HandleFunc("GET /api/quantity-sold", s.apiHandlers.HandleQuantitySold)
	s.mux.HandleFunc("GET /api/average-revenue", s.apiHandlers.HandleAverageRevenue)
	s.mux.HandleFunc("GET /api/revenue-vs-quantity", s.apiHandlers.HandleRevenueVsQuantity)
	s.mux.HandleFunc("GET /api/monthly-growth", s.apiHandlers.HandleMonthlyGrowth)

	// Server-rendered chart images
	s.mux.HandleFunc("GET /api/charts/{name}", s.chartHandlers.HandleChartPNG)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/revenue-over-time", s.sseHandlers.HandleRevenueOverTime)
	s.mux.HandleFunc("GET /sse/product-revenue", s.sseHandlers.HandleProductRevenue)
	s.mux.HandleFunc("GET /sse/quantity-sold", s.sseHandlers.HandleQuantitySold)
	s.mux.HandleFunc("GET /sse/average-revenue", s.sseHandlers.HandleAverageRevenue)
	s.mux.HandleFunc("GET /sse/revenue-vs-quantity", s.sseHandlers.HandleRevenueVsQuantity)
	s.mux.HandleFunc("GET /sse/monthly-growth", s.sseHandlers.HandleMonthlyGrowth)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
