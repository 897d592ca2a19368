// Package server implements the HTTP presentation layer: a JSON calculation
// API, a CSV export, and an embedded single-page UI. The schedule package
// does the actual work; everything here is request plumbing.
package server

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/iwvelando/mortgage-calc/internal/cache"
	"github.com/iwvelando/mortgage-calc/internal/config"
	"github.com/iwvelando/mortgage-calc/internal/metrics"
	"github.com/iwvelando/mortgage-calc/pkg/output"
	"github.com/iwvelando/mortgage-calc/pkg/schedule"
	"github.com/iwvelando/mortgage-calc/pkg/validation"
)

//go:embed static/*
var staticFiles embed.FS

// resultCacheTTL bounds how long a cached summary stays valid.
const resultCacheTTL = time.Hour

type handler struct {
	logger  *zap.Logger
	builder *schedule.Builder
	cache   cache.Cache
	limits  validation.Limits
	maxBody int64
	version string
}

type calculateRequest struct {
	LoanAmount   float64               `json:"loan_amount"`
	Years        int                   `json:"years"`
	Installment  bool                  `json:"installment"`
	InterestRate float64               `json:"interest_rate"`
	Prepayments  []schedule.Prepayment `json:"prepayments"`
	Strategy     string                `json:"strategy"`
}

// NewHandler constructs the HTTP handler that serves the web UI and
// calculation API.
func NewHandler(logger *zap.Logger, conf *config.Configuration, resultCache cache.Cache, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resultCache == nil {
		resultCache = cache.NewMemory()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:  logger,
		builder: schedule.NewBuilder(logger),
		cache:   resultCache,
		limits:  conf.ValidationLimits(),
		maxBody: conf.Server.MaxBodyBytes,
		version: trimmedVersion,
	}

	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	if conf.Server.RateLimit.Requests > 0 {
		limiter := NewRateLimiter(conf.Server.RateLimit.Requests,
			time.Duration(conf.Server.RateLimit.WindowSeconds)*time.Second)
		api.Use(limiter.Middleware(logger))
	}
	api.HandleFunc("/calculate", h.handleCalculate).Methods(http.MethodPost)
	api.HandleFunc("/download/csv", h.handleDownloadCSV).Methods(http.MethodGet)
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Static assets (web UI). Registered on the exact root path so that
	// method mismatches on API routes still surface as 405s.
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	router.Path("/").Handler(http.FileServer(http.FS(sub)))

	return cors.Default().Handler(router)
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.CalculationRequests.WithLabelValues("invalid").Inc()
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleCalculate")
		return
	}

	// Installment loans are always interest-free.
	if req.Installment {
		req.InterestRate = 0.00
	}

	strategy, err := schedule.ParseStrategy(req.Strategy)
	if err != nil {
		metrics.CalculationRequests.WithLabelValues("invalid").Inc()
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleCalculate")
		return
	}

	if err := validation.ValidateLoanRequest(req.LoanAmount, req.Years, req.InterestRate, req.Prepayments, h.limits); err != nil {
		metrics.CalculationRequests.WithLabelValues("invalid").Inc()
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleCalculate")
		return
	}

	ctx := r.Context()
	key := requestKey(req, strategy)
	if cached, ok := h.cache.Get(ctx, key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		metrics.CalculationRequests.WithLabelValues("ok").Inc()
		h.writeRawJSON(w, http.StatusOK, []byte(cached))
		return
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	summary, err := h.builder.CalculateMortgage(req.LoanAmount, req.Years, req.InterestRate, req.Prepayments, strategy)
	if err != nil {
		metrics.CalculationRequests.WithLabelValues("error").Inc()
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleCalculate")
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		metrics.CalculationRequests.WithLabelValues("error").Inc()
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode result: %v", err), "server.handleCalculate")
		return
	}

	// Cache failures are not fatal; the result is already computed.
	if err := h.cache.Set(ctx, key, string(payload), resultCacheTTL); err != nil {
		h.logger.Warn("failed to cache calculation result",
			zap.String("op", "server.handleCalculate"),
			zap.Error(err),
		)
	}

	metrics.CalculationRequests.WithLabelValues("ok").Inc()
	h.logger.Info("schedule computed",
		zap.String("op", "server.handleCalculate"),
		zap.Int("payments", summary.TotalPayments),
		zap.String("strategy", string(strategy)),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeRawJSON(w, http.StatusOK, payload)
}

func (h *handler) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	loanAmount, err := strconv.ParseFloat(q.Get("loan_amount"), 64)
	if err != nil {
		metrics.ExportDownloads.WithLabelValues("invalid").Inc()
		h.respondError(w, http.StatusBadRequest, "invalid loan_amount", "server.handleDownloadCSV")
		return
	}
	years, err := strconv.Atoi(q.Get("years"))
	if err != nil {
		metrics.ExportDownloads.WithLabelValues("invalid").Inc()
		h.respondError(w, http.StatusBadRequest, "invalid years", "server.handleDownloadCSV")
		return
	}

	interestRate := 0.00
	if !strings.EqualFold(q.Get("installment"), "true") {
		interestRate, err = parseOptionalFloat(q.Get("interest_rate"))
		if err != nil {
			metrics.ExportDownloads.WithLabelValues("invalid").Inc()
			h.respondError(w, http.StatusBadRequest, "invalid interest_rate", "server.handleDownloadCSV")
			return
		}
	}

	strategy, err := schedule.ParseStrategy(q.Get("strategy"))
	if err != nil {
		metrics.ExportDownloads.WithLabelValues("invalid").Inc()
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleDownloadCSV")
		return
	}

	// Simple form: one optional prepayment, applied only when both fields
	// are positive.
	prepayAmount, err := parseOptionalFloat(q.Get("prepay_amount"))
	if err != nil {
		metrics.ExportDownloads.WithLabelValues("invalid").Inc()
		h.respondError(w, http.StatusBadRequest, "invalid prepay_amount", "server.handleDownloadCSV")
		return
	}
	prepayMonth, err := parseOptionalInt(q.Get("prepay_month"))
	if err != nil {
		metrics.ExportDownloads.WithLabelValues("invalid").Inc()
		h.respondError(w, http.StatusBadRequest, "invalid prepay_month", "server.handleDownloadCSV")
		return
	}
	var prepayments []schedule.Prepayment
	if prepayAmount > 0 && prepayMonth > 0 {
		prepayments = append(prepayments, schedule.Prepayment{Month: prepayMonth, Amount: prepayAmount})
	}

	if err := validation.ValidateLoanRequest(loanAmount, years, interestRate, prepayments, h.limits); err != nil {
		metrics.ExportDownloads.WithLabelValues("invalid").Inc()
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleDownloadCSV")
		return
	}

	summary, err := h.builder.CalculateMortgage(loanAmount, years, interestRate, prepayments, strategy)
	if err != nil {
		metrics.ExportDownloads.WithLabelValues("error").Inc()
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleDownloadCSV")
		return
	}

	filename := output.CsvFilename(loanAmount, years, interestRate, strategy)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(output.CsvString(summary.FullSchedule))); err != nil {
		h.logger.Error("failed to write CSV response",
			zap.String("op", "server.handleDownloadCSV"),
			zap.Error(err),
		)
		return
	}
	metrics.ExportDownloads.WithLabelValues("ok").Inc()
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// requestKey derives a stable cache key from a validated request.
func requestKey(req calculateRequest, strategy schedule.Strategy) string {
	req.Strategy = string(strategy)
	raw, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return "mortgage:" + hex.EncodeToString(sum[:])
}

func parseOptionalFloat(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseOptionalInt(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
