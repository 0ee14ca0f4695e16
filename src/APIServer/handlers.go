package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/streampulse/streampulse/src/internal/ports"
)

// Per-query budget. The store is the only slow dependency, so one timeout
// covers every endpoint.
const queryTimeout = 10 * time.Second

const (
	defaultStartDate = "2024-09-01"
	defaultEndDate   = "2024-09-30"
)

type dbPinger interface {
	PingContext(ctx context.Context) error
}

type apiHandlers struct {
	repo ports.AnalyticsRepository
	db   dbPinger
	log  zerolog.Logger
}

// NewRouter wires the aggregate-query endpoints. Failures surface as real
// transport status codes with an {"error": ...} body; 200 bodies are always
// data, never an error envelope.
func NewRouter(repo ports.AnalyticsRepository, db dbPinger, log zerolog.Logger) *chi.Mux {
	h := &apiHandlers{repo: repo, db: db, log: log}

	r := chi.NewRouter()
	r.Use(metricsMiddleware)

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/subscriptions", h.subscriptions)
		r.Get("/top-content", h.topContent)
		r.Get("/revenue-trends", h.revenueTrends)
		r.Get("/payments-trend", h.paymentsTrend)
		r.Get("/watch-history-genre", h.watchHistoryGenre)
		r.Get("/user-stats/{userID}", h.userStats)
		r.Get("/popular-content-trend", h.popularContentTrend)
		r.Get("/payment-method-distribution", h.paymentMethodDistribution)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *apiHandlers) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *apiHandlers) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.writeError(w, r, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *apiHandlers) subscriptions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	metrics, err := h.repo.SubscriptionCounts(ctx)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *apiHandlers) topContent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	items, err := h.repo.TopContent(ctx)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *apiHandlers) revenueTrends(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	if startDate == "" {
		startDate = defaultStartDate
	}
	endDate := r.URL.Query().Get("end_date")
	if endDate == "" {
		endDate = defaultEndDate
	}
	for _, d := range []string{startDate, endDate} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			h.writeError(w, r, http.StatusBadRequest, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	trend, err := h.repo.RevenueTrend(ctx, startDate, endDate)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

func (h *apiHandlers) paymentsTrend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	trend, err := h.repo.WeeklyRevenue(ctx)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

func (h *apiHandlers) watchHistoryGenre(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	counts, err := h.repo.WatchCountsByGenre(ctx)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *apiHandlers) userStats(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	stats, err := h.repo.UserStats(ctx, userID)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *apiHandlers) popularContentTrend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	trend, err := h.repo.PopularContentTrend(ctx)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

func (h *apiHandlers) paymentMethodDistribution(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	dist, err := h.repo.PaymentMethodDistribution(ctx)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, dist)
}
