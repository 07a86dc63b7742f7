package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"github.com/oks-citadel/citadelbuy-sub007/deadletter"
	"github.com/oks-citadel/citadelbuy-sub007/delivery"
	"github.com/oks-citadel/citadelbuy-sub007/event"
	"github.com/oks-citadel/citadelbuy-sub007/webhook"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// Handlers sets up the management API routes
func Handlers(ctx context.Context, webhookService webhook.UseCase, deliveryService delivery.UseCase, eventService event.UseCase, deadLetterService deadletter.UseCase, metricsHandler http.Handler) *chi.Mux {
	logger := httplog.NewLogger("webhook-api", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/webhooks", func(r chi.Router) {
		r.Method(http.MethodPost, "/", postWebhook(webhookService))
		r.Method(http.MethodGet, "/", getWebhooks(webhookService))

		r.Method(http.MethodPost, "/deliveries/retry", postDeliveryRetry(deliveryService))

		r.Route("/admin", func(r chi.Router) {
			r.Method(http.MethodGet, "/dead-letter-queue", getDeadLetters(deadLetterService))
			r.Method(http.MethodPost, "/dead-letter-queue/retry", postDeadLetterRetry(deadLetterService))
			r.Method(http.MethodPost, "/trigger-test-event", postTestEvent(eventService))
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Method(http.MethodGet, "/", getWebhook(webhookService))
			r.Method(http.MethodPut, "/", putWebhook(webhookService))
			r.Method(http.MethodDelete, "/", deleteWebhook(webhookService))
			r.Method(http.MethodPost, "/rotate-secret", postRotateSecret(webhookService))
			r.Method(http.MethodGet, "/deliveries", getDeliveries(deliveryService))
			r.Method(http.MethodGet, "/stats", getStats(deliveryService))
		})
	})

	return r
}

// errorResponse is the uniform error body for the management API
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFromError maps domain sentinels to HTTP status codes
func statusFromError(err error) int {
	switch {
	case errors.Is(err, webhook.ErrNotFound),
		errors.Is(err, delivery.ErrNotFound),
		errors.Is(err, deadletter.ErrNotFound),
		errors.Is(err, event.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, delivery.ErrNotRetryable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// pagination parses limit/offset query parameters with defaults and caps
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	return limit, offset
}
