package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oks-citadel/citadelbuy-sub007/delivery"
)

// deliveryResponse represents a delivery job in the API
type deliveryResponse struct {
	ID           string          `json:"id"`
	WebhookID    string          `json:"webhookId"`
	EventType    string          `json:"eventType"`
	EventID      string          `json:"eventId"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	MaxAttempts  int             `json:"maxAttempts"`
	NextRetryAt  *time.Time      `json:"nextRetryAt,omitempty"`
	StatusCode   *int            `json:"statusCode,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	DeliveredAt  *time.Time      `json:"deliveredAt,omitempty"`
	FailedAt     *time.Time      `json:"failedAt,omitempty"`
}

// retryRequest selects the delivery to retry manually
type retryRequest struct {
	DeliveryID string `json:"deliveryId"`
}

func toDeliveryResponse(d delivery.Delivery) deliveryResponse {
	return deliveryResponse{
		ID:           d.ID,
		WebhookID:    d.WebhookID,
		EventType:    d.EventType,
		EventID:      d.EventID,
		Payload:      d.Payload,
		Status:       d.Status.String(),
		Attempts:     d.Attempts,
		MaxAttempts:  d.MaxAttempts,
		NextRetryAt:  d.NextRetryAt,
		StatusCode:   d.StatusCode,
		ErrorMessage: d.ErrorMessage,
		CreatedAt:    d.CreatedAt,
		DeliveredAt:  d.DeliveredAt,
		FailedAt:     d.FailedAt,
	}
}

// getDeliveries handles GET /webhooks/{id}/deliveries
func getDeliveries(deliveryService delivery.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pagination(r)

		deliveries, err := deliveryService.ListByWebhook(r.Context(), chi.URLParam(r, "id"), limit, offset)
		if err != nil {
			respondError(w, statusFromError(err), err)
			return
		}

		result := make([]deliveryResponse, 0, len(deliveries))
		for _, d := range deliveries {
			result = append(result, toDeliveryResponse(d))
		}
		respondJSON(w, http.StatusOK, result)
	})
}

// getStats handles GET /webhooks/{id}/stats
func getStats(deliveryService delivery.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := deliveryService.Stats(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, statusFromError(err), err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	})
}

// postDeliveryRetry handles POST /webhooks/deliveries/retry
func postDeliveryRetry(deliveryService delivery.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req retryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		if req.DeliveryID == "" {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "deliveryId is required"})
			return
		}

		if err := deliveryService.RetryNow(r.Context(), req.DeliveryID); err != nil {
			respondError(w, statusFromError(err), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
}
