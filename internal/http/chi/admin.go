package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oks-citadel/citadelbuy-sub007/deadletter"
	"github.com/oks-citadel/citadelbuy-sub007/event"
)

// deadLetterResponse represents a dead-lettered delivery in the API
type deadLetterResponse struct {
	ID                 string          `json:"id"`
	WebhookID          string          `json:"webhookId"`
	OriginalDeliveryID string          `json:"originalDeliveryId"`
	EventType          string          `json:"eventType"`
	EventID            string          `json:"eventId"`
	Payload            json.RawMessage `json:"payload,omitempty"`
	ErrorMessage       string          `json:"errorMessage"`
	StatusCode         *int            `json:"statusCode,omitempty"`
	AttemptsMade       int             `json:"attemptsMade"`
	LastAttemptAt      *time.Time      `json:"lastAttemptAt,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	ProcessedAt        *time.Time      `json:"processedAt,omitempty"`
	RetriedAt          *time.Time      `json:"retriedAt,omitempty"`
}

// deadLetterRetryRequest selects the dead letter to replay
type deadLetterRetryRequest struct {
	DeadLetterID string `json:"deadLetterId"`
}

// deadLetterRetryResponse returns the replacement delivery id
type deadLetterRetryResponse struct {
	Success    bool   `json:"success"`
	DeliveryID string `json:"deliveryId"`
}

// testEventRequest triggers a synthetic event through the normal ingest path
type testEventRequest struct {
	EventType string          `json:"eventType"`
	EventID   string          `json:"eventId"`
	Payload   json.RawMessage `json:"payload"`
	Source    string          `json:"source"`
}

// testEventResponse reports the fan-out result of the test event
type testEventResponse struct {
	EventID           string `json:"eventId"`
	WebhooksTriggered int    `json:"webhooksTriggered"`
}

func toDeadLetterResponse(dl deadletter.DeadLetter) deadLetterResponse {
	return deadLetterResponse{
		ID:                 dl.ID,
		WebhookID:          dl.WebhookID,
		OriginalDeliveryID: dl.OriginalDeliveryID,
		EventType:          dl.EventType,
		EventID:            dl.EventID,
		Payload:            dl.Payload,
		ErrorMessage:       dl.ErrorMessage,
		StatusCode:         dl.StatusCode,
		AttemptsMade:       dl.AttemptsMade,
		LastAttemptAt:      dl.LastAttemptAt,
		CreatedAt:          dl.CreatedAt,
		ProcessedAt:        dl.ProcessedAt,
		RetriedAt:          dl.RetriedAt,
	}
}

// getDeadLetters handles GET /webhooks/admin/dead-letter-queue
func getDeadLetters(deadLetterService deadletter.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pagination(r)

		letters, err := deadLetterService.List(r.Context(), limit, offset)
		if err != nil {
			respondError(w, statusFromError(err), err)
			return
		}

		result := make([]deadLetterResponse, 0, len(letters))
		for _, dl := range letters {
			result = append(result, toDeadLetterResponse(dl))
		}
		respondJSON(w, http.StatusOK, result)
	})
}

// postDeadLetterRetry handles POST /webhooks/admin/dead-letter-queue/retry
func postDeadLetterRetry(deadLetterService deadletter.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req deadLetterRetryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		if req.DeadLetterID == "" {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "deadLetterId is required"})
			return
		}

		d, err := deadLetterService.Retry(r.Context(), req.DeadLetterID)
		if err != nil {
			respondError(w, statusFromError(err), err)
			return
		}
		respondJSON(w, http.StatusOK, deadLetterRetryResponse{Success: true, DeliveryID: d.ID})
	})
}

// postTestEvent handles POST /webhooks/admin/trigger-test-event
func postTestEvent(eventService event.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req testEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}

		source := req.Source
		if source == "" {
			source = "admin-test"
		}

		log, err := eventService.Ingest(r.Context(), req.EventType, req.EventID, req.Payload, source, "admin")
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}

		respondJSON(w, http.StatusAccepted, testEventResponse{
			EventID:           log.EventID,
			WebhooksTriggered: log.WebhooksTriggered,
		})
	})
}
