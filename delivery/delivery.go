package delivery

import (
	"encoding/json"
	"time"
)

/* Delivery represents one attempt-tracked job: deliver event E to webhook W.
 * The payload is an immutable snapshot taken at dispatch time.
 */
type Delivery struct {
	ID          string
	WebhookID   string
	EventType   string
	EventID     string
	Payload     json.RawMessage
	Source      string
	TriggeredBy string

	Status      Status
	Attempts    int
	MaxAttempts int

	NextRetryAt   *time.Time
	LastAttemptAt *time.Time
	StatusCode    *int
	ErrorMessage  string

	CreatedAt   time.Time
	DeliveredAt *time.Time
	FailedAt    *time.Time
}

// Attempt is one append-only audit record for a delivery attempt
type Attempt struct {
	DeliveryID string
	Number     int
	StatusCode *int
	Error      string
	Duration   time.Duration
	At         time.Time
}

// Stats holds per-webhook delivery counts by status
type Stats struct {
	Pending   int64 `json:"PENDING"`
	Retrying  int64 `json:"RETRYING"`
	Delivered int64 `json:"DELIVERED"`
	Failed    int64 `json:"FAILED"`
}
