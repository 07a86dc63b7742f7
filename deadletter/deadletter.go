package deadletter

import (
	"encoding/json"
	"time"
)

/* DeadLetter is a permanently failed delivery, decoupled from the live
 * queue for operator review. Replaying one creates a brand-new delivery;
 * the dead letter row itself is kept for history.
 */
type DeadLetter struct {
	ID                 string
	WebhookID          string
	OriginalDeliveryID string
	EventType          string
	EventID            string
	Payload            json.RawMessage
	Source             string
	TriggeredBy        string

	ErrorMessage  string
	StatusCode    *int
	AttemptsMade  int
	LastAttemptAt *time.Time

	CreatedAt   time.Time
	ProcessedAt *time.Time
	RetriedAt   *time.Time
}
