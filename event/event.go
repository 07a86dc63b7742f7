package event

import (
	"encoding/json"
	"fmt"
	"time"
)

/* Log is the dedup/audit record for one ingested domain event.
 * EventID is globally unique: re-ingesting the same id is a no-op.
 */
type Log struct {
	EventType   string
	EventID     string
	Payload     json.RawMessage
	Source      string
	TriggeredBy string

	WebhooksTriggered int
	Processed         bool
	ProcessedAt       *time.Time
	CreatedAt         time.Time
}

// Validate checks the fields producers must provide
func (l Log) Validate() error {
	if l.EventType == "" {
		return fmt.Errorf("event type is required")
	}
	if l.EventID == "" {
		return fmt.Errorf("event id is required")
	}
	if len(l.Payload) > 0 && !json.Valid(l.Payload) {
		return fmt.Errorf("payload must be valid JSON")
	}
	return nil
}
