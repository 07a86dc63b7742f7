package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oks-citadel/citadelbuy-sub007/event"
)

/* Redis implementation of event.Repository
 * The dedup guarantee comes from writing each event under a key created
 * with SETNX semantics: the first producer wins, every retry of the same
 * event id sees ErrDuplicate.
 */

const keyPrefix = "event_log" // Key naming: event_log:{event_id}

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis event log repository
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

type logRecord struct {
	EventType         string          `json:"event_type"`
	EventID           string          `json:"event_id"`
	Payload           json.RawMessage `json:"payload,omitempty"`
	Source            string          `json:"source,omitempty"`
	TriggeredBy       string          `json:"triggered_by,omitempty"`
	WebhooksTriggered int             `json:"webhooks_triggered"`
	Processed         bool            `json:"processed"`
	ProcessedAt       int64           `json:"processed_at,omitempty"`
	CreatedAt         int64           `json:"created_at"`
}

// Store persists a new event log entry; ErrDuplicate when the id exists
func (r *Repository) Store(ctx context.Context, log event.Log) error {
	data, err := json.Marshal(logRecord{
		EventType:   log.EventType,
		EventID:     log.EventID,
		Payload:     log.Payload,
		Source:      log.Source,
		TriggeredBy: log.TriggeredBy,
		CreatedAt:   log.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshaling event log: %w", err)
	}

	key := fmt.Sprintf("%s:%s", keyPrefix, log.EventID)
	stored, err := r.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("storing event log: %w", err)
	}
	if !stored {
		return event.ErrDuplicate
	}

	return nil
}

// Get retrieves an event log entry by event id
func (r *Repository) Get(ctx context.Context, eventID string) (event.Log, error) {
	key := fmt.Sprintf("%s:%s", keyPrefix, eventID)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return event.Log{}, event.ErrNotFound
	}
	if err != nil {
		return event.Log{}, fmt.Errorf("getting event log: %w", err)
	}

	var record logRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return event.Log{}, fmt.Errorf("unmarshaling event log: %w", err)
	}

	log := event.Log{
		EventType:         record.EventType,
		EventID:           record.EventID,
		Payload:           record.Payload,
		Source:            record.Source,
		TriggeredBy:       record.TriggeredBy,
		WebhooksTriggered: record.WebhooksTriggered,
		Processed:         record.Processed,
		CreatedAt:         time.UnixMilli(record.CreatedAt),
	}
	if record.ProcessedAt != 0 {
		t := time.UnixMilli(record.ProcessedAt)
		log.ProcessedAt = &t
	}

	return log, nil
}

// MarkProcessed records the fan-out result on an existing entry
func (r *Repository) MarkProcessed(ctx context.Context, eventID string, webhooksTriggered int) error {
	log, err := r.Get(ctx, eventID)
	if err != nil {
		return err
	}

	now := time.Now()
	data, err := json.Marshal(logRecord{
		EventType:         log.EventType,
		EventID:           log.EventID,
		Payload:           log.Payload,
		Source:            log.Source,
		TriggeredBy:       log.TriggeredBy,
		WebhooksTriggered: webhooksTriggered,
		Processed:         true,
		ProcessedAt:       now.UnixMilli(),
		CreatedAt:         log.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshaling event log: %w", err)
	}

	key := fmt.Sprintf("%s:%s", keyPrefix, eventID)
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("updating event log: %w", err)
	}

	return nil
}
