package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oks-citadel/citadelbuy-sub007/deadletter"
)

/* Redis implementation of deadletter.Repository
 * Each dead letter lives as a JSON blob under its own key, with a list
 * serving as the newest-first index for pagination. Rows are never
 * removed: processing and replaying only stamp timestamps.
 */

const (
	keyPrefix = "dead_letter" // Key naming: dead_letter:{id}
	indexKey  = "dead_letters"
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis dead letter repository
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

type record struct {
	ID                 string          `json:"id"`
	WebhookID          string          `json:"webhook_id"`
	OriginalDeliveryID string          `json:"original_delivery_id"`
	EventType          string          `json:"event_type"`
	EventID            string          `json:"event_id"`
	Payload            json.RawMessage `json:"payload,omitempty"`
	Source             string          `json:"source,omitempty"`
	TriggeredBy        string          `json:"triggered_by,omitempty"`
	ErrorMessage       string          `json:"error_message"`
	StatusCode         *int            `json:"status_code,omitempty"`
	AttemptsMade       int             `json:"attempts_made"`
	LastAttemptAt      int64           `json:"last_attempt_at,omitempty"`
	CreatedAt          int64           `json:"created_at"`
	ProcessedAt        int64           `json:"processed_at,omitempty"`
	RetriedAt          int64           `json:"retried_at,omitempty"`
}

func toRecord(dl deadletter.DeadLetter) record {
	rec := record{
		ID:                 dl.ID,
		WebhookID:          dl.WebhookID,
		OriginalDeliveryID: dl.OriginalDeliveryID,
		EventType:          dl.EventType,
		EventID:            dl.EventID,
		Payload:            dl.Payload,
		Source:             dl.Source,
		TriggeredBy:        dl.TriggeredBy,
		ErrorMessage:       dl.ErrorMessage,
		StatusCode:         dl.StatusCode,
		AttemptsMade:       dl.AttemptsMade,
		CreatedAt:          dl.CreatedAt.UnixMilli(),
	}
	if dl.LastAttemptAt != nil {
		rec.LastAttemptAt = dl.LastAttemptAt.UnixMilli()
	}
	if dl.ProcessedAt != nil {
		rec.ProcessedAt = dl.ProcessedAt.UnixMilli()
	}
	if dl.RetriedAt != nil {
		rec.RetriedAt = dl.RetriedAt.UnixMilli()
	}
	return rec
}

func fromRecord(rec record) deadletter.DeadLetter {
	dl := deadletter.DeadLetter{
		ID:                 rec.ID,
		WebhookID:          rec.WebhookID,
		OriginalDeliveryID: rec.OriginalDeliveryID,
		EventType:          rec.EventType,
		EventID:            rec.EventID,
		Payload:            rec.Payload,
		Source:             rec.Source,
		TriggeredBy:        rec.TriggeredBy,
		ErrorMessage:       rec.ErrorMessage,
		StatusCode:         rec.StatusCode,
		AttemptsMade:       rec.AttemptsMade,
		CreatedAt:          time.UnixMilli(rec.CreatedAt),
	}
	if rec.LastAttemptAt != 0 {
		t := time.UnixMilli(rec.LastAttemptAt)
		dl.LastAttemptAt = &t
	}
	if rec.ProcessedAt != 0 {
		t := time.UnixMilli(rec.ProcessedAt)
		dl.ProcessedAt = &t
	}
	if rec.RetriedAt != 0 {
		t := time.UnixMilli(rec.RetriedAt)
		dl.RetriedAt = &t
	}
	return dl
}

// Store persists a dead letter and prepends it to the newest-first index
func (r *Repository) Store(ctx context.Context, dl deadletter.DeadLetter) error {
	data, err := json.Marshal(toRecord(dl))
	if err != nil {
		return fmt.Errorf("marshaling dead letter: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf("%s:%s", keyPrefix, dl.ID), data, 0)
		pipe.LPush(ctx, indexKey, dl.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storing dead letter: %w", err)
	}

	return nil
}

// Get retrieves a dead letter by id
func (r *Repository) Get(ctx context.Context, id string) (deadletter.DeadLetter, error) {
	data, err := r.client.Get(ctx, fmt.Sprintf("%s:%s", keyPrefix, id)).Result()
	if err == redis.Nil {
		return deadletter.DeadLetter{}, deadletter.ErrNotFound
	}
	if err != nil {
		return deadletter.DeadLetter{}, fmt.Errorf("getting dead letter: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return deadletter.DeadLetter{}, fmt.Errorf("unmarshaling dead letter: %w", err)
	}

	return fromRecord(rec), nil
}

// List returns dead letters newest first
func (r *Repository) List(ctx context.Context, limit, offset int) ([]deadletter.DeadLetter, error) {
	if limit <= 0 {
		return []deadletter.DeadLetter{}, nil
	}

	ids, err := r.client.LRange(ctx, indexKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing dead letters: %w", err)
	}

	letters := make([]deadletter.DeadLetter, 0, len(ids))
	for _, id := range ids {
		dl, err := r.Get(ctx, id)
		if err == deadletter.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		letters = append(letters, dl)
	}

	return letters, nil
}

// MarkProcessed stamps a dead letter as reviewed
func (r *Repository) MarkProcessed(ctx context.Context, id string, at time.Time) error {
	return r.stamp(ctx, id, func(rec *record) {
		rec.ProcessedAt = at.UnixMilli()
	})
}

// MarkRetried stamps a dead letter as replayed
func (r *Repository) MarkRetried(ctx context.Context, id string, at time.Time) error {
	return r.stamp(ctx, id, func(rec *record) {
		rec.RetriedAt = at.UnixMilli()
	})
}

func (r *Repository) stamp(ctx context.Context, id string, apply func(*record)) error {
	key := fmt.Sprintf("%s:%s", keyPrefix, id)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return deadletter.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("getting dead letter: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return fmt.Errorf("unmarshaling dead letter: %w", err)
	}

	apply(&rec)

	updated, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling dead letter: %w", err)
	}
	if err := r.client.Set(ctx, key, updated, 0).Err(); err != nil {
		return fmt.Errorf("updating dead letter: %w", err)
	}

	return nil
}
