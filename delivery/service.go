package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotRetryable rejects manual retry of deliveries that are not in the
// retrying state
var ErrNotRetryable = errors.New("only retrying deliveries can be retried manually")

// UseCase defines the operations other components use to create and
// inspect delivery jobs. Workers use the Repository directly.
type UseCase interface {
	/* Create builds a pending delivery for one webhook, due immediately,
	 * and enqueues it. This is the only path that creates delivery jobs,
	 * used by the dispatcher fan-out and by dead-letter replay.
	 */
	Create(ctx context.Context, webhookID, eventType, eventID string, payload json.RawMessage, source, triggeredBy string) (Delivery, error)
	Get(ctx context.Context, id string) (Delivery, error)
	ListByWebhook(ctx context.Context, webhookID string, limit, offset int) ([]Delivery, error)
	Stats(ctx context.Context, webhookID string) (Stats, error)
	/* RetryNow makes a retrying delivery due immediately. Delivered,
	 * failed and in-flight jobs are rejected.
	 */
	RetryNow(ctx context.Context, id string) error
}

type Service struct {
	Repo Repository
}

// NewService creates a new delivery service with dependency injection
func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

// Create builds and enqueues a pending delivery with an immediate first attempt
func (s *Service) Create(ctx context.Context, webhookID, eventType, eventID string, payload json.RawMessage, source, triggeredBy string) (Delivery, error) {
	now := time.Now()
	d := Delivery{
		ID:          uuid.New().String(),
		WebhookID:   webhookID,
		EventType:   eventType,
		EventID:     eventID,
		Payload:     payload,
		Source:      source,
		TriggeredBy: triggeredBy,
		Status:      Pending,
		Attempts:    0,
		MaxAttempts: MaxAttempts,
		NextRetryAt: &now,
		CreatedAt:   now,
	}

	if err := s.Repo.Store(ctx, d); err != nil {
		return Delivery{}, fmt.Errorf("storing delivery: %w", err)
	}

	return d, nil
}

// Get retrieves a delivery by id
func (s *Service) Get(ctx context.Context, id string) (Delivery, error) {
	d, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Delivery{}, fmt.Errorf("getting delivery: %w", err)
	}
	return d, nil
}

// ListByWebhook returns the paginated delivery history for a webhook
func (s *Service) ListByWebhook(ctx context.Context, webhookID string, limit, offset int) ([]Delivery, error) {
	deliveries, err := s.Repo.ListByWebhook(ctx, webhookID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries: %w", err)
	}
	return deliveries, nil
}

// Stats returns delivery counts by status for a webhook
func (s *Service) Stats(ctx context.Context, webhookID string) (Stats, error) {
	stats, err := s.Repo.Stats(ctx, webhookID)
	if err != nil {
		return Stats{}, fmt.Errorf("getting delivery stats: %w", err)
	}
	return stats, nil
}

// RetryNow reschedules a retrying delivery to be due immediately
func (s *Service) RetryNow(ctx context.Context, id string) error {
	d, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("getting delivery: %w", err)
	}

	if d.Status != Retrying {
		return fmt.Errorf("delivery %s is %s: %w", id, d.Status, ErrNotRetryable)
	}

	if err := s.Repo.Reschedule(ctx, id, time.Now()); err != nil {
		return fmt.Errorf("rescheduling delivery: %w", err)
	}

	return nil
}
