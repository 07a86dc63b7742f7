package deadletter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oks-citadel/citadelbuy-sub007/delivery"
)

// UseCase defines the operator-facing dead letter operations
type UseCase interface {
	List(ctx context.Context, limit, offset int) ([]DeadLetter, error)
	Get(ctx context.Context, id string) (DeadLetter, error)
	/* Retry creates a fresh delivery from the dead letter snapshot with
	 * attempts reset to zero and an immediate due time. The dead letter
	 * row is kept and stamped with RetriedAt.
	 */
	Retry(ctx context.Context, id string) (delivery.Delivery, error)
	MarkProcessed(ctx context.Context, id string) error
}

// Deliveries re-creates a delivery job from a dead letter snapshot
type Deliveries interface {
	Create(ctx context.Context, webhookID, eventType, eventID string, payload json.RawMessage, source, triggeredBy string) (delivery.Delivery, error)
}

type Service struct {
	Repo       Repository
	Deliveries Deliveries
}

// NewService creates a new dead letter service with dependency injection
func NewService(repo Repository, deliveries Deliveries) *Service {
	return &Service{
		Repo:       repo,
		Deliveries: deliveries,
	}
}

// List returns dead letters newest first
func (s *Service) List(ctx context.Context, limit, offset int) ([]DeadLetter, error) {
	letters, err := s.Repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing dead letters: %w", err)
	}
	return letters, nil
}

// Get retrieves a dead letter by id
func (s *Service) Get(ctx context.Context, id string) (DeadLetter, error) {
	dl, err := s.Repo.Get(ctx, id)
	if err != nil {
		return DeadLetter{}, fmt.Errorf("getting dead letter: %w", err)
	}
	return dl, nil
}

// Retry replays a dead letter as a brand-new delivery job
func (s *Service) Retry(ctx context.Context, id string) (delivery.Delivery, error) {
	dl, err := s.Repo.Get(ctx, id)
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("getting dead letter: %w", err)
	}

	d, err := s.Deliveries.Create(ctx, dl.WebhookID, dl.EventType, dl.EventID, dl.Payload, dl.Source, dl.TriggeredBy)
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("creating replay delivery: %w", err)
	}

	if err := s.Repo.MarkRetried(ctx, id, time.Now()); err != nil {
		return delivery.Delivery{}, fmt.Errorf("stamping dead letter: %w", err)
	}

	return d, nil
}

// MarkProcessed acknowledges a dead letter without further action
func (s *Service) MarkProcessed(ctx context.Context, id string) error {
	if err := s.Repo.MarkProcessed(ctx, id, time.Now()); err != nil {
		return fmt.Errorf("marking dead letter processed: %w", err)
	}
	return nil
}
