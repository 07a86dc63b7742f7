package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oks-citadel/citadelbuy-sub007/delivery"
	"github.com/oks-citadel/citadelbuy-sub007/webhook"
)

/* Service is the dispatcher: the single entry point producers call to turn
 * a domain event into delivery jobs. Delivery outcomes never propagate back
 * here; ingestion only fails for validation or persistence errors.
 */

// UseCase defines the producer-facing ingestion operation
type UseCase interface {
	Ingest(ctx context.Context, eventType, eventID string, payload json.RawMessage, source, triggeredBy string) (Log, error)
	Get(ctx context.Context, eventID string) (Log, error)
}

// Subscriptions yields the active webhooks matching an event type
type Subscriptions interface {
	FindSubscribed(ctx context.Context, eventType string) ([]webhook.Webhook, error)
}

// Deliveries creates one delivery job per matched subscription
type Deliveries interface {
	Create(ctx context.Context, webhookID, eventType, eventID string, payload json.RawMessage, source, triggeredBy string) (delivery.Delivery, error)
}

type Service struct {
	Repo       Repository
	Subs       Subscriptions
	Deliveries Deliveries
	Logger     *zap.Logger
}

// NewService creates a new dispatcher service with dependency injection
func NewService(repo Repository, subs Subscriptions, deliveries Deliveries, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Repo:       repo,
		Subs:       subs,
		Deliveries: deliveries,
		Logger:     logger,
	}
}

// Ingest records a domain event and fans it out to all matching active
// subscriptions. Re-ingesting an already seen event id returns the existing
// log entry without dispatching anything.
func (s *Service) Ingest(ctx context.Context, eventType, eventID string, payload json.RawMessage, source, triggeredBy string) (Log, error) {
	log := Log{
		EventType:   eventType,
		EventID:     eventID,
		Payload:     payload,
		Source:      source,
		TriggeredBy: triggeredBy,
		CreatedAt:   time.Now(),
	}

	if err := log.Validate(); err != nil {
		return Log{}, fmt.Errorf("validating event: %w", err)
	}

	err := s.Repo.Store(ctx, log)
	if errors.Is(err, ErrDuplicate) {
		s.Logger.Debug("duplicate event ingestion, skipping fan-out",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
		)
		existing, getErr := s.Repo.Get(ctx, eventID)
		if getErr != nil {
			return Log{}, fmt.Errorf("getting existing event: %w", getErr)
		}
		return existing, nil
	}
	if err != nil {
		return Log{}, fmt.Errorf("storing event: %w", err)
	}

	matched, err := s.Subs.FindSubscribed(ctx, eventType)
	if err != nil {
		return Log{}, fmt.Errorf("finding subscriptions: %w", err)
	}

	triggered := 0
	for _, wh := range matched {
		if _, err := s.Deliveries.Create(ctx, wh.ID, eventType, eventID, payload, source, triggeredBy); err != nil {
			// Keep fanning out; the event log records how many jobs
			// were actually created
			s.Logger.Error("failed to create delivery",
				zap.String("event_id", eventID),
				zap.String("webhook_id", wh.ID),
				zap.Error(err),
			)
			continue
		}
		triggered++
	}

	if err := s.Repo.MarkProcessed(ctx, eventID, triggered); err != nil {
		return Log{}, fmt.Errorf("marking event processed: %w", err)
	}

	s.Logger.Info("event dispatched",
		zap.String("event_id", eventID),
		zap.String("event_type", eventType),
		zap.Int("webhooks_triggered", triggered),
	)

	now := time.Now()
	log.WebhooksTriggered = triggered
	log.Processed = true
	log.ProcessedAt = &now
	return log, nil
}

// Get retrieves an event log entry by event id
func (s *Service) Get(ctx context.Context, eventID string) (Log, error) {
	log, err := s.Repo.Get(ctx, eventID)
	if err != nil {
		return Log{}, fmt.Errorf("getting event: %w", err)
	}
	return log, nil
}
