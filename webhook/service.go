package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oks-citadel/citadelbuy-sub007/webhook/signature"
)

/* Service represents the registry business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// Patch holds the mutable subscription fields for Update.
// Nil fields are left untouched.
type Patch struct {
	URL         *string
	Description *string
	Events      []string
	Active      *bool
}

// UseCase defines the management operations over webhook subscriptions
type UseCase interface {
	// Create registers a subscription and returns it together with the
	// plaintext secret, which is shown exactly once
	Create(ctx context.Context, targetURL, description string, events []string, active bool) (Webhook, string, error)
	Get(ctx context.Context, id string) (Webhook, error)
	List(ctx context.Context) ([]Webhook, error)
	Update(ctx context.Context, id string, patch Patch) (Webhook, error)
	Delete(ctx context.Context, id string) error
	// RotateSecret atomically replaces the signing secret; signatures made
	// with the old secret are invalid from that instant
	RotateSecret(ctx context.Context, id string) (string, error)
	// FindSubscribed returns all active subscriptions matching the event type
	FindSubscribed(ctx context.Context, eventType string) ([]Webhook, error)
}

// Vocabulary reports whether an event type belongs to the known catalog
type Vocabulary interface {
	Known(eventType string) bool
}

type Service struct {
	Repo         Repository
	Events       Vocabulary
	RequireHTTPS bool
}

// NewService creates a new registry service with dependency injection
func NewService(repo Repository, events Vocabulary, requireHTTPS bool) *Service {
	return &Service{
		Repo:         repo,
		Events:       events,
		RequireHTTPS: requireHTTPS,
	}
}

// Create registers a new subscription. The returned plaintext secret is not
// retrievable afterwards; only signatures reveal that the server still has it.
func (s *Service) Create(ctx context.Context, targetURL, description string, events []string, active bool) (Webhook, string, error) {
	if err := ValidateURL(targetURL, s.RequireHTTPS); err != nil {
		return Webhook{}, "", fmt.Errorf("validating url: %w", err)
	}
	if err := s.validateEvents(events); err != nil {
		return Webhook{}, "", err
	}

	secret, err := signature.GenerateSecret(signature.DefaultSecretBytes)
	if err != nil {
		return Webhook{}, "", fmt.Errorf("generating secret: %w", err)
	}

	now := time.Now()
	wh := Webhook{
		ID:          uuid.New().String(),
		URL:         targetURL,
		Description: description,
		Secret:      secret.String(),
		Events:      events,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Repo.Store(ctx, wh); err != nil {
		return Webhook{}, "", fmt.Errorf("storing webhook: %w", err)
	}

	return wh, secret.String(), nil
}

// Get retrieves a subscription by id
func (s *Service) Get(ctx context.Context, id string) (Webhook, error) {
	wh, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Webhook{}, fmt.Errorf("getting webhook: %w", err)
	}
	return wh, nil
}

// List returns all subscriptions
func (s *Service) List(ctx context.Context) ([]Webhook, error) {
	whs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}
	return whs, nil
}

// Update applies a patch to a subscription
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Webhook, error) {
	wh, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Webhook{}, fmt.Errorf("getting webhook: %w", err)
	}

	if patch.URL != nil {
		if err := ValidateURL(*patch.URL, s.RequireHTTPS); err != nil {
			return Webhook{}, fmt.Errorf("validating url: %w", err)
		}
		wh.URL = *patch.URL
	}
	if patch.Description != nil {
		wh.Description = *patch.Description
	}
	if patch.Events != nil {
		if err := s.validateEvents(patch.Events); err != nil {
			return Webhook{}, err
		}
		wh.Events = patch.Events
	}
	if patch.Active != nil {
		wh.Active = *patch.Active
	}
	wh.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, wh); err != nil {
		return Webhook{}, fmt.Errorf("updating webhook: %w", err)
	}

	return wh, nil
}

// Delete removes a subscription. Deliveries already queued are not cancelled;
// they fail fast at their next claim once the webhook is gone.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting webhook: %w", err)
	}
	return nil
}

// RotateSecret generates a new secret and discards the old one. The new
// plaintext secret is shown exactly once in the response.
func (s *Service) RotateSecret(ctx context.Context, id string) (string, error) {
	wh, err := s.Repo.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("getting webhook: %w", err)
	}

	secret, err := signature.GenerateSecret(signature.DefaultSecretBytes)
	if err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}

	wh.Secret = secret.String()
	wh.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, wh); err != nil {
		return "", fmt.Errorf("updating webhook: %w", err)
	}

	return secret.String(), nil
}

// FindSubscribed returns the active subscriptions whose event set covers
// eventType. Inactive webhooks are never dispatched to.
func (s *Service) FindSubscribed(ctx context.Context, eventType string) ([]Webhook, error) {
	whs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}

	var matched []Webhook
	for _, wh := range whs {
		if wh.Active && wh.Matches(eventType) {
			matched = append(matched, wh)
		}
	}
	return matched, nil
}

func (s *Service) validateEvents(events []string) error {
	if len(events) == 0 {
		return fmt.Errorf("events list cannot be empty")
	}
	for _, eventType := range events {
		if err := ValidateEventType(eventType); err != nil {
			return fmt.Errorf("validating event type: %w", err)
		}
		if s.Events != nil && !s.Events.Known(eventType) {
			return fmt.Errorf("unknown event type: %s", eventType)
		}
	}
	return nil
}
