package webhook

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a webhook id has no subscription.
// Workers treat it as a terminal outcome for in-flight deliveries.
var ErrNotFound = errors.New("webhook not found")

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 */

// Reader provides read operations for webhook subscriptions
type Reader interface {
	Get(ctx context.Context, id string) (Webhook, error)
	List(ctx context.Context) ([]Webhook, error)
}

// Writer provides write operations for webhook subscriptions
type Writer interface {
	Store(ctx context.Context, wh Webhook) error
	Update(ctx context.Context, wh Webhook) error
	Delete(ctx context.Context, id string) error
}

// Repository combines read and write access to the subscription store
type Repository interface {
	Reader
	Writer
}
