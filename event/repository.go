package event

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an event id has never been ingested
var ErrNotFound = errors.New("event not found")

// ErrDuplicate is returned by Store when the event id already exists.
// Callers treat it as "already ingested", not as a failure.
var ErrDuplicate = errors.New("event already ingested")

// Repository persists the event log keyed by the globally unique event id
type Repository interface {
	/* Store persists a new log entry. Returns ErrDuplicate when the
	 * event id was already stored, which makes ingestion idempotent
	 * even under concurrent producers.
	 */
	Store(ctx context.Context, log Log) error
	Get(ctx context.Context, eventID string) (Log, error)
	/* MarkProcessed records the fan-out result after dispatch */
	MarkProcessed(ctx context.Context, eventID string, webhooksTriggered int) error
}
