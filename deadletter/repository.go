package deadletter

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a dead letter id is unknown
var ErrNotFound = errors.New("dead letter not found")

// Repository persists dead-lettered deliveries
type Repository interface {
	Store(ctx context.Context, dl DeadLetter) error
	Get(ctx context.Context, id string) (DeadLetter, error)
	/* List returns dead letters newest first with limit/offset pagination */
	List(ctx context.Context, limit, offset int) ([]DeadLetter, error)
	MarkProcessed(ctx context.Context, id string, at time.Time) error
	MarkRetried(ctx context.Context, id string, at time.Time) error
}
