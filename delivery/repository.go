package delivery

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a delivery id is unknown
var ErrNotFound = errors.New("delivery not found")

// ErrNoneReady is returned by Claim when no job is due
var ErrNoneReady = errors.New("no delivery ready")

// Reader provides read operations for deliveries and their audit trail
type Reader interface {
	Get(ctx context.Context, id string) (Delivery, error)
	/* ListByWebhook returns the delivery history for one webhook,
	 * newest first, with limit/offset pagination
	 */
	ListByWebhook(ctx context.Context, webhookID string, limit, offset int) ([]Delivery, error)
	Stats(ctx context.Context, webhookID string) (Stats, error)
	Attempts(ctx context.Context, deliveryID string) ([]Attempt, error)
}

// Writer provides state transitions for deliveries. Every transition also
// maintains the status counters backing Stats.
type Writer interface {
	/* Store persists a new delivery and schedules it in the due-time
	 * queue at its NextRetryAt
	 */
	Store(ctx context.Context, d Delivery) error
	MarkDelivered(ctx context.Context, id string, statusCode int, at time.Time) error
	/* MarkRetrying records a failed attempt and re-schedules the job
	 * at nextRetryAt
	 */
	MarkRetrying(ctx context.Context, id string, attempts int, nextRetryAt time.Time, statusCode *int, errMsg string) error
	MarkFailed(ctx context.Context, id string, attempts int, statusCode *int, errMsg string, at time.Time) error
	/* AppendAttempt adds one audit record. It is durably written before
	 * the worker moves on, so no outcome is silently lost.
	 */
	AppendAttempt(ctx context.Context, attempt Attempt) error
}

// Queue provides claim-once scheduling over due deliveries
type Queue interface {
	/* Claim atomically pops one due job and transitions it to Delivering
	 * under a lease. Returns ErrNoneReady when nothing is due. Two live
	 * workers can never claim the same delivery.
	 */
	Claim(ctx context.Context, workerID string, now time.Time) (Delivery, error)
	/* Reschedule makes an existing non-terminal delivery due at the given
	 * time (used for manual retry of a retrying job)
	 */
	Reschedule(ctx context.Context, id string, due time.Time) error
	/* ReclaimExpired returns leases whose holder died back to the queue,
	 * making the jobs claimable again. Returns how many were reclaimed.
	 */
	ReclaimExpired(ctx context.Context, now time.Time) (int, error)
}

// Repository combines delivery persistence with the due-time queue; both
// live behind the same store so claim and state transitions stay atomic.
type Repository interface {
	Reader
	Writer
	Queue
}
