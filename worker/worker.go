package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oks-citadel/citadelbuy-sub007/deadletter"
	"github.com/oks-citadel/citadelbuy-sub007/delivery"
	"github.com/oks-citadel/citadelbuy-sub007/webhook"
	"github.com/oks-citadel/citadelbuy-sub007/webhook/signature"
)

const (
	defaultPollInterval    = time.Second
	defaultReclaimInterval = 30 * time.Second
	heartbeatInterval      = 30 * time.Second
)

// Webhooks loads the subscription a claimed delivery targets
type Webhooks interface {
	Get(ctx context.Context, id string) (webhook.Webhook, error)
}

// DeadLetters receives permanently failed deliveries
type DeadLetters interface {
	Store(ctx context.Context, dl deadletter.DeadLetter) error
}

// Heartbeats lets workers advertise liveness
type Heartbeats interface {
	SetWorkerHeartbeat(ctx context.Context, workerID, status string) error
}

// Pool runs a bounded set of delivery workers over the due-time queue
type Pool struct {
	Deliveries  delivery.Repository
	Webhooks    Webhooks
	DeadLetters DeadLetters
	Heartbeats  Heartbeats
	Sender      Sender
	Logger      *zap.Logger

	Count           int
	PollInterval    time.Duration
	ReclaimInterval time.Duration
}

// NewPool creates a worker pool with dependency injection
func NewPool(deliveries delivery.Repository, webhooks Webhooks, deadLetters DeadLetters, heartbeats Heartbeats, sender Sender, logger *zap.Logger, count int) *Pool {
	return &Pool{
		Deliveries:  deliveries,
		Webhooks:    webhooks,
		DeadLetters: deadLetters,
		Heartbeats:  heartbeats,
		Sender:      sender,
		Logger:      logger,
		Count:       count,
	}
}

/* Run blocks until ctx is cancelled, running Count claim loops plus one
 * reclaim loop that returns expired leases to the queue. In-flight
 * deliveries finish before Run returns.
 */
func (p *Pool) Run(ctx context.Context) {
	poll := p.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	reclaimEvery := p.ReclaimInterval
	if reclaimEvery <= 0 {
		reclaimEvery = defaultReclaimInterval
	}

	hostname, _ := os.Hostname()

	var wg sync.WaitGroup
	for i := 0; i < p.Count; i++ {
		workerID := fmt.Sprintf("%s-%s", hostname, uuid.New().String()[:8])
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.claimLoop(ctx, workerID, poll)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.reclaimLoop(ctx, reclaimEvery)
	}()

	wg.Wait()
}

func (p *Pool) claimLoop(ctx context.Context, workerID string, poll time.Duration) {
	logger := p.Logger.With(zap.String("worker_id", workerID))
	logger.Info("worker started")

	lastBeat := p.beat(ctx, workerID, "idle", time.Time{})

	for {
		if ctx.Err() != nil {
			logger.Info("worker stopped")
			return
		}

		err := p.ProcessNext(ctx, workerID)
		if errors.Is(err, delivery.ErrNoneReady) {
			lastBeat = p.beat(ctx, workerID, "idle", lastBeat)
			select {
			case <-ctx.Done():
			case <-time.After(poll):
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Error("claiming delivery", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(poll):
			}
			continue
		}

		lastBeat = p.beat(ctx, workerID, "processing", time.Time{})
	}
}

/* ProcessNext claims one due delivery and runs it to its next state.
 * Returns delivery.ErrNoneReady when nothing is due.
 */
func (p *Pool) ProcessNext(ctx context.Context, workerID string) error {
	d, err := p.Deliveries.Claim(ctx, workerID, time.Now())
	if err != nil {
		return err
	}

	p.process(ctx, d, p.Logger.With(zap.String("worker_id", workerID)))
	return nil
}

// beat refreshes the heartbeat when its interval has elapsed, or
// immediately when forced with a zero last time
func (p *Pool) beat(ctx context.Context, workerID, status string, last time.Time) time.Time {
	if p.Heartbeats == nil {
		return last
	}
	if !last.IsZero() && time.Since(last) < heartbeatInterval {
		return last
	}
	if err := p.Heartbeats.SetWorkerHeartbeat(ctx, workerID, status); err != nil && ctx.Err() == nil {
		p.Logger.Warn("setting heartbeat", zap.String("worker_id", workerID), zap.Error(err))
	}
	return time.Now()
}

func (p *Pool) reclaimLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Deliveries.ReclaimExpired(ctx, time.Now())
			if err != nil {
				if ctx.Err() == nil {
					p.Logger.Error("reclaiming expired leases", zap.Error(err))
				}
				continue
			}
			if n > 0 {
				p.Logger.Warn("reclaimed expired leases", zap.Int("count", n))
			}
		}
	}
}

/* process runs one claimed delivery to its next state: delivered, retrying
 * or failed. Outcomes are recorded against the audit trail before the
 * worker moves on, so a crash cannot silently lose an attempt.
 */
func (p *Pool) process(ctx context.Context, d delivery.Delivery, logger *zap.Logger) {
	logger = logger.With(
		zap.String("delivery_id", d.ID),
		zap.String("webhook_id", d.WebhookID),
		zap.String("event_type", d.EventType),
	)

	wh, err := p.Webhooks.Get(ctx, d.WebhookID)
	if errors.Is(err, webhook.ErrNotFound) {
		p.failFast(ctx, d, "webhook no longer exists", logger)
		return
	}
	if err != nil {
		// Transient store error: leave the lease in place, the reclaimer
		// will return the job to the queue
		logger.Error("loading webhook", zap.Error(err))
		return
	}
	if !wh.Active {
		p.failFast(ctx, d, "webhook is disabled", logger)
		return
	}

	secret, err := signature.ParseSecret(wh.Secret)
	if err != nil {
		p.failFast(ctx, d, fmt.Sprintf("webhook signing secret is unusable: %v", err), logger)
		return
	}

	result := p.Sender.Send(ctx, wh.URL, secret, d)
	now := time.Now()
	attempts := d.Attempts + 1

	attempt := delivery.Attempt{
		DeliveryID: d.ID,
		Number:     attempts,
		StatusCode: result.StatusCode,
		Error:      result.ErrorMessage(),
		Duration:   result.Duration,
		At:         now,
	}
	if err := p.Deliveries.AppendAttempt(ctx, attempt); err != nil {
		logger.Error("recording attempt", zap.Error(err))
	}

	if result.Success() {
		if err := p.Deliveries.MarkDelivered(ctx, d.ID, *result.StatusCode, now); err != nil {
			logger.Error("marking delivered", zap.Error(err))
			return
		}
		logger.Info("delivery succeeded",
			zap.Int("attempt", attempts),
			zap.Int("status_code", *result.StatusCode),
			zap.Duration("duration", result.Duration),
		)
		return
	}

	if attempts >= d.MaxAttempts {
		p.exhaust(ctx, d, attempts, result, now, logger)
		return
	}

	nextRetryAt := now.Add(delivery.RetryDelay(attempts + 1))
	if err := p.Deliveries.MarkRetrying(ctx, d.ID, attempts, nextRetryAt, result.StatusCode, result.ErrorMessage()); err != nil {
		logger.Error("marking retrying", zap.Error(err))
		return
	}
	logger.Warn("delivery attempt failed",
		zap.Int("attempt", attempts),
		zap.Time("next_retry_at", nextRetryAt),
		zap.String("error", result.ErrorMessage()),
	)
}

/* exhaust moves a delivery that ran out of attempts to the dead letter
 * store. The dead letter row is written before the status flips: a failed
 * delivery always has a row. If the row cannot be written the lease is left
 * to expire and the job is re-exhausted on the next claim.
 */
func (p *Pool) exhaust(ctx context.Context, d delivery.Delivery, attempts int, result Result, now time.Time, logger *zap.Logger) {
	dl := deadletter.DeadLetter{
		ID:                 uuid.New().String(),
		WebhookID:          d.WebhookID,
		OriginalDeliveryID: d.ID,
		EventType:          d.EventType,
		EventID:            d.EventID,
		Payload:            d.Payload,
		Source:             d.Source,
		TriggeredBy:        d.TriggeredBy,
		ErrorMessage:       result.ErrorMessage(),
		StatusCode:         result.StatusCode,
		AttemptsMade:       attempts,
		LastAttemptAt:      &now,
		CreatedAt:          now,
	}
	if err := p.DeadLetters.Store(ctx, dl); err != nil {
		logger.Error("storing dead letter", zap.Error(err))
		return
	}

	if err := p.Deliveries.MarkFailed(ctx, d.ID, attempts, result.StatusCode, result.ErrorMessage(), now); err != nil {
		logger.Error("marking failed", zap.Error(err))
		return
	}

	logger.Error("delivery exhausted all attempts",
		zap.Int("attempts", attempts),
		zap.String("dead_letter_id", dl.ID),
		zap.String("error", result.ErrorMessage()),
	)
}

/* failFast permanently fails a delivery without an HTTP attempt, used when
 * the target webhook was removed, disabled or has no usable secret. Same
 * ordering as exhaust: dead letter row first, failed status second.
 */
func (p *Pool) failFast(ctx context.Context, d delivery.Delivery, reason string, logger *zap.Logger) {
	now := time.Now()

	dl := deadletter.DeadLetter{
		ID:                 uuid.New().String(),
		WebhookID:          d.WebhookID,
		OriginalDeliveryID: d.ID,
		EventType:          d.EventType,
		EventID:            d.EventID,
		Payload:            d.Payload,
		Source:             d.Source,
		TriggeredBy:        d.TriggeredBy,
		ErrorMessage:       reason,
		AttemptsMade:       d.Attempts,
		CreatedAt:          now,
	}
	if d.LastAttemptAt != nil {
		dl.LastAttemptAt = d.LastAttemptAt
	}
	if err := p.DeadLetters.Store(ctx, dl); err != nil {
		logger.Error("storing dead letter", zap.Error(err))
		return
	}

	if err := p.Deliveries.MarkFailed(ctx, d.ID, d.Attempts, nil, reason, now); err != nil {
		logger.Error("marking failed", zap.Error(err))
		return
	}

	logger.Warn("delivery failed fast", zap.String("reason", reason))
}
