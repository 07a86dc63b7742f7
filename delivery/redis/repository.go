package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oks-citadel/citadelbuy-sub007/delivery"
)

/* Redis implementation of delivery.Repository
 * Uses a Hash per delivery for state, a sorted set scored by due time as the
 * scheduler, a second sorted set scored by lease expiry for claimed jobs, and
 * a List per delivery as the append-only attempt log. Claiming is a Lua
 * script so due-pop, lease and the status transition are atomic: two live
 * workers can never claim the same delivery, and a crashed worker's lease
 * expires and is reclaimed.
 */

const (
	hashPrefix        = "delivery"                  // Hash naming: delivery:{delivery_id}
	attemptsPrefix    = "delivery_attempts"         // List naming: delivery_attempts:{delivery_id}
	byWebhookPrefix   = "deliveries:webhook"        // List naming: deliveries:webhook:{webhook_id}
	countersPrefix    = "deliveries:status_counts"  // Hash naming: deliveries:status_counts:{webhook_id}
	globalCountersKey = "deliveries:status_counts:_all"
	scheduledKey      = "deliveries:scheduled" // ZSET member=delivery_id score=due unix ms
	leasedKey         = "deliveries:leased"    // ZSET member=delivery_id score=lease expiry unix ms
	throughputKey     = "deliveries:delivered_log"

	// LeaseDuration bounds how long a claimed job stays invisible before a
	// crashed worker's claim can be taken over (4x the HTTP timeout)
	LeaseDuration = 2 * time.Minute

	throughputWindow = 20 * time.Minute
)

/* claimScript atomically pops one due job, checks it is still claimable,
 * leases it and flips it to delivering, keeping the status counters in sync.
 * Due entries whose hash is no longer claimable (resolved out of band) are
 * dropped and the next due member is tried, so one stale entry cannot hide
 * claimable jobs behind it. Returns the claimed delivery id or false when
 * nothing claimable is due.
 */
var claimScript = redis.NewScript(`
while true do
  local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 1)
  if #due == 0 then
    return false
  end
  local id = due[1]
  redis.call('ZREM', KEYS[1], id)
  local hashKey = ARGV[4] .. ':' .. id
  local status = redis.call('HGET', hashKey, 'status')
  if status == 'pending' or status == 'retrying' then
    redis.call('ZADD', KEYS[2], ARGV[2], id)
    redis.call('HSET', hashKey, 'status', 'delivering', 'claimed_by', ARGV[3], 'preclaim_status', status)
    local webhookId = redis.call('HGET', hashKey, 'webhook_id')
    redis.call('HINCRBY', ARGV[6], status, -1)
    redis.call('HINCRBY', ARGV[6], 'delivering', 1)
    redis.call('HINCRBY', ARGV[5] .. ':' .. webhookId, status, -1)
    redis.call('HINCRBY', ARGV[5] .. ':' .. webhookId, 'delivering', 1)
    return id
  end
end
`)

/* reclaimScript returns jobs whose lease expired back to the scheduler,
 * restoring the status they had before the dead worker claimed them.
 */
var reclaimScript = redis.NewScript(`
local expired = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
local n = 0
for _, id in ipairs(expired) do
  redis.call('ZREM', KEYS[1], id)
  local hashKey = ARGV[2] .. ':' .. id
  local status = redis.call('HGET', hashKey, 'status')
  if status == 'delivering' then
    local prev = redis.call('HGET', hashKey, 'preclaim_status')
    if not prev then
      prev = 'pending'
    end
    redis.call('HSET', hashKey, 'status', prev)
    redis.call('HDEL', hashKey, 'claimed_by')
    local webhookId = redis.call('HGET', hashKey, 'webhook_id')
    redis.call('HINCRBY', ARGV[4], 'delivering', -1)
    redis.call('HINCRBY', ARGV[4], prev, 1)
    redis.call('HINCRBY', ARGV[3] .. ':' .. webhookId, 'delivering', -1)
    redis.call('HINCRBY', ARGV[3] .. ':' .. webhookId, prev, 1)
    redis.call('ZADD', KEYS[2], ARGV[1], id)
    n = n + 1
  end
end
return n
`)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis delivery repository
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Store persists a new delivery and schedules it at its NextRetryAt
func (r *Repository) Store(ctx context.Context, d delivery.Delivery) error {
	due := d.CreatedAt
	if d.NextRetryAt != nil {
		due = *d.NextRetryAt
	}

	hashKey := fmt.Sprintf("%s:%s", hashPrefix, d.ID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey, map[string]interface{}{
			"id":            d.ID,
			"webhook_id":    d.WebhookID,
			"event_type":    d.EventType,
			"event_id":      d.EventID,
			"payload":       string(d.Payload),
			"source":        d.Source,
			"triggered_by":  d.TriggeredBy,
			"status":        d.Status.String(),
			"attempts":      d.Attempts,
			"max_attempts":  d.MaxAttempts,
			"next_retry_at": unixMilliOrZero(d.NextRetryAt),
			"error_message": d.ErrorMessage,
			"created_at":    d.CreatedAt.UnixMilli(),
		})
		pipe.LPush(ctx, fmt.Sprintf("%s:%s", byWebhookPrefix, d.WebhookID), d.ID)
		pipe.ZAdd(ctx, scheduledKey, redis.Z{Score: float64(due.UnixMilli()), Member: d.ID})
		pipe.HIncrBy(ctx, globalCountersKey, d.Status.String(), 1)
		pipe.HIncrBy(ctx, fmt.Sprintf("%s:%s", countersPrefix, d.WebhookID), d.Status.String(), 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storing delivery: %w", err)
	}

	return nil
}

// Get retrieves a delivery by id
func (r *Repository) Get(ctx context.Context, id string) (delivery.Delivery, error) {
	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)

	data, err := r.client.HGetAll(ctx, hashKey).Result()
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("getting delivery: %w", err)
	}
	if len(data) == 0 {
		return delivery.Delivery{}, delivery.ErrNotFound
	}

	return unmarshalDelivery(data), nil
}

// ListByWebhook returns the delivery history for a webhook, newest first
func (r *Repository) ListByWebhook(ctx context.Context, webhookID string, limit, offset int) ([]delivery.Delivery, error) {
	if limit <= 0 {
		return []delivery.Delivery{}, nil
	}

	listKey := fmt.Sprintf("%s:%s", byWebhookPrefix, webhookID)

	ids, err := r.client.LRange(ctx, listKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing delivery ids: %w", err)
	}

	deliveries := make([]delivery.Delivery, 0, len(ids))
	for _, id := range ids {
		d, err := r.Get(ctx, id)
		if err == delivery.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, nil
}

// Stats returns delivery counts by status for a webhook. In-flight jobs are
// reported as pending.
func (r *Repository) Stats(ctx context.Context, webhookID string) (delivery.Stats, error) {
	countersKey := fmt.Sprintf("%s:%s", countersPrefix, webhookID)

	data, err := r.client.HGetAll(ctx, countersKey).Result()
	if err != nil {
		return delivery.Stats{}, fmt.Errorf("getting status counters: %w", err)
	}

	return delivery.Stats{
		Pending:   parseInt64(data["pending"]) + parseInt64(data["delivering"]),
		Retrying:  parseInt64(data["retrying"]),
		Delivered: parseInt64(data["delivered"]),
		Failed:    parseInt64(data["failed"]),
	}, nil
}

// Attempts returns the audit log of a delivery, oldest first
func (r *Repository) Attempts(ctx context.Context, deliveryID string) ([]delivery.Attempt, error) {
	listKey := fmt.Sprintf("%s:%s", attemptsPrefix, deliveryID)

	entries, err := r.client.LRange(ctx, listKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}

	attempts := make([]delivery.Attempt, 0, len(entries))
	for _, entry := range entries {
		var record attemptRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			return nil, fmt.Errorf("unmarshaling attempt: %w", err)
		}
		attempts = append(attempts, record.toAttempt(deliveryID))
	}

	return attempts, nil
}

// AppendAttempt durably appends one audit record
func (r *Repository) AppendAttempt(ctx context.Context, attempt delivery.Attempt) error {
	record := attemptRecord{
		Number:     attempt.Number,
		StatusCode: attempt.StatusCode,
		Error:      attempt.Error,
		DurationMs: attempt.Duration.Milliseconds(),
		At:         attempt.At.UnixMilli(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling attempt: %w", err)
	}

	listKey := fmt.Sprintf("%s:%s", attemptsPrefix, attempt.DeliveryID)
	if err := r.client.RPush(ctx, listKey, data).Err(); err != nil {
		return fmt.Errorf("appending attempt: %w", err)
	}

	return nil
}

// MarkDelivered finishes a claimed job successfully
func (r *Repository) MarkDelivered(ctx context.Context, id string, statusCode int, at time.Time) error {
	d, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey, map[string]interface{}{
			"status":          delivery.Delivered.String(),
			"status_code":     statusCode,
			"error_message":   "",
			"next_retry_at":   0,
			"last_attempt_at": at.UnixMilli(),
			"delivered_at":    at.UnixMilli(),
		})
		pipe.HDel(ctx, hashKey, "claimed_by", "preclaim_status")
		pipe.ZRem(ctx, leasedKey, id)
		pipe.HIncrBy(ctx, globalCountersKey, delivery.Delivering.String(), -1)
		pipe.HIncrBy(ctx, globalCountersKey, delivery.Delivered.String(), 1)
		pipe.HIncrBy(ctx, fmt.Sprintf("%s:%s", countersPrefix, d.WebhookID), delivery.Delivering.String(), -1)
		pipe.HIncrBy(ctx, fmt.Sprintf("%s:%s", countersPrefix, d.WebhookID), delivery.Delivered.String(), 1)
		pipe.ZAdd(ctx, throughputKey, redis.Z{Score: float64(at.UnixMilli()), Member: id})
		pipe.ZRemRangeByScore(ctx, throughputKey, "-inf", strconv.FormatInt(at.Add(-throughputWindow).UnixMilli(), 10))
		return nil
	})
	if err != nil {
		return fmt.Errorf("marking delivery delivered: %w", err)
	}

	return nil
}

// MarkRetrying records a failed attempt and re-schedules the job
func (r *Repository) MarkRetrying(ctx context.Context, id string, attempts int, nextRetryAt time.Time, statusCode *int, errMsg string) error {
	d, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fields := map[string]interface{}{
			"status":          delivery.Retrying.String(),
			"attempts":        attempts,
			"next_retry_at":   nextRetryAt.UnixMilli(),
			"error_message":   errMsg,
			"last_attempt_at": now.UnixMilli(),
		}
		if statusCode != nil {
			fields["status_code"] = *statusCode
		}
		pipe.HSet(ctx, hashKey, fields)
		pipe.HDel(ctx, hashKey, "claimed_by", "preclaim_status")
		pipe.ZRem(ctx, leasedKey, id)
		pipe.ZAdd(ctx, scheduledKey, redis.Z{Score: float64(nextRetryAt.UnixMilli()), Member: id})
		pipe.HIncrBy(ctx, globalCountersKey, delivery.Delivering.String(), -1)
		pipe.HIncrBy(ctx, globalCountersKey, delivery.Retrying.String(), 1)
		pipe.HIncrBy(ctx, fmt.Sprintf("%s:%s", countersPrefix, d.WebhookID), delivery.Delivering.String(), -1)
		pipe.HIncrBy(ctx, fmt.Sprintf("%s:%s", countersPrefix, d.WebhookID), delivery.Retrying.String(), 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("marking delivery retrying: %w", err)
	}

	return nil
}

// MarkFailed finishes a claimed job permanently; the caller is responsible
// for writing the matching dead letter record
func (r *Repository) MarkFailed(ctx context.Context, id string, attempts int, statusCode *int, errMsg string, at time.Time) error {
	d, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fields := map[string]interface{}{
			"status":          delivery.Failed.String(),
			"attempts":        attempts,
			"next_retry_at":   0,
			"error_message":   errMsg,
			"last_attempt_at": at.UnixMilli(),
			"failed_at":       at.UnixMilli(),
		}
		if statusCode != nil {
			fields["status_code"] = *statusCode
		}
		pipe.HSet(ctx, hashKey, fields)
		pipe.HDel(ctx, hashKey, "claimed_by", "preclaim_status")
		pipe.ZRem(ctx, leasedKey, id)
		pipe.HIncrBy(ctx, globalCountersKey, delivery.Delivering.String(), -1)
		pipe.HIncrBy(ctx, globalCountersKey, delivery.Failed.String(), 1)
		pipe.HIncrBy(ctx, fmt.Sprintf("%s:%s", countersPrefix, d.WebhookID), delivery.Delivering.String(), -1)
		pipe.HIncrBy(ctx, fmt.Sprintf("%s:%s", countersPrefix, d.WebhookID), delivery.Failed.String(), 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("marking delivery failed: %w", err)
	}

	return nil
}

// Claim atomically pops one due job under a lease
func (r *Repository) Claim(ctx context.Context, workerID string, now time.Time) (delivery.Delivery, error) {
	result, err := claimScript.Run(ctx, r.client,
		[]string{scheduledKey, leasedKey},
		now.UnixMilli(),
		now.Add(LeaseDuration).UnixMilli(),
		workerID,
		hashPrefix,
		countersPrefix,
		globalCountersKey,
	).Result()
	if err == redis.Nil {
		return delivery.Delivery{}, delivery.ErrNoneReady
	}
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("claiming delivery: %w", err)
	}

	id, ok := result.(string)
	if !ok || id == "" {
		return delivery.Delivery{}, delivery.ErrNoneReady
	}

	return r.Get(ctx, id)
}

// Reschedule makes a non-terminal delivery due at the given time
func (r *Repository) Reschedule(ctx context.Context, id string, due time.Time) error {
	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)

	exists, err := r.client.Exists(ctx, hashKey).Result()
	if err != nil {
		return fmt.Errorf("checking delivery: %w", err)
	}
	if exists == 0 {
		return delivery.ErrNotFound
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey, "next_retry_at", due.UnixMilli())
		pipe.ZAdd(ctx, scheduledKey, redis.Z{Score: float64(due.UnixMilli()), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("rescheduling delivery: %w", err)
	}

	return nil
}

// ReclaimExpired re-enqueues jobs whose lease expired
func (r *Repository) ReclaimExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := reclaimScript.Run(ctx, r.client,
		[]string{leasedKey, scheduledKey},
		now.UnixMilli(),
		hashPrefix,
		countersPrefix,
		globalCountersKey,
	).Int()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("reclaiming expired leases: %w", err)
	}

	return result, nil
}

// QueueDepth returns how many jobs sit in the scheduler and under lease
func (r *Repository) QueueDepth(ctx context.Context) (scheduled, leased int64, err error) {
	scheduled, err = r.client.ZCard(ctx, scheduledKey).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("counting scheduled deliveries: %w", err)
	}

	leased, err = r.client.ZCard(ctx, leasedKey).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("counting leased deliveries: %w", err)
	}

	return scheduled, leased, nil
}

// GlobalStatusCounts returns delivery counts by status across all webhooks
func (r *Repository) GlobalStatusCounts(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{
		"pending":    0,
		"delivering": 0,
		"delivered":  0,
		"failed":     0,
		"retrying":   0,
	}

	data, err := r.client.HGetAll(ctx, globalCountersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("getting status counts: %w", err)
	}
	for status, value := range data {
		if _, exists := counts[status]; exists {
			counts[status] = parseInt64(value)
		}
	}

	return counts, nil
}

// DeliveredSince counts deliveries that succeeded after the given time,
// bounded by the retention window of the delivered log
func (r *Repository) DeliveredSince(ctx context.Context, since time.Time) (int64, error) {
	count, err := r.client.ZCount(ctx, throughputKey,
		strconv.FormatInt(since.UnixMilli(), 10), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("counting delivered log: %w", err)
	}
	return count, nil
}

type attemptRecord struct {
	Number     int    `json:"number"`
	StatusCode *int   `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	At         int64  `json:"at"`
}

func (a attemptRecord) toAttempt(deliveryID string) delivery.Attempt {
	return delivery.Attempt{
		DeliveryID: deliveryID,
		Number:     a.Number,
		StatusCode: a.StatusCode,
		Error:      a.Error,
		Duration:   time.Duration(a.DurationMs) * time.Millisecond,
		At:         time.UnixMilli(a.At),
	}
}

func unmarshalDelivery(data map[string]string) delivery.Delivery {
	d := delivery.Delivery{
		ID:           data["id"],
		WebhookID:    data["webhook_id"],
		EventType:    data["event_type"],
		EventID:      data["event_id"],
		Payload:      json.RawMessage(data["payload"]),
		Source:       data["source"],
		TriggeredBy:  data["triggered_by"],
		Status:       delivery.NewStatus(data["status"]),
		Attempts:     int(parseInt64(data["attempts"])),
		MaxAttempts:  int(parseInt64(data["max_attempts"])),
		ErrorMessage: data["error_message"],
		CreatedAt:    time.UnixMilli(parseInt64(data["created_at"])),
	}

	d.NextRetryAt = timePtr(data["next_retry_at"])
	d.LastAttemptAt = timePtr(data["last_attempt_at"])
	d.DeliveredAt = timePtr(data["delivered_at"])
	d.FailedAt = timePtr(data["failed_at"])

	if raw, ok := data["status_code"]; ok && raw != "" {
		code := int(parseInt64(raw))
		d.StatusCode = &code
	}

	return d
}

func timePtr(raw string) *time.Time {
	millis := parseInt64(raw)
	if millis == 0 {
		return nil
	}
	t := time.UnixMilli(millis)
	return &t
}

func unixMilliOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

func parseInt64(s string) int64 {
	result, _ := strconv.ParseInt(s, 10, 64)
	return result
}
