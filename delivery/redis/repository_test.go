package redis_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oks-citadel/citadelbuy-sub007/delivery"
	deliveryredis "github.com/oks-citadel/citadelbuy-sub007/delivery/redis"
)

func newTestRepository(t *testing.T) *deliveryredis.Repository {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return deliveryredis.NewRepository(client)
}

func newDelivery(id, webhookID string, due time.Time) delivery.Delivery {
	return delivery.Delivery{
		ID:          id,
		WebhookID:   webhookID,
		EventType:   "orders.created",
		EventID:     "evt-" + id,
		Payload:     json.RawMessage(`{"orderId":"o-1"}`),
		Source:      "orders-service",
		TriggeredBy: "user-7",
		Status:      delivery.Pending,
		Attempts:    0,
		MaxAttempts: delivery.MaxAttempts,
		NextRetryAt: &due,
		CreatedAt:   time.Now(),
	}
}

func TestStoreAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	stored := newDelivery("del-1", "wh-1", time.Now())
	require.NoError(t, repo.Store(ctx, stored))

	got, err := repo.Get(ctx, "del-1")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, stored.WebhookID, got.WebhookID)
	assert.Equal(t, stored.EventID, got.EventID)
	assert.JSONEq(t, string(stored.Payload), string(got.Payload))
	assert.Equal(t, delivery.Pending, got.Status)
	assert.Equal(t, delivery.MaxAttempts, got.MaxAttempts)
	require.NotNil(t, got.NextRetryAt)
	assert.Nil(t, got.DeliveredAt)
	assert.Nil(t, got.StatusCode)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, delivery.ErrNotFound)
}

func TestClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("claims a due job exactly once", func(t *testing.T) {
		repo := newTestRepository(t)
		require.NoError(t, repo.Store(ctx, newDelivery("del-1", "wh-1", time.Now().Add(-time.Second))))

		claimed, err := repo.Claim(ctx, "worker-1", time.Now())
		require.NoError(t, err)
		assert.Equal(t, "del-1", claimed.ID)
		assert.Equal(t, delivery.Delivering, claimed.Status)

		_, err = repo.Claim(ctx, "worker-2", time.Now())
		require.ErrorIs(t, err, delivery.ErrNoneReady)
	})

	t.Run("does not surface jobs before their due time", func(t *testing.T) {
		repo := newTestRepository(t)
		require.NoError(t, repo.Store(ctx, newDelivery("del-1", "wh-1", time.Now().Add(time.Hour))))

		_, err := repo.Claim(ctx, "worker-1", time.Now())
		require.ErrorIs(t, err, delivery.ErrNoneReady)

		// Becomes claimable once the clock passes the due time
		claimed, err := repo.Claim(ctx, "worker-1", time.Now().Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "del-1", claimed.ID)
	})

	t.Run("skips stale due entries instead of returning empty", func(t *testing.T) {
		repo := newTestRepository(t)

		// Resolve a job out of band, then force its entry back into the
		// scheduler: the hash is terminal so the entry is stale.
		require.NoError(t, repo.Store(ctx, newDelivery("del-stale", "wh-1", time.Now().Add(-2*time.Second))))
		_, err := repo.Claim(ctx, "worker-1", time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.MarkDelivered(ctx, "del-stale", 200, time.Now()))
		require.NoError(t, repo.Reschedule(ctx, "del-stale", time.Now().Add(-2*time.Second)))

		require.NoError(t, repo.Store(ctx, newDelivery("del-live", "wh-1", time.Now().Add(-time.Second))))

		// The claimable job behind the stale entry is still surfaced
		claimed, err := repo.Claim(ctx, "worker-1", time.Now())
		require.NoError(t, err)
		assert.Equal(t, "del-live", claimed.ID)

		// The stale entry was dropped, not left to block the next claim
		_, err = repo.Claim(ctx, "worker-1", time.Now())
		require.ErrorIs(t, err, delivery.ErrNoneReady)
	})

	t.Run("no double claim under racing workers", func(t *testing.T) {
		repo := newTestRepository(t)
		require.NoError(t, repo.Store(ctx, newDelivery("del-1", "wh-1", time.Now().Add(-time.Second))))

		const workers = 8
		var wg sync.WaitGroup
		results := make(chan string, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				claimed, err := repo.Claim(ctx, fmt.Sprintf("worker-%d", n), time.Now())
				if err == nil {
					results <- claimed.ID
				}
			}(i)
		}
		wg.Wait()
		close(results)

		var winners []string
		for id := range results {
			winners = append(winners, id)
		}
		require.Len(t, winners, 1)
		assert.Equal(t, "del-1", winners[0])
	})
}

func TestMarkDelivered(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Store(ctx, newDelivery("del-1", "wh-1", time.Now().Add(-time.Second))))
	_, err := repo.Claim(ctx, "worker-1", time.Now())
	require.NoError(t, err)

	at := time.Now()
	require.NoError(t, repo.MarkDelivered(ctx, "del-1", 200, at))

	got, err := repo.Get(ctx, "del-1")
	require.NoError(t, err)
	assert.Equal(t, delivery.Delivered, got.Status)
	require.NotNil(t, got.DeliveredAt)
	require.NotNil(t, got.StatusCode)
	assert.Equal(t, 200, *got.StatusCode)
	assert.Nil(t, got.NextRetryAt)

	// Terminal: no longer claimable
	_, err = repo.Claim(ctx, "worker-1", time.Now().Add(time.Hour))
	require.ErrorIs(t, err, delivery.ErrNoneReady)

	stats, err := repo.Stats(ctx, "wh-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Delivered)
	assert.Equal(t, int64(0), stats.Pending)
}

func TestMarkRetrying(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Store(ctx, newDelivery("del-1", "wh-1", time.Now().Add(-time.Second))))
	_, err := repo.Claim(ctx, "worker-1", time.Now())
	require.NoError(t, err)

	code := 500
	nextRetryAt := time.Now().Add(5 * time.Minute)
	require.NoError(t, repo.MarkRetrying(ctx, "del-1", 1, nextRetryAt, &code, "upstream returned 500"))

	got, err := repo.Get(ctx, "del-1")
	require.NoError(t, err)
	assert.Equal(t, delivery.Retrying, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "upstream returned 500", got.ErrorMessage)
	require.NotNil(t, got.NextRetryAt)
	assert.WithinDuration(t, nextRetryAt, *got.NextRetryAt, time.Second)

	// Not yet due
	_, err = repo.Claim(ctx, "worker-1", time.Now())
	require.ErrorIs(t, err, delivery.ErrNoneReady)

	// Due after the backoff delay
	claimed, err := repo.Claim(ctx, "worker-1", nextRetryAt.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "del-1", claimed.ID)
	assert.Equal(t, 1, claimed.Attempts)
}

func TestMarkFailed(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Store(ctx, newDelivery("del-1", "wh-1", time.Now().Add(-time.Second))))
	_, err := repo.Claim(ctx, "worker-1", time.Now())
	require.NoError(t, err)

	code := 503
	require.NoError(t, repo.MarkFailed(ctx, "del-1", delivery.MaxAttempts, &code, "exhausted retries", time.Now()))

	got, err := repo.Get(ctx, "del-1")
	require.NoError(t, err)
	assert.Equal(t, delivery.Failed, got.Status)
	assert.Equal(t, delivery.MaxAttempts, got.Attempts)
	require.NotNil(t, got.FailedAt)

	stats, err := repo.Stats(ctx, "wh-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Failed)
}

func TestReclaimExpired(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Store(ctx, newDelivery("del-1", "wh-1", time.Now().Add(-time.Second))))
	_, err := repo.Claim(ctx, "worker-1", time.Now())
	require.NoError(t, err)

	// Live lease: nothing to reclaim
	n, err := repo.ReclaimExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// After the lease expires the job goes back to the queue
	afterLease := time.Now().Add(deliveryredis.LeaseDuration + time.Second)
	n, err = repo.ReclaimExpired(ctx, afterLease)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.Get(ctx, "del-1")
	require.NoError(t, err)
	assert.Equal(t, delivery.Pending, got.Status)

	claimed, err := repo.Claim(ctx, "worker-2", afterLease)
	require.NoError(t, err)
	assert.Equal(t, "del-1", claimed.ID)
}

func TestAttempts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	code := 500
	require.NoError(t, repo.AppendAttempt(ctx, delivery.Attempt{
		DeliveryID: "del-1",
		Number:     1,
		StatusCode: &code,
		Error:      "upstream returned 500",
		Duration:   125 * time.Millisecond,
		At:         time.Now(),
	}))

	ok := 200
	require.NoError(t, repo.AppendAttempt(ctx, delivery.Attempt{
		DeliveryID: "del-1",
		Number:     2,
		StatusCode: &ok,
		Duration:   80 * time.Millisecond,
		At:         time.Now(),
	}))

	attempts, err := repo.Attempts(ctx, "del-1")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 1, attempts[0].Number)
	assert.Equal(t, 500, *attempts[0].StatusCode)
	assert.Equal(t, "upstream returned 500", attempts[0].Error)
	assert.Equal(t, 125*time.Millisecond, attempts[0].Duration)
	assert.Equal(t, 2, attempts[1].Number)
	assert.Empty(t, attempts[1].Error)
}

func TestListByWebhook(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Store(ctx, newDelivery(fmt.Sprintf("del-%d", i), "wh-1", time.Now())))
	}
	require.NoError(t, repo.Store(ctx, newDelivery("del-other", "wh-2", time.Now())))

	// Newest first
	page, err := repo.ListByWebhook(ctx, "wh-1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "del-5", page[0].ID)
	assert.Equal(t, "del-4", page[1].ID)

	page, err = repo.ListByWebhook(ctx, "wh-1", 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "del-1", page[0].ID)

	// A non-positive limit yields an empty page, never the full history
	page, err = repo.ListByWebhook(ctx, "wh-1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, page)
}
