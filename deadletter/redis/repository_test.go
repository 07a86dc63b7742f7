package redis_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oks-citadel/citadelbuy-sub007/deadletter"
	deadletterredis "github.com/oks-citadel/citadelbuy-sub007/deadletter/redis"
)

func newTestRepository(t *testing.T) *deadletterredis.Repository {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return deadletterredis.NewRepository(client)
}

func sampleDeadLetter(id string) deadletter.DeadLetter {
	code := 503
	last := time.Now().Add(-time.Hour)
	return deadletter.DeadLetter{
		ID:                 id,
		WebhookID:          "wh-1",
		OriginalDeliveryID: "del-1",
		EventType:          "orders.created",
		EventID:            "evt-1",
		Payload:            json.RawMessage(`{"orderId":"o-1"}`),
		Source:             "orders-service",
		TriggeredBy:        "user-7",
		ErrorMessage:       "503 Service Unavailable",
		StatusCode:         &code,
		AttemptsMade:       5,
		LastAttemptAt:      &last,
		CreatedAt:          time.Now(),
	}
}

func TestStoreAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	dl := sampleDeadLetter("dl-1")
	require.NoError(t, repo.Store(ctx, dl))

	got, err := repo.Get(ctx, "dl-1")
	require.NoError(t, err)
	assert.Equal(t, "wh-1", got.WebhookID)
	assert.Equal(t, "del-1", got.OriginalDeliveryID)
	assert.Equal(t, "503 Service Unavailable", got.ErrorMessage)
	require.NotNil(t, got.StatusCode)
	assert.Equal(t, 503, *got.StatusCode)
	assert.Equal(t, 5, got.AttemptsMade)
	require.NotNil(t, got.LastAttemptAt)
	assert.Nil(t, got.ProcessedAt)
	assert.Nil(t, got.RetriedAt)
	assert.JSONEq(t, string(dl.Payload), string(got.Payload))
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.Get(ctx, "missing")
	require.ErrorIs(t, err, deadletter.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for i := 1; i <= 5; i++ {
		dl := sampleDeadLetter(fmt.Sprintf("dl-%d", i))
		require.NoError(t, repo.Store(ctx, dl))
	}

	letters, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, letters, 2)
	assert.Equal(t, "dl-5", letters[0].ID)
	assert.Equal(t, "dl-4", letters[1].ID)

	letters, err = repo.List(ctx, 10, 3)
	require.NoError(t, err)
	require.Len(t, letters, 2)
	assert.Equal(t, "dl-2", letters[0].ID)
	assert.Equal(t, "dl-1", letters[1].ID)
}

func TestListEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	letters, err := repo.List(ctx, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, letters)
}

func TestStamps(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Store(ctx, sampleDeadLetter("dl-1")))

	processedAt := time.Now()
	require.NoError(t, repo.MarkProcessed(ctx, "dl-1", processedAt))

	retriedAt := processedAt.Add(time.Minute)
	require.NoError(t, repo.MarkRetried(ctx, "dl-1", retriedAt))

	got, err := repo.Get(ctx, "dl-1")
	require.NoError(t, err)
	require.NotNil(t, got.ProcessedAt)
	require.NotNil(t, got.RetriedAt)
	assert.Equal(t, processedAt.UnixMilli(), got.ProcessedAt.UnixMilli())
	assert.Equal(t, retriedAt.UnixMilli(), got.RetriedAt.UnixMilli())

	// The row survives both stamps
	letters, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, letters, 1)

	require.ErrorIs(t, repo.MarkProcessed(ctx, "missing", time.Now()), deadletter.ErrNotFound)
	require.ErrorIs(t, repo.MarkRetried(ctx, "missing", time.Now()), deadletter.ErrNotFound)
}
