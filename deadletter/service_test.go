package deadletter_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oks-citadel/citadelbuy-sub007/deadletter"
	"github.com/oks-citadel/citadelbuy-sub007/deadletter/mocks"
	"github.com/oks-citadel/citadelbuy-sub007/delivery"
	deliverymocks "github.com/oks-citadel/citadelbuy-sub007/delivery/mocks"
)

func TestRetry(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"orderId":"o-1"}`)

	t.Run("replays as a fresh delivery and stamps the row", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		deliveries := deliverymocks.NewUseCase(t)
		service := deadletter.NewService(repo, deliveries)

		dl := deadletter.DeadLetter{
			ID:                 "dl-1",
			WebhookID:          "wh-1",
			OriginalDeliveryID: "del-old",
			EventType:          "orders.created",
			EventID:            "evt-1",
			Payload:            payload,
			Source:             "orders-service",
			TriggeredBy:        "user-7",
			AttemptsMade:       5,
		}
		repo.On("Get", ctx, "dl-1").Return(dl, nil)
		deliveries.On("Create", ctx, "wh-1", "orders.created", "evt-1", payload, "orders-service", "user-7").
			Return(delivery.Delivery{ID: "del-new", Status: delivery.Pending, Attempts: 0}, nil)
		repo.On("MarkRetried", ctx, "dl-1", mock.AnythingOfType("time.Time")).Return(nil)

		d, err := service.Retry(ctx, "dl-1")

		require.NoError(t, err)
		assert.Equal(t, "del-new", d.ID)
		assert.Equal(t, 0, d.Attempts)
	})

	t.Run("unknown dead letter", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		deliveries := deliverymocks.NewUseCase(t)
		service := deadletter.NewService(repo, deliveries)

		repo.On("Get", ctx, "nope").Return(deadletter.DeadLetter{}, deadletter.ErrNotFound)

		_, err := service.Retry(ctx, "nope")

		require.ErrorIs(t, err, deadletter.ErrNotFound)
		deliveries.AssertNotCalled(t, "Create")
	})

	t.Run("row is not stamped when replay creation fails", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		deliveries := deliverymocks.NewUseCase(t)
		service := deadletter.NewService(repo, deliveries)

		repo.On("Get", ctx, "dl-1").Return(deadletter.DeadLetter{ID: "dl-1", WebhookID: "wh-1", EventType: "orders.created", EventID: "evt-1", Payload: payload, Source: "s", TriggeredBy: "u"}, nil)
		deliveries.On("Create", ctx, "wh-1", "orders.created", "evt-1", payload, "s", "u").
			Return(delivery.Delivery{}, assert.AnError)

		_, err := service.Retry(ctx, "dl-1")

		require.Error(t, err)
		repo.AssertNotCalled(t, "MarkRetried")
	})
}

func TestMarkProcessed(t *testing.T) {
	ctx := context.Background()

	repo := mocks.NewRepository(t)
	service := deadletter.NewService(repo, deliverymocks.NewUseCase(t))

	var stamped time.Time
	repo.On("MarkProcessed", ctx, "dl-1", mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { stamped = args.Get(2).(time.Time) }).
		Return(nil)

	require.NoError(t, service.MarkProcessed(ctx, "dl-1"))
	assert.WithinDuration(t, time.Now(), stamped, time.Second)
}

func TestList(t *testing.T) {
	ctx := context.Background()

	repo := mocks.NewRepository(t)
	service := deadletter.NewService(repo, deliverymocks.NewUseCase(t))

	repo.On("List", ctx, 50, 0).Return([]deadletter.DeadLetter{{ID: "dl-2"}, {ID: "dl-1"}}, nil)

	letters, err := service.List(ctx, 50, 0)

	require.NoError(t, err)
	require.Len(t, letters, 2)
	assert.Equal(t, "dl-2", letters[0].ID)
}
