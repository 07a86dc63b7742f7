package event_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oks-citadel/citadelbuy-sub007/delivery"
	deliverymocks "github.com/oks-citadel/citadelbuy-sub007/delivery/mocks"
	"github.com/oks-citadel/citadelbuy-sub007/event"
	"github.com/oks-citadel/citadelbuy-sub007/event/mocks"
	"github.com/oks-citadel/citadelbuy-sub007/webhook"
	webhookmocks "github.com/oks-citadel/citadelbuy-sub007/webhook/mocks"
)

func TestIngest(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"orderId":"o-1"}`)

	t.Run("fans out to matching active webhooks only", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		subs := webhookmocks.NewUseCase(t)
		deliveries := deliverymocks.NewUseCase(t)
		service := event.NewService(repo, subs, deliveries, nil)

		repo.On("Store", ctx, event.MatchLog(func(l event.Log) bool {
			return l.EventID == "evt-1" && l.EventType == "orders.created"
		})).Return(nil)

		subs.On("FindSubscribed", ctx, "orders.created").Return([]webhook.Webhook{
			{ID: "wh-1", Active: true},
			{ID: "wh-2", Active: true},
		}, nil)

		deliveries.On("Create", ctx, "wh-1", "orders.created", "evt-1", payload, "orders-service", "user-7").
			Return(delivery.Delivery{ID: "del-1"}, nil)
		deliveries.On("Create", ctx, "wh-2", "orders.created", "evt-1", payload, "orders-service", "user-7").
			Return(delivery.Delivery{ID: "del-2"}, nil)

		repo.On("MarkProcessed", ctx, "evt-1", 2).Return(nil)

		log, err := service.Ingest(ctx, "orders.created", "evt-1", payload, "orders-service", "user-7")

		require.NoError(t, err)
		assert.Equal(t, 2, log.WebhooksTriggered)
		assert.True(t, log.Processed)
	})

	t.Run("duplicate event id is an idempotent no-op", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		subs := webhookmocks.NewUseCase(t)
		deliveries := deliverymocks.NewUseCase(t)
		service := event.NewService(repo, subs, deliveries, nil)

		existing := event.Log{EventID: "evt-1", EventType: "orders.created", WebhooksTriggered: 3, Processed: true}
		repo.On("Store", ctx, event.MatchLog(func(l event.Log) bool {
			return l.EventID == "evt-1"
		})).Return(event.ErrDuplicate)
		repo.On("Get", ctx, "evt-1").Return(existing, nil)

		log, err := service.Ingest(ctx, "orders.created", "evt-1", payload, "orders-service", "user-7")

		require.NoError(t, err)
		assert.Equal(t, existing, log)
		// No FindSubscribed, no Create: fan-out happens exactly once
		subs.AssertNotCalled(t, "FindSubscribed")
		deliveries.AssertNotCalled(t, "Create")
	})

	t.Run("no matching webhooks", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		subs := webhookmocks.NewUseCase(t)
		deliveries := deliverymocks.NewUseCase(t)
		service := event.NewService(repo, subs, deliveries, nil)

		repo.On("Store", ctx, event.MatchLog(func(l event.Log) bool { return true })).Return(nil)
		subs.On("FindSubscribed", ctx, "orders.created").Return(nil, nil)
		repo.On("MarkProcessed", ctx, "evt-1", 0).Return(nil)

		log, err := service.Ingest(ctx, "orders.created", "evt-1", payload, "orders-service", "user-7")

		require.NoError(t, err)
		assert.Equal(t, 0, log.WebhooksTriggered)
	})

	t.Run("rejects missing event id", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		subs := webhookmocks.NewUseCase(t)
		deliveries := deliverymocks.NewUseCase(t)
		service := event.NewService(repo, subs, deliveries, nil)

		_, err := service.Ingest(ctx, "orders.created", "", payload, "orders-service", "user-7")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "event id is required")
	})

	t.Run("rejects invalid payload", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		subs := webhookmocks.NewUseCase(t)
		deliveries := deliverymocks.NewUseCase(t)
		service := event.NewService(repo, subs, deliveries, nil)

		_, err := service.Ingest(ctx, "orders.created", "evt-1", json.RawMessage(`{not json`), "orders-service", "user-7")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "payload must be valid JSON")
	})

	t.Run("partial fan-out failure still marks the event processed", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		subs := webhookmocks.NewUseCase(t)
		deliveries := deliverymocks.NewUseCase(t)
		service := event.NewService(repo, subs, deliveries, nil)

		repo.On("Store", ctx, event.MatchLog(func(l event.Log) bool { return true })).Return(nil)
		subs.On("FindSubscribed", ctx, "orders.created").Return([]webhook.Webhook{
			{ID: "wh-1", Active: true},
			{ID: "wh-2", Active: true},
		}, nil)
		deliveries.On("Create", ctx, "wh-1", "orders.created", "evt-1", payload, "s", "u").
			Return(delivery.Delivery{}, assert.AnError)
		deliveries.On("Create", ctx, "wh-2", "orders.created", "evt-1", payload, "s", "u").
			Return(delivery.Delivery{ID: "del-2"}, nil)
		repo.On("MarkProcessed", ctx, "evt-1", 1).Return(nil)

		log, err := service.Ingest(ctx, "orders.created", "evt-1", payload, "s", "u")

		require.NoError(t, err)
		assert.Equal(t, 1, log.WebhooksTriggered)
	})
}
