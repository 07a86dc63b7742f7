package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oks-citadel/citadelbuy-sub007/webhook"
)

/* Redis implementation of webhook.Repository
 * Uses a Redis Hash per subscription plus a Set as the id index
 */

const (
	hashPrefix = "subscription" // Hash naming: subscription:{webhook_id}
	indexKey   = "subscriptions"
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis subscription repository
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Store persists a subscription and adds it to the index
func (r *Repository) Store(ctx context.Context, wh webhook.Webhook) error {
	eventsJSON, err := json.Marshal(wh.Events)
	if err != nil {
		return fmt.Errorf("marshaling events: %w", err)
	}

	hashKey := fmt.Sprintf("%s:%s", hashPrefix, wh.ID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey, map[string]interface{}{
			"id":          wh.ID,
			"url":         wh.URL,
			"description": wh.Description,
			"secret":      wh.Secret,
			"events":      string(eventsJSON),
			"active":      strconv.FormatBool(wh.Active),
			"created_at":  wh.CreatedAt.UnixMilli(),
			"updated_at":  wh.UpdatedAt.UnixMilli(),
		})
		pipe.SAdd(ctx, indexKey, wh.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storing subscription: %w", err)
	}

	return nil
}

// Get retrieves a subscription by id
func (r *Repository) Get(ctx context.Context, id string) (webhook.Webhook, error) {
	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)

	data, err := r.client.HGetAll(ctx, hashKey).Result()
	if err != nil {
		return webhook.Webhook{}, fmt.Errorf("getting subscription: %w", err)
	}
	if len(data) == 0 {
		return webhook.Webhook{}, webhook.ErrNotFound
	}

	return unmarshalWebhook(data)
}

// List returns all subscriptions in the index
func (r *Repository) List(ctx context.Context) ([]webhook.Webhook, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing subscription ids: %w", err)
	}

	webhooks := make([]webhook.Webhook, 0, len(ids))
	for _, id := range ids {
		wh, err := r.Get(ctx, id)
		if err == webhook.ErrNotFound {
			// Deleted between SMembers and HGetAll
			continue
		}
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, wh)
	}

	return webhooks, nil
}

// Update overwrites a subscription that must already exist
func (r *Repository) Update(ctx context.Context, wh webhook.Webhook) error {
	exists, err := r.client.SIsMember(ctx, indexKey, wh.ID).Result()
	if err != nil {
		return fmt.Errorf("checking subscription index: %w", err)
	}
	if !exists {
		return webhook.ErrNotFound
	}

	return r.Store(ctx, wh)
}

// Delete removes a subscription and its index entry
func (r *Repository) Delete(ctx context.Context, id string) error {
	removed, err := r.client.SRem(ctx, indexKey, id).Result()
	if err != nil {
		return fmt.Errorf("removing subscription from index: %w", err)
	}
	if removed == 0 {
		return webhook.ErrNotFound
	}

	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)
	if err := r.client.Del(ctx, hashKey).Err(); err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}

	return nil
}

func unmarshalWebhook(data map[string]string) (webhook.Webhook, error) {
	var events []string
	if eventsStr := data["events"]; eventsStr != "" {
		if err := json.Unmarshal([]byte(eventsStr), &events); err != nil {
			return webhook.Webhook{}, fmt.Errorf("unmarshaling events: %w", err)
		}
	}

	active, _ := strconv.ParseBool(data["active"])

	return webhook.Webhook{
		ID:          data["id"],
		URL:         data["url"],
		Description: data["description"],
		Secret:      data["secret"],
		Events:      events,
		Active:      active,
		CreatedAt:   time.UnixMilli(parseInt64(data["created_at"])),
		UpdatedAt:   time.UnixMilli(parseInt64(data["updated_at"])),
	}, nil
}

func parseInt64(s string) int64 {
	result, _ := strconv.ParseInt(s, 10, 64)
	return result
}
