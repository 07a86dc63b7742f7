package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/oks-citadel/citadelbuy-sub007/config"
	deadletterredis "github.com/oks-citadel/citadelbuy-sub007/deadletter/redis"
	deliveryredis "github.com/oks-citadel/citadelbuy-sub007/delivery/redis"
	"github.com/oks-citadel/citadelbuy-sub007/webhook"
	webhookredis "github.com/oks-citadel/citadelbuy-sub007/webhook/redis"
	"github.com/oks-citadel/citadelbuy-sub007/worker"
)

/* The worker binary runs the delivery pool: claim due jobs, post them to
 * subscriber endpoints and move them through retry, delivered or the dead
 * letter store. Scale out by running more instances against the same Redis.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer client.Close()

	deliveries := deliveryredis.NewRepository(client)
	webhooks := webhook.NewService(webhookredis.NewRepository(client), nil, cfg.IsProduction())
	deadLetters := deadletterredis.NewRepository(client)
	sender := worker.NewHTTPSender(time.Duration(cfg.DeliveryTimeoutSeconds) * time.Second)

	pool := worker.NewPool(deliveries, webhooks, deadLetters, deliveries, sender, logger, cfg.WorkerCount)

	logger.Info("worker pool starting", zap.Int("workers", cfg.WorkerCount))
	pool.Run(ctx)
	logger.Info("worker pool stopped")
}
