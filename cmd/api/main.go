package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oks-citadel/citadelbuy-sub007/catalog"
	"github.com/oks-citadel/citadelbuy-sub007/config"
	"github.com/oks-citadel/citadelbuy-sub007/deadletter"
	deadletterredis "github.com/oks-citadel/citadelbuy-sub007/deadletter/redis"
	"github.com/oks-citadel/citadelbuy-sub007/delivery"
	deliveryredis "github.com/oks-citadel/citadelbuy-sub007/delivery/redis"
	"github.com/oks-citadel/citadelbuy-sub007/event"
	eventredis "github.com/oks-citadel/citadelbuy-sub007/event/redis"
	"github.com/oks-citadel/citadelbuy-sub007/internal/http/chi"
	"github.com/oks-citadel/citadelbuy-sub007/metrics"
	"github.com/oks-citadel/citadelbuy-sub007/webhook"
	webhookredis "github.com/oks-citadel/citadelbuy-sub007/webhook/redis"

	"go.uber.org/zap"
)

const TIMEOUT = 30 * time.Second

/* The api binary wires the management surface: registry, event ingestion,
 * delivery history and the dead letter admin endpoints. Workers run as a
 * separate binary (cmd/worker) against the same Redis.
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

	events := catalog.NewCatalog()
	if err := events.Load(cfg.EventsFile); err != nil {
		fmt.Println(err)
		return
	}

	deliveryRepo := deliveryredis.NewRepository(client)
	deliveryService := delivery.NewService(deliveryRepo)

	webhookService := webhook.NewService(webhookredis.NewRepository(client), events, cfg.IsProduction())
	eventService := event.NewService(eventredis.NewRepository(client), webhookService, deliveryService, logger)
	deadLetterService := deadletter.NewService(deadletterredis.NewRepository(client), deliveryService)

	exporter, err := metrics.NewOTelExporter(metrics.NewRedisCollector(deliveryRepo))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(ctx)

	r := chi.Handlers(ctx, webhookService, deliveryService, eventService, deadLetterService, exporter.ServeHTTP())
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
