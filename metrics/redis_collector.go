package metrics

import (
	"context"
	"fmt"
	"time"

	deliveryredis "github.com/oks-citadel/citadelbuy-sub007/delivery/redis"
)

// RedisCollector implements the Collector interface on the Redis-backed
// delivery repository: the status counters, scheduler sets, delivered log
// and worker heartbeats it already maintains.
type RedisCollector struct {
	deliveries *deliveryredis.Repository
}

// NewRedisCollector creates a new Redis metrics collector
func NewRedisCollector(deliveries *deliveryredis.Repository) *RedisCollector {
	return &RedisCollector{deliveries: deliveries}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	queueDepth, err := c.GetQueueDepth(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting queue depth: %w", err)
	}

	statusCounts, err := c.GetStatusCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting status counts: %w", err)
	}

	throughput, err := c.GetThroughput(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting throughput: %w", err)
	}

	workers, err := c.GetActiveWorkers(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting active workers: %w", err)
	}

	return Metrics{
		QueueDepth:   queueDepth,
		StatusCounts: statusCounts,
		Throughput:   throughput,
		Workers:      workers,
		Timestamp:    time.Now(),
	}, nil
}

// GetQueueDepth returns the number of jobs scheduled and under lease
func (c *RedisCollector) GetQueueDepth(ctx context.Context) (QueueDepthMetrics, error) {
	scheduled, leased, err := c.deliveries.QueueDepth(ctx)
	if err != nil {
		return QueueDepthMetrics{}, err
	}

	return QueueDepthMetrics{Scheduled: scheduled, Leased: leased}, nil
}

// GetStatusCounts returns counts of deliveries grouped by status
func (c *RedisCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	return c.deliveries.GlobalStatusCounts(ctx)
}

// GetThroughput calculates deliveries completed over different time windows
func (c *RedisCollector) GetThroughput(ctx context.Context) (ThroughputMetrics, error) {
	now := time.Now()

	lastMinute, err := c.deliveries.DeliveredSince(ctx, now.Add(-1*time.Minute))
	if err != nil {
		return ThroughputMetrics{}, err
	}

	lastFiveMinutes, err := c.deliveries.DeliveredSince(ctx, now.Add(-5*time.Minute))
	if err != nil {
		return ThroughputMetrics{}, err
	}

	lastFifteenMinutes, err := c.deliveries.DeliveredSince(ctx, now.Add(-15*time.Minute))
	if err != nil {
		return ThroughputMetrics{}, err
	}

	return ThroughputMetrics{
		LastMinute:         lastMinute,
		LastFiveMinutes:    lastFiveMinutes,
		LastFifteenMinutes: lastFifteenMinutes,
	}, nil
}

// GetActiveWorkers returns information about workers with a live heartbeat
func (c *RedisCollector) GetActiveWorkers(ctx context.Context) ([]WorkerInfo, error) {
	heartbeats, err := c.deliveries.GetActiveWorkers(ctx)
	if err != nil {
		return nil, err
	}

	workers := make([]WorkerInfo, 0, len(heartbeats))
	for _, hb := range heartbeats {
		workers = append(workers, WorkerInfo{
			WorkerID:      hb.WorkerID,
			Status:        hb.Status,
			LastHeartbeat: hb.LastHeartbeat,
		})
	}

	return workers, nil
}
