package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the delivery subsystem.
type Metrics struct {
	// QueueDepth counts jobs waiting in the scheduler and under lease
	QueueDepth QueueDepthMetrics `json:"queue_depth"`

	// StatusCounts maps status name to count of deliveries in that status
	StatusCounts map[string]int64 `json:"status_counts"`

	// Throughput represents deliveries completed per time window
	Throughput ThroughputMetrics `json:"throughput"`

	// Workers lists the delivery workers with a live heartbeat
	Workers []WorkerInfo `json:"workers"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// QueueDepthMetrics counts jobs by queue position.
type QueueDepthMetrics struct {
	// Scheduled is the number of jobs waiting for their due time
	Scheduled int64 `json:"scheduled"`

	// Leased is the number of jobs claimed by a worker right now
	Leased int64 `json:"leased"`
}

// ThroughputMetrics represents deliveries completed over different time windows.
type ThroughputMetrics struct {
	// LastMinute is deliveries completed in the last 1 minute
	LastMinute int64 `json:"last_minute"`

	// LastFiveMinutes is deliveries completed in the last 5 minutes
	LastFiveMinutes int64 `json:"last_five_minutes"`

	// LastFifteenMinutes is deliveries completed in the last 15 minutes
	LastFifteenMinutes int64 `json:"last_fifteen_minutes"`
}

// WorkerInfo represents information about an active delivery worker.
type WorkerInfo struct {
	// WorkerID is a unique identifier for the worker
	WorkerID string `json:"worker_id"`

	// Status is the current status of the worker (e.g., "idle", "processing")
	Status string `json:"status"`

	// LastHeartbeat is the timestamp of the last heartbeat
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// Collector defines the interface for collecting metrics from the delivery subsystem.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetQueueDepth returns the number of jobs scheduled and under lease
	GetQueueDepth(ctx context.Context) (QueueDepthMetrics, error)

	// GetStatusCounts returns the count of deliveries by status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)

	// GetThroughput returns deliveries completed over time windows
	GetThroughput(ctx context.Context) (ThroughputMetrics, error)

	// GetActiveWorkers returns information about active workers
	GetActiveWorkers(ctx context.Context) ([]WorkerInfo, error)
}
