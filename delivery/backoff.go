package delivery

import "time"

// MaxAttempts is the fixed number of delivery attempts before a job is
// moved to the dead letter store. Not configurable per webhook.
const MaxAttempts = 5

// retrySchedule holds the delay before each attempt (0-indexed):
// attempt 1 immediate, then 5m, 30m, 2h, 24h.
var retrySchedule = []time.Duration{
	0,
	5 * time.Minute,
	30 * time.Minute,
	2 * time.Hour,
	24 * time.Hour,
}

// RetryDelay returns the delay to wait before the given attempt number
// (1-indexed). Attempts past the schedule reuse the last delay, though the
// worker never schedules past MaxAttempts.
func RetryDelay(attempt int) time.Duration {
	index := attempt - 1
	if index < 0 {
		index = 0
	}
	if index >= len(retrySchedule) {
		index = len(retrySchedule) - 1
	}
	return retrySchedule[index]
}
