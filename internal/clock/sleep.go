// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

// millisThreshold separates unix seconds from unix milliseconds in mixed upstream feeds.
const millisThreshold = 1e12

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FromUnix converts a unix timestamp given either in seconds or in milliseconds to UTC.
func FromUnix(ts int64) time.Time {
	if ts > millisThreshold || ts < -millisThreshold {
		return time.UnixMilli(ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}
