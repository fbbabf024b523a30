// Package util holds small timer and conversion helpers shared by the
// task-side drivers.
package util

import (
	"context"
	"time"
)

func ResetTimer(t *time.Timer, d time.Duration) {
	if d < 0 {
		d = 0
	}
	if !t.Stop() {
		DrainTimer(t)
	}
	t.Reset(d)
}

func DrainTimer(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, t *time.Timer, d time.Duration) error {
	ResetTimer(t, d)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
