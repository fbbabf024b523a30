package util

import (
	"context"
	"testing"
	"time"
)

func TestBoolToInt(t *testing.T) {
	if BoolToInt(true) != 1 || BoolToInt(false) != 0 {
		t.Fatal("BoolToInt failed")
	}
}

func TestResetAndDrainTimer(t *testing.T) {
	tm := time.NewTimer(time.Hour)
	if !tm.Stop() {
		DrainTimer(tm)
	}
	ResetTimer(tm, 1*time.Millisecond)
	select {
	case <-tm.C:
	case <-time.After(50 * time.Millisecond):
		t.Fatal("timer did not fire after ResetTimer")
	}
	// Negative reset clamps to zero and should fire immediately.
	ResetTimer(tm, -1)
	select {
	case <-tm.C:
	case <-time.After(50 * time.Millisecond):
		t.Fatal("timer did not fire after negative ResetTimer")
	}
}

func TestSleepHonoursContext(t *testing.T) {
	tm := time.NewTimer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, tm, time.Hour); err != context.Canceled {
		t.Fatalf("Sleep err=%v", err)
	}
	if err := Sleep(context.Background(), tm, time.Millisecond); err != nil {
		t.Fatalf("Sleep err=%v", err)
	}
}
