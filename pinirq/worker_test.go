package pinirq

import (
	"context"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"periphio-go/chip"
	"periphio-go/hal/sim"
	"periphio-go/pps"
)

func TestWorkerDebounceAndEdges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWorker(8, 8)
	w.Start(ctx)

	fire := w.Watch(pps.RB5, gpio.Low, WatchConfig{Debounce: 10 * time.Millisecond})
	defer w.Unwatch(pps.RB5)

	fire(pps.RB5, gpio.High) // rising
	select {
	case ev := <-w.Events():
		if ev.Pin != pps.RB5 || ev.Level != gpio.High || ev.Edge != gpio.RisingEdge {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for rising event")
	}

	// Within debounce window, should be suppressed.
	fire(pps.RB5, gpio.Low)
	select {
	case <-w.Events():
		t.Fatal("unexpected event during debounce")
	case <-time.After(5 * time.Millisecond):
	}

	time.Sleep(12 * time.Millisecond) // exceed debounce

	fire(pps.RB5, gpio.Low) // falling after debounce
	select {
	case ev := <-w.Events():
		if ev.Level != gpio.Low || ev.Edge != gpio.FallingEdge {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for falling event")
	}
	if l, ok := w.Level(pps.RB5); !ok || l != gpio.Low {
		t.Fatalf("Level = %v, %v", l, ok)
	}
}

func TestWorkerInvert(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWorker(8, 8)
	w.Start(ctx)

	fire := w.Watch(pps.RC7, gpio.Low, WatchConfig{Invert: true})
	if l, _ := w.Level(pps.RC7); l != gpio.High {
		t.Fatalf("initial logical level = %v, want High", l)
	}

	fire(pps.RC7, gpio.High) // physical high -> logical low due to invert
	select {
	case ev := <-w.Events():
		if ev.Level != gpio.Low || ev.Edge != gpio.FallingEdge {
			t.Fatalf("expected inverted falling event, got %+v", ev)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for inverted event")
	}
	if l, _ := w.Level(pps.RC7); l != gpio.Low {
		t.Fatalf("logical level after event = %v, want Low", l)
	}
}

func TestWorkerCountsISRDrops(t *testing.T) {
	w := NewWorker(2, 2) // not started: the ISR queue fills up
	fire := w.Watch(pps.RB0, gpio.Low, WatchConfig{})
	for i := 0; i < 5; i++ {
		fire(pps.RB0, gpio.Level(i%2 == 0))
	}
	if got := w.ISRDrops(); got != 3 {
		t.Fatalf("ISRDrops = %d, want 3", got)
	}
}

func TestWorkerUnwatchedEventsAreDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(4, 4)
	w.Start(ctx)

	fire := w.Watch(pps.RB1, gpio.Low, WatchConfig{})
	w.Unwatch(pps.RB1)
	fire(pps.RB1, gpio.High)

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(10 * time.Millisecond):
	}
	cancel()
	select {
	case <-w.Done():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("worker did not stop")
	}
}

// The worker's callback plugs straight into the dispatcher.
func TestWorkerBehindDispatcher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := chip.Default()
	c := sim.New(d, sim.Options{})
	disp := New(c, d, pps.NewMapper(d.Table, c.PPS()))
	defer disp.Close()

	w := NewWorker(8, 8)
	w.Start(ctx)

	cb := w.Watch(pps.RE2, gpio.Low, WatchConfig{})
	if err := disp.ConnectChange(pps.RE2, gpio.BothEdges, cb); err != nil {
		t.Fatalf("ConnectChange: %v", err)
	}

	c.Drive(pps.RE2, true)
	for _, want := range []gpio.Level{gpio.High, gpio.Low} {
		if want == gpio.Low {
			c.Drive(pps.RE2, false)
		}
		select {
		case ev := <-w.Events():
			if ev.Pin != pps.RE2 || ev.Level != want {
				t.Fatalf("unexpected event: %+v", ev)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timeout waiting for %v", want)
		}
	}
}
