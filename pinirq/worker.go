package pinirq

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"

	"periphio-go/pps"
)

// Event is delivered from the worker to task code.
type Event struct {
	Pin   pps.Pin
	Level gpio.Level
	Edge  gpio.Edge
	TS    time.Time
}

// Worker moves pin events out of interrupt context. Callbacks obtained from
// Watch only do a non-blocking send; debouncing and delivery happen on the
// worker goroutine.
type Worker struct {
	// Written by ISR; MUST NOT block the ISR:
	isrQ chan isrEvent
	// Consumed by task code:
	outQ    chan Event
	stopped chan struct{}

	mu      sync.RWMutex
	watches map[pps.Pin]*watch

	drops    atomic.Uint32 // ISR queue full
	outDrops atomic.Uint32 // consumer too slow
}

type isrEvent struct {
	pin   pps.Pin
	level gpio.Level
}

// WatchConfig tunes delivery for one pin.
type WatchConfig struct {
	Debounce time.Duration
	// Invert reports logical levels, low-active pins read as High.
	Invert bool
}

type watch struct {
	cfg       WatchConfig
	lastLevel gpio.Level // logical
	lastEvent time.Time
}

// NewWorker sizes the ISR and output queues; zero picks 64.
func NewWorker(isrBuf, outBuf int) *Worker {
	if isrBuf <= 0 {
		isrBuf = 64
	}
	if outBuf <= 0 {
		outBuf = 64
	}
	return &Worker{
		isrQ:    make(chan isrEvent, isrBuf),
		outQ:    make(chan Event, outBuf),
		stopped: make(chan struct{}),
		watches: map[pps.Pin]*watch{},
	}
}

// Start runs the worker until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer close(w.stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-w.isrQ:
				w.handleISR(ev)
			}
		}
	}()
}

// Done is closed once the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} { return w.stopped }

func (w *Worker) Events() <-chan Event { return w.outQ }

// Watch returns a Callback for p, to hand to ConnectChange or
// ConnectExternal. initial is the physical level the pin is at now; events
// closer than cfg.Debounce to the previous one are suppressed.
func (w *Worker) Watch(p pps.Pin, initial gpio.Level, cfg WatchConfig) Callback {
	w.mu.Lock()
	w.watches[p] = &watch{cfg: cfg, lastLevel: initial != gpio.Level(cfg.Invert)}
	w.mu.Unlock()

	return func(p pps.Pin, l gpio.Level) {
		select {
		case w.isrQ <- isrEvent{pin: p, level: l}:
		default:
			w.drops.Add(1) // protect ISR path
		}
	}
}

// Unwatch forgets p. Events already queued for it are discarded.
func (w *Worker) Unwatch(p pps.Pin) {
	w.mu.Lock()
	delete(w.watches, p)
	w.mu.Unlock()
}

func (w *Worker) handleISR(ev isrEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	wh := w.watches[ev.pin]
	if wh == nil {
		return
	}
	level := gpio.Level(ev.level != gpio.Level(wh.cfg.Invert))
	now := time.Now()

	// Debounce
	if !wh.lastEvent.IsZero() && now.Sub(wh.lastEvent) < wh.cfg.Debounce {
		return
	}

	e := gpio.FallingEdge
	if level {
		e = gpio.RisingEdge
	}
	select {
	case w.outQ <- Event{Pin: ev.pin, Level: level, Edge: e, TS: now}:
	default:
		w.outDrops.Add(1)
	}

	// Always update snapshots
	wh.lastLevel = level
	wh.lastEvent = now
}

// Level returns the last logical level the worker delivered for p.
func (w *Worker) Level(p pps.Pin) (gpio.Level, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	wh, ok := w.watches[p]
	if !ok {
		return gpio.Low, false
	}
	return wh.lastLevel, true
}

func (w *Worker) ISRDrops() uint32 { return w.drops.Load() }
func (w *Worker) OutDrops() uint32 { return w.outDrops.Load() }
