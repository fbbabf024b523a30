// Package fault is the last-resort path for unrecoverable conditions: stack
// exhaustion, allocation failure and failed assertions. It lights the fault
// indicator, masks interrupts, reports over the emergency serial path and
// parks. Nothing on this path allocates, locks or waits on an interrupt.
package fault

import (
	"sync/atomic"

	"periphio-go/chip"
	"periphio-go/hal"
	"periphio-go/x/conv"
)

// Reporter writes bytes by polling the hardware. serial.Channel's
// WriteEmergency satisfies it.
type Reporter interface {
	WriteEmergency(p []byte) int
}

// Reason identifies the fatal condition.
type Reason uint8

const (
	Halted Reason = iota + 1
	StackOverflow
	OutOfMemory
	AssertFailed
)

func (r Reason) String() string {
	switch r {
	case StackOverflow:
		return "stack overflow"
	case OutOfMemory:
		return "out of memory"
	case AssertFailed:
		return "assert"
	case Halted:
		return "halt"
	}
	return "unknown"
}

type Handler struct {
	ic      hal.Interrupts
	led     *hal.PortRegs
	ledMask uint32
	out     Reporter
	park    func()

	reason atomic.Uint32
	buf    [96]byte
}

// New builds a handler for d. out may be nil, in which case nothing is
// reported.
func New(hw hal.Hardware, d chip.Descriptor, out Reporter) *Handler {
	h := &Handler{ic: hw.Interrupts(), out: out, park: func() { select {} }}
	if d.FaultLED >= 0 {
		g, bit := hal.GroupOf(int(d.FaultLED))
		h.led = hw.Port(g)
		h.ledMask = 1 << uint(bit)
	}
	return h
}

// SetPark replaces what the handler does once it has reported. The default
// blocks forever.
func (h *Handler) SetPark(f func()) { h.park = f }

// SetReporter changes where the report goes.
func (h *Handler) SetReporter(out Reporter) { h.out = out }

// Reason returns the condition that halted the system, or 0.
func (h *Handler) Reason() Reason { return Reason(h.reason.Load()) }

// StackOverflow is called when task overran its stack.
func (h *Handler) StackOverflow(task string) { h.halt(StackOverflow, task, 0, false) }

// OutOfMemory is called when an allocation for task failed.
func (h *Handler) OutOfMemory(task string) { h.halt(OutOfMemory, task, 0, false) }

// Assert halts when cond is false, reporting file and line.
func (h *Handler) Assert(cond bool, file string, line int) {
	if !cond {
		h.halt(AssertFailed, file, uint32(line), true)
	}
}

// Halt stops the system with an application supplied code.
func (h *Handler) Halt(what string, code uint32) { h.halt(Halted, what, code, true) }

func (h *Handler) halt(r Reason, what string, code uint32, withCode bool) {
	if !h.reason.CompareAndSwap(0, uint32(r)) {
		// Already halting; a second fault must not report over the first.
		h.park()
		return
	}
	if h.led != nil {
		h.led.Tris.ClearBits(h.ledMask)
		h.led.Lat.SetBits(h.ledMask)
	}
	h.ic.DisableAll()

	if h.out != nil {
		b := conv.AppendString(h.buf[:0], "\r\nFATAL ")
		b = conv.AppendString(b, r.String())
		if what != "" {
			b = conv.AppendString(b, ": ")
			b = conv.AppendString(b, what)
		}
		if withCode {
			if r == AssertFailed {
				b = conv.AppendString(b, ":")
				b = conv.AppendUint(b, uint64(code))
			} else {
				b = conv.AppendString(b, " code=")
				b = conv.AppendHex32(b, code)
			}
		}
		if len(b) > len(h.buf)-2 {
			b = b[:len(h.buf)-2]
		}
		b = append(b, '\r', '\n')
		h.out.WriteEmergency(b)
	}
	h.park()
}
