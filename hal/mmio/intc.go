package mmio

import (
	"sync/atomic"

	"periphio-go/hal"
)

// IntController drives the interrupt flag (IFS), enable (IEC) and priority
// (IPC) registers. Flags and enables hold 32 vectors per register; IPC
// holds four, one byte each, with the priority in bits 4:2 and the
// sub-priority in bits 1:0. Registers of each kind are 0x10 apart.
type IntController struct {
	w        *Window
	l        Layout
	handlers []atomic.Pointer[hal.ISR]
	masked   atomic.Bool
}

var _ hal.Interrupts = (*IntController)(nil)

func NewIntController(w *Window, l Layout) *IntController {
	return &IntController{w: w, l: l, handlers: make([]atomic.Pointer[hal.ISR], l.NumVectors)}
}

func flagReg(base uint32, v hal.Vector) (addr, mask uint32) {
	return base + uint32(v/32)*0x10, 1 << (uint32(v) % 32)
}

func prioReg(base uint32, v hal.Vector) (addr uint32, shift uint) {
	return base + uint32(v/4)*0x10, 8 * (uint(v) % 4)
}

func (ic *IntController) Attach(v hal.Vector, isr hal.ISR) {
	if int(v) >= len(ic.handlers) {
		return
	}
	if isr == nil {
		ic.handlers[v].Store(nil)
		return
	}
	ic.handlers[v].Store(&isr)
}

func (ic *IntController) Flag(v hal.Vector) bool {
	a, m := flagReg(ic.l.IFS0, v)
	return ic.w.Read(a)&m != 0
}

func (ic *IntController) SetFlag(v hal.Vector) {
	a, m := flagReg(ic.l.IFS0, v)
	ic.w.Reg(a).SetBits(m)
}

func (ic *IntController) ClearFlag(v hal.Vector) {
	a, m := flagReg(ic.l.IFS0, v)
	ic.w.Reg(a).ClearBits(m)
}

func (ic *IntController) Enabled(v hal.Vector) bool {
	a, m := flagReg(ic.l.IEC0, v)
	return ic.w.Read(a)&m != 0
}

func (ic *IntController) Enable(v hal.Vector) {
	a, m := flagReg(ic.l.IEC0, v)
	ic.w.Reg(a).SetBits(m)
}

func (ic *IntController) Disable(v hal.Vector) {
	a, m := flagReg(ic.l.IEC0, v)
	ic.w.Reg(a).ClearBits(m)
}

func (ic *IntController) SetPriority(v hal.Vector, ipl, sub uint8) {
	a, shift := prioReg(ic.l.IPC0, v)
	r := ic.w.Reg(a)
	r.ClearBits(0x1F << shift)
	r.SetBits(uint32(ipl&7)<<2<<shift | uint32(sub&3)<<shift)
}

func (ic *IntController) Priority(v hal.Vector) (ipl, sub uint8) {
	a, shift := prioReg(ic.l.IPC0, v)
	f := ic.w.Read(a) >> shift
	return uint8(f>>2) & 7, uint8(f) & 3
}

// DisableAll clears every enable register and stops Dispatch.
func (ic *IntController) DisableAll() {
	ic.masked.Store(true)
	for i := 0; i < (len(ic.handlers)+31)/32; i++ {
		ic.w.Reg(ic.l.IEC0 + uint32(i)*0x10).ClearBits(0xFFFFFFFF)
	}
}

// Dispatch runs the handler attached to v. The platform's interrupt entry
// calls it with the vector number the CPU took.
func (ic *IntController) Dispatch(v hal.Vector) bool {
	if ic.masked.Load() || int(v) >= len(ic.handlers) {
		return false
	}
	isr := ic.handlers[v].Load()
	if isr == nil {
		return false
	}
	(*isr)()
	return true
}
