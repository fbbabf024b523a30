// Package mmio implements the hal interfaces over memory-mapped special
// function registers.
//
// Every PIC32 SFR is followed by CLR, SET and INV companions at +4, +8 and
// +0xC; writing a mask there clears, sets or toggles those bits in one bus
// cycle, so SetBits and ClearBits never race an interrupt handler.
package mmio

import (
	"sync/atomic"
	"unsafe"

	"periphio-go/hal"
)

// Companion register offsets.
const (
	offCLR = 0x4
	offSET = 0x8
	offINV = 0xC
)

// Window is a span of register space starting at bus address Base.
type Window struct {
	mem  []byte
	base uint32
}

// NewWindow wraps mem, which must be 4-byte aligned, as the registers at
// bus address base onwards.
func NewWindow(mem []byte, base uint32) *Window {
	return &Window{mem: mem, base: base}
}

func (w *Window) Base() uint32 { return w.base }
func (w *Window) Size() int    { return len(w.mem) }

// Contains reports whether the register at addr lies inside the window.
func (w *Window) Contains(addr uint32) bool {
	return addr >= w.base && uint64(addr-w.base)+4 <= uint64(len(w.mem))
}

func (w *Window) ptr(addr uint32) *uint32 {
	if !w.Contains(addr) {
		panic("mmio: register outside window")
	}
	return (*uint32)(unsafe.Pointer(&w.mem[addr-w.base]))
}

// Read returns the register at addr.
func (w *Window) Read(addr uint32) uint32 { return atomic.LoadUint32(w.ptr(addr)) }

// Write stores v into the register at addr.
func (w *Window) Write(addr, v uint32) { atomic.StoreUint32(w.ptr(addr), v) }

// Reg is one SFR with its CLR/SET/INV companions.
type Reg struct {
	w    *Window
	addr uint32
}

var _ hal.Register = Reg{}

// Reg returns the register at addr.
func (w *Window) Reg(addr uint32) Reg { return Reg{w: w, addr: addr} }

func (r Reg) Addr() uint32           { return r.addr }
func (r Reg) Get() uint32            { return r.w.Read(r.addr) }
func (r Reg) Set(v uint32)           { r.w.Write(r.addr, v) }
func (r Reg) SetBits(mask uint32)    { r.w.Write(r.addr+offSET, mask) }
func (r Reg) ClearBits(mask uint32)  { r.w.Write(r.addr+offCLR, mask) }
func (r Reg) InvertBits(mask uint32) { r.w.Write(r.addr+offINV, mask) }
