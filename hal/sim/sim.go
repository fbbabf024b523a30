// Package sim is a host-side model of the chip: registers, interrupt
// controller, UART shifters, port pins with change notification, external
// interrupt lines and the PPS maps.
//
// Interrupts are delivered synchronously. Whatever goroutine changes state
// that raises a pending, enabled interrupt runs the handler before its
// register access returns, one handler at a time, the way a single core
// would preempt it. Handlers may touch registers freely; nested requests
// are picked up by the dispatch loop already running.
package sim

import (
	"sync"

	"periphio-go/chip"
	"periphio-go/hal"
	"periphio-go/pps"
)

// Options tune the model.
type Options struct {
	// Manual keeps transmitted bytes in the UART TX FIFO until Tick.
	Manual bool
	// Loopback wires every UART's TX output back to its own receiver.
	Loopback bool
	// FIFODepth is the hardware FIFO depth of each UART (default 8).
	FIFODepth int
	// StormLimit bounds back-to-back dispatches before the controller
	// declares an interrupt storm and stops delivering (default 1<<16).
	StormLimit int
}

// Chip is a simulated part built from a descriptor.
type Chip struct {
	mu   sync.Mutex
	desc chip.Descriptor
	opt  Options

	vecs    map[hal.Vector]*vecState
	global  bool
	pumping bool
	stormed bool
	stormAt hal.Vector

	uarts  []*uart
	ports  []*port
	intcon uint32
	ppsIn  []uint32
	ppsOut []uint32

	post []func() // run after unlock, before dispatch

	ic       *intc
	uartRegs []*hal.UARTRegs
	portRegs []*hal.PortRegs
	intconR  hal.Register
	ppsRegs  *ppsRegs
}

type vecState struct {
	flag, enabled bool
	ipl, sub      uint8
	isr           hal.ISR
	count         int
}

// New builds a simulated chip for d.
func New(d chip.Descriptor, opt Options) *Chip {
	if opt.FIFODepth <= 0 {
		opt.FIFODepth = 8
	}
	if opt.StormLimit <= 0 {
		opt.StormLimit = 1 << 16
	}
	c := &Chip{
		desc:   d,
		opt:    opt,
		vecs:   map[hal.Vector]*vecState{},
		global: true,
		ppsIn:  make([]uint32, d.Table.NumFunctions()),
		ppsOut: make([]uint32, d.Table.NumPins()),
	}
	c.ic = &intc{c: c}
	for i, u := range d.UARTs {
		s := &uart{idx: i, vec: u, loopback: opt.Loopback}
		c.uarts = append(c.uarts, s)
		c.uartRegs = append(c.uartRegs, c.newUARTRegs(s))
	}
	for _, p := range d.Ports {
		s := &port{vec: p.Vector, tris: 0xFFFF}
		c.ports = append(c.ports, s)
		c.portRegs = append(c.portRegs, c.newPortRegs(s))
	}
	c.intconR = &reg{c: c, load: func() uint32 { return c.intcon }, store: func(v uint32) { c.intcon = v }}
	c.ppsRegs = &ppsRegs{c: c}
	return c
}

// Descriptor returns the descriptor the chip was built from.
func (c *Chip) Descriptor() chip.Descriptor { return c.desc }

// hal.Hardware

func (c *Chip) Interrupts() hal.Interrupts { return c.ic }
func (c *Chip) ExtControl() hal.Register   { return c.intconR }
func (c *Chip) PPS() hal.PPSRegs           { return c.ppsRegs }

func (c *Chip) UART(i int) *hal.UARTRegs {
	if i < 0 || i >= len(c.uartRegs) {
		return nil
	}
	return c.uartRegs[i]
}

func (c *Chip) Port(g int) *hal.PortRegs {
	if g < 0 || g >= len(c.portRegs) {
		return nil
	}
	return c.portRegs[g]
}

// do runs f under the chip lock, raises whatever level-triggered sources
// now hold, then runs deferred hooks and dispatches pending interrupts.
func (c *Chip) do(f func()) {
	c.mu.Lock()
	f()
	c.settleLocked()
	post := c.post
	c.post = nil
	c.mu.Unlock()
	for _, p := range post {
		p()
	}
	c.pump()
}

func (c *Chip) settleLocked() {
	for _, u := range c.uarts {
		if u.mode&hal.ModeON == 0 {
			continue
		}
		if len(u.rx) > 0 {
			c.vecLocked(u.vec.RX).flag = true
		}
		if u.sta&hal.StaUTXEN != 0 && len(u.tx) < c.opt.FIFODepth {
			c.vecLocked(u.vec.TX).flag = true
		}
		if u.sta&hal.StaErrors != 0 {
			c.vecLocked(u.vec.Fault).flag = true
		}
	}
}

func (c *Chip) vecLocked(v hal.Vector) *vecState {
	s, ok := c.vecs[v]
	if !ok {
		s = &vecState{}
		c.vecs[v] = s
	}
	return s
}

// nextLocked picks the pending vector with the highest priority, breaking
// ties on the lower vector number.
func (c *Chip) nextLocked() (hal.Vector, *vecState) {
	if !c.global || c.stormed {
		return 0, nil
	}
	var (
		bestV hal.Vector
		best  *vecState
	)
	for v, s := range c.vecs {
		if !s.flag || !s.enabled || s.ipl == 0 || s.isr == nil {
			continue
		}
		if best == nil ||
			s.ipl > best.ipl ||
			(s.ipl == best.ipl && s.sub > best.sub) ||
			(s.ipl == best.ipl && s.sub == best.sub && v < bestV) {
			bestV, best = v, s
		}
	}
	return bestV, best
}

func (c *Chip) pump() {
	c.mu.Lock()
	if c.pumping {
		c.mu.Unlock()
		return
	}
	c.pumping = true
	burst := 0
	for {
		v, s := c.nextLocked()
		if s == nil {
			break
		}
		if burst++; burst > c.opt.StormLimit {
			c.stormed, c.stormAt = true, v
			break
		}
		s.count++
		isr := s.isr
		c.mu.Unlock()
		isr()
		c.mu.Lock()
	}
	c.pumping = false
	c.mu.Unlock()
}

// Stormed reports whether dispatch was stopped by an interrupt storm, and
// on which vector.
func (c *Chip) Stormed() (hal.Vector, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stormAt, c.stormed
}

// Dispatches returns how many times the handler of v has run.
func (c *Chip) Dispatches(v hal.Vector) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.vecs[v]; ok {
		return s.count
	}
	return 0
}

// GlobalEnabled reports whether interrupts are globally unmasked.
func (c *Chip) GlobalEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.global
}

// EnableAll unmasks interrupts globally.
func (c *Chip) EnableAll() { c.do(func() { c.global = true }) }

// reg is a simulated register. load is the side-effect free value used
// for read-modify-write; read, when set, is what a bus read returns.
type reg struct {
	c     *Chip
	load  func() uint32
	read  func() uint32
	store func(uint32)
}

func (r *reg) Get() (v uint32) {
	r.c.do(func() {
		if r.read != nil {
			v = r.read()
		} else {
			v = r.load()
		}
	})
	return v
}

func (r *reg) Set(v uint32)          { r.c.do(func() { r.store(v) }) }
func (r *reg) SetBits(mask uint32)   { r.c.do(func() { r.store(r.load() | mask) }) }
func (r *reg) ClearBits(mask uint32) { r.c.do(func() { r.store(r.load() &^ mask) }) }

// intc implements hal.Interrupts.
type intc struct{ c *Chip }

func (ic *intc) Attach(v hal.Vector, isr hal.ISR) {
	ic.c.do(func() { ic.c.vecLocked(v).isr = isr })
}

func (ic *intc) Flag(v hal.Vector) (f bool) {
	ic.c.do(func() { f = ic.c.vecLocked(v).flag })
	return f
}

func (ic *intc) SetFlag(v hal.Vector)   { ic.c.do(func() { ic.c.vecLocked(v).flag = true }) }
func (ic *intc) ClearFlag(v hal.Vector) { ic.c.do(func() { ic.c.vecLocked(v).flag = false }) }

func (ic *intc) Enabled(v hal.Vector) (e bool) {
	ic.c.do(func() { e = ic.c.vecLocked(v).enabled })
	return e
}

func (ic *intc) Enable(v hal.Vector)  { ic.c.do(func() { ic.c.vecLocked(v).enabled = true }) }
func (ic *intc) Disable(v hal.Vector) { ic.c.do(func() { ic.c.vecLocked(v).enabled = false }) }

func (ic *intc) SetPriority(v hal.Vector, ipl, sub uint8) {
	ic.c.do(func() {
		s := ic.c.vecLocked(v)
		s.ipl, s.sub = ipl&7, sub&3
	})
}

func (ic *intc) Priority(v hal.Vector) (ipl, sub uint8) {
	ic.c.do(func() {
		s := ic.c.vecLocked(v)
		ipl, sub = s.ipl, s.sub
	})
	return ipl, sub
}

func (ic *intc) DisableAll() { ic.c.do(func() { ic.c.global = false }) }

// ppsRegs implements hal.PPSRegs.
type ppsRegs struct{ c *Chip }

func (p *ppsRegs) Input(fn int) hal.Register  { return p.c.slot(p.c.ppsIn, fn) }
func (p *ppsRegs) Output(pin int) hal.Register { return p.c.slot(p.c.ppsOut, pin) }

func (c *Chip) slot(tab []uint32, i int) hal.Register {
	if i < 0 || i >= len(tab) {
		var sink uint32
		return &reg{c: c, load: func() uint32 { return sink }, store: func(v uint32) { sink = v }}
	}
	return &reg{c: c, load: func() uint32 { return tab[i] }, store: func(v uint32) { tab[i] = v & 0xF }}
}

// InputMapping returns the raw input mapping register of fn.
func (c *Chip) InputMapping(fn pps.Function) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(fn) < 0 || int(fn) >= len(c.ppsIn) {
		return 0
	}
	return c.ppsIn[fn]
}

// OutputMapping returns the raw output mapping register of p.
func (c *Chip) OutputMapping(p pps.Pin) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(p) < 0 || int(p) >= len(c.ppsOut) {
		return 0
	}
	return c.ppsOut[p]
}
