// Package pinirq routes pin level changes to callbacks.
//
// Two hardware sources are handled. Each 16-pin port group has one change
// notification vector shared by all of its pins; the hardware coalesces
// edges, so the group handler reconstructs per-pin edges by diffing the
// port against the previous snapshot. The external interrupt lines each
// have their own vector and a programmable polarity; most are routed to a
// pin through the PPS input map.
//
// Callbacks run in interrupt context and must not block. Use a Worker to
// move events onto a goroutine.
package pinirq

import (
	"sync"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"

	"periphio-go/chip"
	"periphio-go/errcode"
	"periphio-go/hal"
	"periphio-go/pps"
)

// Priority of the change notification and external line vectors.
const (
	IPL    = 2
	SubIPL = 0
)

// Callback receives the pin that changed and its new level.
type Callback func(p pps.Pin, l gpio.Level)

type slot struct {
	rise, fall atomic.Pointer[Callback]
}

type group struct {
	regs *hal.PortRegs
	vec  hal.Vector
	base pps.Pin // first pin of the group
	// last is the port level seen by the previous handler run, masked by
	// CNEN. Written from task context only while vec is disabled.
	last  atomic.Uint32
	pins  [hal.PinsPerGroup]slot
	armed bool // task side, under Dispatcher.mu
}

type binding struct {
	pin  pps.Pin
	edge gpio.Edge
	cb   Callback
}

type line struct {
	desc chip.ExtLine
	b    atomic.Pointer[binding]
}

// Dispatcher owns the change notification groups and external lines of
// one chip.
type Dispatcher struct {
	mu     sync.Mutex // serialises task-side registration
	ic     hal.Interrupts
	intcon hal.Register
	mapper *pps.Mapper
	table  *pps.Table
	groups []*group
	lines  []*line
}

// New builds a dispatcher and attaches its handlers to every group and
// line vector of d. Vectors stay disabled until something connects.
func New(hw hal.Hardware, d chip.Descriptor, m *pps.Mapper) *Dispatcher {
	disp := &Dispatcher{
		ic:     hw.Interrupts(),
		intcon: hw.ExtControl(),
		mapper: m,
		table:  d.Table,
	}
	for i, p := range d.Ports {
		g := &group{regs: hw.Port(i), vec: p.Vector, base: pps.Pin(i * hal.PinsPerGroup)}
		disp.groups = append(disp.groups, g)
		if g.regs != nil {
			disp.ic.Attach(g.vec, func() { disp.handleGroup(g) })
		}
	}
	for _, l := range d.ExtLines {
		ln := &line{desc: l}
		disp.lines = append(disp.lines, ln)
		disp.ic.Attach(l.Vector, func() { disp.handleLine(ln) })
	}
	return disp
}

// NumLines is the number of external interrupt lines.
func (d *Dispatcher) NumLines() int { return len(d.lines) }

func (d *Dispatcher) groupOf(op string, p pps.Pin) (*group, int, error) {
	if !d.table.ValidPin(p) {
		return nil, 0, errcode.Wrap(op, errcode.InvalidPin, pps.PinName(p))
	}
	gi, bit := hal.GroupOf(int(p))
	if gi >= len(d.groups) || d.groups[gi].regs == nil {
		return nil, 0, errcode.Wrap(op, errcode.InvalidPin, pps.PinName(p))
	}
	return d.groups[gi], bit, nil
}

func checkEdge(op string, e gpio.Edge) error {
	switch e {
	case gpio.RisingEdge, gpio.FallingEdge, gpio.BothEdges:
		return nil
	}
	return errcode.Wrap(op, errcode.InvalidEdge, edgeName(e))
}

func edgeName(e gpio.Edge) string {
	switch e {
	case gpio.NoEdge:
		return "none"
	case gpio.RisingEdge:
		return "rising"
	case gpio.FallingEdge:
		return "falling"
	case gpio.BothEdges:
		return "both"
	}
	return "unknown"
}

// ConnectChange registers cb for edge on p. BothEdges fills both the rising
// and the falling slot. A previous callback in the same slot is replaced.
func (d *Dispatcher) ConnectChange(p pps.Pin, edge gpio.Edge, cb Callback) error {
	const op = "pinirq.ConnectChange"
	g, bit, err := d.groupOf(op, p)
	if err != nil {
		return err
	}
	if err := checkEdge(op, edge); err != nil {
		return err
	}
	if cb == nil {
		return errcode.Wrap(op, errcode.InvalidParams, "nil callback")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	s := &g.pins[bit]
	if edge != gpio.FallingEdge {
		s.rise.Store(&cb)
	}
	if edge != gpio.RisingEdge {
		s.fall.Store(&cb)
	}

	mask := uint32(1) << uint(bit)
	if !g.armed {
		g.regs.CNEN.SetBits(mask)
		g.regs.CNCON.ClearBits(hal.CNConEdgeDetect)
		g.regs.CNCON.SetBits(hal.CNConON)
		g.last.Store(g.regs.Port.Get() & g.regs.CNEN.Get())
		d.ic.ClearFlag(g.vec)
		d.ic.SetPriority(g.vec, IPL, SubIPL)
		d.ic.Enable(g.vec)
		g.armed = true
		return nil
	}
	if g.regs.CNEN.Get()&mask != 0 {
		return nil
	}
	d.ic.Disable(g.vec)
	g.regs.CNEN.SetBits(mask)
	g.last.Store(g.last.Load()&^mask | g.regs.Port.Get()&mask)
	d.ic.Enable(g.vec)
	return nil
}

// DisconnectChange removes the callback(s) for edge on p. It fails with
// errcode.NotConnected, changing nothing, when none of those slots is set.
func (d *Dispatcher) DisconnectChange(p pps.Pin, edge gpio.Edge) error {
	const op = "pinirq.DisconnectChange"
	g, bit, err := d.groupOf(op, p)
	if err != nil {
		return err
	}
	if err := checkEdge(op, edge); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	s := &g.pins[bit]
	wantRise := edge != gpio.FallingEdge
	wantFall := edge != gpio.RisingEdge
	if !(wantRise && s.rise.Load() != nil) && !(wantFall && s.fall.Load() != nil) {
		return errcode.Wrap(op, errcode.NotConnected, pps.PinName(p))
	}
	if wantRise {
		s.rise.Store(nil)
	}
	if wantFall {
		s.fall.Store(nil)
	}
	if s.rise.Load() != nil || s.fall.Load() != nil {
		return nil
	}

	mask := uint32(1) << uint(bit)
	d.ic.Disable(g.vec)
	g.regs.CNEN.ClearBits(mask)
	g.last.Store(g.last.Load() &^ mask)
	if g.regs.CNEN.Get() != 0 {
		d.ic.Enable(g.vec)
		return nil
	}
	d.ic.SetPriority(g.vec, 0, 0)
	g.regs.CNCON.ClearBits(hal.CNConON)
	d.ic.ClearFlag(g.vec)
	g.armed = false
	return nil
}

// Connected reports whether p has a callback for edge.
func (d *Dispatcher) Connected(p pps.Pin, edge gpio.Edge) bool {
	g, bit, err := d.groupOf("", p)
	if err != nil {
		return false
	}
	s := &g.pins[bit]
	switch edge {
	case gpio.RisingEdge:
		return s.rise.Load() != nil
	case gpio.FallingEdge:
		return s.fall.Load() != nil
	case gpio.BothEdges:
		return s.rise.Load() != nil && s.fall.Load() != nil
	}
	return false
}

// ConnectExternal routes p to external line n and registers cb for edge,
// which must be RisingEdge or FallingEdge. Remappable lines claim p through
// the PPS input map; a fixed line only accepts its own pin. Nothing is
// touched when any check fails.
func (d *Dispatcher) ConnectExternal(p pps.Pin, n int, edge gpio.Edge, cb Callback) error {
	const op = "pinirq.ConnectExternal"
	if n < 0 || n >= len(d.lines) {
		return errcode.Wrap(op, errcode.InvalidLine, "")
	}
	if edge != gpio.RisingEdge && edge != gpio.FallingEdge {
		return errcode.Wrap(op, errcode.InvalidEdge, edgeName(edge))
	}
	if cb == nil {
		return errcode.Wrap(op, errcode.InvalidParams, "nil callback")
	}
	if !d.table.ValidPin(p) {
		return errcode.Wrap(op, errcode.InvalidPin, pps.PinName(p))
	}
	l := d.lines[n]

	d.mu.Lock()
	defer d.mu.Unlock()

	if l.desc.Remap {
		if d.mapper == nil {
			return errcode.Wrap(op, errcode.Unsupported, "no pin mapper")
		}
		if err := d.mapper.AssignInput(p, l.desc.Func); err != nil {
			return err
		}
	} else if p != l.desc.Pin {
		return errcode.Wrap(op, errcode.Incompatible, pps.PinName(p)+" is not "+pps.PinName(l.desc.Pin))
	}

	v := l.desc.Vector
	d.ic.Disable(v)
	l.b.Store(&binding{pin: p, edge: edge, cb: cb})
	if edge == gpio.RisingEdge {
		d.intcon.SetBits(hal.IntEP(n))
	} else {
		d.intcon.ClearBits(hal.IntEP(n))
	}
	d.ic.ClearFlag(v)
	d.ic.SetPriority(v, IPL, SubIPL)
	d.ic.Enable(v)
	return nil
}

// DisconnectExternal switches line n off and forgets its callback.
func (d *Dispatcher) DisconnectExternal(n int) error {
	const op = "pinirq.DisconnectExternal"
	if n < 0 || n >= len(d.lines) {
		return errcode.Wrap(op, errcode.InvalidLine, "")
	}
	l := d.lines[n]

	d.mu.Lock()
	defer d.mu.Unlock()

	if l.b.Load() == nil {
		return errcode.Wrap(op, errcode.NotConnected, "")
	}
	v := l.desc.Vector
	d.ic.Disable(v)
	d.ic.SetPriority(v, 0, 0)
	d.ic.ClearFlag(v)
	l.b.Store(nil)
	return nil
}

// ExternalPin reports the pin line n is connected to.
func (d *Dispatcher) ExternalPin(n int) (pps.Pin, bool) {
	if n < 0 || n >= len(d.lines) {
		return 0, false
	}
	b := d.lines[n].b.Load()
	if b == nil {
		return 0, false
	}
	return b.pin, true
}

// Close disconnects every pin and line.
func (d *Dispatcher) Close() {
	for gi, g := range d.groups {
		if g.regs == nil {
			continue
		}
		for bit := range g.pins {
			_ = d.DisconnectChange(pps.Pin(gi*hal.PinsPerGroup+bit), gpio.BothEdges)
		}
	}
	for n := range d.lines {
		_ = d.DisconnectExternal(n)
	}
}
