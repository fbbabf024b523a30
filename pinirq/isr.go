package pinirq

import (
	"math/bits"

	"periph.io/x/conn/v3/gpio"

	"periphio-go/pps"
)

// handleGroup runs on a group's change notification vector.
func (d *Dispatcher) handleGroup(g *group) {
	d.ic.ClearFlag(g.vec)
	cur := g.regs.Port.Get() & g.regs.CNEN.Get()
	changed := cur ^ g.last.Load()
	g.last.Store(cur)

	for changed != 0 {
		bit := bits.TrailingZeros32(changed)
		changed &^= 1 << uint(bit)

		s := &g.pins[bit]
		level := gpio.Level(cur>>uint(bit)&1 == 1)
		cb := s.fall.Load()
		if level {
			cb = s.rise.Load()
		}
		if cb != nil {
			(*cb)(g.base+pps.Pin(bit), level)
		}
	}
}

// handleLine runs on an external line vector.
func (d *Dispatcher) handleLine(l *line) {
	d.ic.ClearFlag(l.desc.Vector)
	b := l.b.Load()
	if b == nil {
		return
	}
	b.cb(b.pin, gpio.Level(b.edge == gpio.RisingEdge))
}
