package sim

import (
	"periphio-go/hal"
	"periphio-go/pps"
)

type port struct {
	vec   hal.Vector
	tris  uint32 // 1 = input
	in    uint32 // externally driven levels
	lat   uint32
	cncon uint32
	cnen  uint32
}

func (p *port) value() uint32 { return (p.in & p.tris) | (p.lat &^ p.tris) }

func (c *Chip) newPortRegs(p *port) *hal.PortRegs {
	rw := func(field *uint32, mask uint32) hal.Register {
		return &reg{c: c,
			load: func() uint32 { return *field },
			store: func(v uint32) {
				old := c.levelsLocked()
				*field = v & mask
				c.edgesLocked(old)
			},
		}
	}
	return &hal.PortRegs{
		Tris:  rw(&p.tris, 0xFFFF),
		Port:  &reg{c: c, load: p.value, store: func(uint32) {}},
		Lat:   rw(&p.lat, 0xFFFF),
		CNCON: rw(&p.cncon, hal.CNConON|hal.CNConEdgeDetect),
		CNEN:  rw(&p.cnen, 0xFFFF),
	}
}

// levelsLocked snapshots every port's pin levels.
func (c *Chip) levelsLocked() []uint32 {
	out := make([]uint32, len(c.ports))
	for g, p := range c.ports {
		out[g] = p.value()
	}
	return out
}

// edgesLocked raises change notification and external line flags for the
// pins that differ from old.
func (c *Chip) edgesLocked(old []uint32) {
	for g, p := range c.ports {
		changed := p.value() ^ old[g]
		if changed == 0 {
			continue
		}
		if p.cncon&hal.CNConON != 0 && changed&p.cnen != 0 {
			c.vecLocked(p.vec).flag = true
		}
	}
	for n, l := range c.desc.ExtLines {
		pin, ok := c.lineSourceLocked(n)
		if !ok {
			continue
		}
		g, bit := hal.GroupOf(int(pin))
		if g >= len(c.ports) {
			continue
		}
		was := old[g]>>uint(bit)&1 == 1
		now := c.ports[g].value()>>uint(bit)&1 == 1
		if was == now {
			continue
		}
		rising := c.intcon&hal.IntEP(n) != 0
		if now == rising {
			c.vecLocked(l.Vector).flag = true
		}
	}
}

// lineSourceLocked resolves the pin that drives external line n.
func (c *Chip) lineSourceLocked(n int) (pps.Pin, bool) {
	l := c.desc.ExtLines[n]
	if !l.Remap {
		return l.Pin, true
	}
	return c.desc.Table.PinForInput(l.Func, c.ppsIn[l.Func])
}

// Drive sets the externally driven level of pin.
func (c *Chip) Drive(pin pps.Pin, high bool) {
	g, bit := hal.GroupOf(int(pin))
	var v uint32
	if high {
		v = 1 << uint(bit)
	}
	c.DriveGroup(g, 1<<uint(bit), v)
}

// DriveGroup changes several pins of group g at once: bits in mask take
// their level from levels. All changes land before any handler runs.
func (c *Chip) DriveGroup(g int, mask, levels uint32) {
	if g < 0 || g >= len(c.ports) {
		panic("sim: no such port group")
	}
	p := c.ports[g]
	c.do(func() {
		old := c.levelsLocked()
		p.in = (p.in &^ mask) | (levels & mask)
		c.edgesLocked(old)
	})
}

// Level reports the current level of pin as seen on PORT.
func (c *Chip) Level(pin pps.Pin) bool {
	g, bit := hal.GroupOf(int(pin))
	c.mu.Lock()
	defer c.mu.Unlock()
	if g >= len(c.ports) {
		return false
	}
	return c.ports[g].value()>>uint(bit)&1 == 1
}

// Output reports whether pin is configured as an output (TRIS clear).
func (c *Chip) Output(pin pps.Pin) bool {
	g, bit := hal.GroupOf(int(pin))
	c.mu.Lock()
	defer c.mu.Unlock()
	if g >= len(c.ports) {
		return false
	}
	return c.ports[g].tris>>uint(bit)&1 == 0
}
