package serial

import "periphio-go/hal"

// HandleRX is the receive interrupt handler. It moves one character from
// the hardware FIFO into the receive ring; when the ring is full the
// character is dropped and counted. It never blocks.
func (c *Channel) HandleRX() {
	c.ic.ClearFlag(c.vec.RX)
	if c.regs.Status.Get()&hal.StaURXDA == 0 {
		return
	}
	b := byte(c.regs.RX.Get())
	s := c.s.Load()
	if s == nil {
		return
	}
	if !s.rx.TryPut(b) {
		c.dropped.Add(1)
	}
}

// HandleTX is the transmit interrupt handler. It moves one byte from the
// transmit ring into the hardware FIFO, and disables itself once the ring
// is empty.
func (c *Channel) HandleTX() {
	c.ic.ClearFlag(c.vec.TX)
	s := c.s.Load()
	if s == nil || s.tx == nil {
		c.ic.Disable(c.vec.TX)
		return
	}
	if c.regs.Status.Get()&hal.StaUTXBF != 0 {
		return // re-flagged by hardware once the FIFO has room
	}
	b, ok := s.tx.TryGet()
	if !ok {
		c.ic.Disable(c.vec.TX)
		// A writer may have enqueued after TryGet and still seen the
		// interrupt enabled.
		if !s.tx.Empty() {
			c.ic.SetFlag(c.vec.TX)
			c.ic.Enable(c.vec.TX)
		}
		return
	}
	c.regs.TX.Set(uint32(b))
}
