package sim

import (
	"periphio-go/chip"
	"periphio-go/hal"
)

type uart struct {
	idx      int
	vec      chip.UART
	mode     uint32
	sta      uint32 // stored bits only
	brg      uint32
	rx, tx   []uint32
	line     []byte // everything shifted out
	loopback bool
	sink     func(byte)
}

const staComputed = hal.StaURXDA | hal.StaTRMT | hal.StaUTXBF

func (c *Chip) newUARTRegs(u *uart) *hal.UARTRegs {
	return &hal.UARTRegs{
		Mode: &reg{c: c,
			load:  func() uint32 { return u.mode },
			store: func(v uint32) { c.storeModeLocked(u, v) },
		},
		Status: &reg{c: c,
			load:  func() uint32 { return c.statusLocked(u) },
			store: func(v uint32) { c.storeStatusLocked(u, v) },
		},
		TX: &reg{c: c,
			load:  func() uint32 { return 0 },
			store: func(v uint32) { c.writeTXLocked(u, v) },
		},
		RX: &reg{c: c,
			load: func() uint32 { return 0 },
			read: func() uint32 {
				if len(u.rx) == 0 {
					return 0
				}
				v := u.rx[0]
				u.rx = u.rx[1:]
				return v
			},
			store: func(uint32) {},
		},
		BRG: &reg{c: c,
			load:  func() uint32 { return u.brg },
			store: func(v uint32) { u.brg = v & 0xFFFF },
		},
	}
}

func (c *Chip) statusLocked(u *uart) uint32 {
	v := u.sta
	if len(u.rx) > 0 {
		v |= hal.StaURXDA
	}
	if len(u.tx) == 0 {
		v |= hal.StaTRMT
	}
	if len(u.tx) >= c.opt.FIFODepth {
		v |= hal.StaUTXBF
	}
	return v
}

func (c *Chip) storeStatusLocked(u *uart, v uint32) {
	v &^= staComputed
	if u.sta&hal.StaOERR != 0 && v&hal.StaOERR == 0 {
		// Clearing OERR resets the receive FIFO.
		u.rx = nil
	}
	u.sta = v
}

func (c *Chip) storeModeLocked(u *uart, v uint32) {
	if u.mode&hal.ModeON != 0 && v&hal.ModeON == 0 {
		u.rx, u.tx = nil, nil
		u.sta &^= hal.StaOERR
	}
	u.mode = v
}

func (c *Chip) writeTXLocked(u *uart, v uint32) {
	if u.mode&hal.ModeON == 0 || u.sta&hal.StaUTXEN == 0 {
		return
	}
	if len(u.tx) >= c.opt.FIFODepth {
		return // overwrite of a full FIFO is lost
	}
	u.tx = append(u.tx, v)
	if !c.opt.Manual {
		c.shiftLocked(u, len(u.tx))
	}
}

func (c *Chip) shiftLocked(u *uart, n int) {
	for ; n > 0 && len(u.tx) > 0; n-- {
		b := byte(u.tx[0])
		u.tx = u.tx[1:]
		u.line = append(u.line, b)
		if u.loopback {
			c.receiveLocked(u, b)
		}
		if u.sink != nil {
			sink := u.sink
			c.post = append(c.post, func() { sink(b) })
		}
	}
}

func (c *Chip) receiveLocked(u *uart, b byte) {
	if u.mode&hal.ModeON == 0 || u.sta&hal.StaURXEN == 0 || u.sta&hal.StaOERR != 0 {
		return
	}
	if len(u.rx) >= c.opt.FIFODepth {
		u.sta |= hal.StaOERR
		return
	}
	u.rx = append(u.rx, uint32(b))
}

func (c *Chip) uartAt(i int) *uart {
	if i < 0 || i >= len(c.uarts) {
		panic("sim: no such UART")
	}
	return c.uarts[i]
}

// Inject delivers bytes to UART i's receiver, one character time each, so
// interrupt handlers get to drain the FIFO between characters.
func (c *Chip) Inject(i int, data ...byte) {
	u := c.uartAt(i)
	for _, b := range data {
		c.do(func() { c.receiveLocked(u, b) })
	}
}

// InjectBurst delivers bytes to UART i's receiver back to back, without
// letting handlers run in between. Bytes beyond the FIFO depth overrun.
func (c *Chip) InjectBurst(i int, data ...byte) {
	u := c.uartAt(i)
	c.do(func() {
		for _, b := range data {
			c.receiveLocked(u, b)
		}
	})
}

// InjectError raises receive error status bits (FERR, PERR) on UART i.
func (c *Chip) InjectError(i int, bits uint32) {
	u := c.uartAt(i)
	c.do(func() { u.sta |= bits & (hal.StaFERR | hal.StaPERR) })
}

// Tick shifts up to n bytes out of UART i's TX FIFO (Manual mode).
func (c *Chip) Tick(i, n int) {
	u := c.uartAt(i)
	c.do(func() { c.shiftLocked(u, n) })
}

// Sent returns a copy of everything UART i has transmitted.
func (c *Chip) Sent(i int) []byte {
	u := c.uartAt(i)
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), u.line...)
}

// ResetSent forgets UART i's transmit history.
func (c *Chip) ResetSent(i int) {
	u := c.uartAt(i)
	c.mu.Lock()
	u.line = nil
	c.mu.Unlock()
}

// SetSink calls fn with every byte UART i transmits, outside the chip lock.
func (c *Chip) SetSink(i int, fn func(byte)) {
	u := c.uartAt(i)
	c.mu.Lock()
	u.sink = fn
	c.mu.Unlock()
}

// SetLoopback wires UART i's transmitter to its own receiver.
func (c *Chip) SetLoopback(i int, on bool) {
	u := c.uartAt(i)
	c.mu.Lock()
	u.loopback = on
	c.mu.Unlock()
}

// Pending returns the number of bytes waiting in UART i's TX FIFO.
func (c *Chip) Pending(i int) int {
	u := c.uartAt(i)
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(u.tx)
}
