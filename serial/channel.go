package serial

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"periphio-go/chip"
	"periphio-go/errcode"
	"periphio-go/hal"
	"periphio-go/internal/util"
	"periphio-go/pps"
	"periphio-go/types"
	"periphio-go/x/shmring"
)

// flushPoll is how long Flush sleeps between checks of the shifter.
const flushPoll = 100 * time.Microsecond

// session is the state that exists only while a channel is open.
type session struct {
	cfg  Config
	rx   *shmring.Ring
	tx   *shmring.Ring // nil in TXDirect mode
	lock chan struct{} // write lock, capacity 1
	done chan struct{} // closed by Close
}

// Channel is one UART. All methods are safe for concurrent use from task
// context; HandleRX and HandleTX are its interrupt handlers.
type Channel struct {
	idx    int
	regs   *hal.UARTRegs
	ic     hal.Interrupts
	vec    chip.UART
	pclk   uint32
	mapper *pps.Mapper

	mu      sync.Mutex // serialises Open and Close
	s       atomic.Pointer[session]
	dropped atomic.Uint32
}

func newChannel(idx int, regs *hal.UARTRegs, ic hal.Interrupts, vec chip.UART, pclk uint32, m *pps.Mapper) *Channel {
	c := &Channel{idx: idx, regs: regs, ic: ic, vec: vec, pclk: pclk, mapper: m}
	ic.Attach(vec.RX, c.HandleRX)
	ic.Attach(vec.TX, c.HandleTX)
	return c
}

// Index returns the channel number.
func (c *Channel) Index() int { return c.idx }

// IsOpen reports whether the channel is open.
func (c *Channel) IsOpen() bool { return c.s.Load() != nil }

// Open allocates the rings, programs baud rate and frame format, enables
// the receive interrupt and powers the UART up.
func (c *Channel) Open(cfg Config) error {
	return c.open(cfg, nil)
}

// open validates cfg, then runs route (if any) and programs the UART under
// c.mu. Nothing is written when validation or the AlreadyOpen check fails.
func (c *Channel) open(cfg Config, route func() error) error {
	const op = "serial.Open"
	cfg, err := cfg.normalized()
	if err != nil {
		return err
	}
	fmtBits, err := modeBits(cfg.Format)
	if err != nil {
		return err
	}
	div, high, err := Divisor(c.pclk, cfg.Baud)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.s.Load() != nil {
		return errcode.Wrap(op, errcode.AlreadyOpen, "")
	}
	if route != nil {
		if err := route(); err != nil {
			return err
		}
	}
	c.dropped.Store(0)

	s := &session{
		cfg:  cfg,
		rx:   shmring.New(cfg.RXSize),
		lock: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	if cfg.TXMode == TXBuffered {
		s.tx = shmring.New(cfg.TXSize)
	}

	c.regs.BRG.Set(div)
	c.regs.Mode.ClearBits(hal.ModeFormatMask | hal.ModeBRGH)
	mode := fmtBits
	if high {
		mode |= hal.ModeBRGH
	}
	c.regs.Mode.SetBits(mode)
	c.s.Store(s)

	c.ic.Disable(c.vec.TX)
	c.ic.ClearFlag(c.vec.TX)
	c.ic.SetPriority(c.vec.TX, IPL, SubIPL)
	c.ic.ClearFlag(c.vec.RX)
	c.ic.SetPriority(c.vec.RX, IPL, SubIPL)
	c.ic.Enable(c.vec.RX)

	c.regs.Status.SetBits(hal.StaUTXEN | hal.StaURXEN)
	c.regs.Mode.SetBits(hal.ModeON)
	return nil
}

// Close disables the channel's interrupts, powers the UART down and
// releases the rings. Blocked writers return with errcode.NotOpen.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.s.Load()
	if s == nil {
		return errcode.Wrap("serial.Close", errcode.NotOpen, "")
	}
	c.s.Store(nil)
	close(s.done)
	// Wait out the current writer; it may still arm TX until it sees done.
	// The lock is never given back, so late writers fail on done.
	s.lock <- struct{}{}

	for _, v := range []hal.Vector{c.vec.TX, c.vec.RX, c.vec.Fault} {
		c.ic.Disable(v)
		c.ic.ClearFlag(v)
		c.ic.SetPriority(v, 0, 0)
	}
	c.regs.Status.ClearBits(hal.StaUTXEN | hal.StaURXEN)
	c.regs.Mode.ClearBits(hal.ModeON)
	return nil
}

// Config returns the configuration of the open channel.
func (c *Channel) Config() (Config, bool) {
	s := c.s.Load()
	if s == nil {
		return Config{}, false
	}
	return s.cfg, true
}

// Settings reads back the programmed baud rate and frame format.
func (c *Channel) Settings() (baud uint32, f types.SerialFormat, ok bool) {
	mode := c.regs.Mode.Get()
	f, ok = formatOf(mode)
	if !ok {
		return 0, f, false
	}
	return ActualBaud(c.pclk, c.regs.BRG.Get(), mode&hal.ModeBRGH != 0), f, true
}

// ---- transmit ----

// WriteByte queues one byte, blocking while the transmit ring is full.
func (c *Channel) WriteByte(b byte) error {
	_, err := c.WriteContext(context.Background(), []byte{b})
	return err
}

// Write queues p, blocking until all of it is accepted or the channel is
// closed.
func (c *Channel) Write(p []byte) (int, error) {
	return c.WriteContext(context.Background(), p)
}

// WriteTimeout queues as much of p as it can within d and returns the
// count accepted. A short count means the deadline passed or the channel
// is not open.
func (c *Channel) WriteTimeout(p []byte, d time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	n, _ := c.WriteContext(ctx, p)
	return n
}

// WriteContext queues p under the channel's write lock. It returns early
// with the count accepted so far and ctx.Err() when ctx ends.
func (c *Channel) WriteContext(ctx context.Context, p []byte) (int, error) {
	const op = "serial.Write"
	s := c.s.Load()
	if s == nil {
		return 0, errcode.Wrap(op, errcode.NotOpen, "")
	}
	if len(p) == 0 {
		return 0, nil
	}

	select {
	case s.lock <- struct{}{}:
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-s.done:
		return 0, errcode.Wrap(op, errcode.NotOpen, "")
	}
	defer func() { <-s.lock }()
	select {
	case <-s.done:
		return 0, errcode.Wrap(op, errcode.NotOpen, "")
	default:
	}

	if s.tx == nil {
		return c.writeDirect(ctx, s, p)
	}

	n := 0
	for n < len(p) {
		if s.tx.TryPut(p[n]) {
			n++
			select {
			case <-s.done:
				return n, errcode.Wrap(op, errcode.NotOpen, "")
			default:
			}
			c.armTX()
			continue
		}
		select {
		case <-s.tx.Writable():
		case <-ctx.Done():
			return n, ctx.Err()
		case <-s.done:
			return n, errcode.Wrap(op, errcode.NotOpen, "")
		}
	}
	return n, nil
}

// armTX turns the TX interrupt on if the handler has switched it off.
func (c *Channel) armTX() {
	if !c.ic.Enabled(c.vec.TX) {
		c.ic.SetFlag(c.vec.TX)
		c.ic.Enable(c.vec.TX)
	}
}

func (c *Channel) writeDirect(ctx context.Context, s *session, p []byte) (int, error) {
	for i, b := range p {
		for hal.HasBits(c.regs.Status, hal.StaUTXBF) {
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-s.done:
				return i, errcode.Wrap("serial.Write", errcode.NotOpen, "")
			default:
			}
			runtime.Gosched()
		}
		c.regs.TX.Set(uint32(b))
	}
	return len(p), nil
}

// AvailableForWrite returns the free transmit ring space. In direct mode
// it is 1 while the shift register is empty and 0 otherwise.
func (c *Channel) AvailableForWrite() int {
	s := c.s.Load()
	if s == nil {
		return 0
	}
	if s.tx == nil {
		return util.BoolToInt(hal.HasBits(c.regs.Status, hal.StaTRMT))
	}
	return s.tx.Space()
}

// Flush waits until the transmit ring is drained and the last character
// has left the shift register.
func (c *Channel) Flush(ctx context.Context) error {
	t := time.NewTimer(time.Hour)
	defer t.Stop()
	for {
		s := c.s.Load()
		if s == nil {
			return errcode.Wrap("serial.Flush", errcode.NotOpen, "")
		}
		if (s.tx == nil || s.tx.Empty()) && hal.HasBits(c.regs.Status, hal.StaTRMT) {
			return nil
		}
		if err := util.Sleep(ctx, t, flushPoll); err != nil {
			return err
		}
	}
}

// WriteEmergency writes p straight to the hardware without taking the
// write lock or touching the rings, waiting for each character to leave
// the shifter. It is meant for fault reporting and works on a closed
// channel too.
func (c *Channel) WriteEmergency(p []byte) int {
	if !hal.HasBits(c.regs.Mode, hal.ModeON) || !hal.HasBits(c.regs.Status, hal.StaUTXEN) {
		c.regs.Status.SetBits(hal.StaUTXEN)
		c.regs.Mode.SetBits(hal.ModeON)
	}
	for _, b := range p {
		for hal.HasBits(c.regs.Status, hal.StaUTXBF) {
			runtime.Gosched()
		}
		c.regs.TX.Set(uint32(b))
		for !hal.HasBits(c.regs.Status, hal.StaTRMT) {
			runtime.Gosched()
		}
	}
	return len(p)
}

// ---- receive ----

// ReadByte returns the oldest received byte without blocking. It returns
// errcode.Empty when nothing is pending or the channel is closed.
func (c *Channel) ReadByte() (byte, error) {
	s := c.s.Load()
	if s == nil {
		return 0, errcode.Empty
	}
	b, ok := s.rx.TryGet()
	if !ok {
		return 0, errcode.Empty
	}
	return b, nil
}

// Peek is ReadByte without consuming.
func (c *Channel) Peek() (byte, error) {
	s := c.s.Load()
	if s == nil {
		return 0, errcode.Empty
	}
	b, ok := s.rx.Peek()
	if !ok {
		return 0, errcode.Empty
	}
	return b, nil
}

// Read copies pending bytes into p without blocking. It returns 0, nil
// when nothing is pending.
func (c *Channel) Read(p []byte) (int, error) {
	s := c.s.Load()
	if s == nil {
		return 0, errcode.Wrap("serial.Read", errcode.NotOpen, "")
	}
	return s.rx.ReadInto(p), nil
}

// ReadContext waits until at least one byte is pending, then reads like
// Read.
func (c *Channel) ReadContext(ctx context.Context, p []byte) (int, error) {
	const op = "serial.Read"
	s := c.s.Load()
	if s == nil {
		return 0, errcode.Wrap(op, errcode.NotOpen, "")
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		if n := s.rx.ReadInto(p); n > 0 {
			return n, nil
		}
		select {
		case <-s.rx.Readable():
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-s.done:
			return 0, errcode.Wrap(op, errcode.NotOpen, "")
		}
	}
}

// Available returns the number of received bytes pending.
func (c *Channel) Available() int {
	s := c.s.Load()
	if s == nil {
		return 0
	}
	return s.rx.Available()
}

// Purge discards all pending received bytes.
func (c *Channel) Purge() int {
	s := c.s.Load()
	if s == nil {
		return 0
	}
	return s.rx.Discard()
}

// Dropped returns how many received bytes were lost to a full ring since
// the channel was last opened.
func (c *Channel) Dropped() uint32 { return c.dropped.Load() }

// ---- line status ----

// Fault reports a latched receive error: errcode.Overrun, errcode.Framing
// or errcode.Parity, in that order of precedence.
func (c *Channel) Fault() error {
	sta := c.regs.Status.Get()
	switch {
	case sta&hal.StaOERR != 0:
		return errcode.Overrun
	case sta&hal.StaFERR != 0:
		return errcode.Framing
	case sta&hal.StaPERR != 0:
		return errcode.Parity
	}
	return nil
}

// ClearFault clears the latched receive errors. Clearing an overrun also
// discards the hardware receive FIFO.
func (c *Channel) ClearFault() {
	c.regs.Status.ClearBits(hal.StaErrors)
}

// ---- pin routing ----

// SetTXPin routes this channel's transmit function to pin.
func (c *Channel) SetTXPin(pin pps.Pin) error {
	if c.mapper == nil {
		return errcode.Wrap("serial.SetTXPin", errcode.Unsupported, "no pin mapper")
	}
	return c.mapper.AssignOutput(pin, c.vec.TXFunc)
}

// checkPins reports why tx and rx could not carry this channel's
// functions, without touching hardware.
func (c *Channel) checkPins(tx, rx pps.Pin) error {
	if c.mapper == nil {
		return errcode.Wrap("serial.SetTXPin", errcode.Unsupported, "no pin mapper")
	}
	if err := c.mapper.CheckOutput(tx, c.vec.TXFunc); err != nil {
		return err
	}
	return c.mapper.CheckInput(rx, c.vec.RXFunc)
}

// SetRXPin routes pin to this channel's receive function.
func (c *Channel) SetRXPin(pin pps.Pin) error {
	if c.mapper == nil {
		return errcode.Wrap("serial.SetRXPin", errcode.Unsupported, "no pin mapper")
	}
	return c.mapper.AssignInput(pin, c.vec.RXFunc)
}
