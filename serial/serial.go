// Package serial is the interrupt-driven UART channel driver.
//
// Each Channel owns a receive ring filled by its RX interrupt and, in
// buffered mode, a transmit ring drained by its TX interrupt. The TX
// interrupt is only enabled while the transmit ring holds data: the
// handler switches itself off when it finds the ring empty and the write
// path switches it back on after enqueuing.
package serial

import (
	"periphio-go/errcode"
	"periphio-go/hal"
	"periphio-go/types"
	"periphio-go/x/mathx"
)

// Interrupt priority shared by every channel's RX and TX handlers.
const (
	IPL    = 2
	SubIPL = 0
)

// HighSpeedThreshold is the baud rate from which the 4x clock divider
// (BRGH) is used instead of the 16x one.
const HighSpeedThreshold = 200000

// Ring size bounds. Sizes are rounded up to a power of two.
const (
	DefaultRingSize = 64
	MinRingSize     = 8
	MaxRingSize     = 4096
)

type TXMode uint8

const (
	// TXBuffered queues writes in the transmit ring for the TX interrupt.
	TXBuffered TXMode = iota
	// TXDirect writes straight into the hardware FIFO, polling for space.
	TXDirect
)

func (m TXMode) String() string {
	if m == TXDirect {
		return "direct"
	}
	return "buffered"
}

// Config is the per-open configuration of a channel.
type Config struct {
	Baud   uint32
	Format types.SerialFormat
	RXSize int
	TXSize int
	TXMode TXMode
}

// normalized fills defaults and validates c.
func (c Config) normalized() (Config, error) {
	if c.Baud == 0 {
		return c, errcode.Wrap("serial.Open", errcode.InvalidParams, "zero baud")
	}
	if c.Format == (types.SerialFormat{}) {
		c.Format = types.Format8N1
	}
	c.RXSize = ringSize(c.RXSize)
	c.TXSize = ringSize(c.TXSize)
	return c, nil
}

func ringSize(n int) int {
	if n <= 0 {
		n = DefaultRingSize
	}
	return mathx.NextPow2(mathx.Clamp(n, MinRingSize, MaxRingSize))
}

// Divisor returns the BRG value and high-speed flag for baud given the
// peripheral clock pclk.
func Divisor(pclk, baud uint32) (div uint32, highSpeed bool, err error) {
	if pclk == 0 || baud == 0 {
		return 0, false, errcode.Wrap("serial.Divisor", errcode.InvalidParams, "zero clock or baud")
	}
	mult := uint32(16)
	if baud >= HighSpeedThreshold {
		mult, highSpeed = 4, true
	}
	q := pclk / mult / baud
	if q == 0 || q-1 > 0xFFFF {
		return 0, false, errcode.Wrap("serial.Divisor", errcode.InvalidParams, "baud out of range")
	}
	return q - 1, highSpeed, nil
}

// ActualBaud is the rate a divisor really produces.
func ActualBaud(pclk, div uint32, highSpeed bool) uint32 {
	mult := uint32(16)
	if highSpeed {
		mult = 4
	}
	return mathx.RoundDiv(pclk, mult*(div+1))
}

// modeBits encodes f into UxMODE<2:0> (PDSEL, STSEL).
func modeBits(f types.SerialFormat) (uint32, error) {
	if f.DataBits != 8 || f.StopBits < 1 || f.StopBits > 2 {
		return 0, errcode.Wrap("serial.Open", errcode.Unsupported, "format "+f.String())
	}
	var pdsel uint32
	switch f.Parity {
	case types.ParityNone:
		pdsel = 0b00
	case types.ParityEven:
		pdsel = 0b01
	case types.ParityOdd:
		pdsel = 0b10
	default:
		return 0, errcode.Wrap("serial.Open", errcode.Unsupported, "parity")
	}
	return pdsel<<1 | uint32(f.StopBits-1), nil
}

// formatOf decodes UxMODE<2:0>; 9-bit modes report ok=false.
func formatOf(mode uint32) (types.SerialFormat, bool) {
	f := types.SerialFormat{DataBits: 8, StopBits: uint8(mode&1) + 1}
	switch (mode & hal.ModeFormatMask) >> 1 {
	case 0b00:
		f.Parity = types.ParityNone
	case 0b01:
		f.Parity = types.ParityEven
	case 0b10:
		f.Parity = types.ParityOdd
	default:
		return types.SerialFormat{}, false
	}
	return f, true
}
