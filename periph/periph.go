// Package periph builds the peripheral I/O layer for one chip: the PPS
// mapper, the serial channels, the pin interrupt dispatcher and the fatal
// fault handler, all sharing one hal.Hardware.
package periph

import (
	"periphio-go/chip"
	"periphio-go/errcode"
	"periphio-go/fault"
	"periphio-go/hal"
	"periphio-go/pinirq"
	"periphio-go/pps"
	"periphio-go/serial"
)

// Options tune New.
type Options struct {
	// Console is the channel fatal reports go out on. Negative disables
	// reporting.
	Console int
}

// System owns every driver of one chip. It is built once at start-up and
// passed to whatever needs it.
type System struct {
	Desc   chip.Descriptor
	HW     hal.Hardware
	Pins   *pps.Mapper
	Serial *serial.Registry
	IRQ    *pinirq.Dispatcher
	Fault  *fault.Handler
}

// New wires the drivers for d onto hw.
func New(hw hal.Hardware, d chip.Descriptor, opt Options) (*System, error) {
	if d.Table == nil {
		return nil, errcode.Wrap("periph.New", errcode.InvalidParams, "descriptor has no PPS table")
	}
	s := &System{Desc: d, HW: hw}
	s.Pins = pps.NewMapper(d.Table, hw.PPS())
	s.Serial = serial.NewRegistry(hw, d, s.Pins)
	s.IRQ = pinirq.New(hw, d, s.Pins)

	var out fault.Reporter
	if opt.Console >= 0 {
		ch, err := s.Serial.Channel(opt.Console)
		if err != nil {
			return nil, err
		}
		out = ch
	}
	s.Fault = fault.New(hw, d, out)
	return s, nil
}

// Port binds channel i to its TX and RX pins.
func (s *System) Port(i int, tx, rx pps.Pin) (*serial.Port, error) {
	ch, err := s.Serial.Channel(i)
	if err != nil {
		return nil, err
	}
	return serial.NewPort(ch, tx, rx), nil
}

// Close shuts every channel and drops every pin and line registration.
func (s *System) Close() {
	s.IRQ.Close()
	s.Serial.CloseAll()
}
