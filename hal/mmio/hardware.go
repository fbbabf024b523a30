package mmio

import (
	"periphio-go/chip"
	"periphio-go/hal"
)

// Hardware is hal.Hardware over a register window.
type Hardware struct {
	w     *Window
	l     Layout
	ic    *IntController
	uarts []*hal.UARTRegs
	ports []*hal.PortRegs
}

var _ hal.Hardware = (*Hardware)(nil)

// New lays out the register blocks d describes inside w.
func New(w *Window, l Layout, d chip.Descriptor) *Hardware {
	h := &Hardware{w: w, l: l, ic: NewIntController(w, l)}
	for i := range d.UARTs {
		b := l.UART1 + uint32(i)*l.UARTStride
		h.uarts = append(h.uarts, &hal.UARTRegs{
			Mode:   w.Reg(b + uartMODE),
			Status: w.Reg(b + uartSTA),
			TX:     w.Reg(b + uartTX),
			RX:     w.Reg(b + uartRX),
			BRG:    w.Reg(b + uartBRG),
		})
	}
	for g := range d.Ports {
		b := l.PortA + uint32(g)*l.PortStride
		h.ports = append(h.ports, &hal.PortRegs{
			Tris:  w.Reg(b + portTRIS),
			Port:  w.Reg(b + portPORT),
			Lat:   w.Reg(b + portLAT),
			CNCON: w.Reg(b + portCNCON),
			CNEN:  w.Reg(b + portCNEN),
		})
	}
	return h
}

func (h *Hardware) Interrupts() hal.Interrupts { return h.ic }

// Controller exposes the interrupt controller for the platform's
// interrupt entry.
func (h *Hardware) Controller() *IntController { return h.ic }

func (h *Hardware) ExtControl() hal.Register { return h.w.Reg(h.l.INTCON) }
func (h *Hardware) PPS() hal.PPSRegs         { return ppsRegs{h} }

func (h *Hardware) UART(i int) *hal.UARTRegs {
	if i < 0 || i >= len(h.uarts) {
		return nil
	}
	return h.uarts[i]
}

func (h *Hardware) Port(g int) *hal.PortRegs {
	if g < 0 || g >= len(h.ports) {
		return nil
	}
	return h.ports[g]
}

type ppsRegs struct{ h *Hardware }

func (p ppsRegs) Input(fn int) hal.Register {
	return p.h.w.Reg(p.h.l.PPSInput + uint32(fn)*4)
}

func (p ppsRegs) Output(pin int) hal.Register {
	return p.h.w.Reg(p.h.l.PPSOutput + uint32(pin)*4)
}
