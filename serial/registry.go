package serial

import (
	"periphio-go/chip"
	"periphio-go/errcode"
	"periphio-go/hal"
	"periphio-go/pps"
)

// Registry owns the channels of one chip. It is built once at start-up;
// building it attaches every channel's interrupt handlers.
type Registry struct {
	chans []*Channel
}

// NewRegistry creates one Channel per UART the descriptor lists and the
// hardware provides. m may be nil when pins are routed elsewhere.
func NewRegistry(hw hal.Hardware, d chip.Descriptor, m *pps.Mapper) *Registry {
	r := &Registry{}
	for i, u := range d.UARTs {
		regs := hw.UART(i)
		if regs == nil {
			break
		}
		r.chans = append(r.chans, newChannel(i, regs, hw.Interrupts(), u, d.PeripheralClock, m))
	}
	return r
}

// Len returns the number of channels.
func (r *Registry) Len() int { return len(r.chans) }

// Channel returns channel i.
func (r *Registry) Channel(i int) (*Channel, error) {
	if i < 0 || i >= len(r.chans) {
		return nil, errcode.Wrap("serial.Channel", errcode.InvalidChannel, "")
	}
	return r.chans[i], nil
}

// Open opens channel i.
func (r *Registry) Open(i int, cfg Config) (*Channel, error) {
	c, err := r.Channel(i)
	if err != nil {
		return nil, err
	}
	if err := c.Open(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// CloseAll closes every open channel.
func (r *Registry) CloseAll() {
	for _, c := range r.chans {
		if c.IsOpen() {
			_ = c.Close()
		}
	}
}
