package serial

import (
	"periphio-go/pps"
	"periphio-go/types"
)

// Port binds a channel to its transmit and receive pins, in the manner of
// an Arduino HardwareSerial object.
type Port struct {
	*Channel
	TX, RX pps.Pin
}

func NewPort(c *Channel, tx, rx pps.Pin) *Port {
	return &Port{Channel: c, TX: tx, RX: rx}
}

// Begin routes the pins and opens the channel at baud, 8N1.
func (p *Port) Begin(baud uint32) error {
	return p.BeginFormat(baud, types.Format8N1)
}

// BeginFormat routes the pins and opens the channel at baud with f. The
// pins are only routed once the pins, baud and format have all been
// checked and the channel is known to be closed.
func (p *Port) BeginFormat(baud uint32, f types.SerialFormat) error {
	if err := p.checkPins(p.TX, p.RX); err != nil {
		return err
	}
	return p.open(Config{Baud: baud, Format: f}, func() error {
		if err := p.SetTXPin(p.TX); err != nil {
			return err
		}
		return p.SetRXPin(p.RX)
	})
}

// End closes the channel.
func (p *Port) End() error { return p.Close() }
