package pinirq

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"

	"periphio-go/chip"
	"periphio-go/errcode"
	"periphio-go/hal"
	"periphio-go/hal/sim"
	"periphio-go/pps"
)

type hit struct {
	pin   pps.Pin
	level gpio.Level
}

type recorder struct {
	mu   sync.Mutex
	hits []hit
}

func (r *recorder) cb(p pps.Pin, l gpio.Level) {
	r.mu.Lock()
	r.hits = append(r.hits, hit{p, l})
	r.mu.Unlock()
}

func (r *recorder) take() []hit {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.hits
	r.hits = nil
	return h
}

func newRig(t *testing.T) (*sim.Chip, *Dispatcher) {
	t.Helper()
	d := chip.Default()
	c := sim.New(d, sim.Options{})
	disp := New(c, d, pps.NewMapper(d.Table, c.PPS()))
	t.Cleanup(func() {
		disp.Close()
		_, stormed := c.Stormed()
		require.False(t, stormed, "interrupt storm")
	})
	return c, disp
}

func groupVec(c *sim.Chip, p pps.Pin) hal.Vector {
	g, _ := hal.GroupOf(int(p))
	return c.Descriptor().Ports[g].Vector
}

func TestChangeDiffCorrectness(t *testing.T) {
	c, d := newRig(t)
	var r recorder
	require.NoError(t, d.ConnectChange(pps.RB0, gpio.RisingEdge, r.cb))
	require.NoError(t, d.ConnectChange(pps.RB1, gpio.BothEdges, r.cb))
	require.NoError(t, d.ConnectChange(pps.RB2, gpio.FallingEdge, r.cb))
	require.NoError(t, d.ConnectChange(pps.RB3, gpio.RisingEdge, r.cb))
	g, _ := hal.GroupOf(int(pps.RB0))

	// RB0 and RB1 rise together: one interrupt, two callbacks, ascending.
	c.DriveGroup(g, 0b0111, 0b0011)
	require.Equal(t, []hit{{pps.RB0, gpio.High}, {pps.RB1, gpio.High}}, r.take())

	// RB0 falls (no falling slot), RB1 falls, RB2 rises (no rising slot).
	c.DriveGroup(g, 0b0111, 0b0100)
	require.Equal(t, []hit{{pps.RB1, gpio.Low}}, r.take())

	// Same levels again: nothing changed.
	c.DriveGroup(g, 0b0111, 0b0100)
	require.Empty(t, r.take())

	// A pin without change notification enabled.
	c.Drive(pps.RB9, true)
	require.Empty(t, r.take())

	c.Drive(pps.RB2, false)
	c.Drive(pps.RB3, true)
	require.Equal(t, []hit{{pps.RB2, gpio.Low}, {pps.RB3, gpio.High}}, r.take())
}

func TestChangeGroupArming(t *testing.T) {
	c, d := newRig(t)
	ic := c.Interrupts()
	vec := groupVec(c, pps.RC1)
	g, _ := hal.GroupOf(int(pps.RC1))
	regs := c.Port(g)
	var r recorder

	require.False(t, ic.Enabled(vec))

	// A pin that is already high must not fire on connect.
	c.Drive(pps.RC1, true)
	require.NoError(t, d.ConnectChange(pps.RC1, gpio.BothEdges, r.cb))
	require.True(t, ic.Enabled(vec))
	ipl, _ := ic.Priority(vec)
	require.Equal(t, uint8(IPL), ipl)
	require.True(t, hal.HasBits(regs.CNCON, hal.CNConON))
	require.False(t, hal.HasBits(regs.CNCON, hal.CNConEdgeDetect))
	require.Empty(t, r.take())

	// Same for a second pin joining an armed group.
	c.Drive(pps.RC2, true)
	require.NoError(t, d.ConnectChange(pps.RC2, gpio.BothEdges, r.cb))
	require.Empty(t, r.take())
	require.Equal(t, uint32(0b110), regs.CNEN.Get())

	c.Drive(pps.RC2, false)
	require.Equal(t, []hit{{pps.RC2, gpio.Low}}, r.take())

	require.NoError(t, d.DisconnectChange(pps.RC1, gpio.BothEdges))
	require.True(t, ic.Enabled(vec), "RC2 still enabled")
	require.Equal(t, uint32(0b100), regs.CNEN.Get())

	require.NoError(t, d.DisconnectChange(pps.RC2, gpio.RisingEdge))
	require.True(t, ic.Enabled(vec), "falling slot of RC2 still set")
	require.NoError(t, d.DisconnectChange(pps.RC2, gpio.FallingEdge))
	require.False(t, ic.Enabled(vec))
	require.False(t, hal.HasBits(regs.CNCON, hal.CNConON))
	require.Zero(t, regs.CNEN.Get())

	c.Drive(pps.RC1, false)
	require.Empty(t, r.take())
}

func TestDisconnectIsIdempotent(t *testing.T) {
	c, d := newRig(t)
	var r recorder

	err := d.DisconnectChange(pps.RB4, gpio.RisingEdge)
	require.ErrorIs(t, err, errcode.NotConnected)

	require.NoError(t, d.ConnectChange(pps.RB4, gpio.RisingEdge, r.cb))
	err = d.DisconnectChange(pps.RB4, gpio.FallingEdge)
	require.ErrorIs(t, err, errcode.NotConnected)
	require.True(t, d.Connected(pps.RB4, gpio.RisingEdge), "failed disconnect changes nothing")
	require.True(t, c.Interrupts().Enabled(groupVec(c, pps.RB4)))

	require.NoError(t, d.DisconnectChange(pps.RB4, gpio.BothEdges))
	require.ErrorIs(t, d.DisconnectChange(pps.RB4, gpio.BothEdges), errcode.NotConnected)

	require.ErrorIs(t, d.DisconnectExternal(2), errcode.NotConnected)
	require.ErrorIs(t, d.DisconnectExternal(9), errcode.InvalidLine)
	require.ErrorIs(t, d.DisconnectExternal(-1), errcode.InvalidLine)
}

func TestChangeRejectsBadArguments(t *testing.T) {
	_, d := newRig(t)
	var r recorder
	require.ErrorIs(t, d.ConnectChange(pps.Pin(-1), gpio.RisingEdge, r.cb), errcode.InvalidPin)
	require.ErrorIs(t, d.ConnectChange(pps.Pin(500), gpio.RisingEdge, r.cb), errcode.InvalidPin)
	require.ErrorIs(t, d.ConnectChange(pps.RB0, gpio.NoEdge, r.cb), errcode.InvalidEdge)
	require.ErrorIs(t, d.ConnectChange(pps.RB0, gpio.RisingEdge, nil), errcode.InvalidParams)
	require.False(t, d.Connected(pps.RB0, gpio.RisingEdge))
}

func TestExternalRemappedLine(t *testing.T) {
	c, d := newRig(t)
	ic := c.Interrupts()
	desc := c.Descriptor()
	var r recorder

	require.NoError(t, d.ConnectExternal(pps.RD0, 1, gpio.RisingEdge, r.cb))
	require.True(t, ic.Enabled(desc.ExtLines[1].Vector))
	require.True(t, hal.HasBits(c.ExtControl(), hal.IntEP(1)))
	pin, ok := d.ExternalPin(1)
	require.True(t, ok)
	require.Equal(t, pps.RD0, pin)
	require.Equal(t, desc.Table.Pins[pps.RD0].Setting, uint8(c.InputMapping(pps.INT1)))

	c.Drive(pps.RD0, true)
	c.Drive(pps.RD0, false)
	require.Equal(t, []hit{{pps.RD0, gpio.High}}, r.take())

	// Reconnect for the falling edge.
	require.NoError(t, d.ConnectExternal(pps.RD0, 1, gpio.FallingEdge, r.cb))
	require.False(t, hal.HasBits(c.ExtControl(), hal.IntEP(1)))
	c.Drive(pps.RD0, true)
	c.Drive(pps.RD0, false)
	require.Equal(t, []hit{{pps.RD0, gpio.Low}}, r.take())

	require.NoError(t, d.DisconnectExternal(1))
	require.False(t, ic.Enabled(desc.ExtLines[1].Vector))
	ipl, _ := ic.Priority(desc.ExtLines[1].Vector)
	require.Zero(t, ipl)
	c.Drive(pps.RD0, true)
	c.Drive(pps.RD0, false)
	require.Empty(t, r.take())
}

func TestExternalFailureHasNoSideEffects(t *testing.T) {
	c, d := newRig(t)
	ic := c.Interrupts()
	desc := c.Descriptor()
	var r recorder

	// RB0 is not in INT1's input group.
	err := d.ConnectExternal(pps.RB0, 1, gpio.RisingEdge, r.cb)
	require.ErrorIs(t, err, errcode.Incompatible)
	require.False(t, ic.Enabled(desc.ExtLines[1].Vector))
	require.Zero(t, c.InputMapping(pps.INT1))
	require.Zero(t, c.ExtControl().Get())
	_, ok := d.ExternalPin(1)
	require.False(t, ok)

	// Line 0 is wired to RD0 only.
	require.ErrorIs(t, d.ConnectExternal(pps.RB0, 0, gpio.RisingEdge, r.cb), errcode.Incompatible)
	require.ErrorIs(t, d.ConnectExternal(pps.RD0, 5, gpio.RisingEdge, r.cb), errcode.InvalidLine)
	require.ErrorIs(t, d.ConnectExternal(pps.RD0, 0, gpio.BothEdges, r.cb), errcode.InvalidEdge)
	require.ErrorIs(t, d.ConnectExternal(pps.RD0, 0, gpio.RisingEdge, nil), errcode.InvalidParams)
	require.False(t, ic.Enabled(desc.ExtLines[0].Vector))
}

func TestExternalFixedLine(t *testing.T) {
	c, d := newRig(t)
	var r recorder
	require.NoError(t, d.ConnectExternal(pps.RD0, 0, gpio.FallingEdge, r.cb))
	c.Drive(pps.RD0, true)
	require.Empty(t, r.take())
	c.Drive(pps.RD0, false)
	require.Equal(t, []hit{{pps.RD0, gpio.Low}}, r.take())
	require.Equal(t, 5, d.NumLines())
}

func TestChangeAndExternalShareAPin(t *testing.T) {
	c, d := newRig(t)
	var change, ext recorder
	require.NoError(t, d.ConnectChange(pps.RD0, gpio.BothEdges, change.cb))
	require.NoError(t, d.ConnectExternal(pps.RD0, 0, gpio.RisingEdge, ext.cb))

	c.Drive(pps.RD0, true)
	require.Equal(t, []hit{{pps.RD0, gpio.High}}, change.take())
	require.Equal(t, []hit{{pps.RD0, gpio.High}}, ext.take())
}
