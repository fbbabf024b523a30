package mmio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"periphio-go/chip"
	"periphio-go/hal"
	"periphio-go/pps"
)

func newWindow() *Window {
	return NewWindow(make([]byte, PIC32MZ.SFRSize), PIC32MZ.SFRBase)
}

func addrOf(r hal.Register) uint32 { return r.(Reg).Addr() }

func TestRegisterCompanions(t *testing.T) {
	w := newWindow()
	r := w.Reg(0xBF822000)

	r.Set(0x8000)
	require.Equal(t, uint32(0x8000), r.Get())
	r.SetBits(0x0008)
	r.ClearBits(0x0003)
	r.InvertBits(0x0100)
	require.Equal(t, uint32(0x0008), w.Read(0xBF822008))
	require.Equal(t, uint32(0x0003), w.Read(0xBF822004))
	require.Equal(t, uint32(0x0100), w.Read(0xBF82200C))
	require.Equal(t, uint32(0x8000), r.Get(), "companion writes leave the register alone")
}

func TestWindowBounds(t *testing.T) {
	w := NewWindow(make([]byte, 16), 0x1000)
	require.True(t, w.Contains(0x1000))
	require.True(t, w.Contains(0x100C))
	require.False(t, w.Contains(0x100D))
	require.False(t, w.Contains(0x0FFC))
	require.Panics(t, func() { w.Read(0x1010) })
	require.Equal(t, 16, w.Size())
	require.Equal(t, uint32(0x1000), w.Base())
}

func TestIntControllerArithmetic(t *testing.T) {
	w := newWindow()
	ic := NewIntController(w, PIC32MZ)

	// Vector 113 (UART1 RX): IEC3/IFS3 bit 17, IPC28 byte 1.
	ic.Enable(113)
	require.Equal(t, uint32(1<<17), w.Read(0xBF8100F0+offSET))
	ic.Disable(113)
	require.Equal(t, uint32(1<<17), w.Read(0xBF8100F0+offCLR))

	ic.ClearFlag(113)
	require.Equal(t, uint32(1<<17), w.Read(0xBF810070+offCLR))
	require.False(t, ic.Flag(113))
	w.Write(0xBF810070, 1<<17)
	require.True(t, ic.Flag(113))
	w.Write(0xBF8100F0, 1<<17)
	require.True(t, ic.Enabled(113))

	ic.SetPriority(113, 2, 1)
	require.Equal(t, uint32(0x1F<<8), w.Read(0xBF810300+offCLR))
	require.Equal(t, uint32((2<<2|1)<<8), w.Read(0xBF810300+offSET))
	w.Write(0xBF810300, 0x0900)
	ipl, sub := ic.Priority(113)
	require.Equal(t, uint8(2), ipl)
	require.Equal(t, uint8(1), sub)

	// Vector 3 (INT0): register 0, bit 3 / byte 3.
	ic.SetFlag(3)
	require.Equal(t, uint32(1<<3), w.Read(0xBF810040+offSET))
	ic.SetPriority(3, 7, 3)
	require.Equal(t, uint32(0x1F<<24), w.Read(0xBF810140+offCLR))
}

func TestDispatchAndDisableAll(t *testing.T) {
	w := newWindow()
	ic := NewIntController(w, PIC32MZ)
	ran := 0
	ic.Attach(146, func() { ran++ })

	require.True(t, ic.Dispatch(146))
	require.False(t, ic.Dispatch(147), "nothing attached")
	require.False(t, ic.Dispatch(4000))
	require.Equal(t, 1, ran)

	ic.DisableAll()
	require.False(t, ic.Dispatch(146))
	require.Equal(t, 1, ran)
	for i := uint32(0); i < 8; i++ {
		require.Equal(t, uint32(0xFFFFFFFF), w.Read(0xBF8100C0+i*0x10+offCLR))
	}

	ic.Attach(146, nil)
}

func TestHardwareLayout(t *testing.T) {
	d := chip.Default()
	h := New(newWindow(), PIC32MZ, d)

	require.Nil(t, h.UART(6))
	require.Nil(t, h.Port(7))
	u := h.UART(1)
	require.Equal(t, uint32(0xBF822200), addrOf(u.Mode))
	require.Equal(t, uint32(0xBF822210), addrOf(u.Status))
	require.Equal(t, uint32(0xBF822220), addrOf(u.TX))
	require.Equal(t, uint32(0xBF822230), addrOf(u.RX))
	require.Equal(t, uint32(0xBF822240), addrOf(u.BRG))

	p := h.Port(4)
	require.Equal(t, uint32(0xBF860410), addrOf(p.Tris))
	require.Equal(t, uint32(0xBF860420), addrOf(p.Port))
	require.Equal(t, uint32(0xBF860430), addrOf(p.Lat))
	require.Equal(t, uint32(0xBF860470), addrOf(p.CNCON))
	require.Equal(t, uint32(0xBF860480), addrOf(p.CNEN))

	require.Equal(t, uint32(0xBF810000), addrOf(h.ExtControl()))
	require.Equal(t, uint32(0xBF801404), addrOf(h.PPS().Input(int(pps.INT1))))
	require.Equal(t, uint32(0xBF801554), addrOf(h.PPS().Output(int(pps.RB5))))
	require.Same(t, h.Controller(), h.Interrupts())
}

func TestMapperWritesMappingRegisters(t *testing.T) {
	d := chip.Default()
	w := newWindow()
	h := New(w, PIC32MZ, d)
	m := pps.NewMapper(d.Table, h.PPS())

	require.NoError(t, m.AssignInput(pps.RD0, pps.INT1))
	require.Equal(t, uint32(d.Table.Pins[pps.RD0].Setting), w.Read(0xBF801404))

	require.NoError(t, m.AssignOutput(pps.RB3, pps.U1TX))
	require.Equal(t, uint32(d.Table.Funcs[pps.U1TX].Setting), w.Read(0xBF80154C))
}
