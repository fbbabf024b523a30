package chip

import (
	"testing"

	"github.com/stretchr/testify/require"

	"periphio-go/errcode"
	"periphio-go/hal"
	"periphio-go/pps"
)

func TestDefaultDescriptor(t *testing.T) {
	d := Default()
	require.Equal(t, DefaultName, d.Name)
	require.Same(t, pps.P32MZEF, d.Table)
	require.Equal(t, 6, d.NumUARTs())
	require.Equal(t, 7, d.NumPorts())
	require.Equal(t, 5, d.NumExtLines())
	require.Equal(t, pps.RE6, d.FaultLED)

	u := d.UARTs[0]
	require.Equal(t, hal.Vector(113), u.RX)
	require.Equal(t, hal.Vector(114), u.TX)
	require.Equal(t, pps.U1RX, u.RXFunc)
	require.Equal(t, pps.U1TX, u.TXFunc)
	require.Equal(t, pps.U6TX, d.UARTs[5].TXFunc)

	require.False(t, d.ExtLines[0].Remap)
	require.Equal(t, pps.RD0, d.ExtLines[0].Pin)
	require.True(t, d.ExtLines[4].Remap)
	require.Equal(t, pps.INT4, d.ExtLines[4].Func)
}

func TestFindByPartNumber(t *testing.T) {
	d, err := Find("pic32mz2048efh064")
	require.NoError(t, err)
	require.Equal(t, DefaultName, d.Name)

	_, err = Find("PIC32MX270F256B")
	require.Equal(t, errcode.UnknownChip, errcode.Of(err))
}

func TestParseCustom(t *testing.T) {
	ds, err := Parse([]byte(`
- name: board-a
  ppsTable: p32mzef
  peripheralClock: 80000000
  uarts:
    - {fault: 112, rx: 113, tx: 114, rxFunc: U1RX, txFunc: U1TX}
  ports:
    - {name: A, vector: 118}
  extLines:
    - {vector: 8, func: INT1}
`))
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.Equal(t, uint32(80000000), ds[0].PeripheralClock)
	require.Equal(t, pps.Pin(-1), ds[0].FaultLED)
	require.Equal(t, 16, ds[0].NumPins())
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"table": "- {name: x, ppsTable: nope, peripheralClock: 1}",
		"clock": "- {name: x, ppsTable: p32mzef}",
		"func":  "- {name: x, ppsTable: p32mzef, peripheralClock: 1, uarts: [{rxFunc: U9RX, txFunc: U1TX}]}",
		"line":  "- {name: x, ppsTable: p32mzef, peripheralClock: 1, extLines: [{vector: 3}]}",
		"yaml":  "- {name: [",
	}
	for name, src := range cases {
		_, err := Parse([]byte(src))
		require.Equal(t, errcode.InvalidParams, errcode.Of(err), name)
	}
}
