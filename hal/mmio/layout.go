package mmio

// Layout is where a part family keeps its registers, as KSEG1 bus
// addresses.
type Layout struct {
	SFRBase uint32 // start of the SFR block
	SFRSize int
	SFRPhys int64 // physical address of SFRBase

	INTCON uint32
	IFS0   uint32
	IEC0   uint32
	IPC0   uint32
	// NumVectors bounds the vector numbers the controller knows about.
	NumVectors int

	UART1      uint32
	UARTStride uint32

	PortA      uint32
	PortStride uint32

	PPSInput  uint32 // input mapping register of function 0
	PPSOutput uint32 // output mapping register of pin 0
}

// PIC32MZ is the PIC32MZ EF register map.
var PIC32MZ = Layout{
	SFRBase: 0xBF800000,
	SFRSize: 0x100000,
	SFRPhys: 0x1F800000,

	INTCON:     0xBF810000,
	IFS0:       0xBF810040,
	IEC0:       0xBF8100C0,
	IPC0:       0xBF810140,
	NumVectors: 256,

	UART1:      0xBF822000,
	UARTStride: 0x200,

	PortA:      0xBF860000,
	PortStride: 0x100,

	PPSInput:  0xBF801400,
	PPSOutput: 0xBF801500,
}

// Offsets inside one UART block.
const (
	uartMODE = 0x00
	uartSTA  = 0x10
	uartTX   = 0x20
	uartRX   = 0x30
	uartBRG  = 0x40
)

// Offsets inside one port block.
const (
	portTRIS  = 0x10
	portPORT  = 0x20
	portLAT   = 0x30
	portCNCON = 0x70
	portCNEN  = 0x80
)
