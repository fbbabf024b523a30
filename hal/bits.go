package hal

// UxMODE bits.
const (
	ModeON         = 1 << 15
	ModeBRGH       = 1 << 3
	ModeFormatMask = 0b111 // PDSEL<1:0> and STSEL
)

// UxSTA bits.
const (
	StaURXDA = 1 << 0
	StaOERR  = 1 << 1
	StaFERR  = 1 << 2
	StaPERR  = 1 << 3
	StaTRMT  = 1 << 8
	StaUTXBF = 1 << 9
	StaUTXEN = 1 << 10
	StaURXEN = 1 << 12

	StaErrors = StaOERR | StaFERR | StaPERR
)

// CNCONx bits.
const (
	CNConON         = 1 << 15
	CNConEdgeDetect = 1 << 11
)

// IntEP returns the INTCON polarity bit for external line n (1 = rising).
func IntEP(line int) uint32 { return 1 << uint(line) }

// PinsPerGroup is the width of one port group.
const PinsPerGroup = 16

// GroupOf splits a pin index into port group and bit.
func GroupOf(pin int) (group, bit int) { return pin / PinsPerGroup, pin % PinsPerGroup }
