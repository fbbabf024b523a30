package types

import "periphio-go/errcode"

// ------------------------
// Serial
// ------------------------

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return "none"
	}
}

func (p Parity) letter() byte {
	switch p {
	case ParityEven:
		return 'E'
	case ParityOdd:
		return 'O'
	default:
		return 'N'
	}
}

// SerialFormat is a character frame: data bits, parity and stop bits.
type SerialFormat struct {
	DataBits uint8  `yaml:"data_bits"`
	Parity   Parity `yaml:"parity"`
	StopBits uint8  `yaml:"stop_bits"`
}

var (
	Format8N1 = SerialFormat{DataBits: 8, Parity: ParityNone, StopBits: 1}
	Format8N2 = SerialFormat{DataBits: 8, Parity: ParityNone, StopBits: 2}
	Format8E1 = SerialFormat{DataBits: 8, Parity: ParityEven, StopBits: 1}
	Format8E2 = SerialFormat{DataBits: 8, Parity: ParityEven, StopBits: 2}
	Format8O1 = SerialFormat{DataBits: 8, Parity: ParityOdd, StopBits: 1}
	Format8O2 = SerialFormat{DataBits: 8, Parity: ParityOdd, StopBits: 2}
)

// String renders the conventional short form, e.g. "8N1".
func (f SerialFormat) String() string {
	return string([]byte{'0' + f.DataBits%10, f.Parity.letter(), '0' + f.StopBits%10})
}

// ParseSerialFormat accepts the short form ("8N1", "8e2", ...).
func ParseSerialFormat(s string) (SerialFormat, error) {
	if len(s) != 3 || s[0] < '5' || s[0] > '9' || (s[2] != '1' && s[2] != '2') {
		return SerialFormat{}, errcode.Wrap("types.ParseSerialFormat", errcode.InvalidParams, s)
	}
	f := SerialFormat{DataBits: s[0] - '0', StopBits: s[2] - '0'}
	switch s[1] {
	case 'N', 'n':
		f.Parity = ParityNone
	case 'E', 'e':
		f.Parity = ParityEven
	case 'O', 'o':
		f.Parity = ParityOdd
	default:
		return SerialFormat{}, errcode.Wrap("types.ParseSerialFormat", errcode.InvalidParams, s)
	}
	return f, nil
}
