// Package chip describes the per-part facts the peripheral drivers need:
// UART count and vectors, port groups, external interrupt lines, the PPS
// table and the peripheral bus clock.
package chip

import (
	_ "embed"
	"os"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"periphio-go/errcode"
	"periphio-go/hal"
	"periphio-go/pps"
)

//go:embed chips.yaml
var rawChips []byte

var catalogue []Descriptor

func init() {
	var err error
	catalogue, err = Parse(rawChips)
	if err != nil {
		panic("chip: embedded catalogue: " + err.Error())
	}
}

// DefaultName is the part the firmware is built for unless told otherwise.
const DefaultName = "PIC32MZ0512EFE064"

type UART struct {
	Fault hal.Vector `yaml:"fault"`
	RX    hal.Vector `yaml:"rx"`
	TX    hal.Vector `yaml:"tx"`

	RXFuncName string `yaml:"rxFunc"`
	TXFuncName string `yaml:"txFunc"`

	RXFunc pps.Function `yaml:"-"`
	TXFunc pps.Function `yaml:"-"`
}

// Port is one 16-pin port group sharing a change notification vector.
type Port struct {
	Name   string     `yaml:"name"`
	Vector hal.Vector `yaml:"vector"`
}

// ExtLine is an external interrupt line. It is either hard-wired to one pin
// or routed through the PPS input map.
type ExtLine struct {
	Vector   hal.Vector `yaml:"vector"`
	FuncName string     `yaml:"func"`
	PinName  string     `yaml:"pin"`

	Remap bool         `yaml:"-"`
	Func  pps.Function `yaml:"-"`
	Pin   pps.Pin      `yaml:"-"` // fixed pin when !Remap
}

type Descriptor struct {
	Name            string    `yaml:"name"`
	Chips           []string  `yaml:"chips"`
	PPSTable        string    `yaml:"ppsTable"`
	PeripheralClock uint32    `yaml:"peripheralClock"`
	FaultLEDName    string    `yaml:"faultLED"`
	UARTs           []UART    `yaml:"uarts"`
	Ports           []Port    `yaml:"ports"`
	ExtLines        []ExtLine `yaml:"extLines"`

	Table    *pps.Table `yaml:"-"`
	FaultLED pps.Pin    `yaml:"-"`
}

// Parse decodes a YAML list of descriptors and resolves pin and function
// names against each descriptor's PPS table.
func Parse(data []byte) ([]Descriptor, error) {
	var ds []Descriptor
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, errcode.Wrap("chip.Parse", errcode.InvalidParams, err.Error())
	}
	for i := range ds {
		if err := ds[i].resolve(); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Load reads descriptors from a YAML file.
func Load(path string) ([]Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// All returns the built-in catalogue.
func All() []Descriptor { return catalogue }

// Find returns the built-in descriptor covering the named part.
func Find(name string) (Descriptor, error) {
	return FindIn(catalogue, name)
}

// FindIn looks name up in ds, matching descriptor names and part lists.
func FindIn(ds []Descriptor, name string) (Descriptor, error) {
	name = strings.ToUpper(name)
	i := slices.IndexFunc(ds, func(d Descriptor) bool {
		return strings.ToUpper(d.Name) == name || slices.Contains(d.Chips, name)
	})
	if i < 0 {
		return Descriptor{}, errcode.Wrap("chip.Find", errcode.UnknownChip, name)
	}
	return ds[i], nil
}

// Default returns the descriptor of DefaultName.
func Default() Descriptor {
	d, err := Find(DefaultName)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Descriptor) resolve() error {
	fail := func(msg string) error {
		return errcode.Wrap("chip.Parse", errcode.InvalidParams, d.Name+": "+msg)
	}
	t, ok := pps.ByName(d.PPSTable)
	if !ok {
		return fail("unknown ppsTable " + d.PPSTable)
	}
	d.Table = t
	if d.PeripheralClock == 0 {
		return fail("peripheralClock is required")
	}
	if d.FaultLEDName != "" {
		p, ok := pps.ParsePin(d.FaultLEDName)
		if !ok || !t.ValidPin(p) {
			return fail("bad faultLED " + d.FaultLEDName)
		}
		d.FaultLED = p
	} else {
		d.FaultLED = -1
	}
	for i := range d.UARTs {
		u := &d.UARTs[i]
		if u.RXFunc, ok = t.Lookup(u.RXFuncName); !ok {
			return fail("bad rxFunc " + u.RXFuncName)
		}
		if u.TXFunc, ok = t.Lookup(u.TXFuncName); !ok {
			return fail("bad txFunc " + u.TXFuncName)
		}
	}
	for i := range d.ExtLines {
		l := &d.ExtLines[i]
		switch {
		case l.FuncName != "":
			if l.Func, ok = t.Lookup(l.FuncName); !ok {
				return fail("bad ext line func " + l.FuncName)
			}
			l.Remap = true
		case l.PinName != "":
			if l.Pin, ok = pps.ParsePin(l.PinName); !ok || !t.ValidPin(l.Pin) {
				return fail("bad ext line pin " + l.PinName)
			}
		default:
			return fail("ext line needs func or pin")
		}
	}
	return nil
}

func (d *Descriptor) NumUARTs() int    { return len(d.UARTs) }
func (d *Descriptor) NumPorts() int    { return len(d.Ports) }
func (d *Descriptor) NumExtLines() int { return len(d.ExtLines) }

// NumPins is the number of addressable pin indices (ports x 16).
func (d *Descriptor) NumPins() int { return len(d.Ports) * hal.PinsPerGroup }
