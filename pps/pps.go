// Package pps holds the peripheral pin select legality tables and the
// mapper that routes remappable peripheral functions to pins.
//
// Every pin and every remappable function carries an 8-bit group mask: the
// high nibble names the input groups it belongs to, the low nibble the
// output groups. A pin and a function may be connected in a direction only
// when they share a group in that direction.
package pps

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"periph.io/x/conn/v3/pin"
)

// Pin is a pin index: port*16 + bit (RA0 = 0, RB0 = 16, ...).
type Pin int

// Function is a remappable peripheral function index.
type Function int

// Group masks.
const (
	InputMask  = 0xF0
	OutputMask = 0x0F
)

// Entry is a pin's group mask and the value that selects it in a
// function's input mapping register.
type Entry struct {
	Groups  uint8
	Setting uint8
}

// FuncEntry is a function's name, group mask and the value that selects it
// in a pin's output mapping register.
type FuncEntry struct {
	Name    pin.Func
	Groups  uint8
	Setting uint8
}

// Table is an immutable pin x function legality table for one chip family.
type Table struct {
	Name  string
	Pins  []Entry
	Funcs []FuncEntry
}

// P32MZEF is the table of the PIC32MZ EF 64-pin parts.
var P32MZEF = &Table{Name: "p32mzef", Pins: p32mzefPins[:], Funcs: p32mzefFuncs[:]}

var tables = []*Table{P32MZEF}

// ByName returns a built-in table by name.
func ByName(name string) (*Table, bool) {
	i := slices.IndexFunc(tables, func(t *Table) bool { return t.Name == name })
	if i < 0 {
		return nil, false
	}
	return tables[i], true
}

func (t *Table) NumPins() int      { return len(t.Pins) }
func (t *Table) NumFunctions() int { return len(t.Funcs) }

func (t *Table) ValidPin(p Pin) bool           { return p >= 0 && int(p) < len(t.Pins) }
func (t *Table) ValidFunction(f Function) bool { return f >= 0 && int(f) < len(t.Funcs) }

// CanInput reports whether p may drive input function f.
func (t *Table) CanInput(p Pin, f Function) bool {
	if !t.ValidPin(p) || !t.ValidFunction(f) {
		return false
	}
	return t.Pins[p].Groups&t.Funcs[f].Groups&InputMask != 0
}

// CanOutput reports whether output function f may be routed to p.
func (t *Table) CanOutput(p Pin, f Function) bool {
	if !t.ValidPin(p) || !t.ValidFunction(f) {
		return false
	}
	return t.Pins[p].Groups&t.Funcs[f].Groups&OutputMask != 0
}

// Remappable reports whether p has an output mapping register.
func (t *Table) Remappable(p Pin) bool {
	return t.ValidPin(p) && t.Pins[p].Groups&OutputMask != 0
}

// FuncName returns the function's name, or "" for reserved slots.
func (t *Table) FuncName(f Function) pin.Func {
	if !t.ValidFunction(f) {
		return ""
	}
	return t.Funcs[f].Name
}

// Lookup finds a function by name (case-insensitive).
func (t *Table) Lookup(name string) (Function, bool) {
	if name == "" {
		return 0, false
	}
	i := slices.IndexFunc(t.Funcs, func(e FuncEntry) bool {
		return strings.EqualFold(string(e.Name), name)
	})
	return Function(i), i >= 0
}

// InputPins lists the pins that may drive input function f.
func (t *Table) InputPins(f Function) []Pin {
	var out []Pin
	for p := range t.Pins {
		if t.CanInput(Pin(p), f) {
			out = append(out, Pin(p))
		}
	}
	return out
}

// PinForInput resolves an input mapping register value back to the pin it
// selects for f.
func (t *Table) PinForInput(f Function, setting uint32) (Pin, bool) {
	for p, e := range t.Pins {
		if uint32(e.Setting) == setting && t.CanInput(Pin(p), f) {
			return Pin(p), true
		}
	}
	return 0, false
}

// FunctionForOutput resolves an output mapping register value of p back to
// the function it selects. Zero means the pin is a plain GPIO.
func (t *Table) FunctionForOutput(p Pin, setting uint32) (Function, bool) {
	if setting == 0 {
		return 0, false
	}
	for f, e := range t.Funcs {
		if uint32(e.Setting) == setting && t.CanOutput(p, Function(f)) {
			return Function(f), true
		}
	}
	return 0, false
}

// PinName formats p as RB5 style.
func PinName(p Pin) string {
	if p < 0 {
		return "R?"
	}
	return "R" + string(rune('A'+int(p)/16)) + strconv.Itoa(int(p)%16)
}

// ParsePin accepts "RB5", "B5" or a decimal pin index.
func ParsePin(s string) (Pin, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return Pin(n), n >= 0
	}
	s = strings.TrimPrefix(s, "R")
	if len(s) < 2 || s[0] < 'A' || s[0] > 'Z' {
		return 0, false
	}
	bit, err := strconv.Atoi(s[1:])
	if err != nil || bit < 0 || bit > 15 {
		return 0, false
	}
	return Pin(int(s[0]-'A')*16 + bit), true
}
