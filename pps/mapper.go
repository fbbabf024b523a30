package pps

import (
	"periphio-go/errcode"
	"periphio-go/hal"
)

// Mapper writes legal pin/function routings into the PPS registers.
// Illegal requests fail without touching hardware.
type Mapper struct {
	t    *Table
	regs hal.PPSRegs
}

func NewMapper(t *Table, regs hal.PPSRegs) *Mapper {
	return &Mapper{t: t, regs: regs}
}

func (m *Mapper) Table() *Table { return m.t }

func (m *Mapper) check(op string, p Pin, f Function) error {
	if !m.t.ValidPin(p) {
		return errcode.Wrap(op, errcode.InvalidPin, PinName(p))
	}
	if !m.t.ValidFunction(f) {
		return errcode.Wrap(op, errcode.InvalidFunction, "")
	}
	return nil
}

// CheckInput returns the error AssignInput(p, f) would fail with, without
// touching hardware.
func (m *Mapper) CheckInput(p Pin, f Function) error {
	return m.checkInput("pps.AssignInput", p, f)
}

// CheckOutput is CheckInput for AssignOutput.
func (m *Mapper) CheckOutput(p Pin, f Function) error {
	return m.checkOutput("pps.AssignOutput", p, f)
}

func (m *Mapper) checkInput(op string, p Pin, f Function) error {
	if err := m.check(op, p, f); err != nil {
		return err
	}
	if !m.t.CanInput(p, f) {
		return errcode.Wrap(op, errcode.Incompatible, PinName(p)+"/"+string(m.t.FuncName(f)))
	}
	return nil
}

func (m *Mapper) checkOutput(op string, p Pin, f Function) error {
	if err := m.check(op, p, f); err != nil {
		return err
	}
	if !m.t.CanOutput(p, f) {
		return errcode.Wrap(op, errcode.Incompatible, PinName(p)+"/"+string(m.t.FuncName(f)))
	}
	return nil
}

// AssignInput routes pin p to input function f: the pin's setting goes
// into f's input mapping register.
func (m *Mapper) AssignInput(p Pin, f Function) error {
	if err := m.checkInput("pps.AssignInput", p, f); err != nil {
		return err
	}
	m.regs.Input(int(f)).Set(uint32(m.t.Pins[p].Setting))
	return nil
}

// AssignOutput routes output function f to pin p: the function's setting
// goes into p's output mapping register.
func (m *Mapper) AssignOutput(p Pin, f Function) error {
	if err := m.checkOutput("pps.AssignOutput", p, f); err != nil {
		return err
	}
	m.regs.Output(int(p)).Set(uint32(m.t.Funcs[f].Setting))
	return nil
}

// ClearOutput returns p to plain GPIO output.
func (m *Mapper) ClearOutput(p Pin) error {
	const op = "pps.ClearOutput"
	if !m.t.ValidPin(p) {
		return errcode.Wrap(op, errcode.InvalidPin, PinName(p))
	}
	if !m.t.Remappable(p) {
		return errcode.Wrap(op, errcode.Unsupported, PinName(p))
	}
	m.regs.Output(int(p)).Set(0)
	return nil
}

// OutputOf reports which function currently drives p, if any.
func (m *Mapper) OutputOf(p Pin) (Function, bool) {
	if !m.t.Remappable(p) {
		return 0, false
	}
	return m.t.FunctionForOutput(p, m.regs.Output(int(p)).Get())
}

// InputOf reports which pin currently drives input function f.
func (m *Mapper) InputOf(f Function) (Pin, bool) {
	if !m.t.ValidFunction(f) || m.t.Funcs[f].Groups&InputMask == 0 {
		return 0, false
	}
	return m.t.PinForInput(f, m.regs.Input(int(f)).Get())
}
