// Package hal describes the hardware collaborators the peripheral drivers
// sit on: special function registers, the interrupt controller, UART and
// port register blocks, and the peripheral pin select maps.
//
// Drivers only ever touch hardware through these interfaces, so the same
// driver code runs against memory-mapped registers (package mmio) and
// against the simulated chip (package sim).
package hal

// Register is one 32-bit special function register. SetBits and ClearBits
// are single-write atomic modifications (the SET/CLR companion registers
// on PIC32), safe against interrupt handlers touching other bits.
type Register interface {
	Get() uint32
	Set(v uint32)
	SetBits(mask uint32)
	ClearBits(mask uint32)
}

// HasBits reports whether every bit of mask is set in r.
func HasBits(r Register, mask uint32) bool { return r.Get()&mask == mask }

// Vector is an interrupt vector number.
type Vector uint16

// ISR is an interrupt service routine. It must not block.
type ISR func()

// Interrupts is the interrupt controller.
type Interrupts interface {
	// Attach installs isr as the handler for v, replacing any previous one.
	Attach(v Vector, isr ISR)

	Flag(v Vector) bool
	SetFlag(v Vector)
	ClearFlag(v Vector)

	Enabled(v Vector) bool
	Enable(v Vector)
	Disable(v Vector)

	// SetPriority sets the group priority (0 disables delivery) and
	// sub-priority of v.
	SetPriority(v Vector, ipl, sub uint8)
	Priority(v Vector) (ipl, sub uint8)

	// DisableAll masks every interrupt globally. Used on the fatal path.
	DisableAll()
}

// UARTRegs is one UART's register block.
type UARTRegs struct {
	Mode   Register // UxMODE
	Status Register // UxSTA
	TX     Register // UxTXREG
	RX     Register // UxRXREG
	BRG    Register // UxBRG
}

// PortRegs is one 16-pin port group's register block.
type PortRegs struct {
	Tris  Register // TRISx
	Port  Register // PORTx
	Lat   Register // LATx
	CNCON Register // CNCONx
	CNEN  Register // CNENx
}

// PPSRegs exposes the peripheral pin select mapping registers.
type PPSRegs interface {
	// Input returns the input mapping register of function fn.
	Input(fn int) Register
	// Output returns the output mapping register of pin.
	Output(pin int) Register
}

// Hardware aggregates the register blocks of one chip.
type Hardware interface {
	Interrupts() Interrupts
	// UART returns the register block of UART i, or nil if absent.
	UART(i int) *UARTRegs
	// Port returns the register block of port group g, or nil if absent.
	Port(g int) *PortRegs
	// ExtControl returns INTCON, which holds the external line polarity bits.
	ExtControl() Register
	PPS() PPSRegs
}
