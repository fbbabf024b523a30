package errcode

// Code is a stable, short error identifier.
// It is a string newtype, comparable, allocation-free, and implements error,
// so it can be returned from interrupt-adjacent paths without allocating.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"

	// Configuration errors.
	InvalidChannel  Code = "invalid_channel"
	InvalidPin      Code = "invalid_pin"
	InvalidFunction Code = "invalid_function"
	InvalidLine     Code = "invalid_line"
	InvalidEdge     Code = "invalid_edge"
	Incompatible    Code = "incompatible"
	AlreadyOpen     Code = "already_open"
	NotOpen         Code = "not_open"
	NotConnected    Code = "not_connected"
	UnknownChip     Code = "unknown_chip"

	// Runtime conditions.
	Empty    Code = "empty"
	Timeout  Code = "timeout"
	Overrun  Code = "overrun"
	Framing  Code = "framing"
	Parity   Code = "parity"
	HWFault  Code = "hw_fault"
	Shutdown Code = "shutdown"

	Error Code = "error" // generic fallback
)

// E keeps context and a cause alongside a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.X) match a wrapped Code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap returns an *E for op with code c. Msg is optional.
func Wrap(op string, c Code, msg string) error {
	return &E{C: c, Op: op, Msg: msg}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
