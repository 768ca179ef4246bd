package errcode

import "sensorlog-go/drivers/sht4x"

// Code is a stable, protocol-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	SensorMissing Code = "sensor_missing"
	NotReady      Code = "not_ready"
	Timeout       Code = "timeout"
	CRC           Code = "crc"
	BusError      Code = "bus_error"
	InvalidParams Code = "invalid_params"
	PortClosed    Code = "port_closed"
	Malformed     Code = "malformed"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

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
	return MapDriverErr(err)
}

// MapDriverErr maps low-level sensor driver errors to a Code.
func MapDriverErr(err error) Code {
	switch err {
	case nil:
		return OK
	case sht4x.ErrTimeout:
		return Timeout
	case sht4x.ErrNotReady:
		return NotReady
	case sht4x.ErrCRC:
		return CRC
	case sht4x.ErrInvalid:
		return InvalidParams
	}
	return Error
}
