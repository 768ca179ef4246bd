// Package collect implements the host side of the logger's serial
// protocol: it discovers device identities, starts measurement sessions,
// requests samples and aggregates the CSV records the firmware emits.
//
// The parser is deliberately tolerant: lines starting with '#' are
// protocol comments, and malformed lines are reported but never fatal.
package collect

import (
	"errors"
	"strconv"
	"strings"

	"sensorlog-go/errcode"
)

// ErrComment marks a '#'-prefixed metadata line. Callers skip these.
var ErrComment = errors.New("collect: comment line")

// ErrEmpty marks a blank line.
var ErrEmpty = errors.New("collect: empty line")

// Record is one measurement as emitted by the firmware:
//
//	0x<HEX_IDENTITY>, <elapsedMillis>, <temperatureC>, <relativeHumidity>
type Record struct {
	Serial    string // hex identity, as printed (e.g. "0xF030D05B")
	ElapsedMS int64
	TempC     float64
	Humidity  float64
}

// ParseLine classifies and parses one serial line.
func ParseLine(line string) (Record, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Record{}, ErrEmpty
	}
	if strings.HasPrefix(line, "#") {
		return Record{}, ErrComment
	}
	parts := strings.Split(line, ",")
	if len(parts) != 4 {
		return Record{}, &errcode.E{C: errcode.Malformed, Op: "parse", Msg: line}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if !strings.HasPrefix(parts[0], "0x") {
		return Record{}, &errcode.E{C: errcode.Malformed, Op: "parse", Msg: "identity: " + parts[0]}
	}
	ms, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Record{}, &errcode.E{C: errcode.Malformed, Op: "parse", Msg: "timestamp", Err: err}
	}
	temp, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return Record{}, &errcode.E{C: errcode.Malformed, Op: "parse", Msg: "temperature", Err: err}
	}
	rh, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return Record{}, &errcode.E{C: errcode.Malformed, Op: "parse", Msg: "humidity", Err: err}
	}
	return Record{Serial: parts[0], ElapsedMS: ms, TempC: temp, Humidity: rh}, nil
}
