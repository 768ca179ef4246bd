package collect

import (
	"io"
	"strings"
	"time"
)

// Port is the slice of a serial port the session needs. Reads are
// expected to time out (returning an error) when the device is quiet;
// goburrow/serial ports behave this way when configured with a timeout.
type Port interface {
	io.ReadWriter
}

// Device is one open logger attached to a serial port.
type Device struct {
	port   Port
	Serial string // hex identity reported by 'n'
	// Warn receives skipped-line notices; nil disables them.
	Warn func(msg string)
}

// NewDevice wraps an already-open port.
func NewDevice(port Port) *Device {
	return &Device{port: port}
}

func (d *Device) warnf(msg string) {
	if d.Warn != nil {
		d.Warn(msg)
	}
}

// readLine accumulates bytes up to a newline. A read error (typically a
// port timeout) is returned with whatever was buffered discarded; the
// firmware always completes a line well within a timeout.
func (d *Device) readLine() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := d.port.Read(buf)
		if err != nil {
			return "", err
		}
		if n == 0 {
			continue
		}
		if buf[0] == '\n' {
			return strings.TrimSpace(sb.String()), nil
		}
		sb.WriteByte(buf[0])
	}
}

// drain consumes whatever the device has queued (banner, help text)
// until the port goes quiet.
func (d *Device) drain() {
	for {
		if _, err := d.readLine(); err != nil {
			return
		}
	}
}

// Handshake identifies the device and starts its measurement session:
// drain the banner, 'n' for the identity, then 's' to arm the watchdog
// and enter on-demand mode.
func (d *Device) Handshake() error {
	d.drain()

	if _, err := d.port.Write([]byte{'n'}); err != nil {
		return err
	}
	for {
		line, err := d.readLine()
		if err != nil {
			return err
		}
		if strings.HasPrefix(line, "0x") {
			d.Serial = line
			break
		}
		// Banner remnants; keep looking for the identity line.
	}

	if _, err := d.port.Write([]byte{'s'}); err != nil {
		return err
	}
	// The preamble (interval confirmation, watchdog notice, CSV header)
	// is all comments or one-off notices; drain it.
	d.drain()
	return nil
}

// Request asks for one measurement. The reply is collected by Next.
func (d *Device) Request() error {
	_, err := d.port.Write([]byte{'u'})
	return err
}

// Next returns the next data record, skipping comments and tolerating
// malformed lines. A read error (port quiet or gone) is returned as-is.
func (d *Device) Next() (Record, error) {
	for {
		line, err := d.readLine()
		if err != nil {
			return Record{}, err
		}
		rec, err := ParseLine(line)
		switch err {
		case nil:
			return rec, nil
		case ErrComment, ErrEmpty:
			continue
		default:
			d.warnf("skipping malformed line: " + line)
			continue
		}
	}
}

// Timestamp produces the collector-side filename suffix.
func Timestamp(t time.Time) string {
	return t.Format("20060102_150405")
}
