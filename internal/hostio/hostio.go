// Package hostio adapts host-side stdio, a printable status pixel and a
// no-op watchdog to the interfaces the session expects, so the same
// state machine runs unchanged on a laptop or SBC.
package hostio

import (
	"io"

	"sensorlog-go/drivers/statuspixel"
	"sensorlog-go/x/fmtx"
)

// Console pumps a reader into a small buffer on a background goroutine,
// giving the session the Buffered/ReadByte surface it polls on MCU.
// EOF on the reader marks the console closed.
type Console struct {
	w    io.Writer
	ch   chan byte
	done chan struct{}
}

func NewConsole(r io.Reader, w io.Writer) *Console {
	c := &Console{w: w, ch: make(chan byte, 256), done: make(chan struct{})}
	go c.pump(r)
	return c
}

func (c *Console) pump(r io.Reader) {
	defer close(c.done)
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			c.ch <- b
		}
		if err != nil {
			return
		}
	}
}

func (c *Console) Buffered() int {
	if n := len(c.ch); n > 0 {
		return n
	}
	select {
	case <-c.done:
		return 1 // closed: next ReadByte reports EOF
	default:
		return 0
	}
}

func (c *Console) ReadByte() (byte, error) {
	select {
	case b := <-c.ch:
		return b, nil
	case <-c.done:
		// Bytes may have landed just before the close.
		select {
		case b := <-c.ch:
			return b, nil
		default:
			return 0, io.EOF
		}
	}
}

func (c *Console) Write(p []byte) (int, error) { return c.w.Write(p) }

// PixelPrinter reports pixel changes as protocol comments, which any
// downstream parser skips.
type PixelPrinter struct {
	W       io.Writer
	pending statuspixel.Color
}

func (p *PixelPrinter) Set(c statuspixel.Color) { p.pending = c }

func (p *PixelPrinter) Show() error {
	_, err := fmtx.Fprintf(p.W, "# pixel -> #%06X\r\n", uint32(p.pending))
	return err
}

// NopWatchdog satisfies the watchdog interface on hosts with nothing to
// arm. Enable echoes the requested countdown so confirmations read the
// same as on hardware.
type NopWatchdog struct{}

func (NopWatchdog) Enable(timeoutMS uint32) uint32 { return timeoutMS }
func (NopWatchdog) Reset()                         {}
