// Package statuspixel drives the single RGB status pixel. The controller
// signals every state transition through it, so the palette is part of the
// observable contract:
//
//	Blue     initializing
//	Gray     ready / awaiting command
//	Green    decontamination running
//	Yellow   sensor error
//	Magenta  taking a measurement
//	Off      measurement done
package statuspixel

// Color is a packed 0xRRGGBB value.
type Color uint32

const (
	Init      Color = 0x0000FF
	Ready     Color = 0x3F3F3F
	Decontam  Color = 0x00FF00
	Error     Color = 0xFFFF00
	Measuring Color = 0xFF00FF
	Off       Color = 0x000000
)

func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// Device is a single pixel: set a color, then flush it to hardware.
type Device interface {
	Set(c Color)
	Show() error
}

// Recorder is a host-side Device that remembers every shown color, in
// order. Used by tests and the simulator.
type Recorder struct {
	pending Color
	Shown   []Color
}

func (r *Recorder) Set(c Color) { r.pending = c }

func (r *Recorder) Show() error {
	r.Shown = append(r.Shown, r.pending)
	return nil
}

// Last returns the most recently shown color, or Off if none.
func (r *Recorder) Last() Color {
	if len(r.Shown) == 0 {
		return Off
	}
	return r.Shown[len(r.Shown)-1]
}
