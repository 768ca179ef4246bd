//go:build rp2040 || rp2350

package statuspixel

import (
	"image/color"

	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// WS2812 drives a one-pixel NeoPixel chain on a GPIO.
type WS2812 struct {
	dev     ws2812.Device
	pending Color
}

// NewWS2812 configures pin as a push-pull output and binds the chain.
func NewWS2812(pin machine.Pin) *WS2812 {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &WS2812{dev: ws2812.NewWS2812(pin)}
}

func (p *WS2812) Set(c Color) { p.pending = c }

func (p *WS2812) Show() error {
	c := p.pending
	return p.dev.WriteColors([]color.RGBA{{R: c.R(), G: c.G(), B: c.B(), A: 0xFF}})
}

var _ Device = (*WS2812)(nil)
