//go:build rp2040 || rp2350

// Command trinkey-logger is the firmware entrypoint for RP2-family
// boards with an SHT4x on the default I2C pins and a NeoPixel status
// LED (e.g. the Adafruit Trinkey QT2040).
package main

import (
	"time"

	"machine"

	"sensorlog-go/drivers/sht4x"
	"sensorlog-go/drivers/statuspixel"
	"sensorlog-go/logger"
	"sensorlog-go/x/timex"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	_ = machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})

	sensor := sht4x.New(machine.I2C0)
	sensor.Configure()

	sess := logger.New(
		logger.Config{},
		console(),
		&sensor,
		statuspixel.NewWS2812(machine.NEOPIXEL),
		hwWatchdog{},
		timex.SystemClock{},
	)

	if err := sess.Run(); err != nil {
		// Fail-stop: no sensor means nothing useful to do. Lock up so
		// the operator notices (the pixel is left on the init color).
		println("fatal:", err.Error())
		for {
			time.Sleep(time.Second)
		}
	}
}

// hwWatchdog adapts the RP2 hardware watchdog. Once started it cannot
// be stopped; only Update staves off the reset.
type hwWatchdog struct{}

func (hwWatchdog) Enable(timeoutMS uint32) uint32 {
	_ = machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: timeoutMS})
	_ = machine.Watchdog.Start()
	return timeoutMS
}

func (hwWatchdog) Reset() { machine.Watchdog.Update() }
