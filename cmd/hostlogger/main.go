// Command hostlogger runs the logging session on a Linux host (e.g. a
// Raspberry Pi) against a real SHT4x on an I2C bus, with stdin/stdout
// standing in for the serial console. The periph bus type satisfies the
// driver's I2C interface directly, so no shim is needed.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"sensorlog-go/drivers/sht4x"
	"sensorlog-go/internal/hostio"
	"sensorlog-go/logger"
	"sensorlog-go/x/timex"
)

func main() {
	busName := flag.String("bus", "", "I2C bus name or number (empty = first available)")
	continuous := flag.Bool("continuous", false, "free-running variant: sample at a fixed cadence, no gating")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		log.Fatalf("host init failed: %v", err)
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		log.Fatalf("opening I2C bus %q: %v", *busName, err)
	}
	defer bus.Close()

	sensor := sht4x.New(bus)
	sensor.Configure()

	sess := logger.New(
		logger.Config{Continuous: *continuous},
		hostio.NewConsole(os.Stdin, os.Stdout),
		&sensor,
		&hostio.PixelPrinter{W: os.Stdout},
		hostio.NopWatchdog{},
		timex.SystemClock{},
	)

	if err := sess.Run(); err != nil && err != io.EOF {
		log.Fatal(err)
	}
}
