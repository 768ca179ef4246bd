// Command simlogger runs the full logging session over stdin/stdout
// against a simulated SHT4x, so the serial protocol can be exercised
// (and host tooling developed) without any hardware attached.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"sensorlog-go/drivers/sht4x"
	"sensorlog-go/internal/hostio"
	"sensorlog-go/logger"
	"sensorlog-go/x/timex"
)

func main() {
	serial := flag.Uint64("serial", 0xF030D05B, "simulated device identity")
	continuous := flag.Bool("continuous", false, "free-running variant")
	flaky := flag.Bool("flaky", false, "fail every 4th sensor read")
	flag.Parse()

	sensor := sht4x.New(&simSensor{serial: uint32(*serial), flaky: *flaky})
	sensor.Configure(sht4x.Config{
		// The simulated part answers instantly; skip the real settle
		// waits so interactive use feels responsive.
		SettleTime:   1,
		HeaterSettle: 1,
	})

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
