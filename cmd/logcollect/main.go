// Command logcollect aggregates measurements from one or more logger
// devices into a timestamped CSV file. It speaks the firmware's serial
// protocol: 'n' for the identity, 's' to start a session, then a 'u'
// request per device per interval.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/goburrow/serial"

	"sensorlog-go/internal/collect"
)

func main() {
	cfgPath := flag.String("config", "logcollect.yaml", "path to the collector config")
	flag.Parse()

	cfg, err := collect.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Open and identify every device
	// --------------------

	var devices []*collect.Device
	for _, pc := range cfg.Collector.Ports {
		port, err := serial.Open(&serial.Config{
			Address:  pc.Device,
			BaudRate: pc.Baud,
			DataBits: 8,
			StopBits: 1,
			Parity:   "N",
			Timeout:  500 * time.Millisecond,
		})
		if err != nil {
			log.Printf("skipping %s: %v", pc.Device, err)
			continue
		}
		defer port.Close()

		dev := collect.NewDevice(port)
		dev.Warn = func(msg string) { log.Printf("%s: %s", pc.Device, msg) }
		if err := dev.Handshake(); err != nil {
			log.Printf("skipping %s: handshake failed: %v", pc.Device, err)
			continue
		}
		log.Printf("opened %s, serial number: %s", pc.Device, dev.Serial)
		devices = append(devices, dev)
	}
	if len(devices) == 0 {
		log.Fatal("no devices could be opened")
	}

	// --------------------
	// Collect until interrupted
	// --------------------

	outPath := cfg.Collector.Output + "_" + collect.Timestamp(time.Now()) + ".csv"
	writer, err := collect.NewCSVWriter(outPath, 5*time.Second)
	if err != nil {
		log.Fatalf("creating %s: %v", outPath, err)
	}
	defer writer.Close()
	log.Printf("logging to %s, every %d s", outPath, cfg.Collector.IntervalS)

	tick := time.NewTicker(time.Duration(cfg.Collector.IntervalS) * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Print("stopping")
			return
		case <-tick.C:
			for _, dev := range devices {
				if err := dev.Request(); err != nil {
					log.Printf("%s: request failed: %v", dev.Serial, err)
					continue
				}
				rec, err := dev.Next()
				if err != nil {
					// Port quiet this tick; the firmware may still be
					// converting. The next tick picks it up.
					continue
				}
				if err := writer.Append(rec); err != nil {
					log.Printf("write failed: %v", err)
				}
			}
		}
	}
}
