// Package logger implements the control loop of the SHT4x logging
// firmware: a single-threaded state machine that multiplexes command
// parsing from the serial console, sensor transactions, watchdog
// servicing and status signalling over the RGB pixel.
//
// Everything is strictly sequential; all blocking is short-sleep polling
// through an injectable clock, so the whole machine runs against fakes
// in tests without real delays.
package logger

import (
	"time"

	"sensorlog-go/drivers/sht4x"
	"sensorlog-go/drivers/statuspixel"
	"sensorlog-go/errcode"
	"sensorlog-go/x/conv"
	"sensorlog-go/x/fmtx"
	"sensorlog-go/x/mathx"
	"sensorlog-go/x/strconvx"
	"sensorlog-go/x/timex"
)

// HelpLine is re-emitted after every completed command and on any
// unrecognized byte. Host tooling matches it verbatim.
const HelpLine = "Send 's' to start measurement, 'n' to get serial number, 'h' for decontamination."

const (
	defaultWatchdogMS   = 60_000
	defaultDecontamMS   = 30 * 60 * 1000
	defaultSampleS      = 1
	statusIntervalMS    = 5000
	pollDelay           = 10 * time.Millisecond
	argGrace            = time.Second
	csvHeaderRule       = "#=========================#"
	csvHeaderLine       = "# sht4SerialNumber, timestamp, temperature (degrees C), humidity (% rH)"
	msgSensorFault      = "Error reading from sensor, retrying..."
	msgDecontamFault    = "Error reading from sensor, abort..."
	msgDecontamComplete = "# Decontamination complete"
)

// Console is a byte-oriented serial console, shaped like the uartx /
// machine.Serial surface. ReadByte returns an error only when the
// console is gone for good (host EOF); "nothing to read yet" is
// signalled by Buffered() == 0.
type Console interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// Watchdog arms and services the hardware watchdog. Enable returns the
// countdown actually configured by the hardware.
type Watchdog interface {
	Enable(timeoutMS uint32) uint32
	Reset()
}

// Sensor is the slice of the sht4x driver the state machine needs.
// *sht4x.Device satisfies it.
type Sensor interface {
	Reset() error
	SerialNumber() (uint32, error)
	Read(out *sht4x.Sample) error
	HeatAndRead(power sht4x.HeaterPower, dur sht4x.HeaterDuration, out *sht4x.Sample) error
}

// Config selects the firmware variant and its timing parameters.
// Zero values pick the documented defaults.
type Config struct {
	// Continuous selects the legacy free-running variant: after 's' the
	// session samples at a fixed cadence with no gating and no watchdog.
	Continuous bool
	// SampleIntervalS paces the continuous variant, in seconds.
	SampleIntervalS int
	// WatchdogTimeoutMS is the countdown armed on entry to measurement
	// mode in the gated variant.
	WatchdogTimeoutMS uint32
	// DefaultDecontamMS substitutes a missing or zero 'h' argument.
	DefaultDecontamMS int64
}

func (c *Config) setDefaults() {
	if c.SampleIntervalS <= 0 {
		c.SampleIntervalS = defaultSampleS
	}
	if c.WatchdogTimeoutMS == 0 {
		c.WatchdogTimeoutMS = defaultWatchdogMS
	}
	if c.DefaultDecontamMS <= 0 {
		c.DefaultDecontamMS = defaultDecontamMS
	}
}

// Session owns all mutable state of one controller instance. Nothing is
// shared: whichever mode is active owns the bus, the console and the
// pixel outright.
type Session struct {
	cfg    Config
	con    Console
	sensor Sensor
	pixel  statuspixel.Device
	wdt    Watchdog
	clk    timex.Clock

	serial    uint32 // device identity, read once at init
	startMS   int64  // measurement-mode entry, base for elapsed field
	intervalS int    // accepted 's' argument
	wdtArmed  bool
	pending   int16 // one byte of parser pushback, -1 when empty
}

// New wires a session. All collaborators are required; pass
// timex.SystemClock{} outside of tests.
func New(cfg Config, con Console, sensor Sensor, pixel statuspixel.Device, wdt Watchdog, clk timex.Clock) *Session {
	cfg.setDefaults()
	return &Session{cfg: cfg, con: con, sensor: sensor, pixel: pixel, wdt: wdt, clk: clk, pending: -1}
}

// Serial returns the cached device identity.
func (s *Session) Serial() uint32 { return s.serial }

// Run drives the whole session: init, command dispatch, then the
// measurement loop. It returns only when the console closes (host
// builds) or the sensor is absent at startup; firmware mains treat a
// non-nil return as fail-stop.
func (s *Session) Run() error {
	s.show(statuspixel.Init)
	s.printLine("# Adafruit SHT41")

	if err := s.probe(); err != nil {
		s.printLine("# Couldn't find SHT4x")
		return &errcode.E{C: errcode.SensorMissing, Op: "init", Err: err}
	}
	s.printLine("# Found SHT4x sensor")
	fmtx.Fprintf(s.con, "# Serial number: 0x%s\r\n", s.serialHex())
	s.printLine(HelpLine)
	s.show(statuspixel.Ready)

	for {
		b, err := s.readByte()
		if err != nil {
			return err
		}
		switch b {
		case 'n':
			fmtx.Fprintf(s.con, "0x%s\r\n", s.serialHex())
		case 'h':
			s.decontaminate(s.parseArg())
		case 's':
			s.startMeasuring(s.parseArg())
			if s.cfg.Continuous {
				return s.measureContinuous()
			}
			return s.measureOnDemand()
		default:
			s.printLine(HelpLine)
		}
	}
}

// probe verifies sensor presence and caches the device identity.
func (s *Session) probe() error {
	if err := s.sensor.Reset(); err != nil {
		return err
	}
	sn, err := s.sensor.SerialNumber()
	if err != nil {
		return err
	}
	s.serial = sn
	return nil
}

// startMeasuring applies the interval argument, arms the watchdog in the
// gated variant and emits the CSV preamble. The elapsed-time field of
// every data line is measured from here.
func (s *Session) startMeasuring(arg int64) {
	if arg <= 0 {
		fmtx.Fprintf(s.con, "# Invalid sample interval, using default (%d s)...\r\n", s.cfg.SampleIntervalS)
	} else {
		s.cfg.SampleIntervalS = mathx.Clamp(int(arg), 1, 86_400)
	}
	s.intervalS = s.cfg.SampleIntervalS
	fmtx.Fprintf(s.con, "# Sample interval: %d ms\r\n", int64(s.intervalS)*1000)

	if !s.cfg.Continuous {
		actual := s.wdt.Enable(s.cfg.WatchdogTimeoutMS)
		s.wdtArmed = true
		fmtx.Fprintf(s.con, "Enabled the watchdog with max countdown of %d milliseconds!\r\n", actual)
	}
	s.startMS = s.clk.NowMs()
	s.printLine(csvHeaderRule)
	s.printLine(csvHeaderLine)
}

// serialHex formats the identity as 8 uppercase hex digits. The fixed
// width keeps the key stable for downstream log alignment.
func (s *Session) serialHex() string {
	var buf [8]byte
	return string(conv.U32Hex(buf[:], s.serial))
}

func (s *Session) show(c statuspixel.Color) {
	s.pixel.Set(c)
	_ = s.pixel.Show()
}

func (s *Session) printLine(line string) {
	_, _ = s.con.Write([]byte(line))
	_, _ = s.con.Write([]byte("\r\n"))
}

func formatFloat(f float32) string {
	return strconvx.FormatFloat(float64(f), 'f', 2, 32)
}
