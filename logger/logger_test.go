package logger

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"sensorlog-go/drivers/sht4x"
	"sensorlog-go/drivers/statuspixel"
	"sensorlog-go/errcode"
	"sensorlog-go/x/timex"
)

// Compile-time checks.
var (
	_ Console = (*scriptConsole)(nil)
	_ Sensor  = (*fakeSensor)(nil)
	_ Sensor  = (*sht4x.Device)(nil)
)

// scriptConsole feeds a fixed byte script and captures all output.
// Once the script is exhausted the console reports closed (host EOF
// semantics), which ends the session loop.
type scriptConsole struct {
	in  []byte
	pos int
	out strings.Builder
}

func (c *scriptConsole) Buffered() int {
	if c.pos >= len(c.in) {
		return 1 // closed: next ReadByte yields io.EOF
	}
	return len(c.in) - c.pos
}

func (c *scriptConsole) ReadByte() (byte, error) {
	if c.pos >= len(c.in) {
		return 0, io.EOF
	}
	b := c.in[c.pos]
	c.pos++
	return b, nil
}

func (c *scriptConsole) Write(p []byte) (int, error) {
	c.out.Write(p)
	return len(p), nil
}

func (c *scriptConsole) lines() []string {
	s := strings.TrimSuffix(c.out.String(), "\r\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\r\n")
}

// fakeSensor advances the simulated clock like the real transactions do:
// ~10 ms per plain read, ~1 s per heater pulse.
type fakeSensor struct {
	clk    *timex.StepClock
	serial uint32
	traw   uint16
	hraw   uint16

	failProbe  bool
	failReads  bool
	heatFailAt int // 1-based pulse index that starts failing; 0 = never

	reads  int
	pulses int
}

func (f *fakeSensor) Reset() error {
	if f.failProbe {
		return errors.New("i2c: no ack")
	}
	return nil
}

func (f *fakeSensor) SerialNumber() (uint32, error) {
	if f.failProbe {
		return 0, errors.New("i2c: no ack")
	}
	return f.serial, nil
}

func (f *fakeSensor) Read(out *sht4x.Sample) error {
	f.reads++
	f.clk.Advance(10 * time.Millisecond)
	if f.failReads {
		return sht4x.ErrTimeout
	}
	out.RawTemp, out.RawHumidity = f.traw, f.hraw
	return nil
}

func (f *fakeSensor) HeatAndRead(_ sht4x.HeaterPower, _ sht4x.HeaterDuration, out *sht4x.Sample) error {
	f.pulses++
	f.clk.Advance(time.Second)
	if f.heatFailAt > 0 && f.pulses >= f.heatFailAt {
		return sht4x.ErrTimeout
	}
	out.RawTemp, out.RawHumidity = f.traw, f.hraw
	return nil
}

type fakeWatchdog struct {
	clk       *timex.StepClock
	timeoutMS uint32
	enabled   bool
	resets    int
	servicedA int64
}

func (w *fakeWatchdog) Enable(t uint32) uint32 {
	w.enabled = true
	w.timeoutMS = t
	w.servicedA = w.clk.MS
	return t
}

func (w *fakeWatchdog) Reset() {
	w.resets++
	w.servicedA = w.clk.MS
}

func (w *fakeWatchdog) expired() bool {
	return w.enabled && w.clk.MS-w.servicedA > int64(w.timeoutMS)
}

type rig struct {
	con *scriptConsole
	sen *fakeSensor
	pix *statuspixel.Recorder
	wdt *fakeWatchdog
	clk *timex.StepClock
	ses *Session
}

func newRig(cfg Config, script string) *rig {
	clk := &timex.StepClock{}
	r := &rig{
		con: &scriptConsole{in: []byte(script)},
		sen: &fakeSensor{clk: clk, serial: 0xF030D05B, traw: 0x8000, hraw: 0x8000},
		pix: &statuspixel.Recorder{},
		wdt: &fakeWatchdog{clk: clk},
		clk: clk,
	}
	r.ses = New(cfg, r.con, r.sen, r.pix, r.wdt, clk)
	return r
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestInitBanner(t *testing.T) {
	r := newRig(Config{}, "")
	err := r.ses.Run()
	if err != io.EOF {
		t.Fatalf("Run = %v, want io.EOF after script end", err)
	}
	want := []string{
		"# Adafruit SHT41",
		"# Found SHT4x sensor",
		"# Serial number: 0xF030D05B",
		HelpLine,
	}
	got := r.con.lines()
	if len(got) != len(want) {
		t.Fatalf("banner = %q, want %d lines", got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if len(r.pix.Shown) != 2 || r.pix.Shown[0] != statuspixel.Init || r.pix.Shown[1] != statuspixel.Ready {
		t.Errorf("pixel sequence = %v, want [Init Ready]", r.pix.Shown)
	}
}

func TestInitSensorMissing(t *testing.T) {
	r := newRig(Config{}, "")
	r.sen.failProbe = true
	err := r.ses.Run()
	if err == nil || errcode.Of(err) != errcode.SensorMissing {
		t.Fatalf("Run = %v, want sensor_missing", err)
	}
	got := r.con.lines()
	if got[len(got)-1] != "# Couldn't find SHT4x" {
		t.Errorf("last line = %q", got[len(got)-1])
	}
	if last := r.pix.Last(); last != statuspixel.Init {
		t.Errorf("pixel left at %#x, want Init (fail-stop before ready)", last)
	}
}

func TestSerialNumberCommand(t *testing.T) {
	// 'n' twice with an unknown byte between: identity is stable and
	// unaffected by prior commands.
	r := newRig(Config{}, "nxn")
	_ = r.ses.Run()
	lines := r.con.lines()
	var ids []string
	for _, l := range lines {
		if l == "0xF030D05B" {
			ids = append(ids, l)
		}
	}
	if len(ids) != 2 {
		t.Fatalf("got %d identity replies in %q, want 2", len(ids), lines)
	}
	// The unknown byte replays the help line (once at startup, once for 'x').
	if n := countPrefix(lines, "Send 's'"); n != 2 {
		t.Errorf("help line printed %d times, want 2", n)
	}
}

func TestStartDefaultInterval(t *testing.T) {
	r := newRig(Config{}, "s")
	_ = r.ses.Run()
	lines := r.con.lines()
	wantIn := []string{
		"# Invalid sample interval, using default (1 s)...",
		"# Sample interval: 1000 ms",
		"Enabled the watchdog with max countdown of 60000 milliseconds!",
		"#=========================#",
		"# sht4SerialNumber, timestamp, temperature (degrees C), humidity (% rH)",
	}
	joined := strings.Join(lines, "\n")
	for _, w := range wantIn {
		if !strings.Contains(joined, w) {
			t.Errorf("output missing %q:\n%s", w, joined)
		}
	}
	if !r.wdt.enabled || r.wdt.timeoutMS != 60000 {
		t.Errorf("watchdog enabled=%t timeout=%d, want armed with 60000", r.wdt.enabled, r.wdt.timeoutMS)
	}
}

func TestStartExplicitInterval(t *testing.T) {
	r := newRig(Config{}, "s 5\n")
	_ = r.ses.Run()
	joined := strings.Join(r.con.lines(), "\n")
	if !strings.Contains(joined, "# Sample interval: 5000 ms") {
		t.Errorf("output missing 5000 ms confirmation:\n%s", joined)
	}
	if strings.Contains(joined, "Invalid sample interval") {
		t.Errorf("explicit interval reported invalid:\n%s", joined)
	}
}

func TestMeasureOnDemandCSV(t *testing.T) {
	const n = 5
	r := newRig(Config{}, "s"+strings.Repeat("u", n))
	_ = r.ses.Run()

	var elapsed []int64
	for _, l := range r.con.lines() {
		if !strings.HasPrefix(l, "0xF030D05B, ") {
			continue
		}
		parts := strings.Split(l, ", ")
		if len(parts) != 4 {
			t.Fatalf("malformed CSV line %q", l)
		}
		var ms int64
		for _, c := range parts[1] {
			ms = ms*10 + int64(c-'0')
		}
		elapsed = append(elapsed, ms)
		if parts[2] != "42.50" || parts[3] != "56.50" {
			t.Errorf("values = %s/%s, want 42.50/56.50", parts[2], parts[3])
		}
	}
	if len(elapsed) != n {
		t.Fatalf("got %d CSV lines, want %d", len(elapsed), n)
	}
	for i := 1; i < len(elapsed); i++ {
		if elapsed[i] < elapsed[i-1] {
			t.Errorf("elapsed not monotonic: %v", elapsed)
		}
	}
	if r.wdt.resets != n {
		t.Errorf("watchdog serviced %d times, want %d", r.wdt.resets, n)
	}
}

func TestMeasureFailureSkipsWatchdog(t *testing.T) {
	r := newRig(Config{}, "suu")
	r.sen.failReads = true
	_ = r.ses.Run()
	lines := r.con.lines()
	if n := countPrefix(lines, "Error reading from sensor, retrying..."); n != 2 {
		t.Errorf("got %d retry notices, want 2", n)
	}
	if n := countPrefix(lines, "0xF030D05B, "); n != 0 {
		t.Errorf("got %d CSV lines on a dead sensor, want 0", n)
	}
	if r.wdt.resets != 0 {
		t.Errorf("watchdog serviced %d times on failures, want 0", r.wdt.resets)
	}
	if r.pix.Last() != statuspixel.Error {
		t.Errorf("pixel = %#x, want Error", r.pix.Last())
	}
}

func TestMeasureModeIgnoresOtherBytes(t *testing.T) {
	r := newRig(Config{}, "snhxu")
	_ = r.ses.Run()
	lines := r.con.lines()
	// 'n', 'h', 'x' in measurement mode produce nothing; only 'u' does.
	if n := countPrefix(lines, "0xF030D05B, "); n != 1 {
		t.Errorf("got %d CSV lines, want 1", n)
	}
	if n := countPrefix(lines, "# Starting"); n != 0 {
		t.Errorf("'h' acted inside measurement mode")
	}
	for _, l := range lines {
		if l == "0xF030D05B" {
			t.Errorf("'n' acted inside measurement mode")
		}
	}
}

func TestWatchdogStarvationThenRestart(t *testing.T) {
	r := newRig(Config{}, "suuu")
	r.sen.failReads = true
	_ = r.ses.Run()
	if r.wdt.expired() {
		t.Fatalf("watchdog expired too early")
	}
	// Nothing services the watchdog while reads keep failing; once the
	// countdown passes, the hardware resets the whole process.
	r.clk.Advance(61 * time.Second)
	if !r.wdt.expired() {
		t.Fatalf("starved watchdog did not expire")
	}
	// A reset re-enters Init: fresh session, banner again.
	r2 := newRig(Config{}, "")
	_ = r2.ses.Run()
	if got := r2.con.lines()[0]; got != "# Adafruit SHT41" {
		t.Errorf("restart banner = %q", got)
	}
}

func TestContinuousVariant(t *testing.T) {
	r := newRig(Config{Continuous: true}, "s")
	_ = r.ses.Run()
	lines := r.con.lines()
	if n := countPrefix(lines, "0xF030D05B, "); n != 1 {
		t.Errorf("got %d CSV lines before console close, want 1", n)
	}
	if r.wdt.enabled {
		t.Errorf("continuous variant armed the watchdog")
	}
}
