package logger

import (
	"time"

	"sensorlog-go/drivers/sht4x"
	"sensorlog-go/drivers/statuspixel"
	"sensorlog-go/x/fmtx"
)

// measureOnDemand is the gated measurement loop: only 'u' acts, every
// other byte is silently ignored. The loop is terminal for the session;
// a stuck sensor starves the watchdog and the resulting hardware reset
// is the recovery path.
func (s *Session) measureOnDemand() error {
	for {
		b, err := s.readByte()
		if err != nil {
			return err
		}
		if b != 'u' {
			continue
		}
		s.measureOnce()
	}
}

// measureContinuous is the legacy free-running variant: fixed cadence,
// no command parsing, no watchdog. Stray input is drained and ignored;
// a closed console ends the session.
func (s *Session) measureContinuous() error {
	interval := time.Duration(s.intervalS) * time.Second
	for {
		s.measureOnce()
		for s.con.Buffered() > 0 {
			if _, err := s.con.ReadByte(); err != nil {
				return err
			}
		}
		s.clk.Sleep(interval)
	}
}

// measureOnce performs one measurement transaction and emits one CSV
// line. On failure the watchdog is deliberately not serviced: repeated
// failures are presumed a fault condition warranting a hard reset.
func (s *Session) measureOnce() {
	var sm sht4x.Sample
	if err := s.sensor.Read(&sm); err != nil {
		s.show(statuspixel.Error)
		s.printLine(msgSensorFault)
		return
	}
	s.show(statuspixel.Measuring)
	fmtx.Fprintf(s.con, "0x%s, %d, %s, %s\r\n",
		s.serialHex(), s.clk.NowMs()-s.startMS,
		formatFloat(sm.Celsius()), formatFloat(sm.RelHumidity()))
	s.show(statuspixel.Off)
	if s.wdtArmed {
		s.wdt.Reset()
	}
}
