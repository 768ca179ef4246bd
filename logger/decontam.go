package logger

import (
	"sensorlog-go/drivers/sht4x"
	"sensorlog-go/drivers/statuspixel"
	"sensorlog-go/x/fmtx"
)

// decontaminate runs the high-power heater until the deadline, emitting a
// status line roughly every 5 s. A single failed read aborts the whole
// cycle: the heater pulse is self-timed inside the sensor, so breaking
// out never leaves it running.
func (s *Session) decontaminate(durationMS int64) {
	if durationMS <= 0 {
		durationMS = s.cfg.DefaultDecontamMS
		s.printLine("# Invalid decontamination interval, using default (30 min)...")
	}
	fmtx.Fprintf(s.con, "# Starting %d ms decontamination heater...\r\n", durationMS)

	deadline := s.clk.NowMs() + durationMS
	s.show(statuspixel.Decontam)

	var sm sht4x.Sample
	for s.clk.NowMs() < deadline {
		if err := s.sensor.HeatAndRead(sht4x.Power200mW, sht4x.Pulse1s, &sm); err != nil {
			s.show(statuspixel.Error)
			s.printLine(msgDecontamFault)
			break
		}
		countdown := deadline - s.clk.NowMs()
		if countdown%statusIntervalMS < 1000 {
			fmtx.Fprintf(s.con, "Decontaminating: T=%s°C, RH=%s%%, %d ms left\r\n",
				formatFloat(sm.Celsius()), formatFloat(sm.RelHumidity()), countdown)
		}
	}

	s.printLine(msgDecontamComplete)
	s.printLine(HelpLine)
	s.show(statuspixel.Ready)
}
