package logger

import "sensorlog-go/x/strconvx"

// readByte blocks until a byte arrives, polling in short sleeps. This is
// the only suspension point outside the decontamination and measurement
// loops. An error means the console is closed.
func (s *Session) readByte() (byte, error) {
	if s.pending >= 0 {
		b := byte(s.pending)
		s.pending = -1
		return b, nil
	}
	for {
		if s.con.Buffered() > 0 {
			return s.con.ReadByte()
		}
		s.clk.Sleep(pollDelay)
	}
}

// parseArg consumes an optional non-negative integer following a command
// byte. A short grace wait first lets the host push the rest of the line.
// Only digits and surrounding whitespace are consumed; the first other
// byte is pushed back so it is seen as the next command. No digits
// yields 0, which every caller maps to its documented default.
func (s *Session) parseArg() int64 {
	s.clk.Sleep(argGrace)

	var digits [12]byte
	n := 0
	for s.con.Buffered() > 0 {
		b, err := s.con.ReadByte()
		if err != nil {
			break
		}
		if b == ' ' && n == 0 {
			continue
		}
		if b >= '0' && b <= '9' {
			if n < len(digits) {
				digits[n] = b
				n++
			}
			continue
		}
		if b != ' ' && b != '\r' && b != '\n' && b != '\t' {
			s.pending = int16(b)
		}
		break
	}
	if n == 0 {
		return 0
	}
	v, err := strconvx.ParseInt(string(digits[:n]), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
