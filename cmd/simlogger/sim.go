package main

// Simulated SHT4x on a fake I2C bus. Values drift in a slow triangle
// around room conditions; heater pulses add a visible bump.

const (
	simCmdMeasure    = 0xFD
	simCmdSerial     = 0x89
	simCmdReset      = 0x94
	simHeaterLow1s   = 0x1E
	simHeaterMid1s   = 0x2F
	simHeaterHigh1s  = 0x39
	simHeaterLow100  = 0x15
	simHeaterMid100  = 0x24
	simHeaterHigh100 = 0x32
)

type simSensor struct {
	serial uint32
	flaky  bool

	lastCmd byte
	step    uint16
	txCount int
	heated  bool
}

func (s *simSensor) Tx(addr uint16, w, r []byte) error {
	if len(w) == 1 {
		s.lastCmd = w[0]
		switch w[0] {
		case simHeaterLow1s, simHeaterMid1s, simHeaterHigh1s,
			simHeaterLow100, simHeaterMid100, simHeaterHigh100:
			s.heated = true
		case simCmdReset:
			s.heated = false
		}
		return nil
	}
	if len(w) == 0 && len(r) == 6 {
		s.txCount++
		if s.flaky && s.txCount%4 == 0 {
			return errSimNACK
		}
		if s.lastCmd == simCmdSerial {
			fill(r, uint16(s.serial>>16), uint16(s.serial))
			return nil
		}
		s.step += 97 // slow drift, wraps naturally
		traw := uint16(0x6000) + s.step/4
		hraw := uint16(0x7000) - s.step/8
		if s.heated {
			traw += 0x0800 // a few degrees of heater bump
			s.heated = false
		}
		fill(r, traw, hraw)
		return nil
	}
	return errSimNACK
}

func fill(r []byte, a, b uint16) {
	r[0], r[1] = byte(a>>8), byte(a)
	r[2] = simCRC8(r[:2])
	r[3], r[4] = byte(b>>8), byte(b)
	r[5] = simCRC8(r[3:5])
}

func simCRC8(data []byte) byte {
	var crc byte = 0xFF
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 == 0 {
				crc <<= 1
			} else {
				crc = (crc << 1) ^ 0x31
			}
		}
	}
	return crc
}

type simError string

func (e simError) Error() string { return string(e) }

const errSimNACK = simError("sim: no ack")
