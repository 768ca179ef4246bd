// Package sht4x provides a driver for the Sensirion SHT40/SHT41/SHT45
// temperature/humidity sensors. It exposes a two-phase measurement API:
//
//	d.Trigger()              // start a measurement (fast)
//	err := d.Collect(&s)     // fetch when ready; returns ErrNotReady while busy
//
// For convenience, d.Read() performs trigger + bounded polling until ready.
// HeatAndRead() does the same for a single heater pulse; the heater on this
// part is self-timed and switches off after the commanded duration.
//
// The SHT4x has no status register: a read while a conversion is in flight
// is NACKed, which this driver reports as ErrNotReady.
package sht4x

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// I2C address.
const Address = 0x44

// Commands (per datasheet). Each is a single byte write; every reply is
// 2 bytes data + CRC, twice (temperature word, then humidity word).
const (
	cmdMeasureHigh   = 0xFD
	cmdMeasureMedium = 0xF6
	cmdMeasureLow    = 0xE0

	cmdReadSerial = 0x89
	cmdSoftReset  = 0x94

	cmdHeater200mW1s    = 0x39
	cmdHeater200mW100ms = 0x32
	cmdHeater110mW1s    = 0x2F
	cmdHeater110mW100ms = 0x24
	cmdHeater20mW1s     = 0x1E
	cmdHeater20mW100ms  = 0x15
)

// HeaterPower selects the heater element power level.
type HeaterPower uint8

const (
	Power20mW HeaterPower = iota
	Power110mW
	Power200mW
)

// HeaterDuration selects how long the heater stays on for one pulse.
// The sensor times the pulse itself.
type HeaterDuration uint8

const (
	Pulse100ms HeaterDuration = iota
	Pulse1s
)

// Errors returned by the driver.
var (
	ErrTimeout  = errors.New("sht4x: timeout")
	ErrNotReady = errors.New("sht4x: not ready")
	ErrCRC      = errors.New("sht4x: crc mismatch")
	ErrInvalid  = errors.New("sht4x: invalid heater setting")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x44 if zero.
	Address uint16
	// PollInterval is used between Collect() attempts while ErrNotReady.
	// Default 10 ms.
	PollInterval time.Duration
	// SettleTime is the wait after Trigger before the first Collect in
	// Read(). The high-precision conversion needs at most 8.3 ms.
	// Default 10 ms.
	SettleTime time.Duration
	// HeaterSettle is the wait after a 1 s heater pulse before polling.
	// The heated conversion completes within 1.10 s. Default 800 ms.
	HeaterSettle time.Duration
	// CollectTimeout bounds the polling phase in Read and HeatAndRead,
	// measured from the end of the settle wait. Default 1 s.
	CollectTimeout time.Duration
	// Sleep and Now may be replaced in tests to avoid real delays.
	Sleep func(time.Duration)
	Now   func() time.Time
}

// Device wraps an I2C connection to an SHT4x sensor.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg Config
	buf [6]byte // reuse buffer to avoid allocations
}

// New creates a new SHT4x connection. The I2C bus must already be configured.
// This function only creates the Device object; it does not touch the device.
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: Address,
	}
}

// Configure applies optional config and fills in defaults. It may be called
// with no cfg; the driver self-configures on first use otherwise.
func (d *Device) Configure(cfgs ...Config) {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Address != 0 {
		d.Address = c.Address
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 10 * time.Millisecond
	}
	if c.SettleTime <= 0 {
		c.SettleTime = 10 * time.Millisecond
	}
	if c.HeaterSettle <= 0 {
		c.HeaterSettle = 800 * time.Millisecond
	}
	if c.CollectTimeout <= 0 {
		c.CollectTimeout = time.Second
	}
	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	d.cfg = c
}

func (d *Device) ensureConfigured() {
	if d.cfg.PollInterval == 0 {
		d.Configure()
	}
}

// Reset issues a soft reset. The device is ready again within ~1 ms.
func (d *Device) Reset() error {
	d.ensureConfigured()
	if err := d.bus.Tx(d.Address, []byte{cmdSoftReset}, nil); err != nil {
		return err
	}
	d.cfg.Sleep(2 * time.Millisecond)
	return nil
}

// Trigger starts a high-precision measurement. It is a quick single-byte
// write with no blocking; the conversion runs inside the sensor.
func (d *Device) Trigger() error {
	d.ensureConfigured()
	return d.bus.Tx(d.Address, []byte{cmdMeasureHigh}, nil)
}

// TriggerHeater starts one self-timed heater pulse followed by a
// high-precision measurement.
func (d *Device) TriggerHeater(power HeaterPower, dur HeaterDuration) error {
	d.ensureConfigured()
	cmd, err := heaterCmd(power, dur)
	if err != nil {
		return err
	}
	return d.bus.Tx(d.Address, []byte{cmd}, nil)
}

func heaterCmd(power HeaterPower, dur HeaterDuration) (byte, error) {
	switch dur {
	case Pulse100ms:
		switch power {
		case Power20mW:
			return cmdHeater20mW100ms, nil
		case Power110mW:
			return cmdHeater110mW100ms, nil
		case Power200mW:
			return cmdHeater200mW100ms, nil
		}
	case Pulse1s:
		switch power {
		case Power20mW:
			return cmdHeater20mW1s, nil
		case Power110mW:
			return cmdHeater110mW1s, nil
		case Power200mW:
			return cmdHeater200mW1s, nil
		}
	}
	return 0, ErrInvalid
}

// Collect attempts to read one measurement into the provided sample.
// If the sensor is still converting it NACKs the read; that is returned
// as ErrNotReady. A reply failing its CRC check returns ErrCRC.
func (d *Device) Collect(out *Sample) error {
	d.ensureConfigured()
	data := d.buf[:]
	if err := d.bus.Tx(d.Address, nil, data); err != nil {
		return ErrNotReady
	}
	if crc8(data[:2]) != data[2] || crc8(data[3:5]) != data[5] {
		return ErrCRC
	}
	if out != nil {
		out.RawTemp = uint16(data[0])<<8 | uint16(data[1])
		out.RawHumidity = uint16(data[3])<<8 | uint16(data[4])
	}
	return nil
}

// Read performs a full measurement cycle: Trigger, settle wait, then bounded
// polling until Collect succeeds or CollectTimeout elapses.
func (d *Device) Read(out *Sample) error {
	d.ensureConfigured()
	if err := d.Trigger(); err != nil {
		return err
	}
	return d.settleAndCollect(d.cfg.SettleTime, out)
}

// HeatAndRead runs one full-power heater pulse and reads the measurement
// taken while heating. The pulse itself lasts about a second; a fixed
// settle wait precedes the bounded poll so that at most a couple of
// NACKed reads hit the bus per pulse.
func (d *Device) HeatAndRead(power HeaterPower, dur HeaterDuration, out *Sample) error {
	d.ensureConfigured()
	if err := d.TriggerHeater(power, dur); err != nil {
		return err
	}
	settle := d.cfg.HeaterSettle
	if dur == Pulse100ms {
		settle = 100 * time.Millisecond
	}
	return d.settleAndCollect(settle, out)
}

func (d *Device) settleAndCollect(settle time.Duration, out *Sample) error {
	d.cfg.Sleep(settle)
	deadline := d.cfg.Now().Add(d.cfg.CollectTimeout)
	for {
		err := d.Collect(out)
		switch err {
		case nil:
			return nil
		case ErrNotReady:
			if d.cfg.Now().After(deadline) {
				return ErrTimeout
			}
			d.cfg.Sleep(d.cfg.PollInterval)
			continue
		default:
			return err
		}
	}
}

// SerialNumber returns the factory-programmed serial number. The value is
// stable across resets and unique per part.
func (d *Device) SerialNumber() (uint32, error) {
	d.ensureConfigured()
	if err := d.bus.Tx(d.Address, []byte{cmdReadSerial}, nil); err != nil {
		return 0, err
	}
	d.cfg.Sleep(time.Millisecond)
	data := d.buf[:]
	if err := d.bus.Tx(d.Address, nil, data); err != nil {
		return 0, err
	}
	if crc8(data[:2]) != data[2] || crc8(data[3:5]) != data[5] {
		return 0, ErrCRC
	}
	sn := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[3])<<8 | uint32(data[4])
	return sn, nil
}

// Sample holds one raw measurement: 16-bit temperature and humidity ticks.
type Sample struct {
	RawTemp     uint16
	RawHumidity uint16
}

// Celsius converts temperature ticks: T = -45 + 175*t/65535.
func (s Sample) Celsius() float32 {
	return -45 + 175*(float32(s.RawTemp)/65535)
}

// RelHumidity converts humidity ticks: RH = -6 + 125*h/65535.
// The result is not clamped; readings slightly outside 0..100 are
// possible near the range ends and are reported as-is.
func (s Sample) RelHumidity() float32 {
	return -6 + 125*(float32(s.RawHumidity)/65535)
}

// Fixed-point conversions in tenths of units, for callers that avoid
// floating point on the hot path.

func (s Sample) DeciCelsius() int32 {
	return -450 + (1750*int32(s.RawTemp))/65535
}

func (s Sample) DeciRelHumidity() int32 {
	return -60 + (1250*int32(s.RawHumidity))/65535
}
