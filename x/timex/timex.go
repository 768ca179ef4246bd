package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}

// Clock abstracts time for code built around blocking polls, so tests can
// advance time without real delays.
type Clock interface {
	NowMs() int64
	Sleep(d time.Duration)
}

// SystemClock is the real thing.
type SystemClock struct{}

func (SystemClock) NowMs() int64          { return NowMs() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// StepClock advances only when something sleeps. Zero value starts at 0 ms.
type StepClock struct {
	MS int64
}

func (c *StepClock) NowMs() int64          { return c.MS }
func (c *StepClock) Sleep(d time.Duration) { c.MS += d.Milliseconds() }

// Advance moves the clock forward without a sleep.
func (c *StepClock) Advance(d time.Duration) { c.MS += d.Milliseconds() }
