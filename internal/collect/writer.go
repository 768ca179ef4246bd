package collect

import (
	"bufio"
	"fmt"
	"os"
	"time"
)

// CSVWriter appends records to a CSV file through a buffer that is
// flushed at a regular interval, so a pulled cable loses at most one
// interval of data.
type CSVWriter struct {
	f             *os.File
	w             *bufio.Writer
	flushInterval time.Duration
	lastFlush     time.Time
}

// NewCSVWriter creates the file, writes the header and arms the flush
// timer. flushInterval <= 0 defaults to 5s.
func NewCSVWriter(path string, flushInterval time.Duration) (*CSVWriter, error) {
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &CSVWriter{
		f:             f,
		w:             bufio.NewWriter(f),
		flushInterval: flushInterval,
		lastFlush:     time.Now(),
	}
	if _, err := w.w.WriteString("serial,elapsed_ms,temperature_c,humidity_rh\n"); err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// Append writes one record and flushes if the interval has passed.
func (w *CSVWriter) Append(rec Record) error {
	_, err := fmt.Fprintf(w.w, "%s,%d,%.2f,%.2f\n", rec.Serial, rec.ElapsedMS, rec.TempC, rec.Humidity)
	if err != nil {
		return err
	}
	if time.Since(w.lastFlush) >= w.flushInterval {
		w.lastFlush = time.Now()
		return w.w.Flush()
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *CSVWriter) Close() error {
	if err := w.w.Flush(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}
