package freqlat

import (
	"fmt"
	"io"
	"sync"
)

// CounterSentinel is the all-ones value a failed cycle read used to report.
// A reader returning it is treated as unavailable, never as a count.
const CounterSentinel = ^uint64(0)

// CycleReader reads a free-running count of executed CPU cycles.
type CycleReader interface {
	ReadCycles() (uint64, error)
}

// CycleOpener creates a CycleReader. It is called at most once per Counter.
type CycleOpener func() (CycleReader, error)

// Counter is the shared hardware cycle counter handle. It is opened on the
// first read and reused for the rest of the process; a failed open is
// remembered and reported by every subsequent read.
//
// A perf based counter counts the OS thread that opened it. Callers must lock
// the measuring goroutine to its thread (see PinToCore) before the first read.
// Counter is not meant for concurrent measurements: two goroutines sampling
// the same counter measure each other's windows.
type Counter struct {
	open   CycleOpener
	once   sync.Once
	reader CycleReader
	err    error
	opens  int
}

// NewCounter returns a Counter that opens its reader lazily with open.
func NewCounter(open CycleOpener) *Counter {
	if open == nil {
		panic("freqlat: cycle opener cannot be nil")
	}
	return &Counter{open: open}
}

// NewHardwareCounter returns a Counter backed by the platform's CPU cycle counter.
func NewHardwareCounter() *Counter {
	return NewCounter(OpenCycleCounter)
}

func (c *Counter) ensure() error {
	c.once.Do(func() {
		c.opens++
		r, err := c.open()
		if err == nil && r == nil {
			err = fmt.Errorf("cycle opener returned nil reader")
		}
		if err != nil {
			c.err = fmt.Errorf("%w: %w", ErrCounterUnavailable, err)
			return
		}
		c.reader = r
	})
	return c.err
}

// Read returns the current cycle count. Any failure, including a reader
// that yields CounterSentinel, is reported as ErrCounterUnavailable.
func (c *Counter) Read() (uint64, error) {
	if err := c.ensure(); err != nil {
		return 0, err
	}
	v, err := c.reader.ReadCycles()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCounterUnavailable, err)
	}
	if v == CounterSentinel {
		return 0, fmt.Errorf("%w: read returned sentinel", ErrCounterUnavailable)
	}
	return v, nil
}

// Available opens the counter if needed and reports whether it can be read.
func (c *Counter) Available() error {
	return c.ensure()
}

// Close releases the underlying reader if it implements io.Closer.
// It is meant for process shutdown; the Counter is unusable afterwards.
func (c *Counter) Close() error {
	c.once.Do(func() {})
	r := c.reader
	c.reader = nil
	c.err = fmt.Errorf("%w: closed", ErrCounterUnavailable)
	if cl, ok := r.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
