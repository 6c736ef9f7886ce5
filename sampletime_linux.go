//go:build linux

package freqlat

import "golang.org/x/sys/unix"

// SampleTime returns a CLOCK_MONOTONIC timestamp in nanoseconds.
func SampleTime() TimeStamp {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return monotonicFallback()
	}
	return ts.Nano()
}
