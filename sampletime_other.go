//go:build !linux && !windows

package freqlat

// SampleTime returns a monotonic timestamp in nanoseconds.
// Please note that the call to this function does NOT have constant runtime on these systems.
func SampleTime() TimeStamp {
	return monotonicFallback()
}
