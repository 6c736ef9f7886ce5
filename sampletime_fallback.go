package freqlat

import "time"

var processStart = time.Now()

// monotonicFallback derives nanoseconds from the monotonic reading embedded in time.Time.
func monotonicFallback() TimeStamp {
	return time.Since(processStart).Nanoseconds()
}
