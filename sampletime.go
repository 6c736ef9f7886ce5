package freqlat

import (
	"math"
	"time"
)

const iterationsForCallibration = 10_000_000

// A relative TimeStamp in nanoseconds from a monotonic source.
// The values aren't comparable between computer restarts or between computers.
// They are only comparable on the same computer between two calls to SampleTime() within the same runtime of a program.
type TimeStamp = int64

var (
	// precision holds the precision of time measurements obtained via SampleTime() on the runtime system in nanoseconds.
	precision = int64(-1)
)

// Returns the precision of time measurements obtained via SampleTime() on the runtime system in nanoseconds.
// Typically between 20ns and 100ns on Linux and MacOS systems, 100ns on Windows.
// A sample window should be a few hundred times larger than this value.
func SampleTimePrecision() int64 {
	if precision == int64(-1) {
		precision = calcMinTimeSample(SampleTime)
	}
	return precision
}

func calcMinTimeSample(clock func() TimeStamp) int64 {
	var minDiff = int64(math.MaxInt64) // initial large value
	for range iterationsForCallibration {
		t1 := clock()
		t2 := clock()
		diff := DiffTimeStamps(t1, t2)
		if diff > 0 && diff < minDiff {
			minDiff = diff
		}
	}
	return minDiff
}

// Retruns the difference between two timestamps in nanoseconds.
// The function assumes that t_later is later than t_earlier and will return a negative value if this is not the case.
func DiffTimeStamps(t_earlier, t_later TimeStamp) int64 {
	return t_later - t_earlier
}

// spinFor busy-waits on clock until at least window has elapsed since start and
// returns the timestamp that ended the wait. It never sleeps: a sleeping
// thread may be descheduled or migrated and the cycle count would be wrong.
func spinFor(clock func() TimeStamp, start TimeStamp, window time.Duration) TimeStamp {
	limit := window.Nanoseconds()
	for {
		now := clock()
		if DiffTimeStamps(start, now) >= limit {
			return now
		}
	}
}
