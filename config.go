package freqlat

import (
	"fmt"
	"io"
	"os"
	"time"
)

const (
	// DefaultSampleWindow is the wall-clock length of one cycle-counting window.
	DefaultSampleWindow = 20 * time.Microsecond
	// DefaultTolerance is the relative band around the target accepted as reached.
	DefaultTolerance = 0.05
	// DefaultProgressInterval is how many non-matching iterations pass between progress lines.
	DefaultProgressInterval = 1000
)

// Config holds configuration for a Detector. The zero value is usable and
// yields the classic behaviour: 20µs windows, ±5% tolerance, no iteration
// limit and progress lines on stdout.
type Config struct {
	// SampleWindow must divide one millisecond evenly, so that the scale factor
	// from cycles per window to kHz is an integer.
	SampleWindow time.Duration
	// Tolerance is the half-width of the open band around the target ratio 1.0.
	Tolerance float64
	// MaxIterations bounds WaitUntilFrequency; 0 waits until the target is reached.
	MaxIterations uint64
	// ProgressInterval controls how often a non-matching wait reports progress.
	ProgressInterval uint64
	// Diagnostics receives progress lines. Defaults to os.Stdout.
	Diagnostics io.Writer
	// Clock is the monotonic time source used to delimit sample windows.
	Clock func() TimeStamp
	// Current supplies the OS reported frequency for CurrentFrequency.
	Current CurrentFrequencySource
	// Cores is the number of valid core ids. Defaults to CoreCount().
	Cores int
}

func normalizeConfig(cfg Config) Config {
	normalized := cfg

	if normalized.SampleWindow <= 0 {
		normalized.SampleWindow = DefaultSampleWindow
	}
	if normalized.Tolerance == 0 {
		normalized.Tolerance = DefaultTolerance
	}
	if normalized.ProgressInterval == 0 {
		normalized.ProgressInterval = DefaultProgressInterval
	}
	if normalized.Diagnostics == nil {
		normalized.Diagnostics = os.Stdout
	}
	if normalized.Clock == nil {
		normalized.Clock = SampleTime
	}
	if normalized.Current == nil {
		normalized.Current = Sysfs{}
	}
	if normalized.Cores <= 0 {
		normalized.Cores = CoreCount()
	}

	return normalized
}

// windowScale returns the factor turning a cycle delta over window into kHz
// (cycles per millisecond). 20µs yields the classic factor of 50.
func windowScale(window time.Duration) (uint64, error) {
	if window <= 0 || window > time.Millisecond || time.Millisecond%window != 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidSampleWindow, window)
	}
	return uint64(time.Millisecond / window), nil
}
