package freqlat

import "fmt"

// Frequency is a CPU frequency in kHz, the unit cpufreq uses in sysfs.
type Frequency uint64

// String formats f with the largest unit that keeps it at least 1.
func (f Frequency) String() string {
	switch {
	case f >= 1_000_000:
		return fmt.Sprintf("%.2f GHz", float64(f)/1e6)
	case f >= 1_000:
		return fmt.Sprintf("%.2f MHz", float64(f)/1e3)
	default:
		return fmt.Sprintf("%d kHz", uint64(f))
	}
}

// Within reports whether f/target lies strictly inside (1-tolerance, 1+tolerance).
func (f Frequency) Within(target Frequency, tolerance float64) bool {
	if target == 0 {
		return false
	}
	ratio := float64(f) / float64(target)
	return ratio > 1-tolerance && ratio < 1+tolerance
}
