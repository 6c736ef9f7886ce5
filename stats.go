package freqlat

import (
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary holds order and moment statistics of a set of latency samples.
type Summary struct {
	Min    time.Duration
	Max    time.Duration
	Median time.Duration
	Mean   time.Duration
	StdDev time.Duration // sample standard deviation, 0 below two samples
	P95    time.Duration
}

// Summarize computes the Summary of samples; no samples yield the zero Summary.
// Median and P95 are empirical quantiles, so they are always one of the
// samples (the lower one for an even count).
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	ns := make([]float64, len(samples))
	for i, s := range samples {
		ns[i] = float64(s)
	}
	slices.Sort(ns)

	mean, stddev := stat.MeanStdDev(ns, nil)
	if len(ns) < 2 {
		stddev = 0
	}
	return Summary{
		Min:    time.Duration(ns[0]),
		Max:    time.Duration(ns[len(ns)-1]),
		Median: quantile(ns, 0.5),
		Mean:   roundDuration(mean),
		StdDev: roundDuration(stddev),
		P95:    quantile(ns, 0.95),
	}
}

// quantile expects sorted nanosecond values.
func quantile(sorted []float64, p float64) time.Duration {
	return time.Duration(stat.Quantile(p, stat.Empirical, sorted, nil))
}

func roundDuration(ns float64) time.Duration {
	return time.Duration(math.Round(ns))
}
