package freqlat

import (
	"context"
	"fmt"
	"time"
)

// MinimumRuns is the smallest number of runs Measure accepts.
const MinimumRuns = 3

// Setter requests a new frequency for a core, e.g. through scaling_setspeed.
type Setter interface {
	SetFrequency(coreID int, freq Frequency) error
}

// Transition is a change from one frequency to another.
type Transition struct {
	From Frequency
	To   Frequency
}

func (t Transition) String() string {
	return fmt.Sprintf("%d -> %d kHz", uint64(t.From), uint64(t.To))
}

// LatencyReport summarizes the measured latencies of one transition.
type LatencyReport struct {
	Transition
	Summary
	CoreID     int
	Samples    []time.Duration
	Iterations uint64 // sample windows spent waiting for To, over all runs
}

// Estimator measures frequency transition latencies on a single core by
// requesting frequencies through a Setter and detecting them with a Detector.
type Estimator struct {
	detector *Detector
	setter   Setter
}

// NewEstimator returns an Estimator using d to detect the frequencies requested through s.
func NewEstimator(d *Detector, s Setter) *Estimator {
	if d == nil || s == nil {
		panic("freqlat: detector and setter cannot be nil")
	}
	return &Estimator{detector: d, setter: s}
}

// Measure runs the transition tr runs times on coreID. Each run first settles
// the core at tr.From, then timestamps the request for tr.To and waits until
// the cycle counter confirms it. The caller must run pinned to coreID.
// It returns ErrNotEnoughRuns if runs is below MinimumRuns.
func (e *Estimator) Measure(ctx context.Context, coreID int, tr Transition, runs int) (report LatencyReport, err error) {
	if runs < MinimumRuns {
		return LatencyReport{}, fmt.Errorf("%w: need at least %d, got %d", ErrNotEnoughRuns, MinimumRuns, runs)
	}

	report = LatencyReport{Transition: tr, CoreID: coreID, Samples: make([]time.Duration, 0, runs)}
	clock := e.detector.clock

	for range runs {
		if err := e.setter.SetFrequency(coreID, tr.From); err != nil {
			return report, fmt.Errorf("request %d kHz on cpu%d: %w", tr.From, coreID, err)
		}
		if _, err := e.detector.WaitUntilFrequency(ctx, coreID, tr.From); err != nil {
			return report, fmt.Errorf("settle at %d kHz: %w", tr.From, err)
		}

		start := clock()
		if err := e.setter.SetFrequency(coreID, tr.To); err != nil {
			return report, fmt.Errorf("request %d kHz on cpu%d: %w", tr.To, coreID, err)
		}
		res, err := e.detector.WaitUntilFrequency(ctx, coreID, tr.To)
		if err != nil {
			return report, fmt.Errorf("wait for %d kHz: %w", tr.To, err)
		}
		report.Samples = append(report.Samples, time.Duration(DiffTimeStamps(start, clock())))
		report.Iterations += res.Iterations
	}

	report.summarize()
	return report, nil
}

// MeasurePlan measures every transition of plan and stops at the first error,
// returning the reports completed so far.
func (e *Estimator) MeasurePlan(ctx context.Context, coreID int, plan []Transition, runs int) ([]LatencyReport, error) {
	reports := make([]LatencyReport, 0, len(plan))
	for _, tr := range plan {
		r, err := e.Measure(ctx, coreID, tr, runs)
		if err != nil {
			return reports, fmt.Errorf("transition %v: %w", tr, err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func (r *LatencyReport) summarize() {
	r.Summary = Summarize(r.Samples)
}
