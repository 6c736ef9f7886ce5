package freqlat

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Detector decides when a core actually runs at a requested frequency by
// counting cycles over short busy-wait windows.
type Detector struct {
	counter   *Counter
	window    time.Duration
	scale     uint64
	lower     float64
	upper     float64
	maxIter   uint64
	progEvery uint64
	progAt    uint64
	diag      io.Writer
	clock     func() TimeStamp
	current   CurrentFrequencySource
	cores     int
}

// WaitResult describes a successful (or aborted) wait.
type WaitResult struct {
	Iterations uint64        // number of sample windows evaluated
	Measured   Frequency     // last estimate
	Elapsed    time.Duration // wall-clock time spent waiting
}

// NewDetector creates a Detector sampling counter according to cfg.
func NewDetector(counter *Counter, cfg Config) (*Detector, error) {
	if counter == nil {
		panic("freqlat: counter cannot be nil")
	}
	cfg = normalizeConfig(cfg)

	scale, err := windowScale(cfg.SampleWindow)
	if err != nil {
		return nil, err
	}
	if !(cfg.Tolerance > 0 && cfg.Tolerance < 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidTolerance, cfg.Tolerance)
	}

	return &Detector{
		counter:   counter,
		window:    cfg.SampleWindow,
		scale:     scale,
		lower:     1 - cfg.Tolerance,
		upper:     1 + cfg.Tolerance,
		maxIter:   cfg.MaxIterations,
		progEvery: cfg.ProgressInterval,
		progAt:    cfg.ProgressInterval * 9 / 10,
		diag:      cfg.Diagnostics,
		clock:     cfg.Clock,
		current:   cfg.Current,
		cores:     cfg.Cores,
	}, nil
}

// SampleWindow returns the configured window length.
func (d *Detector) SampleWindow() time.Duration {
	return d.window
}

// Scale returns the factor applied to a per-window cycle delta.
func (d *Detector) Scale() uint64 {
	return d.scale
}

func (d *Detector) checkCore(coreID int) {
	if coreID < 0 || coreID >= d.cores {
		panic(fmt.Sprintf("freqlat: core id %d out of range [0,%d)", coreID, d.cores))
	}
}

// Sample measures the frequency of the calling thread over one window.
func (d *Detector) Sample() (Frequency, error) {
	start := d.clock()
	before, err := d.counter.Read()
	if err != nil {
		return 0, err
	}
	spinFor(d.clock, start, d.window)
	after, err := d.counter.Read()
	if err != nil {
		return 0, err
	}
	return estimate(before, after, d.scale), nil
}

// estimate converts a cycle delta to a frequency. Counters wrap modulo 2^64,
// so unsigned subtraction stays correct across a wrap.
func estimate(before, after, scale uint64) Frequency {
	return Frequency((after - before) * scale)
}

// reached reports whether measured/target lies strictly inside the band.
func (d *Detector) reached(measured, target Frequency) bool {
	ratio := float64(measured) / float64(target)
	return ratio > d.lower && ratio < d.upper
}

// WaitUntilFrequency blocks, busy-sampling the cycle counter, until the
// measured frequency is within tolerance of target. The caller must already
// run pinned to coreID.
//
// Without a MaxIterations limit and with a context that is never cancelled
// it only returns once the target is reached or the counter fails. A
// counter failure is reported immediately as ErrCounterUnavailable.
func (d *Detector) WaitUntilFrequency(ctx context.Context, coreID int, target Frequency) (WaitResult, error) {
	d.checkCore(coreID)
	if target == 0 {
		return WaitResult{}, ErrInvalidTarget
	}

	var res WaitResult
	begin := d.clock()
	done := ctx.Done()

	for {
		if d.maxIter > 0 && res.Iterations >= d.maxIter {
			res.Elapsed = time.Duration(DiffTimeStamps(begin, d.clock()))
			return res, fmt.Errorf("%w: %d iterations, target %d kHz, last measured %d kHz",
				ErrIterationLimit, res.Iterations, target, res.Measured)
		}
		select {
		case <-done:
			res.Elapsed = time.Duration(DiffTimeStamps(begin, d.clock()))
			return res, ctx.Err()
		default:
		}

		measured, err := d.Sample()
		if err != nil {
			res.Elapsed = time.Duration(DiffTimeStamps(begin, d.clock()))
			return res, err
		}
		iteration := res.Iterations
		res.Iterations++
		res.Measured = measured

		if d.reached(measured, target) {
			res.Elapsed = time.Duration(DiffTimeStamps(begin, d.clock()))
			return res, nil
		}
		if iteration%d.progEvery == d.progAt {
			fmt.Fprintf(d.diag, "Target: %d, measured: %d\n", target, measured)
		}
	}
}

// CurrentFrequency returns the frequency the OS reports for coreID, or 0 if
// it cannot be read. It does not touch the cycle counter.
func (d *Detector) CurrentFrequency(coreID int) Frequency {
	d.checkCore(coreID)
	f, err := d.current.CurrentFrequency(coreID)
	if err != nil {
		return 0
	}
	return f
}
