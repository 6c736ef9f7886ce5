package freqlat

import "errors"

// Sentinel errors returned by the frequency detection and latency functions.
var (
	// ErrCounterUnavailable is returned when the hardware cycle counter could not
	// be opened or a read from it failed. A wait cannot converge without it.
	ErrCounterUnavailable = errors.New("freqlat: hardware cycle counter unavailable")

	// ErrUnsupportedPlatform is returned by platform specific operations
	// (cycle counting, pinning) on systems that do not provide them.
	ErrUnsupportedPlatform = errors.New("freqlat: not supported on this platform")

	// ErrIterationLimit is returned when a wait exhausts Config.MaxIterations
	// without measuring the target frequency.
	ErrIterationLimit = errors.New("freqlat: target frequency not reached within iteration limit")

	// ErrInvalidTarget is returned for a zero target frequency.
	ErrInvalidTarget = errors.New("freqlat: target frequency must be positive")

	// ErrInvalidSampleWindow is returned when the sample window does not divide
	// one millisecond evenly.
	ErrInvalidSampleWindow = errors.New("freqlat: sample window must divide 1ms evenly")

	// ErrInvalidTolerance is returned for a tolerance outside (0, 1).
	ErrInvalidTolerance = errors.New("freqlat: tolerance must be in (0, 1)")

	// ErrNotEnoughRuns is returned when a latency measurement is asked for
	// fewer than MinimumRuns runs.
	ErrNotEnoughRuns = errors.New("freqlat: not enough runs")
)
