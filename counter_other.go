//go:build !linux

package freqlat

// OpenCycleCounter always fails: perf events are Linux only.
func OpenCycleCounter() (CycleReader, error) {
	return nil, ErrUnsupportedPlatform
}
