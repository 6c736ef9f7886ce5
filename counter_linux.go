//go:build linux

package freqlat

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// perfCycles reads PERF_COUNT_HW_CPU_CYCLES for the thread that opened it.
type perfCycles struct {
	fd int
}

// OpenCycleCounter opens a perf event counting CPU cycles of the calling
// thread on whichever CPU it runs (pid 0, cpu -1).
func OpenCycleCounter() (CycleReader, error) {
	attr := unix.PerfEventAttr{
		Type:   unix.PERF_TYPE_HARDWARE,
		Config: unix.PERF_COUNT_HW_CPU_CYCLES,
		Size:   uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
	}
	fd, err := unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("perf_event_open: %w", err)
	}
	if err := unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_RESET, 0); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ioctl(PERF_EVENT_IOC_RESET): %w", err)
	}
	if err := unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_ENABLE, 0); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ioctl(PERF_EVENT_IOC_ENABLE): %w", err)
	}
	return &perfCycles{fd: fd}, nil
}

func (p *perfCycles) ReadCycles() (uint64, error) {
	var buf [8]byte
	n, err := unix.Read(p.fd, buf[:])
	if err != nil {
		return 0, fmt.Errorf("read perf event fd: %w", err)
	}
	if n != len(buf) {
		return 0, fmt.Errorf("read perf event fd: short read of %d bytes", n)
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

func (p *perfCycles) Close() error {
	return unix.Close(p.fd)
}
