//go:build windows

package freqlat

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")
	procFreq    = modkernel32.NewProc("QueryPerformanceFrequency")
	procCounter = modkernel32.NewProc("QueryPerformanceCounter")

	qpcFrequency = getFrequency()
)

// getFrequency returns frequency in ticks per second.
func getFrequency() int64 {
	var freq int64
	r1, _, err := procFreq.Call(uintptr(unsafe.Pointer(&freq)))
	if r1 == 0 {
		panic(fmt.Sprintf("freqlat: QueryPerformanceFrequency failed: %v", err))
	}
	return freq
}

// SampleTime returns a QueryPerformanceCounter timestamp converted to nanoseconds.
// The conversion splits seconds and remainder so the multiplication cannot overflow.
func SampleTime() TimeStamp {
	var qpc int64
	procCounter.Call(uintptr(unsafe.Pointer(&qpc)))
	sec := qpc / qpcFrequency
	rem := qpc % qpcFrequency
	return sec*1_000_000_000 + rem*1_000_000_000/qpcFrequency
}
