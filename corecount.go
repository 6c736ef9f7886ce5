package freqlat

import (
	"log"
	"sync"

	"github.com/tklauser/go-sysconf"
)

var (
	coreCountOnce sync.Once
	coreCount     int
)

// CoreCount returns the number of online logical CPUs. It is queried once and
// memoized; a failed query counts as a single core and logs a warning.
func CoreCount() int {
	coreCountOnce.Do(func() {
		coreCount = discoverCoreCount(onlineProcessors, log.Printf)
	})
	return coreCount
}

func onlineProcessors() (int64, error) {
	return sysconf.Sysconf(sysconf.SC_NPROCESSORS_ONLN)
}

func discoverCoreCount(query func() (int64, error), warn func(format string, args ...any)) int {
	n, err := query()
	if err != nil {
		warn("freqlat: failed to get the number of CPUs (%v), assuming 1", err)
		return 1
	}
	if n < 1 {
		warn("freqlat: failed to get the number of CPUs (got %d), assuming 1", n)
		return 1
	}
	return int(n)
}
