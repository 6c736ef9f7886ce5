//go:build linux

package freqlat

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/procfs/sysfs"
)

// DescribeCores returns the cpufreq policy of every online core that has one,
// ordered by core id.
func (s Sysfs) DescribeCores() ([]CoreInfo, error) {
	fs, err := sysfs.NewFS(s.mount())
	if err != nil {
		return nil, err
	}
	stats, err := fs.SystemCpufreq()
	if err != nil {
		return nil, fmt.Errorf("read cpufreq: %w", err)
	}

	infos := make([]CoreInfo, 0, len(stats))
	for _, st := range stats {
		if st.Name == "" {
			// cpu without a cpufreq directory
			continue
		}
		id, err := strconv.Atoi(st.Name)
		if err != nil {
			continue
		}
		info := CoreInfo{
			ID:       id,
			Driver:   st.Driver,
			Governor: st.Governor,
			Current:  Frequency(deref(st.CpuinfoCurrentFrequency)),
			Min:      Frequency(deref(st.CpuinfoMinimumFrequency)),
			Max:      Frequency(deref(st.CpuinfoMaximumFrequency)),
		}
		if info.Current == 0 {
			info.Current = Frequency(deref(st.ScalingCurrentFrequency))
		}
		if st.CpuinfoTransitionLatency != nil {
			info.TransitionLatency = time.Duration(*st.CpuinfoTransitionLatency)
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

func deref(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}
