package freqlat

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultSysfsMount is where sysfs is normally mounted.
const DefaultSysfsMount = "/sys"

// CurrentFrequencySource provides the OS reported current frequency of a core.
type CurrentFrequencySource interface {
	CurrentFrequency(coreID int) (Frequency, error)
}

// Sysfs reads and writes the cpufreq files under <Mount>/devices/system/cpu/cpuN/cpufreq.
// The zero value uses DefaultSysfsMount.
type Sysfs struct {
	Mount string
}

func (s Sysfs) mount() string {
	if s.Mount == "" {
		return DefaultSysfsMount
	}
	return s.Mount
}

// CPUFreqPath returns the path of the cpufreq file name for coreID.
func (s Sysfs) CPUFreqPath(coreID int, name string) string {
	return filepath.Join(s.mount(), "devices", "system", "cpu", fmt.Sprintf("cpu%d", coreID), "cpufreq", name)
}

// AvailableFrequencies opens scaling_available_frequencies of coreID.
func (s Sysfs) AvailableFrequencies(coreID int) (io.ReadCloser, error) {
	return os.Open(s.CPUFreqPath(coreID, "scaling_available_frequencies"))
}

// CurrentFrequency reads cpuinfo_cur_freq of coreID, the frequency the
// hardware reports rather than the one last requested.
func (s Sysfs) CurrentFrequency(coreID int) (Frequency, error) {
	v, err := s.readUint(coreID, "cpuinfo_cur_freq")
	return Frequency(v), err
}

// SetFrequency requests freq through scaling_setspeed. The userspace governor must be active.
func (s Sysfs) SetFrequency(coreID int, freq Frequency) error {
	return s.write(coreID, "scaling_setspeed", strconv.FormatUint(uint64(freq), 10))
}

// Governor returns the active scaling governor of coreID.
func (s Sysfs) Governor(coreID int) (string, error) {
	b, err := os.ReadFile(s.CPUFreqPath(coreID, "scaling_governor"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// SetGovernor switches the scaling governor of coreID.
func (s Sysfs) SetGovernor(coreID int, governor string) error {
	return s.write(coreID, "scaling_governor", governor)
}

func (s Sysfs) readUint(coreID int, name string) (uint64, error) {
	b, err := os.ReadFile(s.CPUFreqPath(coreID, name))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s of cpu%d: %w", name, coreID, err)
	}
	return v, nil
}

func (s Sysfs) write(coreID int, name, value string) error {
	path := s.CPUFreqPath(coreID, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(value); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// CoreInfo summarizes the cpufreq policy of one core.
type CoreInfo struct {
	ID                int
	Driver            string
	Governor          string
	Current           Frequency // 0 if not readable
	Min               Frequency
	Max               Frequency
	TransitionLatency time.Duration // as advertised by the driver; 0 if unknown
}
