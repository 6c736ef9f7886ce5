package freqlat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCPUFreq creates <mount>/devices/system/cpu/cpuN/cpufreq/<name> files.
func writeCPUFreq(t *testing.T, mount string, coreID int, files map[string]string) {
	t.Helper()
	s := Sysfs{Mount: mount}
	for name, content := range files {
		p := s.CPUFreqPath(coreID, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestSysfsPaths(t *testing.T) {
	assert.Equal(t, "/sys/devices/system/cpu/cpu3/cpufreq/scaling_setspeed", Sysfs{}.CPUFreqPath(3, "scaling_setspeed"))
	assert.Equal(t, "/tmp/x/devices/system/cpu/cpu0/cpufreq/cpuinfo_cur_freq", Sysfs{Mount: "/tmp/x"}.CPUFreqPath(0, "cpuinfo_cur_freq"))
}

func TestSysfsCatalog(t *testing.T) {
	mount := t.TempDir()
	writeCPUFreq(t, mount, 0, map[string]string{"scaling_available_frequencies": "2400000 1800000 1200000 \n"})
	writeCPUFreq(t, mount, 2, map[string]string{"scaling_available_frequencies": "3000000 800000\n"})

	cat := BuildCatalog(3, Sysfs{Mount: mount})
	assert.Equal(t, []Frequency{2400000, 1800000, 1200000}, cat.Frequencies(0))
	assert.Empty(t, cat.Frequencies(1))
	assert.Equal(t, Frequency(800000), cat.MinAvailable(2))
}

func TestSysfsCurrentFrequency(t *testing.T) {
	mount := t.TempDir()
	writeCPUFreq(t, mount, 0, map[string]string{"cpuinfo_cur_freq": "1800000\n"})
	writeCPUFreq(t, mount, 1, map[string]string{"cpuinfo_cur_freq": "garbage\n"})
	s := Sysfs{Mount: mount}

	f, err := s.CurrentFrequency(0)
	require.NoError(t, err)
	assert.Equal(t, Frequency(1800000), f)

	_, err = s.CurrentFrequency(1)
	assert.Error(t, err)
	_, err = s.CurrentFrequency(2)
	assert.ErrorIs(t, err, os.ErrNotExist)

	d := newTestDetector(t, &windowReader{deltas: []uint64{1}}, func(c *Config) { c.Current = s })
	assert.Equal(t, Frequency(1800000), d.CurrentFrequency(0))
	assert.Equal(t, Frequency(0), d.CurrentFrequency(1))
	assert.Equal(t, Frequency(0), d.CurrentFrequency(2))
}

func TestSysfsSetFrequency(t *testing.T) {
	mount := t.TempDir()
	writeCPUFreq(t, mount, 0, map[string]string{"scaling_setspeed": "<unsupported>\n"})
	s := Sysfs{Mount: mount}

	require.NoError(t, s.SetFrequency(0, 1200000))
	b, err := os.ReadFile(s.CPUFreqPath(0, "scaling_setspeed"))
	require.NoError(t, err)
	assert.Equal(t, "1200000", string(b))

	assert.ErrorIs(t, s.SetFrequency(1, 1200000), os.ErrNotExist)
}

func TestSysfsGovernor(t *testing.T) {
	mount := t.TempDir()
	writeCPUFreq(t, mount, 0, map[string]string{"scaling_governor": "schedutil\n"})
	s := Sysfs{Mount: mount}

	g, err := s.Governor(0)
	require.NoError(t, err)
	assert.Equal(t, "schedutil", g)

	require.NoError(t, s.SetGovernor(0, "userspace"))
	g, err = s.Governor(0)
	require.NoError(t, err)
	assert.Equal(t, "userspace", g)

	_, err = s.Governor(1)
	assert.Error(t, err)
}
