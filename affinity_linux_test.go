//go:build linux

package freqlat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestPinToCore(t *testing.T) {
	var allowed unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &allowed))
	core := -1
	for i := range 1024 {
		if allowed.IsSet(i) {
			core = i
			break
		}
	}
	require.GreaterOrEqual(t, core, 0)

	unpin, err := PinToCore(core)
	require.NoError(t, err)

	var pinned unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &pinned))
	assert.Equal(t, 1, pinned.Count())
	assert.True(t, pinned.IsSet(core))

	unpin()
	var restored unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &restored))
	assert.Equal(t, allowed.Count(), restored.Count())
}
