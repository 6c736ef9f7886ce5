package freqlat

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	us := time.Microsecond
	testCases := []struct {
		samples []time.Duration
		want    Summary
	}{
		{nil, Summary{}},
		{[]time.Duration{7 * us}, Summary{Min: 7 * us, Max: 7 * us, Median: 7 * us, Mean: 7 * us, P95: 7 * us}},
		{[]time.Duration{3 * us, 3 * us, 3 * us}, Summary{Min: 3 * us, Max: 3 * us, Median: 3 * us, Mean: 3 * us, P95: 3 * us}},
		{[]time.Duration{4 * us, 1 * us, 3 * us, 2 * us}, Summary{Min: 1 * us, Max: 4 * us, Median: 2 * us, Mean: 2500 * time.Nanosecond, StdDev: 1291 * time.Nanosecond, P95: 4 * us}},
		{[]time.Duration{4 * us, 1 * us, 100 * us, 3 * us, 2 * us}, Summary{Min: 1 * us, Max: 100 * us, Median: 3 * us, Mean: 22 * us, StdDev: 43618 * time.Nanosecond, P95: 100 * us}},
	}

	for _, tc := range testCases {
		got := Summarize(tc.samples)
		assert.Equal(t, tc.want, got, "samples=%v", tc.samples)
	}
}

func TestSummarizeLeavesSamplesUntouched(t *testing.T) {
	samples := []time.Duration{5, 1, 4, 2, 3}
	orig := slices.Clone(samples)
	_ = Summarize(samples)
	assert.Equal(t, orig, samples)
}

func TestSummarizeP95(t *testing.T) {
	samples := make([]time.Duration, 100)
	for i := range samples {
		samples[i] = time.Duration(100-i) * time.Millisecond
	}
	s := Summarize(samples)
	assert.Equal(t, 95*time.Millisecond, s.P95)
	assert.Equal(t, 50*time.Millisecond, s.Median)
	assert.True(t, s.Min <= s.Median && s.Median <= s.P95 && s.P95 <= s.Max)
}
