package freqlat

import (
	"testing"

	set3 "github.com/TomTonic/Set3"
	"github.com/stretchr/testify/assert"
)

func TestNewDPRNG_NoSeed_GeneratesNonZero(t *testing.T) {
	prng := NewDPRNG()
	if prng.State == 0 {
		t.Errorf("Expected non-zero state when no seed is provided, got 0")
	}
}

func TestNewDPRNG_ZeroSeed_GeneratesNonZero(t *testing.T) {
	prng := NewDPRNG(0)
	if prng.State == 0 {
		t.Errorf("Expected non-zero state when seed is 0, got 0")
	}
}

func TestNewDPRNG_WithValidSeed(t *testing.T) {
	seed := uint64(42)
	prng := NewDPRNG(seed)
	if prng.State != seed {
		t.Errorf("Expected state %d, got %d", seed, prng.State)
	}
}

func TestPrngSeqLength(t *testing.T) {
	state := NewDPRNG(0x1234567890ABCDEF)
	limit := uint32(1_000_000)
	set := set3.EmptyWithCapacity[uint64](limit * 7 / 5)
	counter := uint32(0)
	for set.Size() < limit {
		set.Add(state.Uint64())
		counter++
	}
	assert.True(t, counter == limit, "sequence < limit")
}

func TestPrngDeterminism(t *testing.T) {
	state1 := NewDPRNG(0x1234567890ABCDEF)
	state2 := NewDPRNG(0x1234567890ABCDEF) // create two differnet instances with the same seed
	limit := 100_000
	for i := range limit {
		v1 := state1.Uint64()
		v2 := state2.Uint64()
		assert.True(t, v1 == v2, "out of sync: values not equal in round %d", i)
	}
	assert.Equal(t, uint64(limit), state1.Round)
}

func TestUInt32NRange(t *testing.T) {
	rng := NewDPRNG(0x1234567890ABCDEF)
	assert.Equal(t, uint32(0), rng.UInt32N(0))
	assert.Equal(t, uint32(0), rng.UInt32N(1))

	counts := make([]int, 7)
	for range 70_000 {
		v := rng.UInt32N(7)
		if v >= 7 {
			t.Fatalf("UInt32N(7) out of range: %d", v)
		}
		counts[v]++
	}
	for i, c := range counts {
		assert.InDelta(t, 10_000, c, 500, "bucket %d", i)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	rng := NewDPRNG(7)
	xs := make([]int, 100)
	for i := range xs {
		xs[i] = i
	}
	rng.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })

	seen := set3.EmptyWithCapacity[int](100)
	moved := 0
	for i, x := range xs {
		seen.Add(x)
		if x != i {
			moved++
		}
	}
	assert.Equal(t, uint32(100), seen.Size())
	assert.Greater(t, moved, 50)
}
