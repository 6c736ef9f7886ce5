package freqlat

import "math/rand/v2"

// DPRNG is a Deterministic Pseudo-Random Number Generator based on the xorshift* algorithm
// (see https://en.wikipedia.org/wiki/Xorshift#xorshift*).
// It is used to shuffle measurement plans so that a given seed reproduces the same order.
// This randum number generator is not cryptographically secure.
// This randum number generator is not thread-safe.
// The initial state must not be zero.
type DPRNG struct {
	State uint64
	Round uint64 // for debugging purposes
}

// NewDPRNG returns a generator seeded with seed[0]. Without a seed, or with a
// zero seed, a random non-zero state is chosen.
func NewDPRNG(seed ...uint64) DPRNG {
	var s uint64
	if len(seed) > 0 {
		s = seed[0]
	}
	for s == 0 {
		s = rand.Uint64()
	}
	return DPRNG{State: s}
}

// This function returns the next pseudo-random number in the sequence.
// It has a deterministic (i.e. constant) runtime and a high probability to be inlined by the compiler.
func (thisState *DPRNG) Uint64() uint64 {
	x := thisState.State
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	thisState.State = x
	thisState.Round++
	return x * 0x2545F4914F6CDD1D
}

// UInt32N returns a number in the half-open interval [0,n) without modulo bias.
// For n=0 and n=1 it returns 0.
//
// See https://lemire.me/blog/2016/06/30/fast-random-shuffling
func (thisState *DPRNG) UInt32N(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	v := uint32(thisState.Uint64() >> 32)
	prod := uint64(v) * uint64(n)
	low := uint32(prod)
	if low < n {
		thresh := -n % n
		for low < thresh {
			v = uint32(thisState.Uint64() >> 32)
			prod = uint64(v) * uint64(n)
			low = uint32(prod)
		}
	}
	return uint32(prod >> 32)
}

// Shuffle permutes n elements in place with the Fisher-Yates algorithm.
func (thisState *DPRNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := int(thisState.UInt32N(uint32(i + 1)))
		swap(i, j)
	}
}
