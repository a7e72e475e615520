// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"hash/fnv"
	"math/rand/v2"
)

// Rand is the randomness consumed by the generators.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Seed is the top-level seed of a generation run.
// Every consumer derives its own independent stream from it.
type Seed uint64

// Stream returns the deterministic stream number n of the seed.
func (s Seed) Stream(n uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(s), n))
}

// Named returns a stream keyed by name and n, so that differently named
// consumers of one seed do not share draws.
func (s Seed) Named(name string, n uint64) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewPCG(uint64(s)^h.Sum64(), n))
}

// IntBetween returns a uniform integer in [min, max].
func IntBetween(r Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.IntN(max-min+1)
}

// Pick returns a uniformly chosen element of vocab, which must not be empty.
func Pick[T any](r Rand, vocab []T) T {
	return vocab[r.IntN(len(vocab))]
}
