// Copyright 2026 The intmap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package intmap provides fast int64 to int64 hash maps built on open
// addressing with linear probing. See
// https://en.wikipedia.org/wiki/Open_addressing if you're not familiar with
// open addressing. The design follows the int-int maps described in
// http://java-performance.info/implementing-world-fastest-java-int-to-int-hash-map/.
//
// # Layout
//
// A map owns two parallel flat arrays, keys and values, of equal power-of-two
// length. keys[i] and values[i] together describe one slot. Because the
// capacity is a power of two, the probe index wraps around via a bitmask
// rather than a modulo. No entry is individually heap allocated: entries live
// and die by slot mutation, which is what makes these maps cheap compared to
// a chaining table or a boxed map at large sizes.
//
// Two slot representations are provided behind the same contract:
//
//   - Flagged: every slot carries an explicit occupancy flag in a parallel
//     used array. Key 0 is an ordinary key.
//   - Sentinel: the key value 0 is reserved to mark an empty slot, which
//     eliminates the occupancy array and makes the per-probe emptiness test a
//     single integer compare. The real mapping for key 0, if any, lives in a
//     one-slot side channel (hasFreeKey plus freeValue) outside the arrays.
//
// # Probing and deletion
//
// Every operation computes a start slot by passing the key through an
// avalanche mixing function and masking the result, then walks the linear
// probe sequence from there. Reads terminate on a key match, on an empty slot
// (the chain provably does not contain the key), or on wraparound back to the
// start. Writes use the "existing key, else first empty slot on the chain"
// rule.
//
// Deletion does not use tombstones. Freeing a slot instead runs a backward
// shift: entries further along the probe chain are moved into the hole when
// doing so cannot detach them from their own chain, and the hole propagates
// forward until an empty slot ends the chain. This keeps the invariant that
// for every live key, probing from its natural slot reaches it before any
// empty slot, and it keeps average probe lengths bounded without the
// tombstone accumulation that plagues naive open addressing.
//
// # The reserved value
//
// The integer 0 doubles as the "absent" return of Get and Delete. This is a
// deliberate convention, not a bug: callers that store 0 as a real value
// cannot distinguish it from absence through Get alone (Len still accounts
// for the entry). Callers needing that distinction should bias their values.
//
// # Concurrency
//
// Every public operation on a map holds the instance's mutex for the duration
// of the call. There is no finer-grained locking and no reader/writer
// distinction: the contract is plain method-level mutual exclusion, matching
// coarse synchronized-style usage. Operations never block on anything but the
// mutex.
package intmap

import (
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
)

const (
	debug = false

	// NoValue is returned by Get and Delete for an absent key. It is also
	// the one value that cannot be distinguished from absence via Get; see
	// the package documentation.
	NoValue int64 = 0

	// freeKey marks an empty slot in the sentinel representation.
	freeKey int64 = 0

	minCapacity = 2
	// maxCapacity bounds the slot count to a quarter of the address space,
	// which is unreachable for []int64 backing arrays anyway. Growth is by
	// doubling, so the bound is itself a power of two.
	maxCapacity = 1 << (bits.UintSize - 2)
)

var (
	// ErrInvalidArgument is returned by the constructors for a fill factor
	// outside (0, 1) or a non-positive initial size.
	ErrInvalidArgument = errors.New("intmap: invalid argument")

	// ErrCapacityOverflow is returned by the constructors when the requested
	// size cannot be satisfied by an addressable slot array.
	ErrCapacityOverflow = errors.New("intmap: capacity overflow")
)

// Map is the contract shared by the Flagged and Sentinel representations.
//
// Get returns the value mapped to key, or NoValue if the key is absent. Put
// maps key to value and returns the previously mapped value, or NoValue if
// there was none. Delete removes the mapping for key and returns the removed
// value, or NoValue if the key was absent. Len returns the number of live
// entries.
//
// All four operations are safe for concurrent use; they serialize on a
// per-instance lock.
type Map interface {
	Get(key int64) int64
	Put(key, value int64) int64
	Delete(key int64) int64
	Len() int
}

var (
	_ Map = (*Flagged)(nil)
	_ Map = (*Sentinel)(nil)
)

// tableSizeFor validates the construction parameters and returns the initial
// capacity: the smallest power of two that holds initialSize entries at the
// given fill factor, and never less than minCapacity.
func tableSizeFor(initialSize int, fillFactor float64) (uint64, error) {
	if !(fillFactor > 0 && fillFactor < 1) { // NaN-proof
		return 0, errors.Wrapf(ErrInvalidArgument, "fill factor %v must be in (0, 1)", fillFactor)
	}
	if initialSize <= 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "initial size %d must be positive", initialSize)
	}
	need := math.Ceil(float64(initialSize) / fillFactor)
	if need > float64(uint64(maxCapacity)) {
		return 0, errors.Wrapf(ErrCapacityOverflow,
			"initial size %d at fill factor %v requires %.0f slots, max %d",
			initialSize, fillFactor, need, uint64(maxCapacity))
	}
	capacity := uint64(1) << bits.Len64(uint64(need)-1)
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return capacity, nil
}

// thresholdFor returns the size at which a table of the given capacity grows.
// Growth happens when the live count exceeds the threshold, so the resting
// invariant is size <= threshold.
func thresholdFor(capacity uint64, fillFactor float64) int {
	return int(float64(capacity) * fillFactor)
}
