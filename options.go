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

package intmap

// Option provides an interface to do work on a map while it is being
// created.
type Option interface {
	apply(c *config)
}

// config carries the tunable construction state shared by both
// representations.
type config struct {
	hash      HashFn
	allocator Allocator
}

func defaultConfig() config {
	return config{
		hash:      mix64,
		allocator: defaultAllocator{},
	}
}

type hashOption struct {
	hash HashFn
}

func (op hashOption) apply(c *config) {
	c.hash = op.hash
}

// WithHash is an option to replace the default avalanche mixer. The
// replacement must satisfy the HashFn contract; a weak function degrades
// probe lengths but never correctness.
func WithHash(hash HashFn) Option {
	return hashOption{hash}
}

// Allocator specifies an interface for allocating and releasing the backing
// arrays of a map. The default allocator utilizes Go's builtin make() and
// allows the GC to reclaim memory.
//
// If the allocator is manually managing memory then Close must be called on
// a map in order to ensure FreeSlots and FreeFlags are called.
type Allocator interface {
	// AllocSlots should return a slice equivalent to make([]int64, n). It is
	// used for both the key and the value arrays.
	AllocSlots(n int) []int64

	// AllocFlags should return a slice equivalent to make([]bool, n). Only
	// the flagged representation allocates occupancy flags.
	AllocFlags(n int) []bool

	// FreeSlots can optionally release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocSlots.
	FreeSlots(v []int64)

	// FreeFlags can optionally release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocFlags.
	FreeFlags(v []bool)
}

type defaultAllocator struct{}

func (defaultAllocator) AllocSlots(n int) []int64 {
	return make([]int64, n)
}

func (defaultAllocator) AllocFlags(n int) []bool {
	return make([]bool, n)
}

func (defaultAllocator) FreeSlots(v []int64) {
}

func (defaultAllocator) FreeFlags(v []bool) {
}

type allocatorOption struct {
	allocator Allocator
}

func (op allocatorOption) apply(c *config) {
	c.allocator = op.allocator
}

// WithAllocator is an option for specifying the Allocator to use for a map's
// backing arrays.
func WithAllocator(allocator Allocator) Option {
	return allocatorOption{allocator}
}
