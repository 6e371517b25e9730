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

import (
	"fmt"
	"strings"
	"sync"
)

// Sentinel is the representation that reserves key 0 as the empty-slot
// marker. Emptiness is tested by comparing the key against the sentinel
// directly, saving the occupancy array and one array read per probe step.
// The slot arrays never store key 0; its mapping, if any, lives in the
// hasFreeKey/freeValue side channel.
type Sentinel struct {
	mu        sync.Mutex
	hash      HashFn
	allocator Allocator

	keys   []int64
	values []int64

	// Side channel for key 0, which cannot occupy a slot.
	hasFreeKey bool
	freeValue  int64

	// mask is capacity-1; capacity is always a power of two.
	mask       uint64
	fillFactor float64
	// threshold is the size beyond which the table doubles.
	threshold int
	size      int
}

// NewSentinel constructs a Sentinel map sized for initialSize entries at the
// given fill factor. It returns an error wrapping ErrInvalidArgument if
// fillFactor is outside (0, 1) or initialSize is not positive, and an error
// wrapping ErrCapacityOverflow if the required capacity is not addressable.
func NewSentinel(initialSize int, fillFactor float64, options ...Option) (*Sentinel, error) {
	capacity, err := tableSizeFor(initialSize, fillFactor)
	if err != nil {
		return nil, err
	}

	c := defaultConfig()
	for _, op := range options {
		op.apply(&c)
	}

	m := &Sentinel{
		hash:       c.hash,
		allocator:  c.allocator,
		keys:       c.allocator.AllocSlots(int(capacity)),
		values:     c.allocator.AllocSlots(int(capacity)),
		mask:       capacity - 1,
		fillFactor: fillFactor,
		threshold:  thresholdFor(capacity, fillFactor),
	}
	m.checkInvariants()
	return m, nil
}

// Get returns the value mapped to key, or NoValue if the key is absent.
func (m *Sentinel) Get(key int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key == freeKey {
		if m.hasFreeKey {
			return m.freeValue
		}
		return NoValue
	}
	idx, ok := m.readSlot(key)
	if !ok {
		return NoValue
	}
	return m.values[idx]
}

// Put maps key to value, growing the table if the insert pushes the live
// count past the growth threshold. It returns the previously mapped value,
// or NoValue if the key was absent.
func (m *Sentinel) Put(key, value int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key == freeKey {
		prev := m.freeValue
		if !m.hasFreeKey {
			m.size++
		}
		m.hasFreeKey = true
		m.freeValue = value
		return prev
	}
	return m.put(key, value)
}

// Delete removes the mapping for key and returns the removed value, or
// NoValue if the key was absent. The freed slot is repaired by a backward
// shift rather than a tombstone.
func (m *Sentinel) Delete(key int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key == freeKey {
		if !m.hasFreeKey {
			return NoValue
		}
		m.hasFreeKey = false
		res := m.freeValue
		m.freeValue = NoValue
		m.size--
		return res
	}

	idx, ok := m.readSlot(key)
	if !ok {
		return NoValue
	}
	res := m.values[idx]
	m.values[idx] = NoValue
	m.shiftKeys(idx)
	m.size--
	m.checkInvariants()
	return res
}

// Len returns the number of live entries, including the entry for key 0 if
// present.
func (m *Sentinel) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// Close releases the backing arrays to the configured allocator. It is
// unnecessary to close a map using the default allocator. It is invalid to
// use a map after it has been closed, though Close itself is idempotent.
func (m *Sentinel) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.keys != nil {
		m.allocator.FreeSlots(m.keys)
		m.allocator.FreeSlots(m.values)
		m.keys, m.values = nil, nil
		m.hasFreeKey = false
		m.freeValue = NoValue
		m.size = 0
	}
	m.allocator = nil
}

func (m *Sentinel) startSlot(key int64) uint64 {
	return m.hash(key) & m.mask
}

// readSlot finds the slot holding key, walking the probe chain from the
// key's natural slot. The caller has already excluded the free key. ok is
// false if the chain ends (an empty slot) or wraps around without a match.
func (m *Sentinel) readSlot(key int64) (idx uint64, ok bool) {
	start := m.startSlot(key)
	idx = start
	for {
		k := m.keys[idx]
		if k == key {
			return idx, true
		}
		if k == freeKey {
			return 0, false
		}
		idx = nextSlot(idx, m.mask)
		if idx == start {
			return 0, false
		}
	}
}

// putSlot finds the slot a Put should write: the slot already holding key,
// else the first empty slot on key's probe chain. ok is false only if the
// chain wraps around with no empty slot, i.e. the table is saturated.
func (m *Sentinel) putSlot(key int64) (idx uint64, ok bool) {
	if idx, ok = m.readSlot(key); ok {
		return idx, true
	}
	start := m.startSlot(key)
	idx = start
	for m.keys[idx] != freeKey {
		idx = nextSlot(idx, m.mask)
		if idx == start {
			return 0, false
		}
	}
	return idx, true
}

func (m *Sentinel) put(key, value int64) int64 {
	idx, ok := m.putSlot(key)
	if !ok {
		// No insertion point. The growth threshold makes this unreachable,
		// but a saturated table must not spin: double and retry once.
		m.rehash(2 * uint64(len(m.keys)))
		if idx, ok = m.putSlot(key); !ok {
			panic(fmt.Sprintf("intmap: no insertion point after grow\n%s", m.debugString()))
		}
	}
	prev := m.values[idx]
	if m.keys[idx] == key {
		m.values[idx] = value
		return prev
	}
	m.keys[idx] = key
	m.values[idx] = value
	m.size++
	if m.size > m.threshold {
		m.rehash(2 * uint64(len(m.keys)))
	}
	m.checkInvariants()
	return prev
}

// shiftKeys repairs the probe chain after the entry at pos is removed.
// Entries further along the chain are pulled back into the hole whenever the
// move cannot detach them from their own chain; the hole propagates forward
// until an empty slot terminates the chain.
func (m *Sentinel) shiftKeys(pos uint64) {
	keys, values := m.keys, m.values
	for {
		last := pos
		pos = nextSlot(last, m.mask)
		for {
			k := keys[pos]
			if k == freeKey {
				keys[last] = freeKey
				values[last] = NoValue
				return
			}
			if slot := m.startSlot(k); !wouldBreakChain(last, pos, slot) {
				break
			}
			pos = nextSlot(pos, m.mask)
		}
		keys[last] = keys[pos]
		values[last] = values[pos]
	}
}

// rehash moves the table to fresh arrays of newCapacity slots, re-inserting
// every live non-sentinel entry. The side channel is untouched. This is the
// only capacity-change path; there is no shrinking.
func (m *Sentinel) rehash(newCapacity uint64) {
	if newCapacity > maxCapacity {
		panic(fmt.Sprintf("intmap: capacity %d exceeds max %d", newCapacity, uint64(maxCapacity)))
	}
	if debug {
		fmt.Printf("rehash: capacity=%d->%d size=%d\n", len(m.keys), newCapacity, m.size)
	}

	oldKeys, oldValues := m.keys, m.values
	m.keys = m.allocator.AllocSlots(int(newCapacity))
	m.values = m.allocator.AllocSlots(int(newCapacity))
	m.mask = newCapacity - 1
	m.threshold = thresholdFor(newCapacity, m.fillFactor)
	if m.hasFreeKey {
		m.size = 1
	} else {
		m.size = 0
	}

	for i := len(oldKeys); i > 0; i-- {
		if oldKeys[i-1] != freeKey {
			m.put(oldKeys[i-1], oldValues[i-1])
		}
	}

	m.allocator.FreeSlots(oldKeys)
	m.allocator.FreeSlots(oldValues)
}

func (m *Sentinel) checkInvariants() {
	if invariants {
		live := 0
		if m.hasFreeKey {
			live++
		}
		for i := range m.keys {
			k := m.keys[i]
			if k == freeKey {
				continue
			}
			live++
			// Probing from the key's natural slot must reach the key before
			// any empty slot.
			idx := m.startSlot(k)
			for m.keys[idx] != k {
				if m.keys[idx] == freeKey {
					panic(fmt.Sprintf("invariant failed: key %d at slot %d unreachable from natural slot %d\n%s",
						k, i, m.startSlot(k), m.debugString()))
				}
				idx = nextSlot(idx, m.mask)
			}
		}
		if live != m.size {
			panic(fmt.Sprintf("invariant failed: found %d live entries, but size is %d\n%s",
				live, m.size, m.debugString()))
		}
		if m.size > m.threshold {
			panic(fmt.Sprintf("invariant failed: size %d exceeds threshold %d\n%s",
				m.size, m.threshold, m.debugString()))
		}
	}
}

func (m *Sentinel) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d size=%d threshold=%d hasFreeKey=%t\n",
		len(m.keys), m.size, m.threshold, m.hasFreeKey)
	for i := range m.keys {
		if m.keys[i] == freeKey {
			fmt.Fprintf(&buf, "  %4d: empty\n", i)
			continue
		}
		fmt.Fprintf(&buf, "  %4d: %d=%d [start=%d]\n", i, m.keys[i], m.values[i], m.startSlot(m.keys[i]))
	}
	return buf.String()
}
