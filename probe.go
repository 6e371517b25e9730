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

// nextSlot advances one step along the linear probe sequence, wrapping at
// the table boundary. mask is capacity-1.
func nextSlot(i, mask uint64) uint64 {
	return (i + 1) & mask
}

// wouldBreakChain reports whether moving the entry at pos into the freed
// slot last would detach the entry from its own probe chain. slot is the
// entry's natural start index, hash(key)&mask.
//
// The move is unsafe exactly when slot lies in the circular half-open
// interval (last, pos]: a lookup probing forward from slot would then reach
// the hole at last before reaching the entry's new position, and terminate
// early. All indices are taken modulo the capacity, so the interval may wrap
// the table boundary.
func wouldBreakChain(last, pos, slot uint64) bool {
	if last <= pos {
		return last < slot && slot <= pos
	}
	return last < slot || slot <= pos
}
