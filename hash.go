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

// HashFn mixes a key into a slot hash. A hash function must be a pure
// function of the key alone: rehashing relies on every key hashing
// identically for the lifetime of the map, for correctness rather than
// performance. The result is masked down to a slot index, so the function
// must spread entropy into the low bits.
type HashFn func(key int64) uint64

// mix64 is the default mixer, a multiply/xor-shift avalanche finalizer.
// Constants from http://zimbry.blogspot.com/2011/09/better-bit-mixing-improving-on.html.
// It decorrelates clustered integer keys: adjacent keys land in distant
// slots with high probability, which keeps linear probe chains short on the
// sequential-key workloads these maps are typically fed.
func mix64(key int64) uint64 {
	h := uint64(key^(key>>32)) * 0x4cd6944c5cc20b6d
	h = (h ^ (h >> 29)) * 0xfc12c5b19d3259e9
	return h ^ (h >> 32)
}
