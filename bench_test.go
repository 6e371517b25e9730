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
	"io"
	"strconv"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
)

const benchFillFactor = 0.75

var benchImpls = []struct {
	name string
	new  func(size int) Map
}{
	{"flagged", func(size int) Map {
		m, err := NewFlagged(size, benchFillFactor)
		if err != nil {
			panic(err)
		}
		return m
	}},
	{"sentinel", func(size int) Map {
		m, err := NewSentinel(size, benchFillFactor)
		if err != nil {
			panic(err)
		}
		return m
	}},
}

func BenchmarkMapGetHit(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapGetHit))
	for _, impl := range benchImpls {
		impl := impl
		b.Run("impl="+impl.name, benchSizes(func(b *testing.B, n int) {
			benchmarkMapGetHit(b, impl.new, n)
		}))
	}
}

func BenchmarkMapGetMiss(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapGetMiss))
	for _, impl := range benchImpls {
		impl := impl
		b.Run("impl="+impl.name, benchSizes(func(b *testing.B, n int) {
			benchmarkMapGetMiss(b, impl.new, n)
		}))
	}
}

func BenchmarkMapPutGrow(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapPutGrow))
	for _, impl := range benchImpls {
		impl := impl
		b.Run("impl="+impl.name, benchSizes(func(b *testing.B, n int) {
			benchmarkMapPutGrow(b, impl.new, n)
		}))
	}
}

func BenchmarkMapPutPreAllocate(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapPutPreAllocate))
	for _, impl := range benchImpls {
		impl := impl
		b.Run("impl="+impl.name, benchSizes(func(b *testing.B, n int) {
			benchmarkMapPutPreAllocate(b, impl.new, n)
		}))
	}
}

func BenchmarkMapPutDelete(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapPutDelete))
	for _, impl := range benchImpls {
		impl := impl
		b.Run("impl="+impl.name, benchSizes(func(b *testing.B, n int) {
			benchmarkMapPutDelete(b, impl.new, n)
		}))
	}
}

// benchSizes runs a benchmark body across a range of power-of-two map sizes
// (the bodies index keys with i&(n-1)).
func benchSizes(f func(b *testing.B, n int)) func(*testing.B) {
	var cases = []int{
		16,
		128,
		1024,
		8192,
		1 << 16,
		1 << 20,
	}

	return func(b *testing.B) {
		for _, n := range cases {
			b.Run("len="+strconv.Itoa(n), func(b *testing.B) { f(b, n) })
		}
	}
}

func genKeys(start, end int) []int64 {
	keys := make([]int64, end-start)
	for i := range keys {
		keys[i] = int64(start + i)
	}
	return keys
}

func benchmarkRuntimeMapGetHit(b *testing.B, n int) {
	m := make(map[int64]int64, n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m[k] = k
	}
	c := perfbench.Open(b)
	b.ResetTimer()
	var v int64
	for i := 0; i < b.N; i++ {
		v = m[keys[i&(n-1)]]
	}
	b.StopTimer()
	c.Stop()
	fmt.Fprint(io.Discard, v)
}

func benchmarkMapGetHit(b *testing.B, newMap func(int) Map, n int) {
	m := newMap(n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m.Put(k, k)
	}
	c := perfbench.Open(b)
	b.ResetTimer()
	var v int64
	for i := 0; i < b.N; i++ {
		v = m.Get(keys[i&(n-1)])
	}
	b.StopTimer()
	c.Stop()
	fmt.Fprint(io.Discard, v)
}

func benchmarkRuntimeMapGetMiss(b *testing.B, n int) {
	m := make(map[int64]int64, n)
	keys := genKeys(0, n)
	miss := genKeys(-n, 0)
	for _, k := range keys {
		m[k] = k
	}
	c := perfbench.Open(b)
	b.ResetTimer()
	var v int64
	for i := 0; i < b.N; i++ {
		v = m[miss[i&(n-1)]]
	}
	b.StopTimer()
	c.Stop()
	fmt.Fprint(io.Discard, v)
}

func benchmarkMapGetMiss(b *testing.B, newMap func(int) Map, n int) {
	m := newMap(n)
	keys := genKeys(0, n)
	miss := genKeys(-n, 0)
	for _, k := range keys {
		m.Put(k, k)
	}
	c := perfbench.Open(b)
	b.ResetTimer()
	var v int64
	for i := 0; i < b.N; i++ {
		v = m.Get(miss[i&(n-1)])
	}
	b.StopTimer()
	c.Stop()
	fmt.Fprint(io.Discard, v)
}

func benchmarkRuntimeMapPutGrow(b *testing.B, n int) {
	keys := genKeys(0, n)
	c := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := make(map[int64]int64)
		for _, k := range keys {
			m[k] = k
		}
	}
	b.StopTimer()
	c.Stop()
}

func benchmarkMapPutGrow(b *testing.B, newMap func(int) Map, n int) {
	keys := genKeys(0, n)
	c := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := newMap(1)
		for _, k := range keys {
			m.Put(k, k)
		}
	}
	b.StopTimer()
	c.Stop()
}

func benchmarkRuntimeMapPutPreAllocate(b *testing.B, n int) {
	keys := genKeys(0, n)
	c := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := make(map[int64]int64, n)
		for _, k := range keys {
			m[k] = k
		}
	}
	b.StopTimer()
	c.Stop()
}

func benchmarkMapPutPreAllocate(b *testing.B, newMap func(int) Map, n int) {
	keys := genKeys(0, n)
	c := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := newMap(n)
		for _, k := range keys {
			m.Put(k, k)
		}
	}
	b.StopTimer()
	c.Stop()
}

func benchmarkRuntimeMapPutDelete(b *testing.B, n int) {
	m := make(map[int64]int64, n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m[k] = k
	}
	c := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i & (n - 1)
		delete(m, keys[j])
		m[keys[j]] = keys[j]
	}
	b.StopTimer()
	c.Stop()
}

func benchmarkMapPutDelete(b *testing.B, newMap func(int) Map, n int) {
	m := newMap(n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m.Put(k, k)
	}
	c := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i & (n - 1)
		m.Delete(keys[j])
		m.Put(keys[j], keys[j])
	}
	b.StopTimer()
	c.Stop()
}
