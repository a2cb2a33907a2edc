// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package descent

import "github.com/cespare/xxhash"

// redundancyKey identifies a subtree of the search that, if reached again
// by a different edit path, explores the same remaining problem: same
// orientation, same read window already consumed, same reference length
// consumed, and the same forward-index SA range. Two descents sharing a
// key are interchangeable from here on, so only the cheaper (lower
// penalty) one needs to survive.
type redundancyKey struct {
	fw             bool
	al5pi, al5pf   int
	refLen         int
	topFwd, botFwd uint64
}

func (k redundancyKey) hash() uint64 {
	var buf [41]byte
	putBool(buf[0:1], k.fw)
	putInt(buf[1:9], k.al5pi)
	putInt(buf[9:17], k.al5pf)
	putInt(buf[17:25], k.refLen)
	putUint64(buf[25:33], k.topFwd)
	putUint64(buf[33:41], k.botFwd)
	return xxhash.Sum64(buf[:])
}

func putBool(b []byte, v bool) {
	if v {
		b[0] = 1
	} else {
		b[0] = 0
	}
}

func putInt(b []byte, v int) { putUint64(b, uint64(v)) }

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

type reEntry struct {
	key redundancyKey
	pen int
}

// RedundancyChecker suppresses re-exploration of a subtree already reached
// by an equal-or-cheaper path. It is scoped to a single Driver.Go call.
type RedundancyChecker struct {
	buckets map[uint64][]reEntry
}

// NewRedundancyChecker returns an empty checker.
func NewRedundancyChecker() *RedundancyChecker {
	return &RedundancyChecker{buckets: make(map[uint64][]reEntry)}
}

// Check reports whether the subtree named by key, at penalty pen, is worth
// exploring: true if this is the first time key has been seen, or if pen
// improves on every previously recorded penalty for key (in which case the
// record is updated in place). It mutates the checker.
func (r *RedundancyChecker) Check(key redundancyKey, pen int) bool {
	h := key.hash()
	bucket := r.buckets[h]
	for i, e := range bucket {
		if e.key == key {
			if pen < e.pen {
				bucket[i].pen = pen
				return true
			}
			return false
		}
	}
	r.buckets[h] = append(bucket, reEntry{key: key, pen: pen})
	return true
}

// Contains reports whether key has already been recorded at a penalty no
// worse than pen, without mutating the checker. Used by RecalcOutgoing to
// pre-filter candidate edges before they're pushed onto the heap.
func (r *RedundancyChecker) Contains(key redundancyKey, pen int) bool {
	for _, e := range r.buckets[key.hash()] {
		if e.key == key {
			return e.pen <= pen
		}
	}
	return false
}
