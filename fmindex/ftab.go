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

package fmindex

import (
	"github.com/biogo/store/llrb"
	"github.com/grailbio/bio-descent/fmtypes"
)

// ftabEntry maps a 2-bit-packed k-mer to its SA range. It's stored in an
// llrb.Tree rather than a plain Go map, the same ordered-map choice
// encoding/bampair/shard_info.go makes for its shard-lookup index.
type ftabEntry struct {
	key uint64
	rng fmtypes.Range
}

func (e ftabEntry) Compare(other llrb.Comparable) int {
	o := other.(ftabEntry)
	switch {
	case e.key < o.key:
		return -1
	case e.key > o.key:
		return 1
	default:
		return 0
	}
}

// encodeKmer packs a sequence of bases (length <= 32) into a uint64, two
// bits per base, for use as an llrb key. ok is false if the window
// contains an ambiguous (N) base, in which case there is no ftab entry to
// look up.
func encodeKmer(bases []fmtypes.Base) (key uint64, ok bool) {
	for _, b := range bases {
		if b >= fmtypes.NBase {
			return 0, false
		}
		key = key<<2 | uint64(b)
	}
	return key, true
}

// buildFtab scans the suffix array once, grouping the maximal runs of
// contiguous rows that share the same ftabChars-length prefix (a
// contiguous run because the SA is fully sorted) into one llrb entry per
// distinct k-mer.
func (m *memindex) buildFtab(sa []int, text []byte) {
	m.ftab = llrb.Tree{}
	row := 0
	n := len(sa)
	for row < n {
		start := sa[row]
		if start+m.ftabChars > len(text) {
			row++
			continue
		}
		key, ok := encodeTextKmer(text[start : start+m.ftabChars])
		if !ok {
			row++
			continue
		}
		end := row + 1
		for end < n {
			s2 := sa[end]
			if s2+m.ftabChars > len(text) {
				break
			}
			k2, ok2 := encodeTextKmer(text[s2 : s2+m.ftabChars])
			if !ok2 || k2 != key {
				break
			}
			end++
		}
		m.ftab.Insert(ftabEntry{key: key, rng: fmtypes.Range{Top: uint64(row), Bot: uint64(end)}})
		row = end
	}
}

func encodeTextKmer(bs []byte) (uint64, bool) {
	var key uint64
	for _, b := range bs {
		if int(b) >= fmtypes.NBase {
			return 0, false
		}
		key = key<<2 | uint64(b)
	}
	return key, true
}
