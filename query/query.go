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

// Package query holds the read sequence the descent engine aligns: its
// forward and reverse-complement views, and per-base quality.
package query

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/bio-descent/fmtypes"
)

// Query is a read plus its reverse complement, with quality strings for
// both orientations. Once constructed it is immutable; the descent engine
// never mutates it.
type Query struct {
	seq, seqRC   []fmtypes.Base
	qual, qualRC []int
}

// New builds a Query from a forward-strand sequence and Phred-scale
// qualities. The reverse-complement view is derived automatically.
func New(seq []fmtypes.Base, qual []int) Query {
	if len(seq) != len(qual) {
		log.Panicf("query.New: sequence length %d != quality length %d", len(seq), len(qual))
	}
	n := len(seq)
	rc := make([]fmtypes.Base, n)
	qrc := make([]int, n)
	for i := 0; i < n; i++ {
		rc[i] = seq[n-1-i].Complement()
		qrc[i] = qual[n-1-i]
	}
	return Query{seq: seq, seqRC: rc, qual: qual, qualRC: qrc}
}

// Length returns the read length, which is the same in both orientations.
func (q Query) Length() int { return len(q.seq) }

// Get returns the base and quality at 5'-relative offset off5p in the
// orientation selected by fw (true: forward strand, false: reverse
// complement).
func (q Query) Get(off5p int, fw bool) (fmtypes.Base, int) {
	if fw {
		return q.seq[off5p], q.qual[off5p]
	}
	return q.seqRC[off5p], q.qualRC[off5p]
}

// GetC is a convenience wrapper around Get that drops the quality, for
// callers that need only the base.
func (q Query) GetC(off5p int, fw bool) fmtypes.Base {
	b, _ := q.Get(off5p, fw)
	return b
}

// Seq returns the sequence in the given orientation, for use by
// ftab-window lookups that need a contiguous slice rather than
// character-at-a-time access.
func (q Query) Seq(fw bool) []fmtypes.Base {
	if fw {
		return q.seq
	}
	return q.seqRC
}
