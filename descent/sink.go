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

import (
	"sort"

	"github.com/grailbio/bio-descent/fmtypes"
)

// Alignment is one reported end-to-end alignment: the suffix-array range
// of matching reference positions, the orientation searched, the total
// penalty paid, and the edit path from the read's 5' end, in 5'->3'
// order.
type Alignment struct {
	Range fmtypes.Range
	Fw    bool
	Pen   int
	Edits []Edit
}

// AlignmentSink collects completed end-to-end alignments for one
// Driver.Go call, deduplicating by final SA range so the same genomic
// location reached via two different edit paths is reported once, at its
// cheaper penalty.
type AlignmentSink struct {
	seen    map[fmtypes.Range]int // range -> index into Results, for dedup
	Results []Alignment
}

// NewAlignmentSink returns an empty sink.
func NewAlignmentSink() *AlignmentSink {
	return &AlignmentSink{seen: make(map[fmtypes.Range]int)}
}

// Report records a completed end-to-end descent, reconstructing its edit
// path by walking the parent chain back to the root. fw is the strand
// orientation the descent's root searched (not its current walking
// direction, which may have flipped via bounce).
func (s *AlignmentSink) Report(pool *DescentPool, d int, fw bool) {
	desc := pool.At(d)
	rng := fmtypes.Range{Top: desc.topf, Bot: desc.botf}

	edits := reconstructEdits(pool, d)

	if i, ok := s.seen[rng]; ok {
		if desc.pen < s.Results[i].Pen {
			s.Results[i] = Alignment{Range: rng, Fw: fw, Pen: desc.pen, Edits: edits}
		}
		return
	}
	s.seen[rng] = len(s.Results)
	s.Results = append(s.Results, Alignment{Range: rng, Fw: fw, Pen: desc.pen, Edits: edits})
}

// reconstructEdits walks d's parent chain back to its root, collecting
// every inited Edit along the way (leaf-to-root), reverses them into the
// order they were applied, then stable-sorts by Pos so edits come out in
// 5'->3' order; edits sharing a Pos keep their application order.
func reconstructEdits(pool *DescentPool, d int) []Edit {
	var edits []Edit
	for d != noneParent {
		desc := pool.At(d)
		if desc.edit.Inited() {
			edits = append(edits, desc.edit)
		}
		d = desc.parent
	}
	for i, j := 0, len(edits)-1; i < j; i, j = i+1, j-1 {
		edits[i], edits[j] = edits[j], edits[i]
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].Pos < edits[j].Pos })
	return edits
}
