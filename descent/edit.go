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

// Package descent implements the best-first branch-and-bound descent
// search engine: the core of this module. It walks a paired FM-index
// (fmindex.Index), branching on mismatches and gaps under a depth-indexed
// penalty budget, and reports end-to-end alignments as suffix-array
// ranges. Grounded throughout on
// _examples/original_source/aligner_seed2.cpp, Bowtie2's descent
// seed-alignment engine.
package descent

import "github.com/grailbio/bio-descent/fmtypes"

// Kind discriminates the three edit classes a descent can branch on.
type Kind uint8

const (
	// None marks an uninitialized Edit: the incoming edge of a root
	// descent. (A bounce flips an existing descent in place and adds no
	// edit.)
	None Kind = iota
	Mismatch
	ReadGap
	RefGap
)

// Edit describes one deviation from an exact match. Pos is the
// 5'-relative read offset at which the edit occurs. Pos2 tracks a read-gap
// chain's position, incremented/decremented as the gap is extended. Whether
// an edge extends the incoming gap or opens a new one is decided in
// RecalcOutgoing from the descent's off5pI and incoming edit kind, not
// from Pos2.
//
// ReadChar and RefChar are populated according to Kind:
//   - Mismatch: ReadChar is the read base, RefChar is the reference base
//     the outgoing edge matches against.
//   - ReadGap (consumes a reference character, not a read character):
//     RefChar is the consumed reference base; ReadChar is unused.
//   - RefGap (consumes a read character, not a reference character):
//     ReadChar is the consumed read base; RefChar is unused.
type Edit struct {
	Kind     Kind
	Pos      int
	Pos2     int
	ReadChar fmtypes.Base
	RefChar  fmtypes.Base
}

// Inited reports whether e carries a real edit (as opposed to the
// uninitialized sentinel used for roots).
func (e Edit) Inited() bool { return e.Kind != None }

func (e Edit) IsMismatch() bool { return e.Kind == Mismatch }
func (e Edit) IsReadGap() bool  { return e.Kind == ReadGap }
func (e Edit) IsRefGap() bool   { return e.Kind == RefGap }
