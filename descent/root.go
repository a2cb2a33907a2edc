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

import "math"

// Root is a search root: a position and direction from which to begin
// exploring the combined FM-index.
type Root struct {
	// Off5p is the 0-based offset, from the 5' end of the read in the
	// orientation selected by Fw, at which this root begins.
	Off5p int
	// L2R is the initial extension direction: left-to-right in 5'->3'
	// read coordinates.
	L2R bool
	// Fw selects whether this root aligns the read's forward sequence or
	// its reverse complement.
	Fw bool
	// Pri is a tiebreak used only after penalty, depth and SA width are
	// equal.
	Pri float64
	// Config bundles this root's search parameters: PenaltyConstraint is
	// per-root, not global, so two roots on the same read can carry
	// different penalty budgets (e.g. a stricter constraint for a root
	// seeded deep into a homopolymer run).
	Config Config
}

// PenaltyConstraint is a depth-indexed cap on cumulative penalty: Cons[d]
// is the maximum penalty permitted once d bases have been aligned from
// the root. It must be non-decreasing and must have an entry for every
// depth from 0 up to and including the read length.
type PenaltyConstraint struct {
	Cons []int
}

// At returns the penalty cap at the given depth.
func (p PenaltyConstraint) At(depth int) int { return p.Cons[depth] }

// LinearConstraint builds a PenaltyConstraint with Cons[d] =
// round(intercept + slope*d), Bowtie2's SIMPLE_FUNC_LINEAR. readLen must
// be the length of the read the constraint will be used with; entries are
// built for depths 0..readLen inclusive.
func LinearConstraint(readLen int, intercept, slope float64) PenaltyConstraint {
	cons := make([]int, readLen+1)
	for d := 0; d <= readLen; d++ {
		cons[d] = int(math.Floor(intercept + slope*float64(d) + 0.5))
	}
	return PenaltyConstraint{Cons: cons}
}

// ExtensionPolicy reserves a slot for future extension-scoring policies.
// Only ExtensionNone is meaningful today: the C++ test harness this
// engine is grounded on (aligner_seed2.cpp's ALIGNER_SEED2_MAIN block)
// only ever exercises DESC_EX_NONE, and the rest of the policy space is
// genuinely unspecified rather than merely unimplemented.
type ExtensionPolicy int

const ExtensionNone ExtensionPolicy = 0

// Config bundles the per-root search parameters.
type Config struct {
	Cons  PenaltyConstraint
	ExPol ExtensionPolicy
}
