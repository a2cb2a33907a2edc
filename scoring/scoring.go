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

// Package scoring defines the penalty model the descent search engine is
// bounded by: mismatch and gap-open/extend costs, the minimum acceptable
// score for a read of a given length, and the gap-forbidden zone near read
// ends.
package scoring

import "github.com/grailbio/bio-descent/fmtypes"

// Scheme is the external scoring collaborator. All methods are pure
// functions of their arguments; a Scheme carries no per-alignment state.
type Scheme interface {
	// MM returns the penalty for aligning read base c (with the given
	// Phred-scale quality) against a reference base it does not match.
	// N-containing reads are treated as an ordinary mismatch: there is no
	// special-cased bail-out for Ns.
	MM(c fmtypes.Base, qual int) int

	// ReadGapOpen/ReadGapExtend price a gap that consumes a reference
	// character without consuming a read character (a deletion from the
	// read's perspective).
	ReadGapOpen() int
	ReadGapExtend() int

	// RefGapOpen/RefGapExtend price a gap that consumes a read character
	// without consuming a reference character (an insertion into the read).
	RefGapOpen() int
	RefGapExtend() int

	// Gapbar is the minimum distance, in bases, from either end of the read
	// within which gaps are forbidden.
	Gapbar() int

	// ScoreMin is the minimum alignment score a read of the given length
	// may achieve and still be reported by later pipeline stages. Not
	// consulted by the descent engine itself (spec.md scopes score-floor
	// enforcement to callers), but part of the external interface every
	// Scheme must provide.
	ScoreMin(readLen int) int

	// PerfectScore is the score of a read of the given length with no
	// mismatches or gaps.
	PerfectScore(readLen int) int
}

// Base1 is Bowtie2's Scoring::base1(): a mismatch costs 6, gap-open costs
// 5, gap-extend costs 3, and the gap-forbidden zone is 4 bases at each read
// end. It is the scheme used by the original C++ test harness this package
// is grounded on.
type Base1 struct {
	// MMPenalty overrides the flat mismatch penalty when non-zero; zero
	// means "use the default of 6, ignoring quality."
	MMPenalty int
}

var _ Scheme = Base1{}

// MM ignores quality (base1 is a flat-penalty scheme) and returns the
// configured mismatch penalty, defaulting to 6.
func (s Base1) MM(_ fmtypes.Base, _ int) int {
	if s.MMPenalty != 0 {
		return s.MMPenalty
	}
	return 6
}

func (s Base1) ReadGapOpen() int   { return 5 }
func (s Base1) ReadGapExtend() int { return 3 }
func (s Base1) RefGapOpen() int    { return 5 }
func (s Base1) RefGapExtend() int  { return 3 }
func (s Base1) Gapbar() int        { return 4 }

func (s Base1) ScoreMin(readLen int) int     { return -0 }
func (s Base1) PerfectScore(readLen int) int { return 0 }
