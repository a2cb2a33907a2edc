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

// Package fmindex defines IndexView, the read-only view over a paired
// FM-index that the descent search engine is driven by, and ships a
// reference in-memory implementation (memindex) for tests and the
// cmd/descent-demo driver. Building and loading the production, on-disk
// ebwt/ftab representation (Bowtie2's format) is out of scope: this package
// exists to give the descent engine something real to walk, not to be a
// production index.
package fmindex

import "github.com/grailbio/bio-descent/fmtypes"

// Locus is the position-within-BWT abstraction the descent engine threads
// from one backward-search step to the next. It names a range [Top, Bot)
// in the index currently being walked, plus the top of the synchronized
// companion range in the other (mirror) index. CompanionTop is all that's
// needed to advance the companion range, because the companion's per-base
// width distribution equals the walked range's per-base width
// distribution (botf-topf == botb-topb is exactly this fact at width
// granularity).
type Locus struct {
	Top, Bot     uint64
	CompanionTop uint64
}

// Valid reports whether the locus names a non-empty range.
func (l Locus) Valid() bool { return l.Bot > l.Top }

// Width returns the number of SA rows spanned.
func (l Locus) Width() uint64 {
	if !l.Valid() {
		return 0
	}
	return l.Bot - l.Top
}

// CompanionBot is the bottom of the synchronized companion range.
func (l Locus) CompanionBot() uint64 { return l.CompanionTop + l.Width() }

// RowLocus builds a Locus for the single-row case (width 1), with
// companionTop as the matching single row in the companion index.
func RowLocus(row, companionRow uint64) Locus {
	return Locus{Top: row, Bot: row + 1, CompanionTop: companionRow}
}

// Index is the external IndexView collaborator: a read-only view over one
// side (forward or mirror) of a paired FM-index. The descent engine never
// mutates it and never assumes anything about its internal representation
// beyond this interface.
type Index interface {
	// FTabChars is the k-mer length ftab jump-starts are precomputed for.
	FTabChars() int

	// FChr returns the base-wise prefix sum of suffix-array starts: the
	// number of suffixes lexicographically ordered before every suffix
	// beginning with c.
	FChr(c fmtypes.Base) uint64

	// FtabLoHi looks up the precomputed SA range for the FTabChars()-length
	// pattern beginning at pattern[off]. Returns an empty range if the
	// k-mer never occurs, or if off doesn't leave room for a full window.
	FtabLoHi(pattern []fmtypes.Base, off int) fmtypes.Range

	// MapLF1 is the width-1 fast path: loc must satisfy loc.Width() == 1.
	// It returns the single base that occupies that row, the resulting
	// (still width-1) locus after extending by that base, and ok=false if
	// the row has no predecessor (the sentinel row).
	MapLF1(loc Locus) (c fmtypes.Base, next Locus, ok bool)

	// MapBiLFEx extends loc by one character in every possible direction,
	// returning the four resulting ranges in the walked index (t, b) and
	// the four synchronized ranges in the companion index (tp, bp), index
	// by fmtypes.Base. Invariant: b[c]-t[c] == bp[c]-tp[c] for all c.
	MapBiLFEx(loc Locus) (t, b, tp, bp [fmtypes.NBase]uint64)
}
