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

// noneParent marks a root descent: one with no incoming edit and nothing
// to walk back to when reconstructing an alignment's edit path.
const noneParent = -1

// posSentinel stands in for "no Pos allocated yet": a root descent, or a
// ref-gap edge computed directly off the root's SA range rather than off a
// Pos recorded by a prior FollowMatches call. RecalcOutgoing and
// considerRefGap special-case it rather than allocating a throwaway Pos
// just to hold the root's ranges.
const posSentinel = -1

// Descent is one node of the search tree: a contiguous, gap-free walk
// along the read from some starting offset, in one direction, bounded by
// the SA ranges (topf,botf) in the index it's walking forward through and
// the synchronized (topb,botb) in the companion index. It ends either
// because it reached the end of the read in its walking direction (and
// may then bounce) or because every extension was pruned by the penalty
// constraint or exhausted by redundancy checking.
type Descent struct {
	rid int // index into the root list this descent's search began from

	// al5pi, al5pf are the read interval, in 5'-relative coordinates,
	// this descent (and its ancestors) has committed to: [al5pi, al5pf).
	al5pi, al5pf int

	l2r bool // current walking direction: left-to-right in 5'->3' coords

	topf, botf uint64 // SA range in the index currently being walked
	topb, botb uint64 // synchronized range in the companion index

	posid  int // PosPool index of the last position walked, or posSentinel
	length int // number of characters walked by this descent (not cumulative)
	pen    int // cumulative penalty from the root through this descent

	edit   Edit // the edit this descent's incoming edge applied, if any
	parent int  // DescentPool index of the parent, or noneParent

	// off5pI is the 5' offset FollowMatches started extending from, set
	// fresh on entry to FollowMatches (including after a bounce). It is
	// the only position at which a read-gap or ref-gap edge may be
	// admitted as an *extension* of the incoming edit rather than the
	// opening of a fresh one: RecalcOutgoing only reconsiders the single
	// position this descent stalled at, so "extends the incoming gap"
	// reduces to "stalled at the very first position examined, and the
	// incoming edit is a gap of the matching kind".
	off5pI int

	gapadd int // net reference-length delta contributed by gaps so far

	// rfgOnce tracks whether the ref-gap edge has been explored for a
	// descent still at posSentinel (root or just-bounced): there's no Pos
	// to hang the flag off yet, so it lives directly on the Descent. Only
	// the rfgBit of this field is ever touched.
	rfgOnce posFlags

	out        outgoingSummary
	lastRecalc bool // set by every RecalcOutgoing call; not read by the engine
}

// refLen returns the number of reference characters consumed from the
// root through this descent: the read interval width plus the net gap
// adjustment.
func (d *Descent) refLen() int { return d.al5pf - d.al5pi + d.gapadd }
