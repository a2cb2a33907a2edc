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
	"github.com/grailbio/base/log"

	"github.com/grailbio/bio-descent/fmindex"
	"github.com/grailbio/bio-descent/fmtypes"
	"github.com/grailbio/bio-descent/query"
	"github.com/grailbio/bio-descent/scoring"
)

// nobranchDepth caps how many characters the ftab root-start fast path is
// allowed to consume in one jump: past this depth the constant-time
// lookup savings stop mattering relative to the loss of per-character
// redundancy bookkeeping.
const nobranchDepth = 20

// engine owns everything scoped to one Driver.Go call: the arenas, the
// frontier heap, the redundancy checker and the sink alignments are
// reported to. Nothing here survives past the call that created it.
type engine struct {
	q     query.Query
	sc    scoring.Scheme
	fw    fmindex.Index
	mirr  fmindex.Index
	met   *Metrics
	sink  *AlignmentSink
	pool  DescentPool
	pos   PosPool
	heap  Heap
	rc    *RedundancyChecker
	roots []Root
}

// consFor returns the PenaltyConstraint of the root d descended from:
// PenaltyConstraint is per-root (DescentConfig), not shared across the
// whole search.
func (e *engine) consFor(d *Descent) PenaltyConstraint {
	return e.roots[d.rid].Config.Cons
}

// indexFor returns the index that should be walked for a descent
// currently extending left-to-right xor right-to-left, given which strand
// the root chose.
func (e *engine) indexFor(l2r bool) fmindex.Index {
	if l2r {
		return e.fw
	}
	return e.mirr
}

// AddRoot registers a search root and seeds the frontier with it.
func (e *engine) AddRoot(r Root) {
	if r.Off5p < 0 || r.Off5p > e.q.Length() {
		log.Panicf("descent: root offset %d out of range for read of length %d", r.Off5p, e.q.Length())
	}
	rid := len(e.roots)
	e.roots = append(e.roots, r)
	d := e.pool.Alloc()
	desc := e.pool.At(d)
	*desc = Descent{
		rid:    rid,
		al5pi:  r.Off5p,
		al5pf:  r.Off5p,
		l2r:    r.L2R,
		posid:  posSentinel,
		parent: noneParent,
	}
	e.initRootRange(d)
	if !e.followMatches(d) {
		// Redundant at the very first position: this root can't reach
		// anything a cheaper path hasn't already covered.
		return
	}
	desc = e.pool.At(d)
	if e.done(desc) {
		e.sink.Report(&e.pool, d, r.Fw)
		return
	}
	if e.hitEnd(desc) {
		e.bounce(d)
		if !e.followMatches(d) {
			return
		}
		desc = e.pool.At(d)
		if e.done(desc) {
			e.sink.Report(&e.pool, d, r.Fw)
			return
		}
	}
	e.recalcOutgoing(d)
	desc = e.pool.At(d)
	if !desc.out.empty() {
		e.heap.Push(d, desc.out.bestPri())
	}
}

// initRootRange sets a fresh root descent's SA range to the whole index.
func (e *engine) initRootRange(d int) {
	desc := e.pool.At(d)
	idx := e.indexFor(desc.l2r)
	desc.topf, desc.botf = idx.FChr(fmtypes.BaseA), idx.FChr(fmtypes.NBase)
	desc.topb, desc.botb = desc.topf, desc.botf
}

// run drains the frontier, expanding the best descent each iteration
// until either the heap empties or a caller-supplied budget (none today,
// but the loop shape leaves room for one) is exhausted.
func (e *engine) run() {
	for {
		d, ok := e.heap.Pop()
		if !ok {
			return
		}
		desc := e.pool.At(d)
		if desc.out.empty() {
			continue
		}
		edge := desc.out.rotate()
		if !desc.out.empty() {
			e.heap.Push(d, desc.out.bestPri())
		}
		e.met.Branches++
		if log.At(log.Debug) {
			log.Debug.Printf("descent: branching descent %d via %v at pen %d", d, edge.Edit.Kind, edge.Pri.Pen)
		}
		e.followBestOutgoing(d, edge)
	}
}

// followMatches extends d by exact matches for as long as the read
// continues to agree with a nonempty SA range, recording each step's
// four-way SA-range quad into a freshly allocated Pos. If the descent is
// at its root and enough characters remain to fill one ftab window, it
// jumps the whole window in one lookup instead of walking it a character
// at a time (mirroring the ftab fast-start optimization in
// aligner_seed2.cpp, capped at nobranchDepth since past that the
// bookkeeping cost of skipping per-character redundancy checks catches up
// with the lookup savings).
// followMatches's return value distinguishes the two ways a redundancy hit
// (§4.3 termination condition 3) can end a walk: false means the very
// first position (post-ftab, or the position the incoming edit just
// landed on) was already covered by a cheaper-or-equal path, so the whole
// descent is worthless and the caller must abandon it without calling
// RecalcOutgoing. true means either the walk completed normally or it was
// cut short by a redundancy hit (or an empty SA range) at some later
// position, in which case the descent is still viable: it just stops
// extending exactly as it would on an empty SA range, and RecalcOutgoing
// runs as usual from wherever it stopped.
func (e *engine) followMatches(d int) bool {
	desc := e.pool.At(d)
	idx := e.indexFor(desc.l2r)
	readLen := e.q.Length()
	desc.off5pI = e.nextOffset(desc)

	if desc.parent == noneParent && desc.length == 0 && desc.al5pi == desc.al5pf {
		ftabChars := idx.FTabChars()
		if ftabChars > 1 && ftabChars <= nobranchDepth {
			off := e.windowOffset(desc, ftabChars)
			if off >= 0 {
				seq := e.q.Seq(e.rootFw(desc))
				rng := idx.FtabLoHi(seq, off)
				if !rng.Empty() {
					e.applyFtabRange(d, rng, ftabChars)
					desc = e.pool.At(d)
				}
			}
		}
	}

	if !e.checkRedundant(desc) {
		return false
	}

	for {
		if desc.al5pf-desc.al5pi >= readLen {
			return true // consumed the whole read; nothing left to walk
		}
		off5p := e.nextOffset(desc)
		if off5p < 0 || off5p >= readLen {
			return true
		}
		c := e.q.GetC(off5p, e.rootFw(desc))
		loc := fmindex.Locus{Top: desc.topf, Bot: desc.botf, CompanionTop: desc.topb}

		if loc.Width() == 1 {
			// Width-1 quick reject: a single LF-mapping lookup is cheaper
			// than the full bidirectional quad and tells us immediately
			// whether exact-match extension can continue at all. We still
			// need the full quad below for RecalcOutgoing's mismatch/gap
			// alternatives, so this only short-circuits the failure case.
			nc, _, ok := idx.MapLF1(loc)
			e.met.BWOps1++
			if !ok || nc != c {
				return true
			}
		}

		t, b, tp, bp := idx.MapBiLFEx(loc)
		e.met.BWOpsBi++
		for j := fmtypes.Base(0); j < fmtypes.NBase; j++ {
			if b[j]-t[j] != bp[j]-tp[j] {
				log.Panicf("descent: MapBiLFEx width mismatch for base %v: forward %d, mirror %d", j, b[j]-t[j], bp[j]-tp[j])
			}
		}
		if c >= fmtypes.NBase || b[c] <= t[c] {
			// An ambiguous read base (N) matches nothing, and otherwise no
			// suffix in the current range is preceded by c: exact-match
			// extension stops here, leaving RecalcOutgoing to enumerate
			// the mismatch/gap edges.
			return true
		}
		p := Pos{Topf: t, Botf: b, Topb: tp, Botb: bp, C: c}
		// A "mismatch" to the base actually matched is nonsensical, so mark
		// it pre-explored: otherwise this Pos could never reach exhausted().
		// The bit must still be clear on a freshly allocated Pos.
		if !p.flags.mmExplore(c) {
			log.Panicf("descent: flag bit for base %v already set on freshly allocated Pos", c)
		}
		desc.topf, desc.botf = t[c], b[c]
		desc.topb, desc.botb = tp[c], bp[c]

		pid := e.pos.Alloc()
		*e.pos.At(pid) = p
		desc.posid = pid
		desc.length++
		if desc.l2r {
			desc.al5pf++
		} else {
			desc.al5pi--
		}
		if !e.checkRedundant(desc) {
			// Redundant with a path already explored, but this descent
			// already made progress: stop extending, same as an empty SA
			// range, and let RecalcOutgoing branch from here.
			return true
		}
	}
}

// checkRedundant reports whether d's current state is still worth
// exploring, recording it in the checker as a side effect. Used both as
// FollowMatches's termination condition 3 (§4.3) and, via
// RedundancyChecker.Contains, as RecalcOutgoing's pre-commit filter
// (§4.6) — this one mutates, that one doesn't.
func (e *engine) checkRedundant(d *Descent) bool {
	return e.rc.Check(e.redundancyKeyFor(d), d.pen)
}

func (e *engine) redundancyKeyFor(d *Descent) redundancyKey {
	return redundancyKey{
		fw:     d.l2r,
		al5pi:  d.al5pi,
		al5pf:  d.al5pf,
		refLen: d.refLen(),
		topFwd: d.topf,
		botFwd: d.botf,
	}
}

// candidateKey builds the redundancy key the child spawned by a not-yet-
// committed edge of kind would carry, mirroring FollowBestOutgoing's
// al5pi'/al5pf'/gapadd bookkeeping for that same edge kind. Used to
// pre-filter RecalcOutgoing's candidate edges (§4.6's contains) before
// they're pushed into the outgoing summary.
func (e *engine) candidateKey(d *Descent, kind Kind, off5p int, topFwd, botFwd uint64) redundancyKey {
	al5pi, al5pf, gapadd := d.al5pi, d.al5pf, d.gapadd
	switch kind {
	case Mismatch:
		if d.l2r {
			al5pf = off5p + 1
		} else {
			al5pi = off5p
		}
	case ReadGap:
		gapadd++
	case RefGap:
		if d.l2r {
			al5pf = off5p + 1
		} else {
			al5pi = off5p
		}
		gapadd--
	}
	return redundancyKey{
		fw:     d.l2r,
		al5pi:  al5pi,
		al5pf:  al5pf,
		refLen: al5pf - al5pi + gapadd,
		topFwd: topFwd,
		botFwd: botFwd,
	}
}

// rootFw reports which strand orientation the descent's root chose.
func (e *engine) rootFw(d *Descent) bool { return e.roots[d.rid].Fw }

// windowOffset returns the read offset a ftabChars-length window should
// start at for a fresh root descent, or -1 if the read is too short.
func (e *engine) windowOffset(d *Descent, ftabChars int) int {
	if d.l2r {
		if d.al5pi+ftabChars > e.q.Length() {
			return -1
		}
		return d.al5pi
	}
	if d.al5pf-ftabChars < 0 {
		return -1
	}
	return d.al5pf - ftabChars
}

// applyFtabRange advances d by ftabChars characters in one step using a
// precomputed ftab range, without recording intermediate Pos entries: a
// ftab jump is all-or-nothing and can't be partially rolled back to a
// mismatch branch the way a character-at-a-time walk can.
func (e *engine) applyFtabRange(d int, rng fmtypes.Range, ftabChars int) {
	desc := e.pool.At(d)
	desc.topf, desc.botf = rng.Top, rng.Bot
	desc.topb, desc.botb = rng.Top, rng.Bot
	desc.length += ftabChars
	if desc.l2r {
		desc.al5pf += ftabChars
	} else {
		desc.al5pi -= ftabChars
	}
}

// nextOffset returns the 5'-relative offset the next character walked by
// d will occupy.
func (e *engine) nextOffset(d *Descent) int {
	if d.l2r {
		return d.al5pf
	}
	return d.al5pi - 1
}

// hitEnd reports whether d has walked all the way to the end of the read
// in its current direction.
func (e *engine) hitEnd(d *Descent) bool {
	if d.l2r {
		return d.al5pf >= e.q.Length()
	}
	return d.al5pi <= 0
}

// done reports whether d has consumed the entire read: end-to-end.
func (e *engine) done(d *Descent) bool {
	return d.al5pf-d.al5pi >= e.q.Length()
}

// bounce flips a descent's walking direction once it has hit one end of
// the read but not consumed the whole thing, continuing the search from
// the other end inward. It does not create a new Descent: it mutates d's
// posid back to sentinel (the flipped direction has no Pos history of its
// own yet) and clears length, leaving al5pi/al5pf, the penalty and the SA
// ranges untouched, exactly like aligner_seed2.cpp's Descent::bounce.
func (e *engine) bounce(d int) {
	desc := e.pool.At(d)
	desc.l2r = !desc.l2r
	desc.posid = posSentinel
	desc.length = 0
}

// recalcOutgoing enumerates every outgoing edge from d not yet explored at
// its Pos (mismatch to each of the 3 alternate bases, read-gap inserting
// each of 4 bases, ref-gap) whose resulting penalty stays within the
// constraint, keeping the best nOutgoing in d's summary. Edges pruned by
// redundancy checking are skipped without occupying a summary slot.
func (e *engine) recalcOutgoing(d int) {
	desc := e.pool.At(d)
	desc.out = outgoingSummary{}
	readLen := e.q.Length()
	off5p := e.nextOffset(desc)

	gapsAllowed := e.gapsAllowed(desc)

	if desc.posid == posSentinel {
		// No Pos yet: this is a root, or a descent that just bounced. Its
		// SA range is desc.topf/botf directly rather than a recorded Pos's
		// per-base quad, so mismatch/gap candidates are built against a
		// synthetic single-base view: only ref-gap makes sense here since
		// mismatch and read-gap both need to know which of the 4 possible
		// next characters the index actually has rows for, and without a
		// Pos we haven't computed that yet.
		if gapsAllowed && off5p >= 0 && off5p < readLen {
			e.considerRefGap(d, off5p, posSentinel)
		}
		desc.lastRecalc = true
		return
	}

	pos := e.pos.At(desc.posid)
	if off5p < 0 || off5p >= readLen {
		desc.lastRecalc = true
		return
	}
	readC := e.q.GetC(off5p, e.rootFw(desc))
	_, qual := e.q.Get(off5p, e.rootFw(desc))

	for c := fmtypes.Base(0); c < fmtypes.NBase; c++ {
		if c == pos.C {
			continue // the matching base is exact-match, not a mismatch edge
		}
		if pos.Botf[c] <= pos.Topf[c] {
			continue // no reference rows agree with this alternate base
		}
		if !pos.flags.mmExplore(c) {
			continue
		}
		pen := desc.pen + e.sc.MM(readC, qual)
		if pen > e.consFor(desc).At(depth(desc)+1) {
			continue
		}
		if e.rc.Contains(e.candidateKey(desc, Mismatch, off5p, pos.Topf[c], pos.Botf[c]), pen) {
			continue
		}
		e.pushEdge(d, DescentEdge{
			Edit:  Edit{Kind: Mismatch, Pos: off5p, ReadChar: readC, RefChar: c},
			Off5p: off5p,
			D:     desc.posid,
			Pri:   DescentPriority{Pen: pen, Depth: depth(desc) + 1, Width: pos.Botf[c] - pos.Topf[c], RootPri: e.roots[desc.rid].Pri},
		})
	}

	if gapsAllowed {
		for c := fmtypes.Base(0); c < fmtypes.NBase; c++ {
			if pos.Botf[c] <= pos.Topf[c] {
				continue
			}
			if !pos.flags.rdgExplore(c) {
				continue
			}
			// Extension applies only at the position this descent started
			// extending from, and only if the incoming edge is itself a
			// read gap: everywhere else this is a fresh gap opening, even
			// if some other gap kind sits further up the path (gapadd is
			// a net counter and can't tell "adjacent" from "elsewhere").
			extend := off5p == desc.off5pI && desc.edit.IsReadGap()
			var pen int
			var pos2 int
			if extend {
				pen = desc.pen + e.sc.ReadGapExtend()
				pos2 = desc.edit.Pos2 + gapChainStep(desc.l2r)
			} else {
				pen = desc.pen + e.sc.ReadGapOpen()
			}
			// A read gap consumes no read character, so the child stays at
			// this descent's depth.
			if pen > e.consFor(desc).At(depth(desc)) {
				continue
			}
			if e.rc.Contains(e.candidateKey(desc, ReadGap, off5p, pos.Topf[c], pos.Botf[c]), pen) {
				continue
			}
			e.pushEdge(d, DescentEdge{
				Edit:  Edit{Kind: ReadGap, Pos: readGapPos(off5p, desc.l2r), Pos2: pos2, RefChar: c},
				Off5p: off5p,
				D:     desc.posid,
				Pri:   DescentPriority{Pen: pen, Depth: depth(desc) + 1, Width: pos.Botf[c] - pos.Topf[c], RootPri: e.roots[desc.rid].Pri},
			})
		}
		e.considerRefGap(d, off5p, desc.posid)
	}

	desc.lastRecalc = true
}

// depth returns the number of read characters committed from the root
// through d: the basis for both PenaltyConstraint lookups and
// DescentPriority ordering. Unlike d.length (which resets to 0 at every
// edit and at every bounce), this is cumulative across the whole path.
func depth(d *Descent) int { return d.al5pf - d.al5pi }

// readGapPos returns the read-relative position a read-gap Edit records
// at off5p: read gaps consume a reference character with no matching read
// character, so walking right-to-left the edit sits one past off5p.
func readGapPos(off5p int, l2r bool) int {
	if l2r {
		return off5p
	}
	return off5p + 1
}

// gapChainStep returns the increment applied to a read gap's Pos2 as the
// gap chain extends, tracking direction the same way al5pi/al5pf do.
func gapChainStep(l2r bool) int {
	if l2r {
		return 1
	}
	return -1
}

// gapsAllowed reports whether d's current read offset lies outside the
// scoring scheme's gap-forbidden zone at both read ends.
func (e *engine) gapsAllowed(d *Descent) bool {
	gapbar := e.sc.Gapbar()
	off5p := e.nextOffset(d)
	off3p := e.q.Length() - 1 - off5p
	return off5p >= gapbar && off3p >= gapbar
}

// considerRefGap pushes the ref-gap edge (consumes a read character
// without consuming a reference character) if it's affordable. Ref-gap
// doesn't need a per-base Pos lookup, since it doesn't depend on which
// reference base would be matched: it can be computed even at
// posSentinel, off the root's own SA range.
func (e *engine) considerRefGap(d int, off5p, posid int) {
	desc := e.pool.At(d)
	var explored *posFlags
	if posid != posSentinel {
		explored = &e.pos.At(posid).flags
	} else {
		explored = &desc.rfgOnce
	}
	if !explored.rfgExplore() {
		return
	}
	readC := e.q.GetC(off5p, e.rootFw(desc))
	extend := off5p == desc.off5pI && desc.edit.IsRefGap()
	var pen int
	if extend {
		pen = desc.pen + e.sc.RefGapExtend()
	} else {
		pen = desc.pen + e.sc.RefGapOpen()
	}
	if pen > e.consFor(desc).At(depth(desc)+1) {
		return
	}
	if e.rc.Contains(e.candidateKey(desc, RefGap, off5p, desc.topf, desc.botf), pen) {
		return
	}
	e.pushEdge(d, DescentEdge{
		Edit:  Edit{Kind: RefGap, Pos: off5p, ReadChar: readC},
		Off5p: off5p,
		D:     posid,
		Pri:   DescentPriority{Pen: pen, Depth: depth(desc) + 1, Width: desc.botf - desc.topf, RootPri: e.roots[desc.rid].Pri},
	})
}

func (e *engine) pushEdge(d int, edge DescentEdge) {
	e.pool.At(d).out.update(edge)
}

// followBestOutgoing turns the given outgoing edge into a child descent:
// allocates a Descent, computes its SA range either from the parent Pos
// (mismatch/read-gap) or from the parent's own range (ref-gap), applies
// the edit's penalty and read-interval delta, then resumes exact-match
// walking, bounces at read ends, and reports a completed end-to-end
// alignment to the sink.
func (e *engine) followBestOutgoing(parent int, edge DescentEdge) {
	pd := e.pool.At(parent)
	cd := e.pool.Alloc()
	// Re-fetch pd: Alloc may have reallocated the pool's backing array.
	pd = e.pool.At(parent)
	child := e.pool.At(cd)
	*child = *pd
	child.parent = parent
	child.edit = edge.Edit
	child.pen = edge.Pri.Pen
	child.length = 0
	child.posid = posSentinel
	child.rfgOnce = 0
	child.out = outgoingSummary{}
	child.lastRecalc = false

	switch edge.Edit.Kind {
	case Mismatch, ReadGap:
		p := e.pos.At(edge.D)
		c := edge.Edit.RefChar
		child.topf, child.botf = p.Topf[c], p.Botf[c]
		child.topb, child.botb = p.Topb[c], p.Botb[c]
		if edge.Edit.Kind == Mismatch {
			if pd.l2r {
				child.al5pf = edge.Off5p + 1
			} else {
				child.al5pi = edge.Off5p
			}
		} else {
			// ReadGap consumes a reference character only; the read
			// interval doesn't advance.
			child.gapadd = pd.gapadd + 1
		}
	case RefGap:
		child.topf, child.botf = pd.topf, pd.botf
		child.topb, child.botb = pd.topb, pd.botb
		if pd.l2r {
			child.al5pf = edge.Off5p + 1
		} else {
			child.al5pi = edge.Off5p
		}
		child.gapadd = pd.gapadd - 1
	}

	if child.pen > e.consFor(child).At(depth(child)) {
		log.Panicf("descent: penalty %d exceeds constraint %d at depth %d", child.pen, e.consFor(child).At(depth(child)), depth(child))
	}

	e.met.Allocs++
	if !e.followMatches(cd) {
		// Redundant at the position the edit just landed on: a
		// cheaper-or-equal path already covers everything this child
		// could reach. Rolling back the Pos allocations this step made
		// would require tracking them, which followMatches doesn't do, so
		// the child is simply left unreachable (never pushed to the heap,
		// never reported) rather than truncating the pools.
		return
	}
	child = e.pool.At(cd)

	if e.done(child) {
		e.sink.Report(&e.pool, cd, e.roots[child.rid].Fw)
		return
	}
	if e.hitEnd(child) {
		e.bounce(cd)
		child = e.pool.At(cd)
		if !e.followMatches(cd) {
			return
		}
		child = e.pool.At(cd)
		if e.done(child) {
			e.sink.Report(&e.pool, cd, e.roots[child.rid].Fw)
			return
		}
	}

	e.recalcOutgoing(cd)
	child = e.pool.At(cd)
	if !child.out.empty() {
		e.heap.Push(cd, child.out.bestPri())
	}
}
