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

import "container/heap"

// DescentPriority orders descents in the best-first frontier: lower
// penalty is always better; among equal-penalty descents, greater depth is
// preferred (a descent that has already committed to more of the read is
// closer to a full end-to-end alignment, so it's explored before starting
// something shallower); among equal penalty and depth, a narrower SA range
// is preferred (it's closer to a unique hit); ties beyond that fall back
// to the root's tiebreak priority.
type DescentPriority struct {
	Pen     int
	Depth   int
	Width   uint64
	RootPri float64
}

// Less reports whether p should be popped before o.
func (p DescentPriority) Less(o DescentPriority) bool {
	if p.Pen != o.Pen {
		return p.Pen < o.Pen
	}
	if p.Depth != o.Depth {
		return p.Depth > o.Depth
	}
	if p.Width != o.Width {
		return p.Width < o.Width
	}
	return p.RootPri < o.RootPri
}

// DescentEdge is one candidate outgoing edge from a descent's frontier: an
// edit, the 5'-relative offset it applies at, its resulting priority, and
// the PosPool index the edge was computed against (posSentinel if it was
// computed against the root, before any Pos existed). Deliberately does
// not cache the child's SA range: that's looked up from the Pos at D (or,
// for a ref gap, taken from the parent descent's own range) when the edge
// is actually followed, keeping DescentEdge small since up to
// nOutgoing of them live in every descent's summary.
type DescentEdge struct {
	Edit  Edit
	Off5p int
	Pri   DescentPriority
	D     int
}

// nOutgoing is the width of the top-K outgoing-edge summary kept per
// descent, per spec: enough to cover mismatch-to-3-other-bases plus one
// gap class without recomputing on every pop.
const nOutgoing = 5

// outgoingSummary holds the best nOutgoing candidate edges seen so far for
// one descent, kept sorted best-first. A candidate that does not make the
// top nOutgoing is dropped; its exploration bit is already set, so it is
// not offered again. The exhausted field is not set or read by the engine.
type outgoingSummary struct {
	edges     [nOutgoing]DescentEdge
	n         int
	exhausted bool
}

func (s *outgoingSummary) empty() bool { return s.n == 0 }

// bestPri returns the priority of the best remaining edge; callers must
// check empty() first.
func (s *outgoingSummary) bestPri() DescentPriority { return s.edges[0].Pri }

// update inserts e into the sorted summary if it's better than the worst
// entry currently held (or the summary isn't full yet).
func (s *outgoingSummary) update(e DescentEdge) {
	if s.n < nOutgoing {
		i := s.n
		s.edges[i] = e
		s.n++
		for i > 0 && s.edges[i].Pri.Less(s.edges[i-1].Pri) {
			s.edges[i], s.edges[i-1] = s.edges[i-1], s.edges[i]
			i--
		}
		return
	}
	if !e.Pri.Less(s.edges[s.n-1].Pri) {
		return
	}
	i := s.n - 1
	s.edges[i] = e
	for i > 0 && s.edges[i].Pri.Less(s.edges[i-1].Pri) {
		s.edges[i], s.edges[i-1] = s.edges[i-1], s.edges[i]
		i--
	}
}

// rotate pops and returns the best edge, shifting the rest up. Callers
// must check empty() first.
func (s *outgoingSummary) rotate() DescentEdge {
	best := s.edges[0]
	copy(s.edges[:s.n-1], s.edges[1:s.n])
	s.n--
	return best
}

// frontierEntry is one item on the best-first heap: the pool index of the
// descent whose current best outgoing edge has this priority.
type frontierEntry struct {
	pri    DescentPriority
	dindex int
}

// frontier is a container/heap.Interface min-heap of frontierEntry, popped
// in DescentPriority order.
type frontier []frontierEntry

func (f frontier) Len() int            { return len(f) }
func (f frontier) Less(i, j int) bool  { return f[i].pri.Less(f[j].pri) }
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(frontierEntry)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	e := old[n-1]
	*f = old[:n-1]
	return e
}

// Heap wraps container/heap over frontier so callers work in terms of
// frontierEntry rather than the heap.Interface boilerplate.
type Heap struct {
	h frontier
}

func (h *Heap) Push(dindex int, pri DescentPriority) {
	heap.Push(&h.h, frontierEntry{pri: pri, dindex: dindex})
}

func (h *Heap) Pop() (dindex int, ok bool) {
	if h.h.Len() == 0 {
		return 0, false
	}
	e := heap.Pop(&h.h).(frontierEntry)
	return e.dindex, true
}

func (h *Heap) Empty() bool { return h.h.Len() == 0 }
