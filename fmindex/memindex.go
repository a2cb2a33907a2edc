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
	"github.com/pkg/errors"
	"github.com/grailbio/bio-descent/fmtypes"
)

// memindex is a from-scratch, single-text FM-index: a suffix array plus
// the rank ("occ") tables needed for LF-mapping, and an ftab precomputed
// over every k-mer of length ftabChars that actually occurs in the text.
// It is built fresh from a []fmtypes.Base and is meant for tests and the
// cmd/descent-demo driver, not production-scale references.
type memindex struct {
	n         int
	bwt       []int8 // -1 for the sentinel row, else a fmtypes.Base value
	occ       [fmtypes.NBase][]uint32
	fchr      [fmtypes.NBase + 1]uint64
	ftabChars int
	ftab      llrb.Tree
}

var _ Index = (*memindex)(nil)

// NewPaired builds the forward and mirror halves of a paired FM-index over
// ref: fw indexes ref itself, mirror indexes ref reversed (not
// reverse-complemented -- just reversed), matching Bowtie2's ebwtFw/ebwtBw
// convention that bidirectional search walks one physical text forwards
// and the other backwards. ftabChars is the ftab k-mer length; the descent
// engine's root-start optimization only uses it when it fits within
// nobranchDepth (see followMatches in package descent).
func NewPaired(ref []fmtypes.Base, ftabChars int) (fw, mirror Index, err error) {
	if len(ref) == 0 {
		return nil, nil, errors.Errorf("fmindex: reference is empty")
	}
	if ftabChars < 1 {
		return nil, nil, errors.Errorf("fmindex: ftabChars must be >= 1, got %d", ftabChars)
	}
	rev := make([]fmtypes.Base, len(ref))
	for i, b := range ref {
		rev[len(ref)-1-i] = b
	}
	return build(ref, ftabChars), build(rev, ftabChars), nil
}

func build(ref []fmtypes.Base, ftabChars int) *memindex {
	n := len(ref)
	text := make([]byte, n)
	for i, b := range ref {
		text[i] = byte(b)
	}
	sa := buildSuffixArray(text)

	m := &memindex{n: n, ftabChars: ftabChars}
	m.bwt = make([]int8, n+1)
	for c := 0; c < fmtypes.NBase; c++ {
		m.occ[c] = make([]uint32, n+2)
	}
	var baseCount [fmtypes.NBase]uint64
	for i, s := range sa {
		var bc int8 = -1
		if s > 0 {
			bc = int8(text[s-1])
		}
		m.bwt[i] = bc
		for c := 0; c < fmtypes.NBase; c++ {
			m.occ[c][i+1] = m.occ[c][i]
		}
		if bc >= 0 {
			m.occ[bc][i+1]++
			baseCount[bc]++
		}
	}
	m.fchr[fmtypes.BaseA] = 1 // row 0 is the sentinel (empty suffix)
	for c := 1; c < fmtypes.NBase; c++ {
		m.fchr[c] = m.fchr[c-1] + baseCount[c-1]
	}
	m.fchr[fmtypes.NBase] = m.fchr[fmtypes.NBase-1] + baseCount[fmtypes.NBase-1]

	m.buildFtab(sa, text)
	return m
}

func (m *memindex) FTabChars() int { return m.ftabChars }

// FChr returns fchr[c] for c in {A,C,G,T}; fmtypes.BaseN reuses the enum's
// numeric coincidence (BaseN == fmtypes.NBase) to mean "total row count",
// the conventional fchr[NBase] boundary entry.
func (m *memindex) FChr(c fmtypes.Base) uint64 {
	if int(c) > fmtypes.NBase {
		return m.fchr[fmtypes.NBase]
	}
	return m.fchr[c]
}

func (m *memindex) occAt(c int, row uint64) uint64 {
	return uint64(m.occ[c][row])
}

func (m *memindex) MapLF1(loc Locus) (fmtypes.Base, Locus, bool) {
	if loc.Width() != 1 {
		panic("fmindex: MapLF1 requires a width-1 locus")
	}
	row := loc.Top
	bc := m.bwt[row]
	if bc < 0 {
		return 0, Locus{}, false
	}
	c := fmtypes.Base(bc)
	newTop := m.fchr[c] + m.occAt(int(c), row)
	return c, RowLocus(newTop, loc.CompanionTop), true
}

func (m *memindex) MapBiLFEx(loc Locus) (t, b, tp, bp [fmtypes.NBase]uint64) {
	var rank, cnt [fmtypes.NBase]uint64
	for c := 0; c < fmtypes.NBase; c++ {
		rank[c] = m.occAt(c, loc.Top)
		cnt[c] = m.occAt(c, loc.Bot) - rank[c]
	}
	var cum uint64
	for c := 0; c < fmtypes.NBase; c++ {
		t[c] = m.fchr[c] + rank[c]
		b[c] = t[c] + cnt[c]
		tp[c] = loc.CompanionTop + cum
		bp[c] = tp[c] + cnt[c]
		cum += cnt[c]
	}
	return
}

func (m *memindex) FtabLoHi(pattern []fmtypes.Base, off int) fmtypes.Range {
	if off < 0 || off+m.ftabChars > len(pattern) {
		return fmtypes.Range{}
	}
	key, ok := encodeKmer(pattern[off : off+m.ftabChars])
	if !ok {
		return fmtypes.Range{}
	}
	got := m.ftab.Get(ftabEntry{key: key})
	if got == nil {
		return fmtypes.Range{}
	}
	return got.(ftabEntry).rng
}
