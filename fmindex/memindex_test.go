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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/bio-descent/fmtypes"
)

func bases(s string) []fmtypes.Base {
	bs := make([]fmtypes.Base, len(s))
	for i := 0; i < len(s); i++ {
		bs[i] = fmtypes.ASCIIToBase(s[i])
	}
	return bs
}

func TestNewPairedRejectsBadInput(t *testing.T) {
	_, _, err := NewPaired(nil, 4)
	assert.Error(t, err)

	_, _, err = NewPaired(bases("ACGT"), 0)
	assert.Error(t, err)
}

func TestFChrMonotone(t *testing.T) {
	fw, _, err := NewPaired(bases("ACGTACGTACGT"), 2)
	require.NoError(t, err)
	var prev uint64
	for c := fmtypes.BaseA; c <= fmtypes.NBase; c++ {
		got := fw.FChr(fmtypes.Base(c))
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestFtabLoHiFindsKnownKmer(t *testing.T) {
	ref := bases("ACGTACGTACGT")
	fw, _, err := NewPaired(ref, 4)
	require.NoError(t, err)

	rng := fw.FtabLoHi(bases("ACGT"), 0)
	assert.False(t, rng.Empty())
	assert.GreaterOrEqual(t, rng.Width(), uint64(1))

	// A k-mer that does not occur in this reference.
	missing := fw.FtabLoHi(bases("TTTT"), 0)
	assert.True(t, missing.Empty())
}

func TestMapBiLFExWidthInvariant(t *testing.T) {
	ref := bases("ACGTACGTACGTTTTT")
	fw, _, err := NewPaired(ref, 2)
	require.NoError(t, err)

	loc := Locus{Top: fw.FChr(fmtypes.BaseA), Bot: fw.FChr(fmtypes.NBase)}
	t_, b, tp, bp := fw.MapBiLFEx(loc)
	for c := 0; c < fmtypes.NBase; c++ {
		assert.Equal(t, b[c]-t_[c], bp[c]-tp[c])
	}
}

func TestMapLF1RequiresWidthOne(t *testing.T) {
	ref := bases("ACGTACGT")
	fw, _, err := NewPaired(ref, 2)
	require.NoError(t, err)

	wide := Locus{Top: fw.FChr(fmtypes.BaseA), Bot: fw.FChr(fmtypes.NBase)}
	assert.Panics(t, func() { fw.MapLF1(wide) })
}

func TestMirrorRowCountMatchesForward(t *testing.T) {
	// The mirror index is built over the reversed reference; its total row
	// count (fchr[NBase]) must match the forward index's, since it indexes
	// the same multiset of characters.
	ref := bases("ACGTACGTACGT")
	fw, mirror, err := NewPaired(ref, 2)
	require.NoError(t, err)
	assert.Equal(t, fw.FChr(fmtypes.NBase), mirror.FChr(fmtypes.NBase))
}
