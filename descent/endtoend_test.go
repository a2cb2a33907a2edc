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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/bio-descent/fmindex"
	"github.com/grailbio/bio-descent/fmtypes"
	"github.com/grailbio/bio-descent/query"
	"github.com/grailbio/bio-descent/scoring"
)

// block is the reference unit the end-to-end scenarios are built from. It
// is long enough and irregular enough that short substrings of it are
// unique within one copy, so scenarios that ask for "a single occurrence"
// can use block alone, and scenarios that ask for two occurrences can use
// two copies of it back to back. The real scenarios concatenate the two
// copies with a run of Ns between them; memindex has no use for a
// reference base outside {A,C,G,T} (its occ tables are sized for exactly
// the four unambiguous bases), so the two copies are joined directly
// instead -- block is irregular enough that this introduces no accidental
// third occurrence of any read used below.
const block = "CATGTCAGCTATATAGCGCGCTCGCATCATTTTGTGTGTAAACCA"

func seqBases(s string) []fmtypes.Base {
	bs := make([]fmtypes.Base, len(s))
	for i := 0; i < len(s); i++ {
		bs[i] = fmtypes.ASCIIToBase(s[i])
	}
	return bs
}

func uniformQual(n, q int) []int {
	qs := make([]int, n)
	for i := range qs {
		qs[i] = q
	}
	return qs
}

// addBothRoots seeds the two-sided search every real caller uses: one root
// walking the forward sequence left-to-right from its 5' end, one walking
// it right-to-left from its 3' end, so a mismatch anywhere in the read can
// still be reached by exact-matching in from the near side.
func addBothRoots(d *Driver, readLen int, conf Config) {
	d.AddRoot(Root{Off5p: 0, L2R: true, Fw: true, Config: conf})
	d.AddRoot(Root{Off5p: readLen, L2R: false, Fw: true, Config: conf})
}

// TestEndToEndExactMatchTwoOccurrences is scenario 1: a read that occurs
// twice in the reference, root planted at its 5' end, must be reported as
// one SA range spanning both occurrences at pen = 0.
func TestEndToEndExactMatchTwoOccurrences(t *testing.T) {
	ref := seqBases(block + block)
	fw, mirror, err := fmindex.NewPaired(ref, 3)
	require.NoError(t, err)

	readStr := "GCTATATAGCGCGCTCGCATCATTTTGTGT"
	read := seqBases(readStr)
	q := query.New(read, uniformQual(len(read), 30))
	conf := Config{Cons: LinearConstraint(len(read), 0, 1.0)}

	var d Driver
	d.InitRead(q)
	d.AddRoot(Root{Off5p: 0, L2R: true, Fw: true, Pri: 0, Config: conf})

	var met Metrics
	require.NoError(t, d.Go(scoring.Base1{}, fw, mirror, &met))

	results := d.Sink().Results
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Pen)
	assert.Equal(t, uint64(2), results[0].Range.Bot-results[0].Range.Top)
}

// TestEndToEndExactMatchFromThreePrimeRoot is scenario 2: the same read as
// scenario 1, rooted at its 3' end walking right-to-left, must reach the
// same result.
func TestEndToEndExactMatchFromThreePrimeRoot(t *testing.T) {
	ref := seqBases(block + block)
	fw, mirror, err := fmindex.NewPaired(ref, 3)
	require.NoError(t, err)

	readStr := "GCTATATAGCGCGCTCGCATCATTTTGTGT"
	read := seqBases(readStr)
	q := query.New(read, uniformQual(len(read), 30))
	conf := Config{Cons: LinearConstraint(len(read), 0, 1.0)}

	var d Driver
	d.InitRead(q)
	d.AddRoot(Root{Off5p: len(read) - 1, L2R: false, Fw: true, Config: conf})

	var met Metrics
	require.NoError(t, d.Go(scoring.Base1{}, fw, mirror, &met))

	results := d.Sink().Results
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Pen)
	assert.Equal(t, uint64(2), results[0].Range.Bot-results[0].Range.Top)
}

// TestEndToEndFtabWindowEqualsReadLength is scenario 3: when the whole
// read fits inside one ftab window, the root-start fast path consumes it
// in a single jump; AddRoot must still recognize and report the resulting
// end-to-end hit.
func TestEndToEndFtabWindowEqualsReadLength(t *testing.T) {
	ref := seqBases(block + block)
	fw, mirror, err := fmindex.NewPaired(ref, 10)
	require.NoError(t, err)

	readStr := "GCTATATAGC"
	require.Len(t, readStr, 10)
	read := seqBases(readStr)
	q := query.New(read, uniformQual(len(read), 30))
	conf := Config{Cons: LinearConstraint(len(read), 0, 1.0)}

	var d Driver
	d.InitRead(q)
	d.AddRoot(Root{Off5p: 0, L2R: true, Fw: true, Config: conf})

	var met Metrics
	require.NoError(t, d.Go(scoring.Base1{}, fw, mirror, &met))

	results := d.Sink().Results
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Pen)
	assert.Equal(t, uint64(2), results[0].Range.Bot-results[0].Range.Top)
}

// TestEndToEndSingleMismatch is scenario 4: a single occurrence of the
// reference, a read differing from it at exactly one position, and a root
// whose ftab window doesn't cover that position and which starts at least
// 3 bases away from it. The XOR-3 read is Bowtie2's way of saying
// "complement the base": under the A=0,C=1,G=2,T=3 encoding this package
// uses, XOR 3 and Complement agree.
func TestEndToEndSingleMismatch(t *testing.T) {
	ref := seqBases(block)
	fw, mirror, err := fmindex.NewPaired(ref, 4)
	require.NoError(t, err)

	const k = 20
	mutated := []byte(block)
	mutated[k] = fmtypes.BaseToASCII[fmtypes.ASCIIToBase(block[k]).Complement()]
	read := seqBases(string(mutated))
	q := query.New(read, uniformQual(len(read), 30))
	conf := Config{Cons: LinearConstraint(len(read), 6, 0)}

	var d Driver
	d.InitRead(q)
	d.AddRoot(Root{Off5p: 0, L2R: true, Fw: true, Config: conf})

	var met Metrics
	require.NoError(t, d.Go(scoring.Base1{}, fw, mirror, &met))

	results := d.Sink().Results
	require.Len(t, results, 1)
	assert.Equal(t, uint64(1), results[0].Range.Bot-results[0].Range.Top)
	require.Len(t, results[0].Edits, 1)
	assert.True(t, results[0].Edits[0].IsMismatch())
	assert.Equal(t, k, results[0].Edits[0].Pos)
	assert.Equal(t, scoring.Base1{}.MM(0, 30), results[0].Pen)
}

// TestEndToEndOneBaseReadGap is scenario 5: the read is missing one base
// the reference has at position 15, so closing the alignment costs exactly
// one gap open.
func TestEndToEndOneBaseReadGap(t *testing.T) {
	ref := seqBases(block)
	fw, mirror, err := fmindex.NewPaired(ref, 4)
	require.NoError(t, err)

	readStr := block[:15] + block[16:]
	read := seqBases(readStr)
	q := query.New(read, uniformQual(len(read), 30))
	conf := Config{Cons: LinearConstraint(len(read), 0, 1.5)}

	var d Driver
	d.InitRead(q)
	d.AddRoot(Root{Off5p: 0, L2R: true, Fw: true, Config: conf})

	var met Metrics
	require.NoError(t, d.Go(scoring.Base1{}, fw, mirror, &met))

	results := d.Sink().Results
	require.Len(t, results, 1)
	assert.Equal(t, uint64(1), results[0].Range.Bot-results[0].Range.Top)
	require.Len(t, results[0].Edits, 1)
	assert.True(t, results[0].Edits[0].IsReadGap())
	assert.Equal(t, scoring.Base1{}.ReadGapOpen(), results[0].Pen)
}

// TestEndToEndThreeBaseReadGap is scenario 6: the read is missing a run of
// three bases the reference has starting at position 15, recovered as one
// read-gap open plus two extensions (three ReadGap edits). The mismatch
// penalty is set to 6 to rule out a mismatch-only alternative undercutting
// the gap; Base1's default is already 6, so no override is needed here.
func TestEndToEndThreeBaseReadGap(t *testing.T) {
	ref := seqBases(block)
	fw, mirror, err := fmindex.NewPaired(ref, 4)
	require.NoError(t, err)

	readStr := block[:15] + block[18:]
	read := seqBases(readStr)
	q := query.New(read, uniformQual(len(read), 30))
	conf := Config{Cons: LinearConstraint(len(read), 0, 2.5)}

	var d Driver
	d.InitRead(q)
	d.AddRoot(Root{Off5p: 0, L2R: true, Fw: true, Config: conf})

	var met Metrics
	sc := scoring.Base1{}
	require.NoError(t, d.Go(sc, fw, mirror, &met))

	results := d.Sink().Results
	require.Len(t, results, 1)
	assert.Equal(t, uint64(1), results[0].Range.Bot-results[0].Range.Top)
	require.Len(t, results[0].Edits, 3)
	assert.True(t, results[0].Edits[0].IsReadGap())
	assert.Equal(t, sc.ReadGapOpen()+2*sc.ReadGapExtend(), results[0].Pen)
}

func TestEndToEndInsertionIsFoundViaRefGap(t *testing.T) {
	// The read carries one extra base relative to the reference: it's
	// reachable only by consuming a read character without consuming a
	// reference character, i.e. a RefGap edge.
	ref := seqBases(block + block)
	fw, mirror, err := fmindex.NewPaired(ref, 3)
	require.NoError(t, err)

	prefix := block[10:15]
	suffix := block[15:20]
	readStr := prefix + "A" + suffix
	read := seqBases(readStr)
	q := query.New(read, uniformQual(len(read), 30))
	conf := Config{Cons: LinearConstraint(len(read), 10, 0)}

	var d Driver
	d.InitRead(q)
	addBothRoots(&d, len(read), conf)

	var met Metrics
	require.NoError(t, d.Go(scoring.Base1{}, fw, mirror, &met))

	results := d.Sink().Results
	require.NotEmpty(t, results)

	foundRefGap := false
	for _, a := range results {
		for _, e := range a.Edits {
			if e.IsRefGap() {
				foundRefGap = true
			}
		}
	}
	assert.True(t, foundRefGap, "expected a RefGap edit among %+v", results)
}

func TestEndToEndRequiresAtLeastOneRoot(t *testing.T) {
	var d Driver
	d.InitRead(query.New(seqBases("ACGT"), uniformQual(4, 30)))
	var met Metrics
	err := d.Go(scoring.Base1{}, nil, nil, &met)
	assert.Error(t, err)
}

func TestEndToEndRequiresMetrics(t *testing.T) {
	var d Driver
	d.InitRead(query.New(seqBases("ACGT"), uniformQual(4, 30)))
	d.AddRoot(Root{Off5p: 0, L2R: true, Fw: true})
	err := d.Go(scoring.Base1{}, nil, nil, nil)
	assert.Error(t, err)
}

func TestEndToEndMetricsAccumulate(t *testing.T) {
	ref := seqBases(block + block)
	fw, mirror, err := fmindex.NewPaired(ref, 3)
	require.NoError(t, err)

	readStr := block[10:20]
	read := seqBases(readStr)
	q := query.New(read, uniformQual(len(read), 30))
	conf := Config{Cons: LinearConstraint(len(read), 0, 0)}

	var d Driver
	d.InitRead(q)
	addBothRoots(&d, len(read), conf)

	var met Metrics
	require.NoError(t, d.Go(scoring.Base1{}, fw, mirror, &met))

	assert.Greater(t, met.BWOps(), uint64(0))
}
