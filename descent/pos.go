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

import "github.com/grailbio/bio-descent/fmtypes"

// posFlags tracks, for one DescentPos, which outgoing-edge classes have
// already been explored by some descent sharing this position. Bits
// 0-3 are "mismatch to base j explored", bits 4-7 are "read-gap with
// inserted base j explored", bit 8 is "ref-gap explored". Each bit flips
// 0->1 at most once across the lifetime of one Driver.Go call. A Pos is
// written by the walk of one descent only (children start at posSentinel
// and record their own), so this keeps that descent from emitting the same
// outgoing edge twice.
type posFlags uint16

const (
	flagsAllExplored = posFlags(1<<9 - 1)
	rfgBit           = 8
)

// mmExplore reports whether the mismatch-to-base-j edge is still
// available, marking it explored as a side effect.
func (f *posFlags) mmExplore(j fmtypes.Base) bool {
	bit := posFlags(1) << uint(j)
	if *f&bit != 0 {
		return false
	}
	*f |= bit
	return true
}

// rdgExplore reports whether the read-gap-inserting-base-j edge is still
// available, marking it explored as a side effect.
func (f *posFlags) rdgExplore(j fmtypes.Base) bool {
	bit := posFlags(1) << uint(4+j)
	if *f&bit != 0 {
		return false
	}
	*f |= bit
	return true
}

// rfgExplore reports whether the ref-gap edge is still available, marking
// it explored as a side effect.
func (f *posFlags) rfgExplore() bool {
	bit := posFlags(1) << rfgBit
	if *f&bit != 0 {
		return false
	}
	*f |= bit
	return true
}

func (f posFlags) exhausted() bool { return f == flagsAllExplored }

// Pos is one read position's bidirectional SA-range quad, as recorded by
// FollowMatches: for each of the four bases, the forward- and
// mirror-index range that would result from matching that base here.
// Invariant: Botf[i]-Topf[i] == Botb[i]-Topb[i] for every i.
type Pos struct {
	Topf, Botf [fmtypes.NBase]uint64
	Topb, Botb [fmtypes.NBase]uint64
	C          fmtypes.Base // the base actually matched at this position
	flags      posFlags
}

func (p *Pos) reset() { *p = Pos{} }
