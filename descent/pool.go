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

// DescentPool and PosPool are append-only arenas, one per Driver.Go call.
// Descents and Poss are addressed by integer index rather than pointer, and
// both pools offer Truncate to drop a suffix of entries, the same
// append-then-maybe-truncate pattern encoding/bam.FreePool uses to recycle
// its record buffers, simplified here to single-threaded, non-recycling
// use: a Driver.Go call owns its pools outright and discards them at
// return. The engine itself never calls Truncate: a child descent abandoned
// after a redundancy hit stays in the pool, unreachable, until Go returns.

// DescentPool is an arena of Descent values.
type DescentPool struct {
	items []Descent
}

// Alloc appends a zero Descent and returns its index.
func (p *DescentPool) Alloc() int {
	p.items = append(p.items, Descent{})
	return len(p.items) - 1
}

// At returns a pointer to the Descent at index i.
func (p *DescentPool) At(i int) *Descent { return &p.items[i] }

// Size returns the number of live entries.
func (p *DescentPool) Size() int { return len(p.items) }

// Truncate discards every entry from index n onward, rolling back a
// speculative allocation that turned out not to be needed.
func (p *DescentPool) Truncate(n int) { p.items = p.items[:n] }

// PosPool is an arena of Pos values.
type PosPool struct {
	items []Pos
}

// Alloc appends a zero Pos and returns its index.
func (p *PosPool) Alloc() int {
	p.items = append(p.items, Pos{})
	return len(p.items) - 1
}

// At returns a pointer to the Pos at index i.
func (p *PosPool) At(i int) *Pos { return &p.items[i] }

// Size returns the number of live entries.
func (p *PosPool) Size() int { return len(p.items) }

// Truncate discards every entry from index n onward.
func (p *PosPool) Truncate(n int) { p.items = p.items[:n] }
