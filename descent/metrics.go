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

// Metrics accumulates counters across one or more Driver.Go calls, for
// callers who want visibility into how much work the search did (tests
// asserting a upper bound on index operations, or a demo CLI reporting a
// summary line). Metrics carries no behavior of its own; a nil *Metrics
// field is never passed to Driver.Go, so callers always get a value to
// read from.
type Metrics struct {
	// BWOps1 counts width-1 fast-path LF-mapping lookups (MapLF1 calls).
	BWOps1 uint64
	// BWOpsBi counts full bidirectional LF-mapping lookups (MapBiLFEx
	// calls).
	BWOpsBi uint64
	// Branches counts descents popped off the frontier and expanded.
	Branches uint64
	// Allocs counts child Descent values allocated.
	Allocs uint64
}

// BWOps returns the total number of index lookups of either kind.
func (m *Metrics) BWOps() uint64 { return m.BWOps1 + m.BWOpsBi }
