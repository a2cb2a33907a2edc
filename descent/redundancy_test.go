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
)

func TestRedundancyCheckerFirstSeenAlwaysPasses(t *testing.T) {
	rc := NewRedundancyChecker()
	key := redundancyKey{fw: true, al5pi: 0, al5pf: 10, refLen: 10, topFwd: 5, botFwd: 7}
	assert.True(t, rc.Check(key, 4))
}

func TestRedundancyCheckerRejectsEqualOrWorse(t *testing.T) {
	rc := NewRedundancyChecker()
	key := redundancyKey{fw: true, al5pi: 0, al5pf: 10, refLen: 10, topFwd: 5, botFwd: 7}
	assert.True(t, rc.Check(key, 4))
	assert.False(t, rc.Check(key, 4))
	assert.False(t, rc.Check(key, 6))
}

func TestRedundancyCheckerAcceptsImprovement(t *testing.T) {
	rc := NewRedundancyChecker()
	key := redundancyKey{fw: true, al5pi: 0, al5pf: 10, refLen: 10, topFwd: 5, botFwd: 7}
	assert.True(t, rc.Check(key, 10))
	assert.True(t, rc.Check(key, 4))
	assert.False(t, rc.Check(key, 4))
}

func TestRedundancyCheckerDistinguishesKeys(t *testing.T) {
	rc := NewRedundancyChecker()
	a := redundancyKey{fw: true, al5pi: 0, al5pf: 10, refLen: 10, topFwd: 5, botFwd: 7}
	b := a
	b.topFwd = 6
	assert.True(t, rc.Check(a, 4))
	assert.True(t, rc.Check(b, 4))
}

func TestRedundancyCheckerContainsDoesNotMutate(t *testing.T) {
	rc := NewRedundancyChecker()
	key := redundancyKey{fw: false, al5pi: 2, al5pf: 5, refLen: 3, topFwd: 1, botFwd: 2}
	assert.False(t, rc.Contains(key, 0))
	assert.True(t, rc.Check(key, 4))
	assert.True(t, rc.Contains(key, 4))
	assert.True(t, rc.Contains(key, 10))
	assert.False(t, rc.Contains(key, 2))
	// Contains must not have consumed the entry: Check at the same penalty
	// still correctly reports "already seen, not an improvement".
	assert.False(t, rc.Check(key, 4))
}
