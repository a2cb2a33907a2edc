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

	"github.com/grailbio/bio-descent/fmtypes"
)

func TestPosFlagsExploreOnce(t *testing.T) {
	var f posFlags
	assert.True(t, f.mmExplore(fmtypes.BaseC))
	assert.False(t, f.mmExplore(fmtypes.BaseC))
	assert.True(t, f.mmExplore(fmtypes.BaseG))

	assert.True(t, f.rdgExplore(fmtypes.BaseA))
	assert.False(t, f.rdgExplore(fmtypes.BaseA))

	assert.True(t, f.rfgExplore())
	assert.False(t, f.rfgExplore())
}

func TestPosFlagsExhausted(t *testing.T) {
	var f posFlags
	assert.False(t, f.exhausted())
	for c := fmtypes.Base(0); c < fmtypes.NBase; c++ {
		f.mmExplore(c)
		f.rdgExplore(c)
	}
	f.rfgExplore()
	assert.True(t, f.exhausted())
}
