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

package fmtypes

import "testing"

import "github.com/stretchr/testify/assert"

func TestASCIIToBase(t *testing.T) {
	for _, c := range []byte{'A', 'C', 'G', 'T', 'a', 'c', 'g', 't'} {
		b := ASCIIToBase(c)
		assert.NotEqual(t, BaseN, b)
	}
	assert.Equal(t, BaseN, ASCIIToBase('N'))
	assert.Equal(t, BaseN, ASCIIToBase('x'))
}

func TestComplement(t *testing.T) {
	assert.Equal(t, BaseT, BaseA.Complement())
	assert.Equal(t, BaseA, BaseT.Complement())
	assert.Equal(t, BaseG, BaseC.Complement())
	assert.Equal(t, BaseC, BaseG.Complement())
	assert.Equal(t, BaseN, BaseN.Complement())
}

func TestRange(t *testing.T) {
	r := Range{Top: 3, Bot: 3}
	assert.True(t, r.Empty())
	assert.Equal(t, uint64(0), r.Width())

	r = Range{Top: 3, Bot: 7}
	assert.False(t, r.Empty())
	assert.Equal(t, uint64(4), r.Width())
}
