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

import "sort"

// buildSuffixArray returns the suffix array of text plus a sentinel
// (text has length n; the array has n+1 entries, the last conceptually
// being the empty suffix / sentinel, which always sorts first).
//
// memindex only ever indexes test- and demo-scale references (at most a
// few hundred bases), so an O(n^2 log n) comparison sort is the right
// tool here rather than a linear-time suffix-array construction such as
// SA-IS (see other_examples/xiles84-dnatools__sais.go in the retrieved
// pack for that approach) -- the asymptotics would never matter at this
// scale, and a plain sort is far less code to get right.
func buildSuffixArray(text []byte) []int {
	n := len(text)
	sa := make([]int, n+1)
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(i, j int) bool {
		return suffixLess(text, sa[i], sa[j])
	})
	return sa
}

// suffixLess compares text[i:] and text[j:] where a read past the end of
// text is treated as the sentinel, which sorts before every real base.
func suffixLess(text []byte, i, j int) bool {
	n := len(text)
	for {
		if i == n || j == n {
			return i == n && j != n
		}
		if text[i] != text[j] {
			return text[i] < text[j]
		}
		i++
		j++
	}
}
