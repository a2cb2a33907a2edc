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
	"fmt"
	"strconv"
	"strings"
)

func nodeName(i int) string { return "n" + strconv.Itoa(i) }

func descNodeLabel(d *Descent) string {
	dir := "R"
	if d.l2r {
		dir = "L"
	}
	return fmt.Sprintf("[%d,%d) pen=%d %s w=%d", d.al5pi, d.al5pf, d.pen, dir, d.botf-d.topf)
}

func editLabel(e Edit) string {
	switch e.Kind {
	case Mismatch:
		return fmt.Sprintf("mm@%d %s->%s", e.Pos, e.ReadChar, e.RefChar)
	case ReadGap:
		return fmt.Sprintf("rdg@%d -%s", e.Pos, e.RefChar)
	case RefGap:
		return fmt.Sprintf("rfg@%d +%s", e.Pos, e.ReadChar)
	default:
		return "root"
	}
}

func quoteDOT(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
