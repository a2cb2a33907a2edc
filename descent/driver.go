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
	"io"

	"github.com/awalterschulze/gographviz"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/grailbio/bio-descent/fmindex"
	"github.com/grailbio/bio-descent/query"
	"github.com/grailbio/bio-descent/scoring"
)

// Driver collects the search roots for one read and runs the descent
// engine against a paired index. A Driver is reusable across reads: each
// Go call builds a fresh engine (pools, heap, redundancy checker and sink
// are all scoped to that one call), so nothing carries over between
// reads by accident.
type Driver struct {
	q     query.Query
	roots []Root
	eng   *engine // set only during/after Go, for DumpDOT
}

// InitRead resets the Driver for a new read.
func (d *Driver) InitRead(q query.Query) {
	d.q = q
	d.roots = nil
	d.eng = nil
}

// AddRoot registers a search root for the current read.
func (d *Driver) AddRoot(r Root) {
	if r.Off5p < 0 || r.Off5p > d.q.Length() {
		log.Panicf("descent: AddRoot offset %d out of range for read of length %d", r.Off5p, d.q.Length())
	}
	d.roots = append(d.roots, r)
}

// Sink returns the alignments accumulated by the most recent Go call, or
// nil if Go hasn't been called since the last InitRead.
func (d *Driver) Sink() *AlignmentSink {
	if d.eng == nil {
		return nil
	}
	return d.eng.sink
}

// Go runs the descent search to completion against fw/mirror: every root
// added since the last InitRead is seeded onto the frontier, and the
// frontier is drained best-first until it empties. met accumulates the
// call's index-operation counters and must not be nil: Go returns an error
// for a nil met, validating it once instead of nil-checking on every
// increment.
func (d *Driver) Go(sc scoring.Scheme, fw, mirror fmindex.Index, met *Metrics) error {
	if met == nil {
		return errors.New("descent: Go requires a non-nil *Metrics")
	}
	if len(d.roots) == 0 {
		return errors.New("descent: Go requires at least one root")
	}
	e := &engine{
		q:    d.q,
		sc:   sc,
		fw:   fw,
		mirr: mirror,
		met:  met,
		sink: NewAlignmentSink(),
		rc:   NewRedundancyChecker(),
	}
	d.eng = e
	if log.At(log.Debug) {
		log.Debug.Printf("descent: Go starting with %d root(s), read length %d", len(d.roots), d.q.Length())
	}
	for _, r := range d.roots {
		e.AddRoot(r)
	}
	e.run()
	if log.At(log.Debug) {
		log.Debug.Printf("descent: Go finished: %d branch(es), %d alignment(s)", met.Branches, len(e.sink.Results))
	}
	return nil
}

// DumpDOT writes the search tree explored by the most recent Go call as a
// Graphviz DOT graph: one node per Descent, labeled with its penalty and
// committed read interval, one edge per parent link, labeled with the
// edit it applied. Intended for debugging small test cases, not
// production use.
func (d *Driver) DumpDOT(w io.Writer) error {
	if d.eng == nil {
		return errors.New("descent: DumpDOT called before Go")
	}
	g := gographviz.NewGraph()
	if err := g.SetName("descent"); err != nil {
		return errors.Wrap(err, "descent: DumpDOT")
	}
	if err := g.SetDir(true); err != nil {
		return errors.Wrap(err, "descent: DumpDOT")
	}
	for i := 0; i < d.eng.pool.Size(); i++ {
		desc := d.eng.pool.At(i)
		name := nodeName(i)
		label := descNodeLabel(desc)
		if err := g.AddNode("descent", name, map[string]string{"label": quoteDOT(label)}); err != nil {
			return errors.Wrap(err, "descent: DumpDOT node")
		}
		if desc.parent != noneParent {
			edgeLabel := editLabel(desc.edit)
			attrs := map[string]string{"label": quoteDOT(edgeLabel)}
			if err := g.AddEdge(nodeName(desc.parent), name, true, attrs); err != nil {
				return errors.Wrap(err, "descent: DumpDOT edge")
			}
		}
	}
	_, err := io.WriteString(w, g.String())
	return err
}
