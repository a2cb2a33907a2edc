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

// Command descent-demo runs the descent search engine against a small
// in-memory FM-index built from a FASTA reference and prints the
// end-to-end alignments found for one read given on the command line.
// It exists to exercise the descent/fmindex/query/scoring packages
// end-to-end, not as a production aligner front-end: coordinate
// resolution, SAM output and paired-end handling are all out of scope.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jwaldrip/odin/cli"
	"github.com/klauspost/compress/gzip"
	"github.com/grailbio/base/log"

	"github.com/grailbio/bio-descent/descent"
	"github.com/grailbio/bio-descent/encoding/fasta"
	"github.com/grailbio/bio-descent/fmindex"
	"github.com/grailbio/bio-descent/fmtypes"
	"github.com/grailbio/bio-descent/query"
	"github.com/grailbio/bio-descent/scoring"
)

var app = cli.New("1.0.0", "Descent search engine demo", run)

func init() {
	app.DefineStringFlag("ref", "", "path to a FASTA (optionally .gz) reference")
	app.DefineStringFlag("seq", "", "sequence of the reference to search (required if ref has more than one)")
	app.DefineStringFlag("read", "", "read sequence to align")
	app.DefineIntFlag("ftabChars", 4, "ftab k-mer length")
	app.DefineFloat64Flag("intercept", 0, "penalty constraint intercept")
	app.DefineFloat64Flag("slope", 0.6, "penalty constraint slope")
	app.DefineBoolFlag("dot", false, "dump the search tree as Graphviz DOT to stderr")
}

func run(c cli.Command) {
	refPath := c.Flag("ref").String()
	seqName := c.Flag("seq").String()
	readSeq := c.Flag("read").String()
	if refPath == "" || readSeq == "" {
		log.Fatalf("descent-demo: -ref and -read are required")
	}

	ref, err := loadReference(refPath, seqName)
	if err != nil {
		log.Fatalf("descent-demo: %v", err)
	}

	fw, mirror, err := fmindex.NewPaired(ref, c.Flag("ftabChars").Get().(int))
	if err != nil {
		log.Fatalf("descent-demo: building index: %v", err)
	}

	read := toBases(readSeq)
	qual := make([]int, len(read))
	for i := range qual {
		qual[i] = 30
	}
	q := query.New(read, qual)

	cons := descent.LinearConstraint(len(read), c.Flag("intercept").Get().(float64), c.Flag("slope").Get().(float64))
	conf := descent.Config{Cons: cons}

	var d descent.Driver
	d.InitRead(q)
	d.AddRoot(descent.Root{Off5p: 0, L2R: true, Fw: true, Config: conf})
	d.AddRoot(descent.Root{Off5p: len(read), L2R: false, Fw: true, Config: conf})

	var met descent.Metrics
	sc := scoring.Base1{}
	if err := d.Go(sc, fw, mirror, &met); err != nil {
		log.Fatalf("descent-demo: %v", err)
	}

	if c.Flag("dot").Get().(bool) {
		if err := d.DumpDOT(os.Stderr); err != nil {
			log.Fatalf("descent-demo: dumping DOT: %v", err)
		}
	}

	sink := d.Sink()
	fmt.Printf("bwops=%d branches=%d allocs=%d alignments=%d\n", met.BWOps(), met.Branches, met.Allocs, len(sink.Results))
	for _, a := range sink.Results {
		fmt.Printf("[%d,%d) fw=%v pen=%d edits=%d\n", a.Range.Top, a.Range.Bot, a.Fw, a.Pen, len(a.Edits))
	}
}

// loadReference reads a FASTA (optionally gzip-compressed) reference and
// returns its sequence as []fmtypes.Base. If the file has more than one
// sequence, seqName selects which one to use.
func loadReference(path, seqName string) ([]fmtypes.Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	fa, err := fasta.New(r)
	if err != nil {
		return nil, err
	}
	names := fa.SeqNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("descent-demo: %s contains no sequences", path)
	}
	if seqName == "" {
		if len(names) > 1 {
			return nil, fmt.Errorf("descent-demo: %s has %d sequences, -seq is required", path, len(names))
		}
		seqName = names[0]
	}
	n, err := fa.Len(seqName)
	if err != nil {
		return nil, err
	}
	seq, err := fa.Get(seqName, 0, n)
	if err != nil {
		return nil, err
	}
	return toBases(seq), nil
}

func toBases(s string) []fmtypes.Base {
	bs := make([]fmtypes.Base, len(s))
	for i := 0; i < len(s); i++ {
		bs[i] = fmtypes.ASCIIToBase(s[i])
	}
	return bs
}

func main() {
	app.Start()
}
