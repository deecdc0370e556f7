// Copyright (C) 2024 ctlab
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ctlab/hictgo/assembly"
	"github.com/ctlab/hictgo/fastaexport"
	"github.com/ctlab/hictgo/fsutil"
)

// memSource is an in-memory fastaexport.SequenceSource built by
// slurping every FASTA record out of one or more glob-matched files.
// Source genomes for a single assembly are rarely one file (a
// per-chromosome FASTA directory is the common case), so the loader
// accepts any number of glob patterns rather than a single path.
type memSource struct {
	seqs map[string][]byte
}

func (m *memSource) ContigSequence(name string) ([]byte, error) {
	seq, ok := m.seqs[name]
	if !ok {
		return nil, fmt.Errorf("hictcli: no source sequence for contig %q", name)
	}
	return seq, nil
}

// loadFastaGlobs opens every file under the current directory matching
// any of patterns (via fsutil.OpenGlob, the same entry point the rest
// of the corpus uses for glob-driven input discovery) and parses each
// as multi-record FASTA.
func loadFastaGlobs(patterns []string) *memSource {
	return loadFastaGlobsFS(os.DirFS("."), patterns)
}

// loadFastaGlobsFS is loadFastaGlobs against an arbitrary fs.FS, split
// out so tests can glob an in-memory or temp-dir filesystem instead of
// the process's actual working directory.
func loadFastaGlobsFS(root fs.FS, patterns []string) *memSource {
	src := &memSource{seqs: make(map[string][]byte)}
	for _, pattern := range patterns {
		files, err := fsutil.OpenGlob(root, pattern)
		if err != nil {
			exitf("globbing %q: %s", pattern, err)
		}
		if len(files) == 0 {
			exitf("pattern %q matched no files", pattern)
		}
		for _, nf := range files {
			logf("reading %s", nf.Path())
			parseFasta(nf, src.seqs)
			nf.Close()
		}
	}
	return src
}

// parseFasta reads one multi-record FASTA file into dst, keyed by the
// first whitespace-delimited token of each '>' header line.
func parseFasta(f fs.File, dst map[string][]byte) {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<30)
	var name string
	var buf []byte
	flush := func() {
		if name != "" {
			dst[name] = buf
		}
	}
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			name = strings.Fields(line[1:])[0]
			buf = nil
			continue
		}
		buf = append(buf, strings.TrimSpace(line)...)
	}
	flush()
	if err := sc.Err(); err != nil {
		exitf("reading FASTA: %s", err)
	}
}

// entry point for 'hictcli fasta-export <file.hict> <out.fasta> <pattern>...'
func runFastaExport(args []string) {
	if len(args) < 3 {
		exitf("usage: fasta-export <file.hict> <out.fasta> <fasta-glob>...")
	}

	f, err := assembly.Open(args[0])
	if err != nil {
		exitf("opening %s: %s", args[0], err)
	}
	defer f.Close()

	src := loadFastaGlobs(args[2:])

	contigs, err := f.OrderedContigs()
	if err != nil {
		exitf("listing contigs: %s", err)
	}
	scaffolds, err := f.OrderedScaffolds()
	if err != nil {
		exitf("listing scaffolds: %s", err)
	}

	exportContigs := make([]fastaexport.OrderedContig, len(contigs))
	for i, c := range contigs {
		exportContigs[i] = fastaexport.OrderedContig{Name: c.Descriptor.Name, LengthBP: c.Descriptor.LengthBP, Direction: c.Direction}
	}
	var exportScaffolds []fastaexport.ScaffoldSpan
	for _, s := range scaffolds {
		if s.Descriptor == nil {
			continue
		}
		exportScaffolds = append(exportScaffolds, fastaexport.ScaffoldSpan{
			Name: s.Descriptor.Name, ID: s.Descriptor.ID,
			StartBP: s.StartBP, EndBP: s.EndBP,
			SpacerLength: s.Descriptor.SpacerLength,
		})
	}
	segments := fastaexport.GroupByScaffold(exportContigs, exportScaffolds)

	out, err := os.Create(args[1])
	if err != nil {
		exitf("creating %s: %s", args[1], err)
	}
	defer out.Close()

	w := fastaexport.New(src)
	if err := w.WriteAssembly(out, segments); err != nil {
		exitf("writing FASTA: %s", err)
	}
	logf("wrote %s", args[1])
}
