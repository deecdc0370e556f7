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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctlab/hictgo/fastaexport"
	"github.com/ctlab/hictgo/internal/model"
)

func TestParseUnitRecognizesEveryFacadeUnit(t *testing.T) {
	cases := map[string]model.Unit{"bp": model.BasePairs, "bins": model.Bins, "px": model.Pixels, "pixels": model.Pixels}
	for s, want := range cases {
		if got := parseUnit(s); got != want {
			t.Fatalf("parseUnit(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestFastaExportPipelineJoinsContigsWithSpacer(t *testing.T) {
	f := openFixture(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "src.fa"), []byte(">chrA\nAAAA\n>chrB\nCCCCCC\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	src := loadFastaGlobsFS(os.DirFS(dir), []string{"*.fa"})

	contigs, err := f.OrderedContigs()
	if err != nil {
		t.Fatalf("OrderedContigs: %v", err)
	}
	scaffolds, err := f.OrderedScaffolds()
	if err != nil {
		t.Fatalf("OrderedScaffolds: %v", err)
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
			Name: s.Descriptor.Name, ID: s.Descriptor.ID, StartBP: s.StartBP, EndBP: s.EndBP, SpacerLength: s.Descriptor.SpacerLength,
		})
	}
	segments := fastaexport.GroupByScaffold(exportContigs, exportScaffolds)

	var out bytes.Buffer
	w := fastaexport.New(src)
	if err := w.WriteAssembly(&out, segments); err != nil {
		t.Fatalf("WriteAssembly: %v", err)
	}

	// chrA and chrB are never scaffolded together in the fixture, so
	// they come out as two single-contig segments, which WriteAssembly
	// joins with a DefaultSpacerLength run of 'N'.
	got := out.String()
	if !strings.Contains(got, "AAAA") || !strings.Contains(got, "CCCCCC") {
		t.Fatalf("output = %q, want both source sequences present", got)
	}
}
