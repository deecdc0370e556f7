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

package fastaexport

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ctlab/hictgo/internal/model"
)

type fakeSource map[string][]byte

func (f fakeSource) ContigSequence(name string) ([]byte, error) {
	seq, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("no such contig: %s", name)
	}
	return seq, nil
}

func TestReverseComplement(t *testing.T) {
	got := string(ReverseComplement([]byte("ACGTacgtN")))
	want := "NacgtACGT"
	if got != want {
		t.Fatalf("ReverseComplement = %q, want %q", got, want)
	}
}

func TestGroupByScaffoldMergesConsecutiveContigsAndIsolatesUnscaffolded(t *testing.T) {
	contigs := []OrderedContig{
		{Name: "ctgA", LengthBP: 10, Direction: model.Forward},
		{Name: "ctgB", LengthBP: 10, Direction: model.Reversed},
		{Name: "ctgC", LengthBP: 10, Direction: model.Forward},
	}
	scaffolds := []ScaffoldSpan{
		{Name: "scafAB", StartBP: 0, EndBP: 20, SpacerLength: 100},
	}

	segs := GroupByScaffold(contigs, scaffolds)
	if len(segs) != 2 {
		t.Fatalf("len(segments) = %d, want 2: %+v", len(segs), segs)
	}
	if segs[0].ScaffoldName != "scafAB" || len(segs[0].Contigs) != 2 {
		t.Fatalf("segment 0 = %+v, want scafAB with 2 contigs", segs[0])
	}
	if segs[0].Contigs[0].Name != "ctgA" || segs[0].Contigs[1].Name != "ctgB" {
		t.Fatalf("segment 0 contigs = %+v", segs[0].Contigs)
	}
	if segs[1].ScaffoldName != "" || len(segs[1].Contigs) != 1 || segs[1].Contigs[0].Name != "ctgC" {
		t.Fatalf("segment 1 = %+v, want lone ctgC", segs[1])
	}
}

func TestWriteAssemblyJoinsScaffoldGroupWithoutInternalSpacer(t *testing.T) {
	src := fakeSource{
		"ctgA": []byte("AAAA"),
		"ctgB": []byte("CCCC"),
	}
	segs := []Segment{
		{ScaffoldName: "scafAB", SpacerLength: 3, Contigs: []ContigPlacement{
			{Name: "ctgA", Direction: model.Forward},
			{Name: "ctgB", Direction: model.Forward},
		}},
	}
	var buf bytes.Buffer
	w := New(src)
	if err := w.WriteAssembly(&buf, segs); err != nil {
		t.Fatalf("WriteAssembly: %v", err)
	}
	if buf.String() != "AAAACCCC" {
		t.Fatalf("got %q, want %q (no spacer within a scaffold group)", buf.String(), "AAAACCCC")
	}
}

func TestWriteAssemblyInsertsSpacerBetweenSegments(t *testing.T) {
	src := fakeSource{
		"ctgA": []byte("AAAA"),
		"ctgC": []byte("GGGG"),
	}
	segs := []Segment{
		{Contigs: []ContigPlacement{{Name: "ctgA", Direction: model.Forward}}},
		{ScaffoldName: "scafC", SpacerLength: 2, Contigs: []ContigPlacement{{Name: "ctgC", Direction: model.Forward}}},
	}
	var buf bytes.Buffer
	w := New(src)
	if err := w.WriteAssembly(&buf, segs); err != nil {
		t.Fatalf("WriteAssembly: %v", err)
	}
	want := "AAAA" + "NN" + "GGGG"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteAssemblyReverseComplementsReversedContigs(t *testing.T) {
	src := fakeSource{"ctgA": []byte("AACG")}
	segs := []Segment{
		{Contigs: []ContigPlacement{{Name: "ctgA", Direction: model.Reversed}}},
	}
	var buf bytes.Buffer
	w := New(src)
	if err := w.WriteAssembly(&buf, segs); err != nil {
		t.Fatalf("WriteAssembly: %v", err)
	}
	if buf.String() != "CGTT" {
		t.Fatalf("got %q, want %q", buf.String(), "CGTT")
	}
}

func TestWriteRangeTrimsResidualsAtBoundaries(t *testing.T) {
	src := fakeSource{
		"ctgA": []byte("AAAAAAAAAA"), // 10bp
		"ctgB": []byte("CCCCCCCCCC"), // 10bp
	}
	contigs := []ContigPlacement{
		{Name: "ctgA", Direction: model.Forward},
		{Name: "ctgB", Direction: model.Forward},
	}
	var buf bytes.Buffer
	w := New(src)
	// full joined sequence (spacer=2): AAAAAAAAAA NN CCCCCCCCCC (len 22)
	// trim 3 bytes off the front and 4 off the back.
	if err := w.WriteRange(&buf, contigs, 3, 4, 2); err != nil {
		t.Fatalf("WriteRange: %v", err)
	}
	full := "AAAAAAAAAA" + "NN" + "CCCCCCCCCC"
	want := full[3 : len(full)-4]
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteRangeClampsWhenDeltasOverlap(t *testing.T) {
	src := fakeSource{"ctgA": []byte("AAAA")}
	contigs := []ContigPlacement{{Name: "ctgA", Direction: model.Forward}}
	var buf bytes.Buffer
	w := New(src)
	if err := w.WriteRange(&buf, contigs, 10, 10, 1); err != nil {
		t.Fatalf("WriteRange: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("got %q, want empty output when deltas overlap the whole range", buf.String())
	}
}
