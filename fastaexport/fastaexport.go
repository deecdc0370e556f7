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

// Package fastaexport computes the bookkeeping needed to reassemble a
// source FASTA into the current assembly order — which contig borders
// need a spacer run and how long it is — and leaves the actual base
// lookup to an injected SequenceSource.
package fastaexport

import (
	"bytes"
	"io"

	"github.com/ctlab/hictgo/internal/model"
)

// DefaultSpacerLength is used when a scaffold or range query does not
// specify its own spacer width.
const DefaultSpacerLength = 500

// SequenceSource resolves a source (unpermuted) contig's bases by
// name. Implementations typically wrap an indexed FASTA reader; this
// package never interprets the bytes beyond reverse-complementing
// them.
type SequenceSource interface {
	ContigSequence(name string) ([]byte, error)
}

// ContigPlacement is one contig's name and orientation in the current
// assembly order.
type ContigPlacement struct {
	Name      string
	Direction model.Direction
}

// OrderedContig additionally carries the contig's bp length, needed to
// track position against scaffold spans.
type OrderedContig struct {
	Name      string
	LengthBP  int64
	Direction model.Direction
}

// ScaffoldSpan gives one scaffold's bp extent and its own intercontig
// spacer width.
type ScaffoldSpan struct {
	Name         string
	ID           int64
	StartBP      int64
	EndBP        int64
	SpacerLength int64
}

// Segment is a maximal run of consecutive contigs that share a
// scaffold identity (or, for ScaffoldName == "", a single
// unscaffolded contig) — the unit get_fasta_for_assembly joins
// without an internal spacer.
type Segment struct {
	ScaffoldName string
	SpacerLength int64 // this segment's own border spacer, used before it
	Contigs      []ContigPlacement
}

// GroupByScaffold walks contigs in assembly order, consuming
// scaffolds by cumulative bp position, and merges contigs belonging
// to the same scaffold run into one Segment — mirroring
// chunked_file.py's get_fasta_for_assembly / ordered_finalization_records
// construction (a contig whose scaffold has the same name as the
// previous segment's extends it; anything else starts a new one;
// ScaffoldSpan.ID is not compared).
func GroupByScaffold(contigs []OrderedContig, scaffolds []ScaffoldSpan) []Segment {
	var segments []Segment
	si := 0
	var bpPosition int64
	scaffoldLeftBP := int64(0)

	for _, c := range contigs {
		for si < len(scaffolds) && bpPosition >= scaffoldLeftBP+(scaffolds[si].EndBP-scaffolds[si].StartBP) {
			scaffoldLeftBP += scaffolds[si].EndBP - scaffolds[si].StartBP
			si++
		}

		var name string
		var spacer int64
		haveScaffold := si < len(scaffolds)
		if haveScaffold {
			name = scaffolds[si].Name
			spacer = scaffolds[si].SpacerLength
		}

		placement := ContigPlacement{Name: c.Name, Direction: c.Direction}

		switch {
		case !haveScaffold:
			segments = append(segments, Segment{Contigs: []ContigPlacement{placement}})
		case len(segments) > 0 && segments[len(segments)-1].ScaffoldName == name && name != "":
			last := &segments[len(segments)-1]
			last.Contigs = append(last.Contigs, placement)
		default:
			segments = append(segments, Segment{ScaffoldName: name, SpacerLength: spacer, Contigs: []ContigPlacement{placement}})
		}

		bpPosition += c.LengthBP
	}
	return segments
}

// Writer renders Segments or a raw contig run into FASTA bases via an
// injected SequenceSource.
type Writer struct {
	Source     SequenceSource
	SpacerChar byte // zero value defaults to 'N'
}

// New returns a Writer over source, spacing with 'N'.
func New(source SequenceSource) *Writer {
	return &Writer{Source: source, SpacerChar: 'N'}
}

func (w *Writer) spacerByte() byte {
	if w.SpacerChar == 0 {
		return 'N'
	}
	return w.SpacerChar
}

// WriteAssembly writes the whole current assembly, one spacer run per
// segment border, sized by the segment being entered (or
// DefaultSpacerLength when a segment carries none).
func (w *Writer) WriteAssembly(out io.Writer, segments []Segment) error {
	for i, seg := range segments {
		if i > 0 {
			spacer := seg.SpacerLength
			if spacer <= 0 {
				spacer = DefaultSpacerLength
			}
			if _, err := out.Write(bytes.Repeat([]byte{w.spacerByte()}, int(spacer))); err != nil {
				return err
			}
		}
		for _, cp := range seg.Contigs {
			seq, err := w.Source.ContigSequence(cp.Name)
			if err != nil {
				return err
			}
			if cp.Direction == model.Reversed {
				seq = ReverseComplement(seq)
			}
			if _, err := out.Write(seq); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteRange writes the bases for an arbitrary bp range: the
// contig-tree-traversal order of the contigs it spans, joined by a
// uniform spacer (ranges carry no scaffold grouping, unlike
// WriteAssembly), then trimmed by deltaInFirst bytes from the start
// and deltaInLast bytes from the end — the intra-contig residuals
// get_fasta_for_range computes from the exposed segment's less_size
// and segment_size. Mirrors chunked_file.py's get_fasta_for_range.
func (w *Writer) WriteRange(out io.Writer, contigs []ContigPlacement, deltaInFirst, deltaInLast, spacerLength int64) error {
	if spacerLength <= 0 {
		spacerLength = DefaultSpacerLength
	}
	var buf bytes.Buffer
	for i, cp := range contigs {
		if i > 0 {
			buf.Write(bytes.Repeat([]byte{w.spacerByte()}, int(spacerLength)))
		}
		seq, err := w.Source.ContigSequence(cp.Name)
		if err != nil {
			return err
		}
		if cp.Direction == model.Reversed {
			seq = ReverseComplement(seq)
		}
		buf.Write(seq)
	}

	full := buf.Bytes()
	lo := deltaInFirst
	hi := int64(len(full)) - deltaInLast
	if lo < 0 {
		lo = 0
	}
	if hi > int64(len(full)) {
		hi = int64(len(full))
	}
	if hi < 0 {
		hi = 0
	}
	if lo > hi {
		lo = hi
	}
	_, err := out.Write(full[lo:hi])
	return err
}
