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

package assembly

import (
	"fmt"
	"io"
	"os"

	"github.com/ctlab/hictgo/agp"
	"github.com/ctlab/hictgo/internal/contigtree"
	"github.com/ctlab/hictgo/internal/model"
)

// LoadAssemblyFromAGP replaces the current assembly order with the one
// described by the AGP file at path: contigs are looked up by name
// among the ones the store was opened with (a reload reorders and
// reorients existing contigs; it does not introduce new ones), and the
// scaffold tree is rebuilt from scratch from the AGP's scaffold runs.
func (f *File) LoadAssemblyFromAGP(path string) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	doc, err := agp.Parse(file)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedAssembly, err)
	}

	descriptors := make([]*model.ContigDescriptor, len(doc.Contigs))
	prefix := make([]int64, len(doc.Contigs)+1)
	nameIndex := make(map[string]int, len(doc.Contigs))
	for i, rec := range doc.Contigs {
		d, ok := f.byName[rec.Name]
		if !ok {
			return fmt.Errorf("%w: unknown contig %q", ErrMalformedAssembly, rec.Name)
		}
		descriptors[i] = d
		prefix[i+1] = prefix[i] + d.LengthBP
		nameIndex[rec.Name] = i
	}
	totalBP := prefix[len(doc.Contigs)]

	f.withEdit(func() {
		currentTotal := f.contigs.Root().SizeBP()
		es := f.contigs.ExposeSegment(0, 0, currentTotal, model.BasePairs)

		var leaves []*contigtree.Node
		for i, rec := range doc.Contigs {
			leaves = append(leaves, f.contigs.NewLeaf(descriptors[i], rec.Direction))
		}
		es.Segment = f.contigs.MergeNodes(leaves...)
		f.contigs.CommitExposedSegment(es)

		f.scaffolds.ResetTotalLength(totalBP)
		for i, run := range doc.Scaffolds {
			startIdx, ok := nameIndex[run.StartContig]
			if !ok {
				continue
			}
			endIdx, ok := nameIndex[run.EndContig]
			if !ok {
				continue
			}
			f.scaffolds.AddScaffold(prefix[startIdx], prefix[endIdx+1], &model.ScaffoldDescriptor{
				ID:           int64(i),
				Name:         run.Name,
				SpacerLength: agp.DefaultSpacerLength,
			})
		}
	})
	return nil
}

// ExportAGP writes the current assembly order as an AGP file, the
// natural counterpart to LoadAssemblyFromAGP, exercised by every round
// trip test.
func (f *File) ExportAGP(w io.Writer, spacerLength int64) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	contigs, err := f.OrderedContigs()
	if err != nil {
		return err
	}
	scaffolds, err := f.OrderedScaffolds()
	if err != nil {
		return err
	}

	agpContigs := make([]agp.OrderedContig, len(contigs))
	for i, c := range contigs {
		agpContigs[i] = agp.OrderedContig{Name: c.Descriptor.Name, LengthBP: c.Descriptor.LengthBP, Direction: c.Direction}
	}
	var agpScaffolds []agp.ScaffoldSpan
	for _, s := range scaffolds {
		if s.Descriptor == nil {
			continue
		}
		agpScaffolds = append(agpScaffolds, agp.ScaffoldSpan{Name: s.Descriptor.Name, StartBP: s.StartBP, EndBP: s.EndBP})
	}

	return agp.Export(w, agpContigs, agpScaffolds, spacerLength)
}
