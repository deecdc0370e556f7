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
	"github.com/ctlab/hictgo/internal/contigtree"
	"github.com/ctlab/hictgo/internal/model"
)

// OrderedContig is one contig as it currently sits in the assembly.
type OrderedContig struct {
	Descriptor *model.ContigDescriptor
	Direction  model.Direction
}

// OrderedScaffold is one scaffold tree node's bp extent.
// Descriptor is nil for an unscaffolded gap.
type OrderedScaffold struct {
	Descriptor *model.ScaffoldDescriptor
	StartBP    int64
	EndBP      int64
}

// OrderedContigs returns every contig in current assembly order (bp
// resolution; resolution-independent, so excludeHidden is never
// applicable here).
func (f *File) OrderedContigs() ([]OrderedContig, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	var out []OrderedContig
	contigtree.TraverseNodes(f.contigs.Root(), f.rMin, false, func(c *model.ContigDescriptor, dir model.Direction) {
		out = append(out, OrderedContig{Descriptor: c, Direction: dir})
	})
	return out, nil
}

// OrderedScaffolds returns every scaffold-tree node (scaffolded runs
// and unscaffolded gaps alike) in bp order.
func (f *File) OrderedScaffolds() ([]OrderedScaffold, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	var out []OrderedScaffold
	f.scaffolds.Traverse(func(start, end int64, descriptor *model.ScaffoldDescriptor) {
		out = append(out, OrderedScaffold{Descriptor: descriptor, StartBP: start, EndBP: end})
	})
	return out, nil
}
