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

// ReverseSelectionRangeBP reverses the orientation of every contig
// covering [l, r) bp, after extending the range so it never cuts a
// scaffold in half.
func (f *File) ReverseSelectionRangeBP(l, r int64) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	if l >= r {
		return ErrIncorrectRange
	}
	f.withEdit(func() {
		lp, rp := f.scaffolds.ExtendBordersToScaffolds(l, r)
		es := f.contigs.ExposeSegment(0, lp, rp, model.BasePairs)
		es.Segment = contigtree.CloneWithReversal(es.Segment)
		f.contigs.CommitExposedSegment(es)
	})
	return nil
}

// MoveSelectionRangeBP relocates [l, r) bp so it starts at target in
// the post-removal coordinate space: target is interpreted after the
// moved range has already been excised, with no compatibility shim
// for a pre-removal target.
func (f *File) MoveSelectionRangeBP(l, r, target int64) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	if l >= r {
		return ErrIncorrectRange
	}
	f.withEdit(func() {
		lp, rp := f.scaffolds.ExtendBordersToScaffolds(l, r)

		es := f.contigs.ExposeSegment(0, lp, rp, model.BasePairs)
		tmp := f.contigs.Merge(es.Less, es.Greater)
		nl, nr := f.contigs.SplitByLength(tmp, target, model.BasePairs, 0, true)
		f.contigs.CommitExposedSegment(contigtree.ExposedSegment{Less: nl, Segment: es.Segment, Greater: nr})

		f.scaffolds.MoveSelectionRange(lp, rp, target)
	})
	return nil
}

// GroupSelectionRangeIntoScaffold installs a scaffold over [l, r) bp
// (extended to scaffold borders), naming it name, or a generated name
// when name == "".
func (f *File) GroupSelectionRangeIntoScaffold(l, r int64, name string, spacer int64) (*model.ScaffoldDescriptor, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	if l >= r {
		return nil, ErrIncorrectRange
	}
	var descriptor *model.ScaffoldDescriptor
	f.withEdit(func() {
		descriptor = f.scaffolds.Rescaffold(l, r, name, spacer)
	})
	return descriptor, nil
}

// UngroupSelectionRange removes the scaffold grouping over [l, r) bp
// (extended to scaffold borders), leaving a plain gap.
func (f *File) UngroupSelectionRange(l, r int64) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	if l >= r {
		return ErrIncorrectRange
	}
	f.withEdit(func() {
		f.scaffolds.Unscaffold(l, r)
	})
	return nil
}
