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
	"github.com/ctlab/hictgo/internal/invariant"
	"github.com/ctlab/hictgo/internal/model"
)

// SplitContigAtBin splits the contig covering position (expressed in
// unit at resolution r) into two fresh contigs at the finest stored
// resolution's bin containing position; that bin is consumed by the split.
func (f *File) SplitContigAtBin(position int64, r model.Resolution, unit model.Unit) error {
	if err := f.checkOpen(); err != nil {
		return err
	}

	positionBins, err := f.ConvertUnits(position, r, unit, f.rMin, model.Bins)
	if err != nil {
		return err
	}
	positionBP, err := f.ConvertUnits(position, r, unit, 0, model.BasePairs)
	if err != nil {
		return err
	}

	f.withEdit(func() {
		idx := f.contigs.ResolutionIndex(f.rMin)

		es := f.contigs.ExposeSegment(f.rMin, positionBins, positionBins+1, model.Bins)
		invariant.Check(es.Segment != nil && es.Segment.Count() == 1,
			"split_contig_at_bin: split point %d does not fall inside exactly one contig (found %d)", positionBins, es.Segment.Count())

		old := es.Segment.Contig()
		dir := contigtree.Direction(es.Segment)
		lessBins := es.Less.SizeBins(idx)
		delta := positionBins - lessBins
		invariant.Check(delta >= 0 && delta < old.LengthAtResolution[f.rMin],
			"split_contig_at_bin: delta %d out of range for contig %s", delta, old.Name)

		left, right := f.splitDescriptor(old, dir, delta)

		leftLeaf := f.contigs.NewLeaf(left, model.Forward)
		rightLeaf := f.contigs.NewLeaf(right, model.Forward)
		es.Segment = f.contigs.MergeNodes(leftLeaf, rightLeaf)
		f.contigs.CommitExposedSegment(es)

		f.scaffolds.RemoveSegmentFromAssembly(positionBP, positionBP+int64(f.rMin))
	})
	return nil
}

// splitDescriptor builds the two replacement descriptors for old, which
// currently sits in the tree oriented as dir, splitting it at delta
// bins (measured at f.rMin) from its own start.
func (f *File) splitDescriptor(old *model.ContigDescriptor, dir model.Direction, delta int64) (left, right *model.ContigDescriptor) {
	left = &model.ContigDescriptor{
		ID:                   f.allocContigID(),
		Name:                 old.Name + "_hictsplit_1",
		SourceFastaName:      old.SourceFastaName,
		LengthAtResolution:   make(map[model.Resolution]int64, len(f.resolutions)),
		PresenceAtResolution: make(map[model.Resolution]model.HideType, len(f.resolutions)),
		SourceATUs:           make(map[model.Resolution][]model.ATU, len(f.resolutions)),
		ATUPrefixSumBins:     make(map[model.Resolution][]int64, len(f.resolutions)),
	}
	right = &model.ContigDescriptor{
		ID:                   f.allocContigID(),
		Name:                 old.Name + "_hictsplit_2",
		SourceFastaName:      old.SourceFastaName,
		LengthAtResolution:   make(map[model.Resolution]int64, len(f.resolutions)),
		PresenceAtResolution: make(map[model.Resolution]model.HideType, len(f.resolutions)),
		SourceATUs:           make(map[model.Resolution][]model.ATU, len(f.resolutions)),
		ATUPrefixSumBins:     make(map[model.Resolution][]int64, len(f.resolutions)),
	}

	deltaBP := delta * int64(f.rMin)
	left.LengthBP = deltaBP
	right.LengthBP = old.LengthBP - deltaBP - int64(f.rMin)

	shift := (1 + delta) * int64(f.rMin)
	if dir == model.Forward {
		left.SourceFastaOffset = old.SourceFastaOffset
		right.SourceFastaOffset = old.SourceFastaOffset + shift
	} else {
		left.SourceFastaOffset = old.SourceFastaOffset + shift
		right.SourceFastaOffset = old.SourceFastaOffset
	}

	for _, r := range f.resolutions {
		deltaR := deltaBP / int64(r)
		oldLen := old.LengthAtResolution[r]
		rightStart := deltaR
		if r == f.rMin {
			rightStart = deltaR + 1
		}

		left.LengthAtResolution[r] = deltaR
		right.LengthAtResolution[r] = oldLen - rightStart

		physical := physicalATUs(old.SourceATUs[r], dir)
		leftATUs, _ := cutATUs(physical, deltaR)
		_, rightATUs := cutATUs(physical, rightStart)

		left.SourceATUs[r] = leftATUs
		right.SourceATUs[r] = rightATUs
		left.ATUPrefixSumBins[r] = prefixSumBins(leftATUs)
		right.ATUPrefixSumBins[r] = prefixSumBins(rightATUs)

		left.PresenceAtResolution[r] = splitPresence(old.PresenceAtResolution[r], left.LengthBP, r)
		right.PresenceAtResolution[r] = splitPresence(old.PresenceAtResolution[r], right.LengthBP, r)
	}

	return left, right
}

// splitPresence inherits a Forced* hide type unchanged, otherwise
// re-derives AutoShown/AutoHidden from the replacement contig's own bp
// length against resolution r.
func splitPresence(old model.HideType, lengthBP int64, r model.Resolution) model.HideType {
	if old == model.ForcedShown || old == model.ForcedHidden {
		return old
	}
	if lengthBP >= int64(r) {
		return model.AutoShown
	}
	return model.AutoHidden
}

// physicalATUs returns atus reordered (and direction-flipped) into
// physical (traversal) order under dir, without mutating atus itself —
// the same transform atu.ResolveRange applies per contig, pulled out
// here since splitDescriptor needs the resolved list directly rather
// than a resolver callback.
func physicalATUs(atus []model.ATU, dir model.Direction) []model.ATU {
	if dir == model.Forward {
		return atus
	}
	out := make([]model.ATU, len(atus))
	for i, a := range atus {
		flipped := a.Clone()
		flipped.Direction = a.Direction.Flip()
		out[len(atus)-1-i] = flipped
	}
	return out
}

// cutATUs splits a physically-ordered ATU list into the first at bins
// and the remainder, cloning and trimming the ATU straddling the
// boundary (mirrors the left/right trim atu.ResolveRange applies to a
// whole exposed segment, here applied to one contig's own list).
func cutATUs(atus []model.ATU, at int64) (before, after []model.ATU) {
	if at <= 0 {
		return nil, append([]model.ATU(nil), atus...)
	}
	var cum int64
	for i, a := range atus {
		length := a.Len()
		if cum+length <= at {
			cum += length
			continue
		}
		residual := at - cum
		if residual == 0 {
			return append([]model.ATU(nil), atus[:i]...), append([]model.ATU(nil), atus[i:]...)
		}
		left := a.Clone()
		right := a.Clone()
		if a.Direction == model.Forward {
			left.EndExcl = a.StartIncl + residual
			right.StartIncl = a.StartIncl + residual
		} else {
			left.StartIncl = a.EndExcl - residual
			right.EndExcl = a.EndExcl - residual
		}
		before = append(append([]model.ATU(nil), atus[:i]...), left)
		after = append([]model.ATU{right}, atus[i+1:]...)
		return before, after
	}
	return append([]model.ATU(nil), atus...), nil
}

// prefixSumBins rebuilds the cumulative-length-in-bins vector for a
// freshly built, already-forward-ordered ATU list.
func prefixSumBins(atus []model.ATU) []int64 {
	out := make([]int64, len(atus))
	var cum int64
	for i, a := range atus {
		cum += a.Len()
		out[i] = cum
	}
	return out
}

func (f *File) allocContigID() int64 {
	id := f.nextContigID
	f.nextContigID++
	return id
}
