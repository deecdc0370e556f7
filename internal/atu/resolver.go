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

// Package atu resolves a pixel (or bin) range query against the contig
// tree into the minimal ordered list of model.ATU slices that cover
// exactly that range, trimming the boundary contigs' ATU lists down to
// the query's exact extent and fusing adjacent, contiguous ATUs.
package atu

import (
	"sort"

	"github.com/ctlab/hictgo/internal/contigtree"
	"github.com/ctlab/hictgo/internal/invariant"
	"github.com/ctlab/hictgo/internal/model"
)

// ResolveRange returns the ATUs covering [startIncl, endExcl) in the
// given unit (Bins or Pixels) at resolution, and commits the exposure
// back to tree unchanged (read-only operation).
//
// excludeHidden selects whether hidden contigs are skipped during
// traversal and whether sizes are read in Pixels (true) or Bins
// (false); the two must always agree.
func ResolveRange(tree *contigtree.Tree, resolution model.Resolution, startIncl, endExcl int64, excludeHidden bool) []model.ATU {
	unit := model.Bins
	if excludeHidden {
		unit = model.Pixels
	}

	totalLength := sizeOf(tree.Root(), unit, tree.ResolutionIndex(resolution))
	startIncl = model.Clamp(startIncl, 0, totalLength)
	endExcl = model.Clamp(endExcl, 0, totalLength)

	queryLength := endExcl - startIncl
	if queryLength <= 0 {
		return nil
	}

	es := tree.ExposeSegment(resolution, startIncl, endExcl, unit)
	defer tree.CommitExposedSegment(es)

	if es.Segment == nil {
		panic("atu: non-empty query produced no exposed segment")
	}

	idx := tree.ResolutionIndex(resolution)
	lessSize := sizeOf(es.Less, unit, idx)
	segmentSize := sizeOf(es.Segment, unit, idx)

	deltaStart := startIncl - lessSize
	invariant.Check(deltaStart >= 0, "atu: query start falls before exposed segment (delta=%d)", deltaStart)

	var atus []model.ATU
	contigtree.TraverseNodes(es.Segment, resolution, excludeHidden, func(c *model.ContigDescriptor, dir model.Direction) {
		contigATUs := c.SourceATUs[resolution]
		if dir == model.Reversed {
			rev := make([]model.ATU, len(contigATUs))
			for i, a := range contigATUs {
				flipped := a.Clone()
				flipped.Direction = a.Direction.Flip()
				rev[len(contigATUs)-1-i] = flipped
			}
			atus = append(atus, rev...)
		} else {
			atus = append(atus, contigATUs...)
		}
	})

	totalExposedLength := int64(0)
	for _, a := range atus {
		totalExposedLength += a.Len()
	}
	invariant.Check(totalExposedLength == segmentSize, "atu: exposed ATU length %d != segment size %d", totalExposedLength, segmentSize)

	// Trim the left edge: locate the ATU containing deltaStart via the
	// orientation-adjusted prefix sum, then shrink it in place.
	first := contigtree.Leftmost(es.Segment)
	firstPrefix := model.AdjustedPrefixSum(first.Contig().ATUPrefixSumBins[resolution], contigtree.Direction(first))
	startATUIndex := sort.Search(len(firstPrefix), func(i int) bool { return firstPrefix[i] > deltaStart })
	invariant.Check(startATUIndex < len(firstPrefix), "atu: query start does not fall inside the leftmost exposed contig")

	lengthBeforeStartATU := int64(0)
	if startATUIndex > 0 {
		lengthBeforeStartATU = firstPrefix[startATUIndex-1]
	}
	oldFirst := atus[startATUIndex]
	newFirst := oldFirst.Clone()
	trimFromStart := deltaStart - lengthBeforeStartATU
	if oldFirst.Direction == model.Forward {
		newFirst.StartIncl += trimFromStart
	} else {
		newFirst.EndExcl -= trimFromStart
	}
	invariant.Check(newFirst.StartIncl < newFirst.EndExcl, "atu: left trim produced an empty ATU")
	atus[startATUIndex] = newFirst
	atus = atus[startATUIndex:]

	// Trim the right edge symmetrically.
	deltaEnd := endExcl - (lessSize + segmentSize) // <= 0 when segment overshoots the query end
	last := contigtree.Rightmost(es.Segment)
	// The right trim measures from the contig's right edge, which
	// inverts the parity of when the prefix sum needs adjusting: the
	// left trim (measuring from the left edge) adjusts when the
	// contig's effective direction is Reversed, so the right trim
	// adjusts when it is Forward — hence the Flip() here.
	lastPrefix := model.AdjustedPrefixSum(last.Contig().ATUPrefixSumBins[resolution], contigtree.Direction(last).Flip())
	rightTrimCount := sort.Search(len(lastPrefix), func(i int) bool { return lastPrefix[i] > -deltaEnd })

	deletedLength := int64(0)
	if rightTrimCount > 0 {
		deletedLength = lastPrefix[rightTrimCount-1]
		atus = atus[:len(atus)-rightTrimCount]
	}

	oldLast := atus[len(atus)-1]
	newLast := oldLast.Clone()
	growBack := deletedLength + deltaEnd
	if oldLast.Direction == model.Forward {
		newLast.EndExcl += growBack
	} else {
		newLast.StartIncl -= growBack
	}
	invariant.Check(newLast.StartIncl < newLast.EndExcl, "atu: right trim produced an empty ATU")
	atus[len(atus)-1] = newLast

	totalATULength := int64(0)
	for _, a := range atus {
		totalATULength += a.Len()
	}
	invariant.Check(totalATULength == queryLength, "atu: resolved ATU total length %d != query length %d", totalATULength, queryLength)

	return model.Fuse(atus)
}

func sizeOf(n *contigtree.Node, unit model.Unit, idx int) int64 {
	switch unit {
	case model.BasePairs:
		return n.SizeBP()
	case model.Bins:
		return n.SizeBins(idx)
	case model.Pixels:
		return n.SizePixels(idx)
	default:
		panic("atu: unknown unit")
	}
}
