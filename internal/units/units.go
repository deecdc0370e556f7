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

// Package units converts a single coordinate between the three
// systems a caller may address the assembly in: base pairs, bins at a
// given resolution, and pixels (bins excluding hidden contigs) at a
// given resolution.
package units

import (
	"github.com/ctlab/hictgo/internal/contigtree"
	"github.com/ctlab/hictgo/internal/model"
)

// Convert translates position, expressed as (resolutionFrom, unitFrom),
// into the equivalent position under (resolutionTo, unitTo). R is
// required (non-zero) only when the matching unit is not BasePairs —
// BasePairs is resolution-independent.
//
// The contig straddling position is exposed as a one-wide window so
// that less's cached aggregates give the exact position of position's
// containing contig in both coordinate systems at once; the
// intra-contig residual is then converted via the contig's own bp
// length (floor division toward resolutionTo).
func Convert(tree *contigtree.Tree, position int64, resolutionFrom model.Resolution, unitFrom model.Unit, resolutionTo model.Resolution, unitTo model.Unit) int64 {
	es := tree.ExposeSegment(resolutionFrom, position, position+1, unitFrom)
	defer tree.CommitExposedSegment(es)

	lessFromIdx := 0
	if unitFrom != model.BasePairs {
		lessFromIdx = tree.ResolutionIndex(resolutionFrom)
	}
	lessToIdx := 0
	if unitTo != model.BasePairs {
		lessToIdx = tree.ResolutionIndex(resolutionTo)
	}

	lessSizeFrom := sizeOf(es.Less, unitFrom, lessFromIdx)
	lessSizeTo := sizeOf(es.Less, unitTo, lessToIdx)

	deltaFrom := position - lessSizeFrom

	var deltaBP int64
	if unitFrom == model.BasePairs {
		deltaBP = deltaFrom
	} else {
		deltaBP = deltaFrom * int64(resolutionFrom)
	}

	var deltaTo int64
	if unitTo == model.BasePairs {
		deltaTo = deltaBP
	} else {
		deltaTo = deltaBP / int64(resolutionTo)
	}

	return lessSizeTo + deltaTo
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
		panic("units: unknown unit")
	}
}

// ConstrainCoordinate clamps x into [lo, hi]: an out-of-range query
// coordinate is silently clamped rather than rejected.
func ConstrainCoordinate(x, lo, hi int64) int64 {
	return model.Clamp(x, lo, hi)
}
