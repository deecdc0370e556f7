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

// Package model defines the immutable value types shared by the contig
// tree, scaffold tree, ATU resolver and submatrix assembler: stripes,
// ATUs, contig descriptors and scaffold descriptors.
package model

import "github.com/ctlab/hictgo/ints"

// Resolution is a bin size in base pairs. Resolution(1) is the finest
// (base-pair) resolution.
type Resolution int64

// Direction is the orientation of a contig or an ATU.
type Direction uint8

const (
	Forward Direction = iota
	Reversed
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	return 1 - d
}

// Unit is one of the three coordinate systems a position can be
// expressed in.
type Unit uint8

const (
	BasePairs Unit = iota
	Bins
	Pixels
)

// HideType records why a contig is or is not shown at a given
// resolution.
type HideType uint8

const (
	ForcedShown HideType = iota
	ForcedHidden
	AutoShown
	AutoHidden
)

// Hidden reports whether a contig at this HideType is excluded from
// pixel counts.
func (h HideType) Hidden() bool {
	return h == ForcedHidden || h == AutoHidden
}

// Stripe is an immutable slab of the source (unpermuted) matrix, the
// unit of on-disk storage. Stripes are numbered in source contig order
// per resolution.
type Stripe struct {
	ID          int64
	LengthBins  int64
	BinWeights  []float64 // nil means "all-ones"
}

// Weight returns the bin weight at index i, defaulting to 1 when no
// weights were stored on disk.
func (s *Stripe) Weight(i int64) float64 {
	if s.BinWeights == nil {
		return 1
	}
	return s.BinWeights[i]
}

// ATU (Assembly Translation Unit) is a half-open slice into a Stripe
// with a direction flag. It is the minimal atom the resolver and
// submatrix assembler manipulate.
type ATU struct {
	Stripe     *Stripe
	StartIncl  int64
	EndExcl    int64
	Direction  Direction
}

// Len returns end-start.
func (a ATU) Len() int64 {
	return a.EndExcl - a.StartIncl
}

// Clone returns a shallow copy (the Stripe pointer is shared, since
// stripes are immutable).
func (a ATU) Clone() ATU {
	return a
}

// FusibleWith reports whether a and b reference the same stripe in the
// same direction and are index-contiguous (a then b).
func (a ATU) FusibleWith(b ATU) bool {
	return a.Stripe == b.Stripe && a.Direction == b.Direction && a.EndExcl == b.StartIncl
}

// Fuse merges a run of fusible ATUs into the minimal equivalent list.
// The input is assumed to already be in logical (traversal) order.
func Fuse(atus []ATU) []ATU {
	if len(atus) == 0 {
		return atus
	}
	out := atus[:1:1]
	for _, next := range atus[1:] {
		last := &out[len(out)-1]
		if last.FusibleWith(next) {
			last.EndExcl = next.EndExcl
			continue
		}
		out = append(out, next)
	}
	return out
}

// ContigDescriptor is immutable once constructed. A split produces two
// brand new descriptors rather than mutating this one.
type ContigDescriptor struct {
	ID       int64
	Name     string
	LengthBP int64

	// SourceFastaName/SourceFastaOffset locate the contig's bases
	// within the original (unpermuted) source FASTA; used only by
	// fastaexport.
	SourceFastaName   string
	SourceFastaOffset int64

	LengthAtResolution     map[Resolution]int64
	PresenceAtResolution   map[Resolution]HideType
	SourceATUs             map[Resolution][]ATU
	ATUPrefixSumBins       map[Resolution][]int64
}

// SizeIn returns the contig's own contribution to the chosen unit at
// the chosen resolution (pixels excludes the contig entirely when it is
// hidden at that resolution).
func (c *ContigDescriptor) SizeIn(r Resolution, u Unit) int64 {
	switch u {
	case BasePairs:
		return c.LengthBP
	case Bins:
		return c.LengthAtResolution[r]
	case Pixels:
		if c.PresenceAtResolution[r].Hidden() {
			return 0
		}
		return c.LengthAtResolution[r]
	default:
		panic("model: unknown unit")
	}
}

// AdjustedPrefixSum returns the ATU prefix-sum-in-bins vector for this
// contig as seen under the given effective direction: for Reversed,
// a new slice is derived from the source (forward-order) prefix sum,
// which is left unmodified, so that adj[i] is the cumulative length of the first i+1 ATUs in
// traversal (physical) order, without rebuilding the ATU list itself.
//
// adj[:-1] = total - reverse(source)[1:]
func AdjustedPrefixSum(prefix []int64, dir Direction) []int64 {
	if dir == Forward || len(prefix) == 0 {
		return prefix
	}
	total := prefix[len(prefix)-1]
	out := make([]int64, len(prefix))
	n := len(prefix)
	for i := 0; i < n-1; i++ {
		out[i] = total - prefix[n-2-i]
	}
	out[n-1] = total
	return out
}

// ScaffoldDescriptor is immutable.
type ScaffoldDescriptor struct {
	ID            int64
	Name          string
	SpacerLength  int64
}

// Clamp restricts x to [lo, hi]; see ints.Clamp. Kept as a thin,
// model-typed wrapper so call sites don't need to import ints directly
// just to clamp a coordinate.
func Clamp(x, lo, hi int64) int64 {
	return ints.Clamp(x, lo, hi)
}
