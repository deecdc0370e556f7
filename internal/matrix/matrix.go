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

package matrix

import (
	"fmt"

	"github.com/ctlab/hictgo/internal/blockstore"
	"github.com/ctlab/hictgo/internal/model"
)

// Result is a dense submatrix together with the row and column bin
// weight vectors, taken from the first column / first row of
// intersections respectively.
type Result struct {
	M          *Dense
	RowWeights []float64
	ColWeights []float64
}

// Assemble builds the dense matrix for the cross product of rowATUs
// (already resolver-trimmed row strips) and colATUs (column strips),
// reading one block per (row ATU, col ATU) pair from store.
func Assemble(store *blockstore.Store, rh *blockstore.ResolutionHeader, rowATUs, colATUs []model.ATU) (*Result, error) {
	h := totalLen(rowATUs)
	w := totalLen(colATUs)

	out := NewDense(h, w)
	rowWeights := make([]float64, h)
	colWeights := make([]float64, w)

	rowOffset := int64(0)
	for ri, ra := range rowATUs {
		colOffset := int64(0)
		for ci, ca := range colATUs {
			slice, rw, cw, err := intersection(store, rh, ra, ca)
			if err != nil {
				return nil, fmt.Errorf("matrix: intersecting row ATU %d / col ATU %d: %w", ri, ci, err)
			}
			out.PasteAt(rowOffset, colOffset, slice)
			if ci == 0 {
				copy(rowWeights[rowOffset:rowOffset+ra.Len()], rw)
			}
			if ri == 0 {
				copy(colWeights[colOffset:colOffset+ca.Len()], cw)
			}
			colOffset += ca.Len()
		}
		rowOffset += ra.Len()
	}

	return &Result{M: out, RowWeights: rowWeights, ColWeights: colWeights}, nil
}

func totalLen(atus []model.ATU) int64 {
	var n int64
	for _, a := range atus {
		n += a.Len()
	}
	return n
}

// intersection fetches the (possibly transposed, possibly
// diagonal-symmetrized) stripe-pair block, slices it by the two ATUs'
// bin ranges, and flips rows/columns per their effective direction.
func intersection(store *blockstore.Store, rh *blockstore.ResolutionHeader, ra, ca model.ATU) (*Dense, []float64, []float64, error) {
	origR, origC := ra.Stripe.ID, ca.Stripe.ID
	r, c := origR, origC
	transpose := false
	if r > c {
		r, c = c, r
		transpose = true
	}

	dense, sparse, err := store.ReadBlock(rh, r, c)
	if err != nil {
		return nil, nil, nil, err
	}

	var full *Dense
	if dense != nil {
		full = &Dense{Rows: dense.Rows, Cols: dense.Cols, Vals: append([]float64(nil), dense.Vals...)}
	} else {
		full = densify(sparse, rh.StripeLengthBins[r], rh.StripeLengthBins[c])
	}

	if r == c {
		fixupDiagonal(full)
	}
	if transpose {
		full = full.Transposed()
	}

	slice := full.Slice(ra.StartIncl, ra.EndExcl, ca.StartIncl, ca.EndExcl)

	rowW, err := store.StripeBinWeights(rh, origR)
	if err != nil {
		return nil, nil, nil, err
	}
	colW, err := store.StripeBinWeights(rh, origC)
	if err != nil {
		return nil, nil, nil, err
	}
	rw := weightSlice(rowW, ra)
	cw := weightSlice(colW, ca)

	if ra.Direction == model.Reversed {
		slice.FlipRowsInPlace()
		reverseFloat64s(rw)
	}
	if ca.Direction == model.Reversed {
		slice.FlipColsInPlace()
		reverseFloat64s(cw)
	}

	return slice, rw, cw, nil
}

// densify expands a sparse COO block (only the triples within the
// block's offset/length range) into a rows x cols dense matrix. An
// empty triple list (an on-disk "empty" block) yields an all-zero
// matrix.
func densify(sparse *blockstore.SparseBlock, rows, cols int64) *Dense {
	out := NewDense(rows, cols)
	for i := range sparse.Rows {
		out.Set(int64(sparse.Rows[i]), int64(sparse.Cols[i]), sparse.Vals[i])
	}
	return out
}

// fixupDiagonal mirrors zeros across the diagonal: on-disk diagonal
// blocks store only one triangle, so a cell that reads as zero may
// simply be the un-stored mirror of its transpose partner.
func fixupDiagonal(m *Dense) {
	n := m.Rows
	for i := int64(0); i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := m.At(i, j)
			vt := m.At(j, i)
			if v == 0 && vt != 0 {
				m.Set(i, j, vt)
			} else if vt == 0 && v != 0 {
				m.Set(j, i, v)
			}
		}
	}
}

// weightSlice returns w[a.StartIncl:a.EndExcl], or an all-ones vector
// of that length if w is nil (the stripe has no stored weights).
func weightSlice(w []float64, a model.ATU) []float64 {
	n := a.Len()
	out := make([]float64, n)
	if w == nil {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	copy(out, w[a.StartIncl:a.EndExcl])
	return out
}
