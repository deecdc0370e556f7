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

// Package matrix assembles dense submatrices of the current assembly
// order out of per-stripe-pair blocks read from a block store,
// following the row/column ATU lists the atu resolver produces.
package matrix

// Dense is a row-major h x w matrix of contact values.
type Dense struct {
	Rows, Cols int64
	Vals       []float64
}

// NewDense returns a zero-filled rows x cols matrix.
func NewDense(rows, cols int64) *Dense {
	return &Dense{Rows: rows, Cols: cols, Vals: make([]float64, rows*cols)}
}

// At returns the value at (r, c).
func (d *Dense) At(r, c int64) float64 { return d.Vals[r*d.Cols+c] }

// Set assigns the value at (r, c).
func (d *Dense) Set(r, c int64, v float64) { d.Vals[r*d.Cols+c] = v }

// Transposed returns a new matrix equal to d's transpose.
func (d *Dense) Transposed() *Dense {
	out := NewDense(d.Cols, d.Rows)
	for r := int64(0); r < d.Rows; r++ {
		for c := int64(0); c < d.Cols; c++ {
			out.Set(c, r, d.At(r, c))
		}
	}
	return out
}

// Slice returns the half-open submatrix [r0:r1, c0:c1] as a fresh
// copy.
func (d *Dense) Slice(r0, r1, c0, c1 int64) *Dense {
	out := NewDense(r1-r0, c1-c0)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			out.Set(r-r0, c-c0, d.At(r, c))
		}
	}
	return out
}

// FlipRowsInPlace reverses the row order.
func (d *Dense) FlipRowsInPlace() {
	for r := int64(0); r < d.Rows/2; r++ {
		other := d.Rows - 1 - r
		for c := int64(0); c < d.Cols; c++ {
			a, b := d.At(r, c), d.At(other, c)
			d.Set(r, c, b)
			d.Set(other, c, a)
		}
	}
}

// FlipColsInPlace reverses the column order.
func (d *Dense) FlipColsInPlace() {
	for c := int64(0); c < d.Cols/2; c++ {
		other := d.Cols - 1 - c
		for r := int64(0); r < d.Rows; r++ {
			a, b := d.At(r, c), d.At(r, other)
			d.Set(r, c, b)
			d.Set(r, other, a)
		}
	}
}

// PasteAt copies src into d with its top-left corner at (r0, c0).
func (d *Dense) PasteAt(r0, c0 int64, src *Dense) {
	for r := int64(0); r < src.Rows; r++ {
		for c := int64(0); c < src.Cols; c++ {
			d.Set(r0+r, c0+c, src.At(r, c))
		}
	}
}

func reverseFloat64s(xs []float64) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}
