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
	"testing"

	"github.com/ctlab/hictgo/internal/blockstore"
)

func fill(d *Dense, vals ...float64) *Dense {
	copy(d.Vals, vals)
	return d
}

func TestTransposed(t *testing.T) {
	m := fill(NewDense(2, 3), 1, 2, 3, 4, 5, 6)
	tr := m.Transposed()
	if tr.Rows != 3 || tr.Cols != 2 {
		t.Fatalf("transposed shape = (%d,%d), want (3,2)", tr.Rows, tr.Cols)
	}
	if tr.At(2, 1) != 6 || tr.At(0, 1) != 4 {
		t.Fatalf("transposed values wrong: %+v", tr.Vals)
	}
}

func TestSlice(t *testing.T) {
	m := fill(NewDense(3, 3), 1, 2, 3, 4, 5, 6, 7, 8, 9)
	s := m.Slice(1, 3, 0, 2)
	if s.Rows != 2 || s.Cols != 2 {
		t.Fatalf("slice shape = (%d,%d), want (2,2)", s.Rows, s.Cols)
	}
	if s.At(0, 0) != 4 || s.At(1, 1) != 8 {
		t.Fatalf("slice values wrong: %+v", s.Vals)
	}
}

func TestFlipRowsAndCols(t *testing.T) {
	m := fill(NewDense(2, 2), 1, 2, 3, 4)
	m.FlipRowsInPlace()
	if m.At(0, 0) != 3 || m.At(1, 0) != 1 {
		t.Fatalf("flip rows wrong: %+v", m.Vals)
	}
	m.FlipColsInPlace()
	if m.At(0, 0) != 4 || m.At(0, 1) != 3 {
		t.Fatalf("flip cols wrong: %+v", m.Vals)
	}
}

func TestFixupDiagonalMirrorsZeros(t *testing.T) {
	m := fill(NewDense(2, 2), 0, 5, 0, 0)
	fixupDiagonal(m)
	if m.At(1, 0) != 5 {
		t.Fatalf("fixupDiagonal did not mirror: %+v", m.Vals)
	}
}

func TestDensifyFromSparse(t *testing.T) {
	s := &blockstore.SparseBlock{Rows: []int32{0, 1}, Cols: []int32{1, 1}, Vals: []float64{2, 3}}
	m := densify(s, 2, 2)
	if m.At(0, 1) != 2 || m.At(1, 1) != 3 || m.At(0, 0) != 0 {
		t.Fatalf("densify wrong: %+v", m.Vals)
	}
}

func TestNormalizeByBinWeights(t *testing.T) {
	m := fill(NewDense(2, 2), 1, 1, 1, 1)
	out := NormalizeByBinWeights(m, []float64{2, 3}, []float64{4, 5})
	if out.At(0, 0) != 8 || out.At(1, 1) != 15 {
		t.Fatalf("normalize wrong: %+v", out.Vals)
	}
}
