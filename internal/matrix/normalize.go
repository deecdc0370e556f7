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

// NormalizeByBinWeights returns a new matrix equal to
// diag(rowWeights) . M . diag(colWeights), i.e.
// out[i][j] = rowWeights[i] * m.At(i,j) * colWeights[j]. This is a
// caller-invoked step, never applied implicitly by Assemble.
func NormalizeByBinWeights(m *Dense, rowWeights, colWeights []float64) *Dense {
	out := NewDense(m.Rows, m.Cols)
	for i := int64(0); i < m.Rows; i++ {
		rw := rowWeights[i]
		for j := int64(0); j < m.Cols; j++ {
			out.Set(i, j, rw*m.At(i, j)*colWeights[j])
		}
	}
	return out
}
