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

package blockstore

import (
	"fmt"

	"github.com/ctlab/hictgo/internal/model"
)

// DenseBlock is a row-major (rows x cols) contact matrix block.
type DenseBlock struct {
	Rows, Cols int64
	Vals       []float64 // len == Rows*Cols
}

// At returns the value at (r, c) within the block.
func (d *DenseBlock) At(r, c int64) float64 {
	return d.Vals[r*d.Cols+c]
}

// SparseBlock is a COO (row, col, val) triple list for one stripe
// intersection.
type SparseBlock struct {
	Rows []int32
	Cols []int32
	Vals []float64
}

// ReadBlock returns the block at stripe intersection (r, c), r <= c,
// for resolution rh, as either a dense or a sparse block (exactly one
// of the two return values is non-nil).
func (s *Store) ReadBlock(rh *ResolutionHeader, r, c int64) (*DenseBlock, *SparseBlock, error) {
	if r > c {
		return nil, nil, fmt.Errorf("blockstore: ReadBlock requires r <= c, got (%d, %d)", r, c)
	}
	coo := &rh.TreapCOO
	idx := Index(coo.StripeCount, r, c)
	if idx < 0 || int(idx) >= len(coo.BlockOffset) {
		return nil, nil, fmt.Errorf("blockstore: block index %d out of range", idx)
	}
	offset := coo.BlockOffset[idx]

	if offset < 0 {
		denseIdx := -offset - 1
		if int(denseIdx) >= len(coo.DenseBlocks) {
			return nil, nil, fmt.Errorf("blockstore: dense block index %d out of range", denseIdx)
		}
		ref := coo.DenseBlocks[denseIdx]
		raw, err := s.readRef(fmt.Sprintf("r%d/dense/%d", rh.Resolution, denseIdx), ref)
		if err != nil {
			return nil, nil, err
		}
		rows := rh.StripeLengthBins[r]
		cols := rh.StripeLengthBins[c]
		vals := decodeFloat64s(raw)
		if int64(len(vals)) != rows*cols {
			return nil, nil, fmt.Errorf("blockstore: dense block %d has %d values, want %d", denseIdx, len(vals), rows*cols)
		}
		return &DenseBlock{Rows: rows, Cols: cols, Vals: vals}, nil, nil
	}

	length := coo.BlockLength[idx]
	if length == 0 {
		return nil, &SparseBlock{}, nil
	}

	rowsRaw, err := s.readRef(fmt.Sprintf("r%d/rows", rh.Resolution), coo.BlockRows)
	if err != nil {
		return nil, nil, err
	}
	colsRaw, err := s.readRef(fmt.Sprintf("r%d/cols", rh.Resolution), coo.BlockCols)
	if err != nil {
		return nil, nil, err
	}
	valsRaw, err := s.readRef(fmt.Sprintf("r%d/vals", rh.Resolution), coo.BlockVals)
	if err != nil {
		return nil, nil, err
	}

	allRows := decodeInt32s(rowsRaw)
	allCols := decodeInt32s(colsRaw)
	allVals := decodeFloat64s(valsRaw)

	lo, hi := offset, offset+length
	if hi > int64(len(allRows)) || hi > int64(len(allCols)) || hi > int64(len(allVals)) {
		return nil, nil, fmt.Errorf("blockstore: sparse triple range [%d,%d) exceeds arena", lo, hi)
	}
	return nil, &SparseBlock{
		Rows: allRows[lo:hi],
		Cols: allCols[lo:hi],
		Vals: allVals[lo:hi],
	}, nil
}

// StripeBinWeights returns the bin weight vector for stripe idx at
// resolution rh, or nil if the stripe stores no weights (all bins
// weight 1).
func (s *Store) StripeBinWeights(rh *ResolutionHeader, idx int64) ([]float64, error) {
	if int(idx) >= len(rh.StripesBinWeights) {
		return nil, nil
	}
	ref := rh.StripesBinWeights[idx]
	if ref.Empty() {
		return nil, nil
	}
	raw, err := s.readRef(fmt.Sprintf("r%d/weights/%d", rh.Resolution, idx), ref)
	if err != nil {
		return nil, err
	}
	return decodeFloat64s(raw), nil
}

// Stripes materializes the model.Stripe table for resolution rh.
func (s *Store) Stripes(rh *ResolutionHeader) ([]*model.Stripe, error) {
	out := make([]*model.Stripe, len(rh.StripeLengthBins))
	for i, length := range rh.StripeLengthBins {
		w, err := s.StripeBinWeights(rh, int64(i))
		if err != nil {
			return nil, err
		}
		out[i] = &model.Stripe{ID: int64(i), LengthBins: length, BinWeights: w}
	}
	return out, nil
}
