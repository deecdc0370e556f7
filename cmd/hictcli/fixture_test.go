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

package main

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctlab/hictgo/assembly"
	"github.com/ctlab/hictgo/internal/blockstore"
	"github.com/ctlab/hictgo/internal/model"
)

func encodeFloat64s(xs []float64) []byte {
	out := make([]byte, len(xs)*8)
	for i, x := range xs {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(x))
	}
	return out
}

// newFixtureStorePath builds a minimal single-resolution, two-contig
// store, the same shape assembly's own fixture uses: "chrA" (2 bins)
// and "chrB" (3 bins) at R=1000, both forced shown, unscaffolded.
func newFixtureStorePath(t *testing.T) string {
	t.Helper()

	dense00 := encodeFloat64s([]float64{1, 2, 3, 4})
	dense11 := encodeFloat64s([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})

	var data []byte
	at := func(b []byte) int64 {
		off := int64(len(data))
		data = append(data, b...)
		return off
	}
	offDense00 := at(dense00)
	offDense11 := at(dense11)

	rh := blockstore.ResolutionHeader{
		Resolution:        1000,
		StripeLengthBins:  []int64{2, 3},
		StripesBinWeights: []blockstore.BlockRef{{}, {}},
		TreapCOO: blockstore.TreapCOOHeader{
			StripeCount: 2,
			// idx(0,0)=0 -> dense block 0; idx(0,1)=1 -> empty sparse
			// (length 0, never reads BlockRows/Cols/Vals); idx(1,0)=2
			// is never queried (ReadBlock requires r<=c); idx(1,1)=3
			// -> dense block 1.
			BlockOffset: []int64{-1, 0, -2, -2},
			BlockLength: []int64{0, 0, 0, 0},
			DenseBlocks: []blockstore.BlockRef{
				{Offset: offDense00, Length: int64(len(dense00)), RawLength: int64(len(dense00))},
				{Offset: offDense11, Length: int64(len(dense11)), RawLength: int64(len(dense11))},
			},
		},
		BasisATU: []blockstore.BasisATURow{
			{StripeID: 0, Start: 0, End: 2, Direction: model.Forward},
			{StripeID: 1, Start: 0, End: 3, Direction: model.Forward},
		},
		Contigs: blockstore.ResolutionContigsHeader{
			ContigLengthBins: []int64{2, 3},
			ContigHideType:   []model.HideType{model.ForcedShown, model.ForcedShown},
			ATL: []blockstore.ContigATURef{
				{ContigID: 0, BasisATUID: 0},
				{ContigID: 1, BasisATUID: 1},
			},
		},
	}

	h := blockstore.Header{
		Resolutions: []blockstore.ResolutionHeader{rh},
		ContigInfo: blockstore.ContigInfoHeader{
			ContigName:       []string{"chrA", "chrB"},
			ContigLengthBP:   []int64{2000, 3000},
			OrderedContigIDs: []int64{0, 1},
			ContigDirection:  []model.Direction{model.Forward, model.Forward},
			ContigScaffoldID: []int64{-1, -1},
		},
	}

	headerBytes, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}

	path := filepath.Join(t.TempDir(), "fixture.hict")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(headerBytes)))
	if _, err := f.Write(lenBuf[:]); err != nil {
		t.Fatalf("write header length: %v", err)
	}
	if _, err := f.Write(headerBytes); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("write data: %v", err)
	}
	return path
}

func openFixture(t *testing.T) *assembly.File {
	t.Helper()
	path := newFixtureStorePath(t)
	f, err := assembly.Open(path)
	if err != nil {
		t.Fatalf("assembly.Open: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}
