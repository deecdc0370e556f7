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
	"encoding/binary"
	"math"

	"github.com/ctlab/hictgo/compr"
)

func rawDecompressor(codec string) compr.Decompressor {
	switch codec {
	case "zstd":
		return compr.Decompression("zstd")
	case "s2":
		return compr.Decompression("s2")
	default:
		return nil
	}
}

// decodeFloat64s reinterprets a little-endian-packed byte slice as a
// float64 slice (math.Float64frombits over binary.LittleEndian.Uint64)
// rather than an unsafe cast, since block bytes may come from a
// freshly allocated decompression buffer with no particular alignment
// guarantee.
func decodeFloat64s(b []byte) []float64 {
	n := len(b) / 8
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return out
}

func decodeInt64s(b []byte) []int64 {
	n := len(b) / 8
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = int64(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return out
}

func decodeInt32s(b []byte) []int32 {
	n := len(b) / 4
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		out[i] = int32(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
