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

// Package blockstore reads the on-disk Hi-C contact-matrix container:
// a small JSON/YAML header describing the layout, followed by a data
// arena holding, per resolution, the stripe table, the dense block
// arena, the COO triple arrays and the assembly translation layer,
// plus a file-wide contig_info section.
package blockstore

import (
	"github.com/ctlab/hictgo/internal/model"
)

// BlockRef locates one optionally compressed byte
// range within the data arena.
type BlockRef struct {
	Offset    int64  `json:"offset"`
	Length    int64  `json:"length"`    // on-disk (possibly compressed) length
	RawLength int64  `json:"raw_length"` // decompressed length; equals Length when Codec == ""
	Codec     string `json:"codec,omitempty"` // "", "zstd" or "s2"
}

// Empty reports whether the ref addresses zero bytes (an omitted
// optional section, e.g. a stripe with no stored bin weights).
func (b BlockRef) Empty() bool {
	return b.Length == 0 && b.RawLength == 0
}

// TreapCOOHeader describes the sparse/dense block arena for one
// resolution. BlockOffset and BlockLength are indexed by Index(r, c)
// for r <= c (the matrix is symmetric and only the upper triangle,
// including the diagonal, is stored). A negative BlockOffset encodes
// a dense block: the dense block's index into DenseBlocks is
// -offset-1. A non-negative BlockOffset indexes BlockLength[idx]
// triples starting at that offset into BlockRows/BlockCols/BlockVals.
type TreapCOOHeader struct {
	StripeCount int64     `json:"stripe_count"`
	BlockOffset []int64   `json:"block_offset"`
	BlockLength []int64   `json:"block_length"`
	BlockRows   BlockRef  `json:"block_rows"`
	BlockCols   BlockRef  `json:"block_cols"`
	BlockVals   BlockRef  `json:"block_vals"`
	DenseBlocks []BlockRef `json:"dense_blocks"`
}

// Index computes the flat offset into BlockOffset/BlockLength for the
// stripe pair (r, c): index(r,c) = r*S + c, only meaningful for r <= c;
// callers needing the pair the other way around must transpose the
// result (see internal/matrix).
func Index(stripeCount, r, c int64) int64 {
	return r*stripeCount + c
}

// BasisATURow is one row of a resolution's basis ATU table: a slice
// of a stripe, tagged with the direction it is stored in.
type BasisATURow struct {
	StripeID  int64          `json:"stripe_id"`
	Start     int64          `json:"start"`
	End       int64          `json:"end"`
	Direction model.Direction `json:"direction"`
}

// ContigATURef pairs a contig with the basis ATU row it is built from
// at a resolution. A contig's stored ATU list is the run of
// consecutive ContigATURef entries sharing its ContigID.
type ContigATURef struct {
	ContigID   int64 `json:"contig_id"`
	BasisATUID int64 `json:"basis_atu_id"`
}

// ResolutionContigsHeader is the per-resolution, per-source-contig
// metadata: length in bins, hide/show classification, and the basis
// ATU references that make up its stored (unpermuted) ATU list.
type ResolutionContigsHeader struct {
	ContigLengthBins []int64        `json:"contig_length_bins"`
	ContigHideType   []model.HideType `json:"contig_hide_type"`
	ATL              []ContigATURef `json:"atl"`
}

// ResolutionHeader is everything the store knows about one
// resolution: the stripe table (and optional per-stripe bin weight
// vectors), the treap/dense block arena, the basis ATU table, and the
// per-contig metadata needed to rebuild ContigDescriptor.SourceATUs.
type ResolutionHeader struct {
	Resolution        model.Resolution `json:"resolution"`
	StripeLengthBins  []int64          `json:"stripe_length_bins"`
	StripesBinWeights []BlockRef       `json:"stripes_bin_weights"`
	TreapCOO          TreapCOOHeader   `json:"treap_coo"`
	BasisATU          []BasisATURow    `json:"basis_atu"`
	Contigs           ResolutionContigsHeader `json:"contigs"`
}

// ContigInfoHeader is the file-wide, resolution-independent contig
// table: names, bp lengths, the current assembly order, orientation
// and scaffold membership (-1 meaning unscaffolded).
type ContigInfoHeader struct {
	ContigName        []string          `json:"contig_name"`
	ContigLengthBP     []int64           `json:"contig_length_bp"`
	OrderedContigIDs  []int64           `json:"ordered_contig_ids"`
	ContigDirection   []model.Direction `json:"contig_direction"`
	ContigScaffoldID  []int64           `json:"contig_scaffold_id"`
}

// Header is the full sidecar description decoded at Open time.
type Header struct {
	Resolutions []ResolutionHeader `json:"resolutions"`
	ContigInfo  ContigInfoHeader   `json:"contig_info"`

	// Fingerprint, when non-empty, is the lowercase hex blake2b-256
	// digest of the data arena (everything after the header), checked
	// once at Open to catch a header/data mismatch early.
	Fingerprint string `json:"fingerprint,omitempty"`
}

// ResolutionHeader returns the section for r, or nil if r is not
// stored.
func (h *Header) ResolutionHeader(r model.Resolution) *ResolutionHeader {
	for i := range h.Resolutions {
		if h.Resolutions[i].Resolution == r {
			return &h.Resolutions[i]
		}
	}
	return nil
}

// ResolutionList returns the stored resolutions in header order.
func (h *Header) ResolutionList() []model.Resolution {
	out := make([]model.Resolution, len(h.Resolutions))
	for i, rh := range h.Resolutions {
		out[i] = rh.Resolution
	}
	return out
}
