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

// ContigDescriptors materializes one model.ContigDescriptor per
// source (unpermuted) contig, with SourceATUs and ATUPrefixSumBins
// populated for every stored resolution from the basis ATU table.
// The assembly package uses these, together with OrderedContigIDs and
// ContigDirections, to build the initial contig tree.
func (s *Store) ContigDescriptors() ([]*model.ContigDescriptor, error) {
	info := &s.header.ContigInfo
	n := len(info.ContigName)
	if len(info.ContigLengthBP) != n {
		return nil, fmt.Errorf("blockstore: contig_info has %d names but %d lengths", n, len(info.ContigLengthBP))
	}

	descriptors := make([]*model.ContigDescriptor, n)
	for i := 0; i < n; i++ {
		descriptors[i] = &model.ContigDescriptor{
			ID:                   int64(i),
			Name:                 info.ContigName[i],
			LengthBP:             info.ContigLengthBP[i],
			LengthAtResolution:   make(map[model.Resolution]int64),
			PresenceAtResolution: make(map[model.Resolution]model.HideType),
			SourceATUs:           make(map[model.Resolution][]model.ATU),
			ATUPrefixSumBins:     make(map[model.Resolution][]int64),
		}
	}

	for ri := range s.header.Resolutions {
		rh := &s.header.Resolutions[ri]
		stripes, err := s.Stripes(rh)
		if err != nil {
			return nil, fmt.Errorf("blockstore: resolution %d stripes: %w", rh.Resolution, err)
		}

		// ATL rows are stored as consecutive runs per contig id (the
		// order basis ATUs appear in the array is the contig's
		// traversal order at this resolution).
		var runContig int64 = -1
		var run []ContigATURef
		flush := func() error {
			if run == nil {
				return nil
			}
			if runContig < 0 || int(runContig) >= n {
				return fmt.Errorf("blockstore: ATL references unknown contig %d", runContig)
			}
			d := descriptors[runContig]
			atus := make([]model.ATU, len(run))
			prefix := make([]int64, len(run))
			var total int64
			for i, ref := range run {
				if int(ref.BasisATUID) >= len(rh.BasisATU) {
					return fmt.Errorf("blockstore: basis ATU id %d out of range", ref.BasisATUID)
				}
				row := rh.BasisATU[ref.BasisATUID]
				if int(row.StripeID) >= len(stripes) {
					return fmt.Errorf("blockstore: basis ATU stripe id %d out of range", row.StripeID)
				}
				atus[i] = model.ATU{
					Stripe:    stripes[row.StripeID],
					StartIncl: row.Start,
					EndExcl:   row.End,
					Direction: row.Direction,
				}
				total += atus[i].Len()
				prefix[i] = total
			}
			d.SourceATUs[rh.Resolution] = atus
			d.ATUPrefixSumBins[rh.Resolution] = prefix
			return nil
		}

		for _, ref := range rh.Contigs.ATL {
			if ref.ContigID != runContig {
				if err := flush(); err != nil {
					return nil, err
				}
				runContig = ref.ContigID
				run = nil
			}
			run = append(run, ref)
		}
		if err := flush(); err != nil {
			return nil, err
		}

		for cid := range rh.Contigs.ContigLengthBins {
			if cid >= n {
				return nil, fmt.Errorf("blockstore: resolution %d has more contigs than contig_info", rh.Resolution)
			}
			descriptors[cid].LengthAtResolution[rh.Resolution] = rh.Contigs.ContigLengthBins[cid]
			descriptors[cid].PresenceAtResolution[rh.Resolution] = rh.Contigs.ContigHideType[cid]
		}
	}

	return descriptors, nil
}

// OrderedContigIDs returns the current assembly order (source contig
// ids, possibly reversed per ContigDirections) the store was written
// with.
func (s *Store) OrderedContigIDs() []int64 { return s.header.ContigInfo.OrderedContigIDs }

// ContigDirections returns the per-position orientation matching
// OrderedContigIDs.
func (s *Store) ContigDirections() []model.Direction { return s.header.ContigInfo.ContigDirection }

// ContigScaffoldIDs returns the per-source-contig scaffold id, -1
// meaning unscaffolded.
func (s *Store) ContigScaffoldIDs() []int64 { return s.header.ContigInfo.ContigScaffoldID }
