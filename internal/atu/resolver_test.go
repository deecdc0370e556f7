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

package atu

import (
	"testing"

	"github.com/ctlab/hictgo/internal/contigtree"
	"github.com/ctlab/hictgo/internal/model"
)

const testRes model.Resolution = 1

// buildUniformTree builds contigs whose single ATU spans their whole
// length in bins, one stripe per contig, so ATU lengths in bins equal
// contig lengths in bp for simplicity.
func buildUniformTree(t *testing.T, lengths []int64) *contigtree.Tree {
	t.Helper()
	tr := contigtree.New([]model.Resolution{testRes})
	for i, l := range lengths {
		stripe := &model.Stripe{ID: int64(i), LengthBins: l}
		atus := []model.ATU{{Stripe: stripe, StartIncl: 0, EndExcl: l, Direction: model.Forward}}
		d := &model.ContigDescriptor{
			ID:       int64(i),
			LengthBP: l,
			LengthAtResolution: map[model.Resolution]int64{
				testRes: l,
			},
			PresenceAtResolution: map[model.Resolution]model.HideType{
				testRes: model.ForcedShown,
			},
			SourceATUs: map[model.Resolution][]model.ATU{
				testRes: atus,
			},
			ATUPrefixSumBins: map[model.Resolution][]int64{
				testRes: {l},
			},
		}
		tr.InsertAtPosition(d, int64(i), model.Forward)
	}
	return tr
}

func totalLen(atus []model.ATU) int64 {
	var n int64
	for _, a := range atus {
		n += a.Len()
	}
	return n
}

func TestResolveRangeLengthMatchesQuery(t *testing.T) {
	tr := buildUniformTree(t, []int64{10, 25, 40})
	atus := ResolveRange(tr, testRes, 5, 60, false)
	if got := totalLen(atus); got != 55 {
		t.Fatalf("total ATU length = %d, want 55", got)
	}
}

func TestResolveRangeEveryATUIsNonEmptyAndOrdered(t *testing.T) {
	tr := buildUniformTree(t, []int64{10, 25, 40})
	atus := ResolveRange(tr, testRes, 5, 60, false)
	for _, a := range atus {
		if a.StartIncl >= a.EndExcl {
			t.Fatalf("ATU %+v has StartIncl >= EndExcl", a)
		}
	}
}

func TestResolveRangeEmptyQueryReturnsNoATUs(t *testing.T) {
	tr := buildUniformTree(t, []int64{10, 25, 40})
	atus := ResolveRange(tr, testRes, 20, 20, false)
	if len(atus) != 0 {
		t.Fatalf("ResolveRange on empty range = %v, want none", atus)
	}
}

func TestResolveRangeFullRangeMatchesTotal(t *testing.T) {
	tr := buildUniformTree(t, []int64{10, 25, 40})
	atus := ResolveRange(tr, testRes, 0, 75, false)
	if got := totalLen(atus); got != 75 {
		t.Fatalf("total ATU length = %d, want 75", got)
	}
}
