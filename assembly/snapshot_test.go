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

package assembly

import (
	"bytes"
	"errors"
	"testing"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	f := openFixture(t)

	if err := f.ReverseSelectionRangeBP(0, 2000); err != nil {
		t.Fatalf("ReverseSelectionRangeBP: %v", err)
	}
	if _, err := f.GroupSelectionRangeIntoScaffold(0, 5000, "combined", 250); err != nil {
		t.Fatalf("GroupSelectionRangeIntoScaffold: %v", err)
	}

	wantContigs, err := f.OrderedContigs()
	if err != nil {
		t.Fatalf("OrderedContigs: %v", err)
	}
	wantScaffolds, err := f.OrderedScaffolds()
	if err != nil {
		t.Fatalf("OrderedScaffolds: %v", err)
	}

	snap, err := f.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	// Mutate further, then restore the earlier snapshot and confirm it
	// undoes the later edit.
	if err := f.UngroupSelectionRange(0, 5000); err != nil {
		t.Fatalf("UngroupSelectionRange: %v", err)
	}
	if err := f.ReverseSelectionRangeBP(0, 5000); err != nil {
		t.Fatalf("ReverseSelectionRangeBP: %v", err)
	}

	if err := f.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	gotContigs, err := f.OrderedContigs()
	if err != nil {
		t.Fatalf("OrderedContigs after restore: %v", err)
	}
	if len(gotContigs) != len(wantContigs) {
		t.Fatalf("len(gotContigs) = %d, want %d", len(gotContigs), len(wantContigs))
	}
	for i := range gotContigs {
		if gotContigs[i].Descriptor.Name != wantContigs[i].Descriptor.Name || gotContigs[i].Direction != wantContigs[i].Direction {
			t.Errorf("contig[%d] = %+v, want %+v", i, gotContigs[i], wantContigs[i])
		}
	}

	gotScaffolds, err := f.OrderedScaffolds()
	if err != nil {
		t.Fatalf("OrderedScaffolds after restore: %v", err)
	}
	var gotNamed, wantNamed []string
	for _, s := range gotScaffolds {
		if s.Descriptor != nil {
			gotNamed = append(gotNamed, s.Descriptor.Name)
		}
	}
	for _, s := range wantScaffolds {
		if s.Descriptor != nil {
			wantNamed = append(wantNamed, s.Descriptor.Name)
		}
	}
	if len(gotNamed) != len(wantNamed) {
		t.Fatalf("named scaffolds after restore = %v, want %v", gotNamed, wantNamed)
	}
	for i := range gotNamed {
		if gotNamed[i] != wantNamed[i] {
			t.Errorf("scaffold[%d] = %q, want %q", i, gotNamed[i], wantNamed[i])
		}
	}
}

func TestRestoreRejectsBadMagicAndUnknownContig(t *testing.T) {
	f := openFixture(t)

	if err := f.Restore([]byte("not a snapshot")); !errors.Is(err, ErrMalformedSnapshot) {
		t.Fatalf("Restore(garbage) = %v, want ErrMalformedSnapshot", err)
	}

	snap, err := f.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	// Overwrite the first byte of the first contig's name (after magic,
	// version, contig count and name length) so it no longer decodes to
	// a name present in the store.
	corrupt := bytes.Clone(snap)
	corrupt[len(snapshotMagic)+1+4+4] = 0xff
	if err := f.Restore(corrupt); !errors.Is(err, ErrMalformedSnapshot) {
		t.Fatalf("Restore(corrupt) = %v, want ErrMalformedSnapshot", err)
	}
}

func TestSnapshotOnClosedFileReturnsErrFileNotOpen(t *testing.T) {
	f := openFixture(t)
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := f.Snapshot(); !errors.Is(err, ErrFileNotOpen) {
		t.Fatalf("Snapshot on closed file = %v, want ErrFileNotOpen", err)
	}
	if err := f.Restore(nil); !errors.Is(err, ErrFileNotOpen) {
		t.Fatalf("Restore on closed file = %v, want ErrFileNotOpen", err)
	}
}
