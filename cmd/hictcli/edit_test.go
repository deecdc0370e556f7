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
	"testing"
)

func TestApplyOpReverseMoveGroupUngroup(t *testing.T) {
	f := openFixture(t)

	if err := applyOp(f, "reverse 0 5000"); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if err := applyOp(f, "move 0 2000 3000"); err != nil {
		t.Fatalf("move: %v", err)
	}
	contigs, err := f.OrderedContigs()
	if err != nil {
		t.Fatalf("OrderedContigs: %v", err)
	}
	if len(contigs) != 2 {
		t.Fatalf("len(contigs) = %d, want 2", len(contigs))
	}

	if err := applyOp(f, "group 0 5000 combined 100"); err != nil {
		t.Fatalf("group: %v", err)
	}
	scaffolds, err := f.OrderedScaffolds()
	if err != nil {
		t.Fatalf("OrderedScaffolds: %v", err)
	}
	if len(scaffolds) != 1 || scaffolds[0].Descriptor == nil || scaffolds[0].Descriptor.Name != "combined" {
		t.Fatalf("scaffolds after group = %+v, want one scaffold named combined", scaffolds)
	}

	if err := applyOp(f, "ungroup 0 5000"); err != nil {
		t.Fatalf("ungroup: %v", err)
	}
	scaffolds, err = f.OrderedScaffolds()
	if err != nil {
		t.Fatalf("OrderedScaffolds after ungroup: %v", err)
	}
	if scaffolds[0].Descriptor != nil {
		t.Fatalf("scaffolds after ungroup = %+v, want a plain gap", scaffolds)
	}
}

func TestApplyOpSplit(t *testing.T) {
	f := openFixture(t)

	if err := applyOp(f, "split 3 1000 bins"); err != nil {
		t.Fatalf("split: %v", err)
	}
	contigs, err := f.OrderedContigs()
	if err != nil {
		t.Fatalf("OrderedContigs: %v", err)
	}
	if len(contigs) != 3 {
		t.Fatalf("len(contigs) = %d, want 3", len(contigs))
	}
}

func TestApplyOpRejectsUnknownVerbAndWrongArity(t *testing.T) {
	f := openFixture(t)

	if err := applyOp(f, "teleport 0 100"); err == nil {
		t.Fatal("applyOp(teleport ...) = nil error, want an error for an unknown verb")
	}
	if err := applyOp(f, "reverse 0"); err == nil {
		t.Fatal("applyOp(reverse with 1 arg) = nil error, want an arity error")
	}
	if err := applyOp(f, ""); err != nil {
		t.Fatalf("applyOp(empty line) = %v, want nil (blank lines are skipped)", err)
	}
	if err := applyOp(f, "# a comment line is never passed in, but a bare hash as a verb should still fail"); err == nil {
		t.Fatal("applyOp(comment-shaped line) = nil error, want an error for an unknown verb")
	}
}
