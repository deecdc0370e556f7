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

// Package scaffoldtree implements the scaffold tree: an order-statistic
// treap over base-pair coordinates whose nodes are intervals annotated
// with an optional scaffold descriptor (nil meaning an unscaffolded
// gap). Unlike the contig tree, nodes here are mutated in place under
// the tree's single lock: scaffold edits are comparatively rare and
// the assembly facade serializes every edit on its own mutex, so there
// is no read path that benefits from lock-free traversal the way
// ExposeSegment does for the contig tree.
package scaffoldtree

import "github.com/ctlab/hictgo/internal/model"

// Node is one interval of the assembly's base-pair coordinate space.
type Node struct {
	left, right *Node
	priority    uint64

	lengthBP   int64
	descriptor *model.ScaffoldDescriptor // nil: unscaffolded gap

	subtreeLengthBP int64
}

func nodeLength(n *Node) int64 {
	if n == nil {
		return 0
	}
	return n.subtreeLengthBP
}

func update(n *Node) {
	if n == nil {
		return
	}
	n.subtreeLengthBP = n.lengthBP + nodeLength(n.left) + nodeLength(n.right)
}

// sameDescriptor reports whether a and b carry the same scaffold
// identity (both nil, i.e. both unscaffolded gaps, counts as same).
func sameDescriptor(a, b *model.ScaffoldDescriptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// Leftmost returns the first (lowest-coordinate) node of the subtree
// rooted at n.
func Leftmost(n *Node) *Node {
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

// Rightmost returns the last (highest-coordinate) node of the subtree
// rooted at n.
func Rightmost(n *Node) *Node {
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

// LengthBP returns the subtree's total base-pair length.
func (n *Node) LengthBP() int64 {
	return nodeLength(n)
}

// Descriptor returns n's scaffold descriptor, or nil for a gap node or
// a nil receiver.
func (n *Node) Descriptor() *model.ScaffoldDescriptor {
	if n == nil {
		return nil
	}
	return n.descriptor
}
