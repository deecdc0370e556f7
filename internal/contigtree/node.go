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

package contigtree

import "github.com/ctlab/hictgo/internal/model"

// Node is one contig in the assembly order. Nodes are immutable once
// reachable from a published tree root: every operation that would
// change a node's children, direction or lazy flag instead produces a
// clone, so a reader holding only a shared lock can walk a tree while
// a writer is mid-edit elsewhere in a cloned path. See Tree's doc
// comment for why this path-copying scheme was chosen over in-place
// mutation with a single exclusive lock.
type Node struct {
	left, right *Node
	priority    uint64

	contig    *model.ContigDescriptor
	direction model.Direction

	// needsReverse, once pushed, swaps left/right, flips direction,
	// and is XOR'd into both children's own needsReverse flags.
	needsReverse bool

	count      int64
	sizeBP     int64
	sizeBins   []int64 // per resolution index, including hidden contigs
	sizePixels []int64 // per resolution index, excluding hidden contigs
}

func clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.sizeBins = append([]int64(nil), n.sizeBins...)
	c.sizePixels = append([]int64(nil), n.sizePixels...)
	return &c
}

// pushDown returns a clone of n with any pending reversal applied to
// its own direction and propagated (still lazily) to fresh clones of
// its children. The original n is left untouched.
func pushDown(n *Node) *Node {
	n = clone(n)
	if n == nil || !n.needsReverse {
		return n
	}
	n.left, n.right = n.right, n.left
	n.direction = n.direction.Flip()
	n.needsReverse = false
	if n.left != nil {
		l := clone(n.left)
		l.needsReverse = !l.needsReverse
		n.left = l
	}
	if n.right != nil {
		r := clone(n.right)
		r.needsReverse = !r.needsReverse
		n.right = r
	}
	return n
}

// trueDirection returns n's effective direction. Callers must have
// already pushed n (via pushDown) so this is just a field read.
func (n *Node) trueDirection() model.Direction {
	if n == nil {
		return model.Forward
	}
	return n.direction
}

func nodeCount(n *Node) int64 {
	if n == nil {
		return 0
	}
	return n.count
}

// SizeBP returns the total base-pair length of the subtree rooted at n.
func (n *Node) SizeBP() int64 {
	if n == nil {
		return 0
	}
	return n.sizeBP
}

// SizeBins returns the subtree's total length in bins at resolution
// index idx (including hidden contigs). idx is a resolution index
// assigned by the owning Tree, see Tree.ResolutionIndex.
func (n *Node) SizeBins(idx int) int64 {
	if n == nil {
		return 0
	}
	return n.sizeBins[idx]
}

// SizePixels returns the subtree's total length in shown bins
// (pixels) at resolution index idx.
func (n *Node) SizePixels(idx int) int64 {
	if n == nil {
		return 0
	}
	return n.sizePixels[idx]
}

// Count returns the number of contigs in the subtree rooted at n.
func (n *Node) Count() int64 {
	return nodeCount(n)
}

// Contig returns the contig descriptor owned by n, or nil if n is nil.
func (n *Node) Contig() *model.ContigDescriptor {
	if n == nil {
		return nil
	}
	return n.contig
}

// sizeIn returns the subtree's size in the given unit at the given
// resolution index. Unit must not be model.BasePairs when idx is used
// (bp is resolution-independent).
func sizeIn(n *Node, unit model.Unit, idx int) int64 {
	if n == nil {
		return 0
	}
	switch unit {
	case model.BasePairs:
		return n.sizeBP
	case model.Bins:
		return n.sizeBins[idx]
	case model.Pixels:
		return n.sizePixels[idx]
	default:
		panic("contigtree: unknown unit")
	}
}

func ownSizeIn(c *model.ContigDescriptor, unit model.Unit, r model.Resolution) int64 {
	return c.SizeIn(r, unit)
}
