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

package scaffoldtree

import (
	"encoding/binary"
	"sync"

	"github.com/ctlab/hictgo/internal/invariant"
	"github.com/ctlab/hictgo/internal/model"
	"github.com/dchest/siphash"
	"github.com/google/uuid"
)

// Tree is the scaffold tree for one open assembly.
type Tree struct {
	mu   sync.RWMutex
	root *Node

	saltK0, saltK1 uint64
	seq            uint64
	nextID         int64
}

// New builds a tree holding a single unscaffolded gap spanning
// [0, totalLengthBP).
func New(totalLengthBP int64) *Tree {
	t := &Tree{}
	t.saltK0, t.saltK1 = 0x9e3779b97f4a7c15, 0xbf58476d1ce4e5b9
	if totalLengthBP > 0 {
		t.root = &Node{lengthBP: totalLengthBP, priority: t.nextPriority()}
		update(t.root)
	}
	return t
}

func (t *Tree) nextPriority() uint64 {
	t.seq++
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], t.seq)
	return siphash.Hash(t.saltK0, t.saltK1, buf[:])
}

// TotalLengthBP returns the whole tree's base-pair length.
func (t *Tree) TotalLengthBP() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return nodeLength(t.root)
}

// ResetTotalLength discards the current tree contents and replaces
// them with a single unscaffolded gap spanning [0, totalLengthBP),
// keeping the same Tree instance (and its id/priority sequence) alive
// — used by a full assembly reload (e.g. from AGP) where both the
// contig set and the total length may have changed and there is no
// previous scaffold grouping worth preserving.
func (t *Tree) ResetTotalLength(totalLengthBP int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = nil
	if totalLengthBP > 0 {
		t.root = &Node{lengthBP: totalLengthBP, priority: t.nextPriority()}
		update(t.root)
	}
}

func (t *Tree) merge(l, r *Node) *Node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	lRight := Rightmost(l)
	rLeft := Leftmost(r)
	if sameDescriptor(lRight.descriptor, rLeft.descriptor) {
		// Coalesce the adjoining boundary nodes into one before the
		// priority-ordered merge, preserving "no adjacent same-
		// descriptor nodes" (spec's scaffold-tree invariant).
		l = removeRightmost(l)
		r = removeLeftmost(r)
		merged := &Node{
			lengthBP:   lRight.lengthBP + rLeft.lengthBP,
			descriptor: lRight.descriptor,
			priority:   t.nextPriority(),
		}
		update(merged)
		l = t.merge(l, merged)
		return t.merge(l, r)
	}
	if l.priority > r.priority {
		l.right = t.merge(l.right, r)
		update(l)
		return l
	}
	r.left = t.merge(l, r.left)
	update(r)
	return r
}

// removeRightmost returns n with its rightmost descendant detached.
func removeRightmost(n *Node) *Node {
	if n.right == nil {
		return n.left
	}
	n.right = removeRightmost(n.right)
	update(n)
	return n
}

// removeLeftmost returns n with its leftmost descendant detached.
func removeLeftmost(n *Node) *Node {
	if n.left == nil {
		return n.right
	}
	n.left = removeLeftmost(n.left)
	update(n)
	return n
}

// splitBp splits n at base-pair position k. A gap node (nil
// descriptor) straddling k is itself divided into two fresh gap nodes;
// a scaffolded node straddling k is kept whole and placed in the left
// result, so k effectively rounds up to that scaffold's end — the
// building block for ExtendBordersToScaffolds, which must never cut a
// scaffold in half.
func splitBp(n *Node, k int64, includeEqualLeft bool) (l, r *Node) {
	if n == nil {
		return nil, nil
	}
	leftSize := nodeLength(n.left)
	total := leftSize + n.lengthBP

	if n.descriptor == nil && leftSize < k && k < total {
		leftPart := &Node{lengthBP: k - leftSize, priority: n.priority, left: n.left}
		update(leftPart)
		rightPart := &Node{lengthBP: total - k, priority: n.priority, right: n.right}
		update(rightPart)
		return leftPart, rightPart
	}

	fits := total <= k
	if !includeEqualLeft {
		fits = total < k
	}
	if n.descriptor != nil && leftSize < k && k <= total {
		fits = true
	}

	if fits {
		l2, r2 := splitBp(n.right, k-total, includeEqualLeft)
		n.right = l2
		update(n)
		return n, r2
	}
	l2, r2 := splitBp(n.left, k, includeEqualLeft)
	n.left = r2
	update(n)
	return l2, n
}

// GetScaffoldAtBP returns the descriptor of the node containing p, or
// nil if p lies in an unscaffolded gap or out of range.
func (t *Tree) GetScaffoldAtBP(p int64) *model.ScaffoldDescriptor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := t.root
	for n != nil {
		leftSize := nodeLength(n.left)
		if p < leftSize {
			n = n.left
			continue
		}
		if p < leftSize+n.lengthBP {
			return n.descriptor
		}
		p -= leftSize + n.lengthBP
		n = n.right
	}
	return nil
}

// ExtendBordersToScaffolds returns the smallest [l', r') containing
// [l, r) whose endpoints do not fall strictly inside a scaffolded
// node.
func (t *Tree) ExtendBordersToScaffolds(l, r int64) (lp, rp int64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	lp = t.scaffoldStartCovering(l)
	rp = t.scaffoldEndCovering(r)
	if rp < lp {
		rp = lp
	}
	return lp, rp
}

func (t *Tree) scaffoldStartCovering(p int64) int64 {
	n := t.root
	var base int64
	for n != nil {
		leftSize := nodeLength(n.left)
		if p < base+leftSize {
			n = n.left
			continue
		}
		nodeStart := base + leftSize
		nodeEnd := nodeStart + n.lengthBP
		if p < nodeEnd {
			if n.descriptor != nil {
				return nodeStart
			}
			return p
		}
		base = nodeEnd
		n = n.right
	}
	return p
}

func (t *Tree) scaffoldEndCovering(p int64) int64 {
	n := t.root
	var base int64
	for n != nil {
		leftSize := nodeLength(n.left)
		if p < base+leftSize {
			n = n.left
			continue
		}
		nodeStart := base + leftSize
		nodeEnd := nodeStart + n.lengthBP
		if p < nodeEnd {
			if n.descriptor != nil && p > nodeStart {
				return nodeEnd
			}
			return p
		}
		if p == nodeEnd && n.descriptor != nil {
			return nodeEnd
		}
		base = nodeEnd
		n = n.right
	}
	return p
}

// replaceRange splits out [l, r), discards it, and merges in
// replacement (which may be nil to represent leaving a gap), then
// publishes the new root. Used by AddScaffold/Unscaffold.
func (t *Tree) replaceRange(l, r int64, replacement *Node) {
	less, rest := splitBp(t.root, l, true)
	_, greater := splitBp(rest, r-l, true)
	t.root = t.merge(t.merge(less, replacement), greater)
}

// AddScaffold replaces [l, r) with a single node carrying descriptor.
// Adjacent nodes with the same descriptor are coalesced by merge.
func (t *Tree) AddScaffold(l, r int64, descriptor *model.ScaffoldDescriptor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	invariant.Check(r > l, "AddScaffold: empty or negative range [%d, %d)", l, r)
	node := &Node{lengthBP: r - l, descriptor: descriptor, priority: t.nextPriority()}
	update(node)
	t.replaceRange(l, r, node)
}

// Unscaffold extends [l, r) to scaffold borders, then replaces the
// extended range with a single unscaffolded gap node.
func (t *Tree) Unscaffold(l, r int64) {
	lp, rp := t.ExtendBordersToScaffolds(l, r)
	t.mu.Lock()
	defer t.mu.Unlock()
	invariant.Check(rp > lp, "Unscaffold: empty or negative range [%d, %d)", lp, rp)
	node := &Node{lengthBP: rp - lp, priority: t.nextPriority()}
	update(node)
	t.replaceRange(lp, rp, node)
}

// Rescaffold extends [l, r) to scaffold borders, then installs a fresh
// scaffold descriptor over the extended range. When name is "", the
// name "scaffold_" followed by a fresh UUID is generated; the numeric
// id comes from the tree's own counter.
func (t *Tree) Rescaffold(l, r int64, name string, spacer int64) *model.ScaffoldDescriptor {
	lp, rp := t.ExtendBordersToScaffolds(l, r)
	if name == "" {
		name = "scaffold_" + uuid.NewString()
	}
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.mu.Unlock()
	descriptor := &model.ScaffoldDescriptor{ID: id, Name: name, SpacerLength: spacer}
	t.AddScaffold(lp, rp, descriptor)
	return descriptor
}

// RemoveSegmentFromAssembly shrinks the coordinate space by deleting
// [l, r) outright (used after split_contig_at_bin consumes the
// boundary bin at R_min).
func (t *Tree) RemoveSegmentFromAssembly(l, r int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	invariant.Check(r >= l, "RemoveSegmentFromAssembly: negative range [%d, %d)", l, r)
	if r == l {
		return
	}
	less, rest := splitBp(t.root, l, true)
	_, greater := splitBp(rest, r-l, true)
	t.root = t.merge(less, greater)
}

// MoveSelectionRange relocates [l, r) so that it starts at
// targetStart in the post-removal coordinate space (the segment is
// first excised, then the remaining gap collapses, then the segment
// is reinserted at targetStart), mirroring the contig-tree move in
// assembly.File.MoveSelectionRangeBP so both trees agree on the same
// post-move coordinates.
func (t *Tree) MoveSelectionRange(l, r, targetStart int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	less, rest := splitBp(t.root, l, true)
	segment, greater := splitBp(rest, r-l, true)
	tmp := t.merge(less, greater)
	nl, nr := splitBp(tmp, targetStart, true)
	t.root = t.merge(t.merge(nl, segment), nr)
}

// Traverse visits every node's interval in order, in base-pair
// coordinates, invoking visit with its [start, end) and descriptor
// (nil for a gap).
func (t *Tree) Traverse(visit func(start, end int64, descriptor *model.ScaffoldDescriptor)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var base int64
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		walk(n.left)
		start := base
		end := start + n.lengthBP
		visit(start, end, n.descriptor)
		base = end
		walk(n.right)
	}
	walk(t.root)
}
