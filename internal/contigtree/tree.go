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

// Package contigtree implements the contig tree: an implicit-key,
// order-statistic treap over the current assembly order, with cached
// per-resolution subtree aggregates and a lazily propagated reversal
// flag. See internal/model for the Stripe/ATU/ContigDescriptor value
// types it stores.
//
// The tree is a persistent (path-copying) structure: any operation
// that descends through a node and needs to change it returns a clone
// rather than mutating the node in place, so ExposeSegment can be used
// for read-only queries under a shared lock without corrupting the
// tree for concurrent readers, and without requiring every reader to
// commit back a (no-op) rebuilt tree. Only Tree.CommitExposedSegment
// actually republishes a new root. This follows the alternative
// sanctioned in the spec's design notes over the simpler "mutate in
// place, single writer lock" scheme.
package contigtree

import (
	"encoding/binary"
	"sync"

	"github.com/ctlab/hictgo/internal/invariant"
	"github.com/ctlab/hictgo/internal/model"
	"github.com/ctlab/hictgo/ints"
	"github.com/dchest/siphash"
)

// Tree is the contig tree for one open assembly. The zero value is not
// usable; construct with New.
type Tree struct {
	mu sync.RWMutex

	root *Node

	resolutions []model.Resolution
	resIndex    map[model.Resolution]int

	// priority salt: two siphash key halves, randomly generated per
	// tree instance so that repeated opens of the same assembly don't
	// reproduce an adversarial worst-case treap shape, while still
	// being a pure function of (salt, insertion sequence) rather than
	// a fresh unseeded math/rand draw per node.
	saltK0, saltK1 uint64
	seq            uint64
}

// New constructs an empty contig tree tracking aggregates for exactly
// the given resolutions (resolutions[0] need not be the finest; callers
// determine R_min themselves).
func New(resolutions []model.Resolution) *Tree {
	idx := make(map[model.Resolution]int, len(resolutions))
	for i, r := range resolutions {
		idx[r] = i
	}
	var saltBytes [16]byte
	if err := ints.RandomFillSlice(saltBytes[:]); err != nil {
		panic("contigtree: failed to seed priority salt: " + err.Error())
	}
	return &Tree{
		resolutions: append([]model.Resolution(nil), resolutions...),
		resIndex:    idx,
		saltK0:      binary.BigEndian.Uint64(saltBytes[:8]),
		saltK1:      binary.BigEndian.Uint64(saltBytes[8:]),
	}
}

// ResolutionIndex returns the index used to look up r in a Node's
// per-resolution aggregate slices.
func (t *Tree) ResolutionIndex(r model.Resolution) int {
	idx, ok := t.resIndex[r]
	invariant.Check(ok, "resolution %d is not tracked by this contig tree", r)
	return idx
}

// Root returns the current root node (read-only use only; callers must
// not mutate the returned Node's exported fields — there are none, by
// design).
func (t *Tree) Root() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

func (t *Tree) nextPriority() uint64 {
	t.seq++
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], t.seq)
	return siphash.Hash(t.saltK0, t.saltK1, buf[:])
}

// newLeaf builds a fresh, unattached node for descriptor in the given
// direction.
func (t *Tree) newLeaf(descriptor *model.ContigDescriptor, direction model.Direction) *Node {
	n := &Node{
		priority:   t.nextPriority(),
		contig:     descriptor,
		direction:  direction,
		sizeBins:   make([]int64, len(t.resolutions)),
		sizePixels: make([]int64, len(t.resolutions)),
	}
	update(n, t.resolutions)
	return n
}

// update recomputes n's cached aggregates from its own contribution
// plus its (already up to date) children. It does not push lazy flags;
// callers that need a materialized node must pushDown first.
func update(n *Node, resolutions []model.Resolution) {
	if n == nil {
		return
	}
	n.count = 1 + nodeCount(n.left) + nodeCount(n.right)
	n.sizeBP = n.contig.LengthBP + n.left.SizeBP() + n.right.SizeBP()
	for i, r := range resolutions {
		own := n.contig.LengthAtResolution[r]
		n.sizeBins[i] = own + n.left.SizeBins(i) + n.right.SizeBins(i)
		ownPixels := own
		if n.contig.PresenceAtResolution[r].Hidden() {
			ownPixels = 0
		}
		n.sizePixels[i] = ownPixels + n.left.SizePixels(i) + n.right.SizePixels(i)
	}
}

// merge concatenates l (in order) followed by r into a single subtree,
// preferring higher-priority nodes closer to the root as the treap
// invariant requires. Both l and r must already be materialized roots
// (the result of a previous split or pushDown); merge pushes them down
// again as it descends.
func (t *Tree) merge(l, r *Node) *Node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	l = pushDown(l)
	r = pushDown(r)
	if l.priority > r.priority {
		l.right = t.merge(l.right, r)
		update(l, t.resolutions)
		return l
	}
	r.left = t.merge(l, r.left)
	update(r, t.resolutions)
	return r
}

// Merge is the exported form of merge, used by callers (e.g. the
// facade's move operation) that need to recombine two exposed
// fragments before re-splitting them at a new boundary.
func (t *Tree) Merge(l, r *Node) *Node {
	return t.merge(l, r)
}

// splitByCount splits n so that the first k in-order nodes go left.
func (t *Tree) splitByCount(n *Node, k int64) (l, r *Node) {
	if n == nil {
		return nil, nil
	}
	n = pushDown(n)
	leftCount := nodeCount(n.left)
	if k <= leftCount {
		l2, r2 := t.splitByCount(n.left, k)
		n.left = r2
		update(n, t.resolutions)
		return l2, n
	}
	l2, r2 := t.splitByCount(n.right, k-leftCount-1)
	n.right = l2
	update(n, t.resolutions)
	return n, r2
}

// SplitByCount is the exported form of splitByCount.
func (t *Tree) SplitByCount(n *Node, k int64) (l, r *Node) {
	return t.splitByCount(n, k)
}

// splitByBoundary splits n at the boundary k (in the given unit and
// resolution). When useStart is true, a node is assigned to the left
// result by comparing its own START position (left-subtree size)
// against k; when false, by comparing its cumulative END (left size +
// own size). includeEqualLeft decides which side a node exactly at k
// lands on.
//
// ExposeSegment needs both modes, not the same one twice: cutting at
// the window's end must not drop a node that merely starts before the
// end even though it runs past it (useStart, strict), so that node
// stays part of the segment to be trimmed downstream; cutting the
// remainder at the window's start must not drop a node that already
// ends at or before the start (!useStart, inclusive). Using the same
// comparator for both cuts silently discards any contig straddling the
// end of the window instead of handing it to the resolver for
// trimming.
func (t *Tree) splitByBoundary(n *Node, k int64, unit model.Unit, resolution model.Resolution, useStart, includeEqualLeft bool) (l, r *Node) {
	if n == nil {
		return nil, nil
	}
	idx := t.resIndex[resolution]
	n = pushDown(n)
	leftSize := sizeIn(n.left, unit, idx)
	own := ownSizeIn(n.contig, unit, resolution)
	total := leftSize + own
	value := total
	if useStart {
		value = leftSize
	}
	fits := value <= k
	if !includeEqualLeft {
		fits = value < k
	}
	if fits {
		l2, r2 := t.splitByBoundary(n.right, k-total, unit, resolution, useStart, includeEqualLeft)
		n.right = l2
		update(n, t.resolutions)
		return n, r2
	}
	l2, r2 := t.splitByBoundary(n.left, k, unit, resolution, useStart, includeEqualLeft)
	n.left = r2
	update(n, t.resolutions)
	return l2, n
}

// splitByLength is the plain prefix/suffix cut by node end: nodes
// ending before k go left, and so do nodes ending exactly at k when
// includeEqualLeft is set. The facade's move uses it to find the
// insertion point.
func (t *Tree) splitByLength(n *Node, k int64, unit model.Unit, resolution model.Resolution, includeEqualLeft bool) (l, r *Node) {
	return t.splitByBoundary(n, k, unit, resolution, false, includeEqualLeft)
}

// SplitByLength is the exported form of splitByLength.
func (t *Tree) SplitByLength(n *Node, k int64, unit model.Unit, resolution model.Resolution, includeEqualLeft bool) (l, r *Node) {
	return t.splitByLength(n, k, unit, resolution, includeEqualLeft)
}

// ExposedSegment is the result of ExposeSegment: Segment holds exactly
// the contigs covering [start, end) in the requested unit, possibly
// straddling the boundaries by up to one contig on either side (the
// ATU resolver trims the excess). Less/Greater hold everything before
// and after.
type ExposedSegment struct {
	Less, Segment, Greater *Node
}

// ExposeSegment splits the tree (without mutating it — see package
// doc) into the three fragments covering, respectively, positions
// before start, the requested [start, end) window, and positions at or
// after end, all measured in the given unit at the given resolution.
func (t *Tree) ExposeSegment(resolution model.Resolution, startIncl, endExcl int64, unit model.Unit) ExposedSegment {
	t.mu.RLock()
	root := t.root
	t.mu.RUnlock()
	notGreater, greater := t.splitByBoundary(root, endExcl, unit, resolution, true, false)
	less, segment := t.splitByBoundary(notGreater, startIncl, unit, resolution, false, true)
	return ExposedSegment{Less: less, Segment: segment, Greater: greater}
}

// CommitExposedSegment re-merges an ExposedSegment (after the caller
// has possibly replaced Segment with an edited subtree) and publishes
// the result as the tree's new root. It takes the tree's write lock
// itself, so callers must not already hold it.
func (t *Tree) CommitExposedSegment(es ExposedSegment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = t.merge(t.merge(es.Less, es.Segment), es.Greater)
}

// InsertAtPosition inserts descriptor as a new leaf at in-order index
// index, with the given direction.
func (t *Tree) InsertAtPosition(descriptor *model.ContigDescriptor, index int64, direction model.Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, r := t.splitByCount(t.root, index)
	leaf := t.newLeaf(descriptor, direction)
	t.root = t.merge(t.merge(l, leaf), r)
}

// Lock/Unlock/RLock/RUnlock expose the tree's mutex directly for
// callers that need to hold it across more than one otherwise-internally-
// locking call (none of this package's own exported methods need it;
// they each take the lock for their own brief critical section).
func (t *Tree) Lock()    { t.mu.Lock() }
func (t *Tree) Unlock()  { t.mu.Unlock() }
func (t *Tree) RLock()   { t.mu.RLock() }
func (t *Tree) RUnlock() { t.mu.RUnlock() }

// Leftmost returns the leftmost (first in-order) node of the subtree
// rooted at n, with lazy flags pushed down along the path. Returns nil
// for an empty subtree.
func Leftmost(n *Node) *Node {
	if n == nil {
		return nil
	}
	n = pushDown(n)
	if n.left == nil {
		return n
	}
	return Leftmost(n.left)
}

// Rightmost is the symmetric counterpart of Leftmost.
func Rightmost(n *Node) *Node {
	if n == nil {
		return nil
	}
	n = pushDown(n)
	if n.right == nil {
		return n
	}
	return Rightmost(n.right)
}

// Direction returns n's effective (already-pushed) direction, or
// Forward for nil.
func Direction(n *Node) model.Direction {
	return n.trueDirection()
}

// TraverseVisitor is called once per visited contig, in in-order
// (assembly) sequence, with its effective direction.
type TraverseVisitor func(contig *model.ContigDescriptor, direction model.Direction)

// TraverseNodes visits every contig in the subtree rooted at n, in
// assembly order, pushing lazy reversal flags as it descends. When
// excludeHidden is true, contigs whose PresenceAtResolution[resolution]
// is AutoHidden are skipped (ForcedHidden contigs are never stored at
// resolutions other than the one they were hidden at, per
// model.ContigDescriptor's invariants, so only AutoHidden needs
// filtering here).
func TraverseNodes(n *Node, resolution model.Resolution, excludeHidden bool, visit TraverseVisitor) {
	if n == nil {
		return
	}
	n = pushDown(n)
	TraverseNodes(n.left, resolution, excludeHidden, visit)
	if !(excludeHidden && n.contig.PresenceAtResolution[resolution] == model.AutoHidden) {
		visit(n.contig, n.direction)
	}
	TraverseNodes(n.right, resolution, excludeHidden, visit)
}

// MergeNodes merges a run of freshly built leaves (or subtrees) left to
// right, used by split_contig_at_bin to assemble the two replacement
// nodes into a single subtree before committing.
func (t *Tree) MergeNodes(nodes ...*Node) *Node {
	var acc *Node
	for _, n := range nodes {
		acc = t.merge(acc, n)
	}
	return acc
}

// NewLeaf exposes newLeaf for callers (the facade's split operation)
// that build replacement nodes directly from fresh descriptors.
func (t *Tree) NewLeaf(descriptor *model.ContigDescriptor, direction model.Direction) *Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.newLeaf(descriptor, direction)
}

// CloneWithReversal returns a clone of n with its lazy reversal flag
// toggled, used by ReverseSelectionRangeBP to flip an exposed segment
// without touching the rest of the tree.
func CloneWithReversal(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := clone(n)
	c.needsReverse = !c.needsReverse
	return c
}
