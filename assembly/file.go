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

// Package assembly is the top-level facade tying the contig tree, the
// scaffold tree, the ATU resolver, the unit converter and the
// submatrix assembler to one open block store. Every mutating method
// here follows the same locking discipline: the contig tree before
// the scaffold tree, always in that order.
package assembly

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/ctlab/hictgo/internal/blockstore"
	"github.com/ctlab/hictgo/internal/contigtree"
	"github.com/ctlab/hictgo/internal/invariant"
	"github.com/ctlab/hictgo/internal/model"
	"github.com/ctlab/hictgo/internal/scaffoldtree"
)

// File is one open Hi-C assembly: an immutable block store plus the
// two mutable trees that describe the current (edited) assembly
// order.
type File struct {
	mu sync.Mutex // guards closed

	// editMu serializes every mutating facade operation end to end:
	// writers serialize globally. Individual tree
	// methods (ExposeSegment, CommitExposedSegment, InsertAtPosition...)
	// each take that tree's own mutex for just their own brief critical
	// section, so editMu — not the trees' mutexes — is what holds a
	// whole expose-edit-commit sequence together atomically; reusing a
	// tree's RWMutex for that instead would self-deadlock the first time
	// a held write lock tried to re-enter one of those methods.
	editMu sync.Mutex

	store       *blockstore.Store
	contigs     *contigtree.Tree
	scaffolds   *scaffoldtree.Tree
	resolutions []model.Resolution
	rMin        model.Resolution
	closed      bool

	// byName indexes every source contig descriptor by name, used by
	// LoadAssemblyFromAGP to resolve each AGP W line's component name
	// back to the descriptor it was built from at Open time.
	byName map[string]*model.ContigDescriptor

	// nextContigID hands out fresh ids to SplitContigAtBin's two
	// replacement descriptors; seeded above every id the store opened
	// with so split results never collide with a source contig.
	nextContigID int64
}

// Open loads a block store from path and builds the initial contig and
// scaffold trees from its stored assembly order.
func Open(path string) (*File, error) {
	store, err := blockstore.Open(path)
	if err != nil {
		return nil, err
	}

	resolutions := store.Header().ResolutionList()
	if len(resolutions) == 0 {
		store.Close()
		return nil, fmt.Errorf("hictgo: store has no resolutions")
	}
	sorted := slices.Clone(resolutions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	rMin := sorted[0]

	descriptors, err := store.ContigDescriptors()
	if err != nil {
		store.Close()
		return nil, err
	}
	byID := make(map[int64]*model.ContigDescriptor, len(descriptors))
	byName := make(map[string]*model.ContigDescriptor, len(descriptors))
	var maxID int64 = -1
	for _, d := range descriptors {
		byID[d.ID] = d
		byName[d.Name] = d
		if d.ID > maxID {
			maxID = d.ID
		}
	}

	contigs := contigtree.New(resolutions)
	orderedIDs := store.OrderedContigIDs()
	directions := store.ContigDirections()
	invariant.Check(len(orderedIDs) == len(directions), "assembly: ordered_contig_ids and contig_direction length mismatch")
	for i, id := range orderedIDs {
		d, ok := byID[id]
		invariant.Check(ok, "assembly: ordered_contig_ids references unknown contig %d", id)
		contigs.InsertAtPosition(d, int64(i), directions[i])
	}

	var totalBP int64
	for _, d := range descriptors {
		totalBP += d.LengthBP
	}
	scaffolds := scaffoldtree.New(totalBP)
	buildScaffoldTree(scaffolds, orderedIDs, byID, store.ContigScaffoldIDs())

	return &File{
		store:        store,
		contigs:      contigs,
		scaffolds:    scaffolds,
		resolutions:  resolutions,
		rMin:         rMin,
		byName:       byName,
		nextContigID: maxID + 1,
	}, nil
}

// buildScaffoldTree groups the stored assembly order into scaffold
// runs by consecutive equal scaffold id (-1 meaning unscaffolded, per
// blockstore.Store.ContigScaffoldIDs) and installs each run as one
// scaffold. The store format carries no scaffold name table, so a
// stable synthetic name is derived from the id; it is replaced by
// whatever name an AGP reload or GroupSelectionRangeIntoScaffold call
// supplies afterwards.
func buildScaffoldTree(scaffolds *scaffoldtree.Tree, orderedIDs []int64, byID map[int64]*model.ContigDescriptor, scaffoldIDs []int64) {
	var pos int64
	runStart := pos
	runID := int64(-2) // sentinel distinct from both -1 (gap) and any real id
	for _, cid := range orderedIDs {
		d := byID[cid]
		sid := int64(-1)
		if int(cid) < len(scaffoldIDs) {
			sid = scaffoldIDs[cid]
		}
		if sid != runID {
			if runID >= 0 && pos > runStart {
				scaffolds.AddScaffold(runStart, pos, &model.ScaffoldDescriptor{ID: runID, Name: fmt.Sprintf("scaffold_%d", runID), SpacerLength: 500})
			}
			runStart = pos
			runID = sid
		}
		pos += d.LengthBP
	}
	if runID >= 0 && pos > runStart {
		scaffolds.AddScaffold(runStart, pos, &model.ScaffoldDescriptor{ID: runID, Name: fmt.Sprintf("scaffold_%d", runID), SpacerLength: 500})
	}
}

// Close releases the underlying block store. Further calls on File
// return ErrFileNotOpen.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.store.Close()
}

func (f *File) checkOpen() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFileNotOpen
	}
	return nil
}

// resolutionHeader resolves r to its stored header, or
// ErrUnknownResolution.
func (f *File) resolutionHeader(r model.Resolution) (*blockstore.ResolutionHeader, error) {
	rh, err := f.store.Resolution(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownResolution, r)
	}
	return rh, nil
}

// withEdit runs fn under editMu, serializing it against every other
// mutating facade call on f. The global writer ordering is
// contig-tree-then-scaffold-tree conceptually, realized here as a
// single file-wide critical section since both trees' own locks are
// too fine-grained to span a whole logical edit without self-deadlocking.
func (f *File) withEdit(fn func()) {
	f.editMu.Lock()
	defer f.editMu.Unlock()
	fn()
}
