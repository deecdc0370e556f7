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
	"encoding/binary"
	"fmt"

	"github.com/ctlab/hictgo/internal/contigtree"
	"github.com/ctlab/hictgo/internal/model"
)

// snapshotMagic/snapshotVersion tag the record returned by Snapshot so
// Restore can reject bytes that don't belong to it instead of reading
// past the end of an unrelated buffer.
const (
	snapshotMagic   = "HICS"
	snapshotVersion = 1
)

// Snapshot captures the current assembly order — every contig's
// position and direction, plus every scaffold run — as a small
// self-contained binary record. The record holds no block-store data
// of its own; Restore re-anchors it against this same open File's
// contig descriptors, so a snapshot is only ever meaningful replayed
// against the store it was taken from.
//
// This is the Go analogue of the source library's pickle support: a
// way to stash an edit history and bring it back without re-parsing an
// AGP file.
func (f *File) Snapshot() ([]byte, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}

	contigs, err := f.OrderedContigs()
	if err != nil {
		return nil, err
	}
	scaffolds, err := f.OrderedScaffolds()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 64+32*len(contigs)+48*len(scaffolds))
	buf = append(buf, snapshotMagic...)
	buf = append(buf, snapshotVersion)

	buf = appendUint32(buf, uint32(len(contigs)))
	for _, c := range contigs {
		buf = appendString(buf, c.Descriptor.Name)
		dirByte := byte(0)
		if c.Direction == model.Reversed {
			dirByte = 1
		}
		buf = append(buf, dirByte)
	}

	var scaffolded []OrderedScaffold
	for _, s := range scaffolds {
		if s.Descriptor != nil {
			scaffolded = append(scaffolded, s)
		}
	}
	buf = appendUint32(buf, uint32(len(scaffolded)))
	for _, s := range scaffolded {
		buf = appendInt64(buf, s.Descriptor.ID)
		buf = appendString(buf, s.Descriptor.Name)
		buf = appendInt64(buf, s.Descriptor.SpacerLength)
		buf = appendInt64(buf, s.StartBP)
		buf = appendInt64(buf, s.EndBP)
	}

	return buf, nil
}

// Restore replaces the current contig and scaffold trees with the
// ones described by data, a record previously produced by Snapshot
// against this same File. Every contig name in data must still be
// known to the open store (Restore never reintroduces contigs the
// store itself doesn't have); ErrMalformedSnapshot wraps any decoding
// or lookup failure.
func (f *File) Restore(data []byte) error {
	if err := f.checkOpen(); err != nil {
		return err
	}

	if len(data) < len(snapshotMagic)+1 || string(data[:len(snapshotMagic)]) != snapshotMagic {
		return fmt.Errorf("%w: bad magic", ErrMalformedSnapshot)
	}
	r := snapshotReader{buf: data[len(snapshotMagic):]}
	version, err := r.byte()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if version != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedSnapshot, version)
	}

	nContigs, err := r.uint32()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	type restoredContig struct {
		descriptor *model.ContigDescriptor
		direction  model.Direction
	}
	restoredContigs := make([]restoredContig, nContigs)
	var totalBP int64
	for i := range restoredContigs {
		name, err := r.string()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		dirByte, err := r.byte()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		d, ok := f.byName[name]
		if !ok {
			return fmt.Errorf("%w: unknown contig %q", ErrMalformedSnapshot, name)
		}
		dir := model.Forward
		if dirByte == 1 {
			dir = model.Reversed
		}
		restoredContigs[i] = restoredContig{descriptor: d, direction: dir}
		totalBP += d.LengthBP
	}

	nScaffolds, err := r.uint32()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	type restoredScaffold struct {
		descriptor *model.ScaffoldDescriptor
		start, end int64
	}
	restoredScaffolds := make([]restoredScaffold, nScaffolds)
	for i := range restoredScaffolds {
		id, err := r.int64()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		name, err := r.string()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		spacer, err := r.int64()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		start, err := r.int64()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		end, err := r.int64()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		restoredScaffolds[i] = restoredScaffold{
			descriptor: &model.ScaffoldDescriptor{ID: id, Name: name, SpacerLength: spacer},
			start:      start, end: end,
		}
	}

	f.withEdit(func() {
		currentTotal := f.contigs.Root().SizeBP()
		es := f.contigs.ExposeSegment(0, 0, currentTotal, model.BasePairs)

		leaves := make([]*contigtree.Node, len(restoredContigs))
		for i, c := range restoredContigs {
			leaves[i] = f.contigs.NewLeaf(c.descriptor, c.direction)
		}
		es.Segment = f.contigs.MergeNodes(leaves...)
		f.contigs.CommitExposedSegment(es)

		f.scaffolds.ResetTotalLength(totalBP)
		for _, s := range restoredScaffolds {
			f.scaffolds.AddScaffold(s.start, s.end, s.descriptor)
		}
	})
	return nil
}

// snapshotReader is a minimal cursor over a Snapshot record; every
// accessor reports an error instead of panicking on a truncated
// buffer, since data may come from an untrusted or corrupted source.
type snapshotReader struct {
	buf []byte
	pos int
}

func (r *snapshotReader) byte() (byte, error) {
	if r.pos+1 > len(r.buf) {
		return 0, fmt.Errorf("truncated record")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *snapshotReader) uint32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, fmt.Errorf("truncated record")
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *snapshotReader) int64() (int64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, fmt.Errorf("truncated record")
	}
	v := int64(binary.LittleEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *snapshotReader) string() (string, error) {
	n, err := r.uint32()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.buf) {
		return "", fmt.Errorf("truncated record")
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendInt64(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}
