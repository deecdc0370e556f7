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
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/ctlab/hictgo/internal/cache"
	"github.com/ctlab/hictgo/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sys/unix"
	"sigs.k8s.io/yaml"
)

// DefaultCacheBudgetBytes bounds the decompressed-block cache kept
// behind each open Store.
const DefaultCacheBudgetBytes = 256 << 20

// Store is a read-only, mmap-backed handle on one block-store file.
// The whole file is mapped once at Open and unmapped at Close; reads
// are plain slice operations over that mapping, so repeated submatrix
// queries over a multi-gigabyte file never pay a copy per block
// except where decompression is unavoidable (and that result is then
// cached).
type Store struct {
	f          *os.File
	data       []byte // mmap of the entire file
	dataOffset int64  // byte offset of the data arena within data
	header     Header
	id         uuid.UUID
	decompressed *cache.BlockCache
}

// Open mmaps path and decodes its header. The on-disk layout is an
// 8-byte big-endian header length, the header itself (JSON or YAML —
// sigs.k8s.io/yaml accepts either transparently), then the data
// arena.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	ok := false
	defer func() {
		if !ok {
			f.Close()
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	var lenBuf [8]byte
	if _, err := io.ReadFull(f, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("blockstore: reading header length: %w", err)
	}
	headerLen := binary.BigEndian.Uint64(lenBuf[:])

	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(f, headerBytes); err != nil {
		return nil, fmt.Errorf("blockstore: reading header: %w", err)
	}

	var h Header
	if err := yaml.Unmarshal(headerBytes, &h); err != nil {
		return nil, fmt.Errorf("blockstore: decoding header: %w", err)
	}

	dataOffset := int64(8) + int64(headerLen)

	mem, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("blockstore: mmap: %w", err)
	}

	if h.Fingerprint != "" {
		sum := blake2b.Sum256(mem[dataOffset:])
		got := hex.EncodeToString(sum[:])
		if got != h.Fingerprint {
			unix.Munmap(mem)
			return nil, fmt.Errorf("blockstore: fingerprint mismatch: header says %s, data arena is %s", h.Fingerprint, got)
		}
	}

	ok = true
	return &Store{
		f:            f,
		data:         mem,
		dataOffset:   dataOffset,
		header:       h,
		id:           uuid.New(),
		decompressed: cache.New(DefaultCacheBudgetBytes),
	}, nil
}

// Close unmaps the file and releases the underlying descriptor.
func (s *Store) Close() error {
	if err := unix.Munmap(s.data); err != nil {
		return err
	}
	return s.f.Close()
}

// ID uniquely identifies this open Store instance; readRef prefixes
// this store's cache keys with it so that keys stay distinct when more
// than one store is open in the same process.
func (s *Store) ID() uuid.UUID { return s.id }

// Header returns the decoded sidecar header. Callers must not mutate
// it.
func (s *Store) Header() *Header { return &s.header }

// Resolution returns the section for r, erroring if r is not stored.
func (s *Store) Resolution(r model.Resolution) (*ResolutionHeader, error) {
	rh := s.header.ResolutionHeader(r)
	if rh == nil {
		return nil, fmt.Errorf("blockstore: resolution %d not present", r)
	}
	return rh, nil
}

// readRef returns the decompressed bytes addressed by ref, consulting
// and populating the decompressed-block cache. section distinguishes
// cache entries that happen to share a numeric offset across different
// resolutions/arenas (e.g. "r1/rows", "r1/dense/3").
func (s *Store) readRef(section string, ref BlockRef) ([]byte, error) {
	if ref.Empty() {
		return nil, nil
	}
	key := fmt.Sprintf("%s/%s/%d:%d", s.id, section, ref.Offset, ref.Length)
	if cached, ok := s.decompressed.Get(key); ok {
		return cached, nil
	}

	lo := s.dataOffset + ref.Offset
	hi := lo + ref.Length
	if lo < s.dataOffset || hi > int64(len(s.data)) || lo > hi {
		return nil, fmt.Errorf("blockstore: block ref %+v out of range", ref)
	}
	raw := s.data[lo:hi]

	if ref.Codec == "" {
		s.decompressed.Put(key, raw)
		return raw, nil
	}

	dec := rawDecompressor(ref.Codec)
	if dec == nil {
		return nil, fmt.Errorf("blockstore: unknown codec %q", ref.Codec)
	}
	out := make([]byte, ref.RawLength)
	if err := dec.Decompress(raw, out); err != nil {
		return nil, fmt.Errorf("blockstore: decompressing %s: %w", section, err)
	}
	s.decompressed.Put(key, out)
	return out, nil
}
