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
	"os"
	"path/filepath"
	"testing"
)

func TestExportAGPThenLoadAssemblyFromAGPRoundTrips(t *testing.T) {
	f := openFixture(t)

	var first bytes.Buffer
	if err := f.ExportAGP(&first, 500); err != nil {
		t.Fatalf("ExportAGP: %v", err)
	}

	path := filepath.Join(t.TempDir(), "assembly.agp")
	if err := os.WriteFile(path, first.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := f.LoadAssemblyFromAGP(path); err != nil {
		t.Fatalf("LoadAssemblyFromAGP: %v", err)
	}

	var second bytes.Buffer
	if err := f.ExportAGP(&second, 500); err != nil {
		t.Fatalf("ExportAGP (2nd): %v", err)
	}

	if first.String() != second.String() {
		t.Fatalf("AGP round trip not byte-identical:\nfirst:\n%s\nsecond:\n%s", first.String(), second.String())
	}
}

func TestLoadAssemblyFromAGPRejectsUnknownContig(t *testing.T) {
	f := openFixture(t)

	agpText := "unscaffolded_nope\t1\t100\t1\tW\tnope\t1\t100\t+\n"
	path := filepath.Join(t.TempDir(), "bad.agp")
	if err := os.WriteFile(path, []byte(agpText), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := f.LoadAssemblyFromAGP(path); !errors.Is(err, ErrMalformedAssembly) {
		t.Fatalf("LoadAssemblyFromAGP(unknown contig) = %v, want ErrMalformedAssembly", err)
	}
}

func TestLoadAssemblyFromAGPReordersContigs(t *testing.T) {
	f := openFixture(t)

	agpText := "unscaffolded_chrB\t1\t3000\t1\tW\tchrB\t1\t3000\t+\n" +
		"unscaffolded_chrA\t1\t2000\t1\tW\tchrA\t1\t2000\t-\n"
	path := filepath.Join(t.TempDir(), "reordered.agp")
	if err := os.WriteFile(path, []byte(agpText), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := f.LoadAssemblyFromAGP(path); err != nil {
		t.Fatalf("LoadAssemblyFromAGP: %v", err)
	}

	contigs, err := f.OrderedContigs()
	if err != nil {
		t.Fatalf("OrderedContigs: %v", err)
	}
	if len(contigs) != 2 || contigs[0].Descriptor.Name != "chrB" || contigs[1].Descriptor.Name != "chrA" {
		t.Fatalf("order after reload = %+v, want [chrB, chrA]", contigs)
	}
}
