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
	"flag"
	"os"

	"github.com/ctlab/hictgo/assembly"
)

func writeAGP(f *assembly.File, path string, spacer int64) {
	out, err := os.Create(path)
	if err != nil {
		exitf("creating %s: %s", path, err)
	}
	defer out.Close()
	if err := f.ExportAGP(out, spacer); err != nil {
		exitf("exporting AGP to %s: %s", path, err)
	}
	logf("wrote %s", path)
}

// entry point for 'hictcli agp-export <file.hict> <out.agp> ...'
func runAGPExport(args []string) {
	fs := flag.NewFlagSet("agp-export", flag.ExitOnError)
	spacer := fs.Int64("spacer", 500, "AGP spacer length between contigs of one scaffold")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 2 {
		exitf("usage: agp-export [-spacer <n>] <file.hict> <out.agp>")
	}

	f, err := assembly.Open(rest[0])
	if err != nil {
		exitf("opening %s: %s", rest[0], err)
	}
	defer f.Close()

	writeAGP(f, rest[1], *spacer)
}

// entry point for 'hictcli agp-import <file.hict> <in.agp>'
func runAGPImport(args []string) {
	if len(args) != 2 {
		exitf("usage: agp-import <file.hict> <in.agp>")
	}

	f, err := assembly.Open(args[0])
	if err != nil {
		exitf("opening %s: %s", args[0], err)
	}
	defer f.Close()

	if err := f.LoadAssemblyFromAGP(args[1]); err != nil {
		exitf("loading AGP %s: %s", args[1], err)
	}
	printInfo(args[0], f)
}
