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

// Command hictcli is a flag-based CLI over the assembly.File facade:
// open a block store, inspect it, apply an edit script, and export the
// result as AGP or FASTA. It never writes edits back to the block
// store itself — edits live only for the lifetime of one invocation
// and are only ever observed through an export or a query.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ctlab/hictgo/internal/model"
)

var dashv bool

func init() {
	flag.BoolVar(&dashv, "v", false, "verbose")
}

func logf(f string, args ...interface{}) {
	if !dashv {
		return
	}
	if f[len(f)-1] != '\n' {
		f += "\n"
	}
	fmt.Fprintf(os.Stderr, f, args...)
}

func exitf(f string, args ...interface{}) {
	if f[len(f)-1] != '\n' {
		f += "\n"
	}
	fmt.Fprintf(os.Stderr, f, args...)
	os.Exit(1)
}

func parseUnit(s string) model.Unit {
	switch s {
	case "bp":
		return model.BasePairs
	case "bins":
		return model.Bins
	case "px", "pixels":
		return model.Pixels
	}
	exitf("unknown unit %q, want one of: bp, bins, px", s)
	return model.BasePairs
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "    %s [-v] info <file.hict>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        print contig and scaffold counts and the current contig order\n")
	fmt.Fprintf(os.Stderr, "    %s [-v] matrix -r <res> -x0 -y0 -x1 -y1 [-unit bp|bins|px] [-hidden] [-normalize] <file.hict>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        print a dense submatrix as tab-separated rows\n")
	fmt.Fprintf(os.Stderr, "    %s [-v] edit [-agp-out <out.agp>] [-spacer <n>] <file.hict> <ops-file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        apply an edit script, then optionally export the resulting assembly as AGP\n")
	fmt.Fprintf(os.Stderr, "    %s [-v] agp-export [-spacer <n>] <file.hict> <out.agp>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        export the current assembly order as AGP\n")
	fmt.Fprintf(os.Stderr, "    %s [-v] agp-import <file.hict> <in.agp>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        reload the assembly order from AGP, then re-print it\n")
	fmt.Fprintf(os.Stderr, "    %s [-v] fasta-export <file.hict> <out.fasta> <fasta-glob>...\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        reassemble a source FASTA into the current assembly order\n")
	fmt.Fprintf(os.Stderr, "flag usage:\n")
	flag.Usage()
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "info":
		if len(args) != 2 {
			exitf("usage: info <file.hict>")
		}
		runInfo(args[1])
	case "matrix":
		runMatrix(args[1:])
	case "edit":
		runEdit(args[1:])
	case "agp-export":
		runAGPExport(args[1:])
	case "agp-import":
		runAGPImport(args[1:])
	case "fasta-export":
		runFastaExport(args[1:])
	default:
		usage()
		os.Exit(1)
	}
}
