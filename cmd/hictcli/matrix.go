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
	"fmt"

	"github.com/ctlab/hictgo/assembly"
)

// entry point for 'hictcli matrix <file.hict> ...'
func runMatrix(args []string) {
	fs := flag.NewFlagSet("matrix", flag.ExitOnError)
	r := fs.Int64("r", 0, "resolution (bp per bin)")
	x0 := fs.Int64("x0", 0, "column range start")
	y0 := fs.Int64("y0", 0, "row range start")
	x1 := fs.Int64("x1", 0, "column range end")
	y1 := fs.Int64("y1", 0, "row range end")
	unit := fs.String("unit", "bins", "coordinate unit of x0/y0/x1/y1: bp, bins, px")
	hidden := fs.Bool("hidden", false, "exclude hidden contigs (query in pixel space)")
	normalize := fs.Bool("normalize", false, "apply bin-weight normalization before printing")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		exitf("usage: matrix -r <res> -x0 -y0 -x1 -y1 [-unit bp|bins|px] [-hidden] [-normalize] <file.hict>")
	}

	f, err := assembly.Open(rest[0])
	if err != nil {
		exitf("opening %s: %s", rest[0], err)
	}
	defer f.Close()

	u := parseUnit(*unit)
	m, rowW, colW, err := f.GetDenseSubmatrix(*r, *x0, *y0, *x1, *y1, u, *hidden)
	if err != nil {
		exitf("GetDenseSubmatrix: %s", err)
	}
	logf("fetched %dx%d submatrix at resolution %d", m.Rows, m.Cols, *r)
	if *normalize {
		m = f.NormalizeByBinWeights(m, rowW, colW)
	}

	for row := int64(0); row < m.Rows; row++ {
		for col := int64(0); col < m.Cols; col++ {
			if col > 0 {
				fmt.Print("\t")
			}
			fmt.Printf("%g", m.At(row, col))
		}
		fmt.Println()
	}
}
