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
	"fmt"

	"github.com/ctlab/hictgo/assembly"
	"github.com/ctlab/hictgo/internal/model"
)

// entry point for 'hictcli info <file.hict>'
func runInfo(path string) {
	f, err := assembly.Open(path)
	if err != nil {
		exitf("opening %s: %s", path, err)
	}
	defer f.Close()
	printInfo(path, f)
}

// printInfo reports f's current assembly order, whatever edits it may
// already carry in memory.
func printInfo(label string, f *assembly.File) {
	contigs, err := f.OrderedContigs()
	if err != nil {
		exitf("listing contigs: %s", err)
	}
	scaffolds, err := f.OrderedScaffolds()
	if err != nil {
		exitf("listing scaffolds: %s", err)
	}

	var scaffolded int
	for _, s := range scaffolds {
		if s.Descriptor != nil {
			scaffolded++
		}
	}

	fmt.Printf("%s\n", label)
	fmt.Printf("  contigs:   %d\n", len(contigs))
	fmt.Printf("  scaffolds: %d (%d gaps)\n", scaffolded, len(scaffolds)-scaffolded)
	for _, c := range contigs {
		dir := "+"
		if c.Direction == model.Reversed {
			dir = "-"
		}
		fmt.Printf("    %s\t%d bp\t%s\n", c.Descriptor.Name, c.Descriptor.LengthBP, dir)
	}
}
