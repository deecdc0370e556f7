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
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ctlab/hictgo/assembly"
	"github.com/ctlab/hictgo/internal/model"
)

// applyOp runs one edit script line against f. Supported verbs:
//
//	reverse <l> <r>
//	move <l> <r> <target>
//	split <position> <resolution> <unit>
//	group <l> <r> <name> <spacer>
//	ungroup <l> <r>
func applyOp(f *assembly.File, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	args := fields[1:]
	atoi := func(s string) int64 {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			exitf("bad integer %q in %q", s, line)
		}
		return n
	}

	switch fields[0] {
	case "reverse":
		if len(args) != 2 {
			return fmt.Errorf("reverse wants 2 args: %q", line)
		}
		return f.ReverseSelectionRangeBP(atoi(args[0]), atoi(args[1]))
	case "move":
		if len(args) != 3 {
			return fmt.Errorf("move wants 3 args: %q", line)
		}
		return f.MoveSelectionRangeBP(atoi(args[0]), atoi(args[1]), atoi(args[2]))
	case "split":
		if len(args) != 3 {
			return fmt.Errorf("split wants 3 args: %q", line)
		}
		return f.SplitContigAtBin(atoi(args[0]), model.Resolution(atoi(args[1])), parseUnit(args[2]))
	case "group":
		if len(args) != 4 {
			return fmt.Errorf("group wants 4 args: %q", line)
		}
		_, err := f.GroupSelectionRangeIntoScaffold(atoi(args[0]), atoi(args[1]), args[2], atoi(args[3]))
		return err
	case "ungroup":
		if len(args) != 2 {
			return fmt.Errorf("ungroup wants 2 args: %q", line)
		}
		return f.UngroupSelectionRange(atoi(args[0]), atoi(args[1]))
	default:
		return fmt.Errorf("unknown op %q", fields[0])
	}
}

func runOpsFile(f *assembly.File, path string) {
	file, err := os.Open(path)
	if err != nil {
		exitf("opening ops file %s: %s", path, err)
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		logf("%s:%d: %s", path, lineNo, line)
		if err := applyOp(f, line); err != nil {
			exitf("%s:%d: %s", path, lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		exitf("reading ops file %s: %s", path, err)
	}
}

// entry point for 'hictcli edit <file.hict> <ops-file> ...'
func runEdit(args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	agpOut := fs.String("agp-out", "", "write the resulting assembly as AGP to this path")
	spacer := fs.Int64("spacer", 500, "AGP spacer length between contigs of one scaffold")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 2 {
		exitf("usage: edit [-agp-out <out.agp>] [-spacer <n>] <file.hict> <ops-file>")
	}

	f, err := assembly.Open(rest[0])
	if err != nil {
		exitf("opening %s: %s", rest[0], err)
	}
	defer f.Close()

	runOpsFile(f, rest[1])

	if *agpOut != "" {
		writeAGP(f, *agpOut, *spacer)
	}
}
