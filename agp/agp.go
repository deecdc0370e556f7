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

// Package agp parses and exports AGP (A Golden Path) assembly layout
// files: tab-separated records describing how source contigs are
// placed, oriented and grouped into scaffolds.
package agp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ctlab/hictgo/internal/model"
)

// Record is one imported W (sequence component) line.
type Record struct {
	Name          string
	Direction     model.Direction
	StartPosition int64
	EndPosition   int64
}

// ScaffoldRun names the first and last contig of a consecutive run of
// W lines sharing the same object field.
type ScaffoldRun struct {
	Name        string
	StartContig string
	EndContig   string
}

// Document is the result of parsing an AGP file.
type Document struct {
	Contigs   []Record
	Scaffolds []ScaffoldRun
}

// Parse reads an AGP file. N (gap/spacer) lines are skipped entirely;
// W lines are recorded and grouped into ScaffoldRuns by consecutive
// equal object fields. Any other component type is a hard parse
// error.
//
// The final run is always closed once the input is exhausted, even
// though nothing after it changes the object field to signal that —
// a detail easy to get wrong in a line-by-line reader, since every
// other run is closed by the *next* line's object field differing.
func Parse(r io.Reader) (*Document, error) {
	sc := bufio.NewScanner(r)
	var doc Document
	var curScaffold, startCtg, endCtg string
	seenAny := false

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		toks := strings.Fields(line)
		if len(toks) < 9 {
			return nil, fmt.Errorf("agp: line %d: malformed record: %q", lineNo, line)
		}
		object := toks[0]
		componentType := toks[4]

		switch componentType {
		case "N":
			continue
		case "W":
			name := toks[5]
			var dir model.Direction
			switch toks[8] {
			case "+":
				dir = model.Forward
			case "-":
				dir = model.Reversed
			default:
				return nil, fmt.Errorf("agp: line %d: unexpected direction %q", lineNo, toks[8])
			}
			start, err := strconv.ParseInt(toks[6], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("agp: line %d: bad start position: %w", lineNo, err)
			}
			end, err := strconv.ParseInt(toks[7], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("agp: line %d: bad end position: %w", lineNo, err)
			}
			doc.Contigs = append(doc.Contigs, Record{Name: name, Direction: dir, StartPosition: start, EndPosition: end})

			switch {
			case !seenAny:
				curScaffold, startCtg, endCtg = object, name, name
				seenAny = true
			case object == curScaffold:
				endCtg = name
			default:
				doc.Scaffolds = append(doc.Scaffolds, ScaffoldRun{Name: curScaffold, StartContig: startCtg, EndContig: endCtg})
				curScaffold, startCtg, endCtg = object, name, name
			}
		default:
			return nil, fmt.Errorf("agp: line %d: unexpected component type %q", lineNo, componentType)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if seenAny {
		doc.Scaffolds = append(doc.Scaffolds, ScaffoldRun{Name: curScaffold, StartContig: startCtg, EndContig: endCtg})
	}
	return &doc, nil
}
