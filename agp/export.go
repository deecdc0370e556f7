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

package agp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ctlab/hictgo/internal/model"
)

// OrderedContig is one contig in current assembly order, as the
// exporter needs it.
type OrderedContig struct {
	Name      string
	LengthBP  int64
	Direction model.Direction
}

// ScaffoldSpan gives a scaffold's bp extent in the current assembly
// order, as produced by scaffoldtree.Tree.Traverse.
type ScaffoldSpan struct {
	Name    string
	StartBP int64
	EndBP   int64
}

// DefaultSpacerLength is the intercontig gap width (in 'N' bases)
// used when the caller doesn't supply a scaffold-specific one.
const DefaultSpacerLength = 500

// Export writes contigs in order as AGP W lines, preceded by an N
// spacer line whenever two consecutive contigs share a scaffold.
// Contigs not covered by any entry in scaffolds form singleton
// scaffolds named "unscaffolded_{contig_name}". Component ids restart
// at 1 at the start of every scaffold.
func Export(w io.Writer, contigs []OrderedContig, scaffolds []ScaffoldSpan, spacerLength int64) error {
	if spacerLength <= 0 {
		spacerLength = DefaultSpacerLength
	}

	var buf bytes.Buffer
	prevScaffold := ""
	var prevEnd int64
	componentID := 0
	var posBP int64
	si := 0

	for _, c := range contigs {
		for si < len(scaffolds) && scaffolds[si].EndBP <= posBP {
			si++
		}
		var current string
		if si < len(scaffolds) && scaffolds[si].StartBP <= posBP && posBP < scaffolds[si].EndBP {
			current = scaffolds[si].Name
		} else {
			current = "unscaffolded_" + c.Name
		}

		dirStr := "+"
		if c.Direction == model.Reversed {
			dirStr = "-"
		}

		if current == prevScaffold {
			componentID++
			fmt.Fprintf(&buf, "%s\t%d\t%d\t%d\tN\t%d\tscaffold\tyes\tproximity_ligation\n",
				current, prevEnd+1, prevEnd+spacerLength, componentID, spacerLength)
			prevEnd = prevEnd + spacerLength - 1
			componentID++
		} else {
			componentID = 1
		}

		fmt.Fprintf(&buf, "%s\t%d\t%d\t%d\tW\t%s\t1\t%d\t%s\n",
			current, prevEnd+1, prevEnd+c.LengthBP-1, componentID, c.Name, c.LengthBP, dirStr)

		prevEnd = prevEnd + c.LengthBP - 1
		prevScaffold = current
		posBP += c.LengthBP
	}

	_, err := w.Write(buf.Bytes())
	return err
}
