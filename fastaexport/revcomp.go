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

package fastaexport

var complementTable = buildComplementTable()

func buildComplementTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = byte(i)
	}
	pairs := map[byte]byte{
		'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C', 'U': 'A',
		'a': 't', 't': 'a', 'c': 'g', 'g': 'c', 'u': 'a',
		'N': 'N', 'n': 'n',
	}
	for k, v := range pairs {
		t[k] = v
	}
	return t
}

// ReverseComplement returns a new slice holding the reverse complement
// of seq. Only A, C, G, T, U and N (either case) are complemented;
// every other byte, IUPAC ambiguity codes included, passes through
// unchanged (reversed but not complemented).
func ReverseComplement(seq []byte) []byte {
	out := make([]byte, len(seq))
	n := len(seq)
	for i, b := range seq {
		out[n-1-i] = complementTable[b]
	}
	return out
}
