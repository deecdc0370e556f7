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

import "errors"

// Sentinel errors. All other logical violations (treap aggregate
// mismatches, ATU length mismatches, scaffold-tree invariants) are
// panics via internal/invariant.Check — they indicate corruption, not
// caller error, and are never wrapped into one of these.
var (
	ErrFileNotOpen       = errors.New("hictgo: file is not open")
	ErrUnknownResolution = errors.New("hictgo: resolution is not stored")
	ErrIncorrectRange    = errors.New("hictgo: start must be < end")
	ErrMalformedAssembly = errors.New("hictgo: malformed AGP record")
	ErrMalformedSnapshot = errors.New("hictgo: malformed snapshot record")
)
