// Copyright (C) 2024 SE Runtime Authors
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

package primitives

import "golang.org/x/sys/cpu"

// BackendTag reports which CPU feature set is available for the hash/AEAD
// primitives above, purely for diagnostic logging (see internal/driver).
// Both tags run the identical Go code path; this build does not ship
// separate hand-written assembly backends the way the teacher's vm
// package does, so the tag never changes behavior.
func BackendTag() string {
	if cpu.X86.HasAES && cpu.X86.HasAVX2 {
		return "aesni+avx2"
	}
	if cpu.X86.HasAES {
		return "aesni"
	}
	return "portable"
}
