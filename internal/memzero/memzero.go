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

// Package memzero provides the best-effort zeroization helpers SEeval
// uses to clear the register file and the decrypted snippet buffer before
// release (spec §9: "No plaintext retention... an explicit defensive
// step; the reference does not do it").
package memzero

import "github.com/seruntime/se-runtime/internal/params"

// Bytes overwrites b with zeros in place.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Words overwrites w with zeros in place.
func Words(w []params.Word) {
	for i := range w {
		w[i] = 0
	}
}
