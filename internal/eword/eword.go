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

// Package eword defines EWORD, the opaque memory-cell container the SE
// reads from and writes to. An EWORD never exposes its bytes for
// inspection outside this package: the only way to produce one is
// Sealed/Revealed, and the only way to consume one is the SE (internal/se)
// decrypting or reading it back out. This realizes spec §9's "Encrypted
// word as opaque object" / "EWORD as a sum of {Sealed, Revealed}" design
// note as a Go sum type rather than a tagged union of raw bytes.
package eword

import "github.com/seruntime/se-runtime/internal/params"

// Word is one memory-cell slot: either a sealed AEAD ciphertext or a
// revealed plaintext value, distinguished by the sealed tag so a consumer
// can never confuse the two.
type Word struct {
	sealed bool
	bytes  [params.CBytes]byte
}

// Sealed wraps an AEAD ciphertext of length params.CBytes produced by the
// SE (a word ciphertext C_{i,j}).
func Sealed(ciphertext []byte) Word {
	var w Word
	w.sealed = true
	copy(w.bytes[:], ciphertext)
	return w
}

// Revealed wraps a plaintext word written by a reveal-flagged LLMI. Per
// spec §9, the unused tail of the CBytes slot is zero-filled for
// determinism (the reference leaves it uninitialized).
func Revealed(v params.Word) Word {
	var w Word
	var enc [params.WordBytes]byte
	for i := 0; i < params.WordBytes; i++ {
		enc[params.WordBytes-1-i] = byte(v >> (8 * uint(i)))
	}
	copy(w.bytes[:params.WordBytes], enc[:])
	return w
}

// IsRevealed reports whether this slot carries a plaintext value.
func (w Word) IsRevealed() bool { return !w.sealed }

// Ciphertext returns the sealed AEAD ciphertext. It panics if the slot
// holds a revealed value; callers must check IsRevealed first.
func (w Word) Ciphertext() []byte {
	if !w.sealed {
		panic("eword: Ciphertext called on a revealed word")
	}
	out := make([]byte, params.CBytes)
	copy(out, w.bytes[:])
	return out
}

// RevealedValue decodes the plaintext value of a revealed slot. It panics
// if the slot is sealed; callers must check IsRevealed first.
func (w Word) RevealedValue() params.Word {
	if w.sealed {
		panic("eword: RevealedValue called on a sealed word")
	}
	var v params.Word
	for i := 0; i < params.WordBytes; i++ {
		v = v<<8 | params.Word(w.bytes[i])
	}
	return v
}
