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

// Package params holds the fixed-size parameters of the SE build: the
// word width, the per-LLMI input/output/register/snippet bounds, and the
// byte widths of every primitive this build embeds. These are compile-time
// constants checked against the bytecode header on every run (see
// internal/container); a C9 device profile (internal/config) may override
// the LLMI-shape constants for test and demo builds, but the primitive
// widths are fixed by the chosen AEAD/hash/seal construction and never
// vary.
package params

// Word is the machine unit: every register, constant, and memory cell
// holds one Word. This build fixes WORD_BITS=32.
type Word = uint32

const (
	WordBits  = 32
	WordBytes = WordBits / 8

	// LLMI shape defaults ("my config" in the reference build): maximum
	// inputs/outputs per multi-instruction, register-file size, and the
	// maximum instruction count per snippet.
	DefaultLIn           = 16
	DefaultLOut          = 16
	DefaultRegisterCount = 48
	DefaultLLSMaxLength  = 20

	// BytecodeVersion is the meta-header version this build accepts.
	BytecodeVersion = 0
)

// Primitive widths, in bytes, for the concrete constructions chosen in
// internal/primitives: XChaCha20-Poly1305 for AEAD, BLAKE2b-256 for the
// hash, and an anonymous NaCl sealed box for the envelope that carries the
// per-program shared key to the SE's keypair.
const (
	HashBytes   = 32 // BLAKE2b-256 digest size
	NonceBytes  = 24 // XChaCha20-Poly1305 nonce size
	MACBytes    = 16 // Poly1305 tag size

	SharedKeyBytes = 32 // XChaCha20-Poly1305 key size

	// SEPubBytes is the length of an anonymous-sealed-box ciphertext of a
	// SharedKeyBytes-long message: a 32-byte ephemeral public key plus a
	// 16-byte Poly1305 tag plus the message itself.
	SEPubBytes = 32 + MACBytes + SharedKeyBytes

	// CBytes is one sealed EWORD slot: a word ciphertext plus its tag.
	CBytes = WordBytes + MACBytes
	// CinBytes is the AEAD of an empty plaintext: tag only.
	CinBytes = MACBytes
	// EncryptedSharedKeyBytes is E_K's length.
	EncryptedSharedKeyBytes = SharedKeyBytes + MACBytes

	// FlagBytes is the width of a reveal-flag byte in wire and AD
	// encodings.
	FlagBytes = 1

	// U32Bytes is the fixed 4-byte width used to encode instrID and batch
	// indices inside nonce/AD derivations, independent of lb_m (see
	// spec §9: "the encoding width of the batch index is a separate
	// parameter from lb_m and must stay 4 bytes").
	U32Bytes = 4
)

// BatchBytes returns the serialized length of one input batch for the
// given l_out.
func BatchBytes(lOut int) int { return lOut * WordBytes }
