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

// Package codec implements the big-endian variable-width integer encoding
// used throughout the bytecode container, the SE protocol's AD/nonce
// derivations, and the LLS VM's operand stream. Every field in the wire
// format is a big-endian unsigned integer of some byte width between 1
// and 8; this package is the single place that width is interpreted.
package codec

import (
	"golang.org/x/exp/constraints"

	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/serr"
)

// Encode writes v into dst[:width] big-endian. width must be in [1,8] and
// dst must have at least width bytes. Values wider than width are
// truncated to the low width*8 bits, matching the reference encoder.
func Encode[T constraints.Unsigned](dst []byte, width int, v T) error {
	if width < 1 || width > 8 {
		return serr.Newf(serr.Codec, "invalid encode width %d", width)
	}
	if len(dst) < width {
		return serr.Newf(serr.Codec, "encode dst too short: have %d need %d", len(dst), width)
	}
	n := uint64(v)
	for i := 0; i < width; i++ {
		shift := uint((width - 1 - i) * 8)
		dst[i] = byte(n >> shift)
	}
	return nil
}

// Decode reads width bytes of src as a big-endian unsigned integer.
func Decode[T constraints.Unsigned](src []byte, width int) (T, error) {
	if width < 1 || width > 8 {
		return 0, serr.Newf(serr.Codec, "invalid decode width %d", width)
	}
	if len(src) < width {
		return 0, serr.Newf(serr.Codec, "decode src too short: have %d need %d", len(src), width)
	}
	var n uint64
	for i := 0; i < width; i++ {
		n = n<<8 | uint64(src[i])
	}
	return T(n), nil
}

// EncodeU32 is Encode specialized to the 4-byte width used pervasively for
// instrID, batch indices, and LLMI counts.
func EncodeU32(dst []byte, v uint32) { _ = Encode(dst, params.U32Bytes, v) }

// DecodeU32 is Decode specialized to a 4-byte field.
func DecodeU32(src []byte) (uint32, error) { return Decode[uint32](src, params.U32Bytes) }

// EncodeWord encodes a machine word using the build's WordBytes width.
func EncodeWord(dst []byte, v params.Word) { _ = Encode(dst, params.WordBytes, v) }

// DecodeWord decodes a machine word using the build's WordBytes width.
func DecodeWord(src []byte) (params.Word, error) { return Decode[params.Word](src, params.WordBytes) }

// BatchToBytes concatenates len(batch) words of params.WordBytes bytes
// each, big-endian, matching the reference batch_tobytes.
func BatchToBytes(batch []params.Word) []byte {
	out := make([]byte, len(batch)*params.WordBytes)
	for i, w := range batch {
		EncodeWord(out[i*params.WordBytes:], w)
	}
	return out
}

// ByteWidth returns the number of bytes needed to address n distinct
// indices (0..n-1), i.e. ceil(log2(n)/8), clamped to a minimum of 1 byte.
// This mirrors the reference's lb_m/lb_r/lb_o computation:
// (ceil(log2(n)) + 7) / 8.
func ByteWidth(n uint32) int {
	if n <= 1 {
		return 1
	}
	bits := bitLen(n - 1)
	w := (bits + 7) / 8
	if w < 1 {
		w = 1
	}
	return w
}

func bitLen(n uint32) int {
	bits := 0
	for n > 0 {
		bits++
		n >>= 1
	}
	return bits
}
