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

import (
	"golang.org/x/crypto/blake2b"

	"github.com/seruntime/se-runtime/internal/codec"
	"github.com/seruntime/se-runtime/internal/params"
)

// Hash computes the collision- and preimage-resistant digest used by the
// hash chain and by every derived nonce/AD in the SE protocol.
func Hash(msg []byte) [params.HashBytes]byte {
	return blake2b.Sum256(msg)
}

// HashWithPrefix computes Hash(encode(prefix,4) || msg), the construction
// used throughout the SE protocol to domain-separate otherwise-identical
// inputs across the execution-ID, shared-key, input-commitment, and
// per-word derivations (prefixes 0, 1, 2, 3 respectively).
func HashWithPrefix(prefix uint32, msg []byte) [params.HashBytes]byte {
	buf := make([]byte, params.U32Bytes+len(msg))
	codec.EncodeU32(buf, prefix)
	copy(buf[params.U32Bytes:], msg)
	return Hash(buf)
}

// DeriveNonce truncates a prefixed hash down to the AEAD's nonce size.
// Every SE nonce except the snippet-decryption nonce (which embeds
// instrID directly into a zero-filled buffer, see internal/se) is
// produced this way.
func DeriveNonce(prefix uint32, msg []byte) [params.NonceBytes]byte {
	h := HashWithPrefix(prefix, msg)
	var nonce [params.NonceBytes]byte
	copy(nonce[:], h[:params.NonceBytes])
	return nonce
}
