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

// Package primitives wraps the concrete cryptographic constructions this
// build plugs into the abstract AEAD/hash/seal contracts the SE protocol
// is specified against: XChaCha20-Poly1305 for AEAD, BLAKE2b-256 for the
// hash, and an anonymous NaCl sealed box for the shared-key envelope. No
// other package imports a cipher directly.
package primitives

import (
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/serr"
)

// Encrypt seals plaintext under key with the given nonce and associated
// data, producing len(plaintext)+params.MACBytes bytes. It is
// deterministic in (plaintext, ad, nonce, key), as the protocol requires:
// every nonce here is derived, never drawn from an entropy source.
func Encrypt(key [params.SharedKeyBytes]byte, nonce [params.NonceBytes]byte, ad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, serr.Wrap(serr.SealFail, "construct AEAD", err)
	}
	return aead.Seal(nil, nonce[:], plaintext, ad), nil
}

// Decrypt opens ciphertext under key with the given nonce and associated
// data. Tag mismatch is reported as a plain error; callers translate it
// to the protocol-specific fatal Kind for the call site (SEAL_OPEN_FAIL,
// SEAL_FAIL, PROTOCOL_FAIL, LLS_FAIL, or WORD_DEC_FAIL all originate from
// an AUTH failure here).
func Decrypt(key [params.SharedKeyBytes]byte, nonce [params.NonceBytes]byte, ad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce[:], ciphertext, ad)
}
