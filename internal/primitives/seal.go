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
	"crypto/rand"

	"golang.org/x/crypto/nacl/box"

	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/serr"
)

// SealToPublic produces an anonymous sealed-box ciphertext of msg
// addressed to recipientPub. This is the offline/compiler-side
// counterpart of SealOpen below; the runtime itself never calls it, but
// tests and the bytecode fixture builder use it to construct a header
// the runtime can open.
func SealToPublic(msg []byte, recipientPub *[32]byte) ([]byte, error) {
	return box.SealAnonymous(nil, msg, recipientPub, rand.Reader)
}

// SealOpen opens an anonymous sealed-box envelope addressed to
// recipientPub using recipientPriv, returning the plaintext shared key.
// A malformed or tampered envelope is reported as a SEAL_OPEN_FAIL error,
// which SEstart returns unchanged.
func SealOpen(sealed []byte, recipientPub, recipientPriv *[32]byte) ([]byte, error) {
	out, ok := box.OpenAnonymous(nil, sealed, recipientPub, recipientPriv)
	if !ok {
		return nil, serr.New(serr.SealOpenFail, "sealed header envelope did not authenticate")
	}
	return out, nil
}
