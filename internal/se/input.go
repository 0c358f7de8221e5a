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

package se

import (
	"github.com/seruntime/se-runtime/internal/codec"
	"github.com/seruntime/se-runtime/internal/eword"
	"github.com/seruntime/se-runtime/internal/hashchain"
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/primitives"
	"github.com/seruntime/se-runtime/internal/serr"
)

func commitmentAD(h [params.HashBytes]byte, idx uint32, eid [params.HashBytes]byte) []byte {
	idxBytes := make([]byte, params.U32Bytes)
	codec.EncodeU32(idxBytes, idx)
	ad := make([]byte, 0, 2*params.HashBytes+params.U32Bytes)
	ad = append(ad, h[:]...)
	ad = append(ad, idxBytes...)
	ad = append(ad, eid[:]...)
	return ad
}

func commitmentNonce(eid [params.HashBytes]byte, idx uint32) [params.NonceBytes]byte {
	idxBytes := make([]byte, params.U32Bytes)
	codec.EncodeU32(idxBytes, idx)
	msg := make([]byte, 0, params.HashBytes+params.U32Bytes)
	msg = append(msg, eid[:]...)
	msg = append(msg, idxBytes...)
	return primitives.DeriveNonce(2, msg)
}

// Input checks batch i's commitment token against the recomputed hash
// chain, emits the predecessor token C^in_{i-1}, and seals the batch's
// words into memory-ready EWORDs. i is 1-based; hPrev must be the
// all-zeros hash when i == 1.
func (s *Session) Input(i uint32, hPrev [params.HashBytes]byte, batch []params.Word, cinI []byte) ([]byte, []eword.Word, [params.HashBytes]byte, error) {
	var zero [params.HashBytes]byte
	if i == 1 && hPrev != zero {
		return nil, nil, zero, serr.New(serr.ProtocolFail, "H_0 must be all-zeros when i=1")
	}

	hI := hashchain.Next(hPrev, batch)

	ad := commitmentAD(hI, i, s.EID)
	nonce := commitmentNonce(s.EID, i)
	if _, err := primitives.Decrypt(s.keys.KSE, nonce, ad, cinI); err != nil {
		return nil, nil, zero, serr.Wrap(serr.ProtocolFail, "input-commitment token did not authenticate", err)
	}

	adPrev := commitmentAD(hPrev, i-1, s.EID)
	noncePrev := commitmentNonce(s.EID, i-1)
	cinPrev, err := primitives.Encrypt(s.keys.KSE, noncePrev, adPrev, nil)
	if err != nil {
		return nil, nil, zero, err
	}

	words := make([]eword.Word, len(batch))
	for j, x := range batch {
		ad := make([]byte, 0, 2*params.U32Bytes+params.HashBytes)
		ad = append(ad, encode4(i)...)
		ad = append(ad, encode4(uint32(j))...)
		ad = append(ad, s.EID[:]...)
		nonce := primitives.DeriveNonce(3, ad)

		plain := make([]byte, params.WordBytes)
		codec.EncodeWord(plain, x)
		ct, err := primitives.Encrypt(s.keys.KSE, nonce, ad, plain)
		if err != nil {
			return nil, nil, zero, err
		}
		words[j] = eword.Sealed(ct)
	}

	return cinPrev, words, hI, nil
}

func encode4(v uint32) []byte {
	b := make([]byte, params.U32Bytes)
	codec.EncodeU32(b, v)
	return b
}
