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
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/primitives"
	"github.com/seruntime/se-runtime/internal/sekeys"
)

// Start derives the execution identity and re-sealed shared key for one
// program run and emits the terminal input-commitment token C^in_L.
//
// sealedHeader is the sealed-key envelope (SEPubBytes) concatenated with
// the lb_m-byte program-n field, exactly as it appears in the bytecode
// container. hL is the hash-chain terminus over the program's input
// batches.
func Start(keys *sekeys.Keys, sealedHeader []byte, lbM int, hL [params.HashBytes]byte, lOut int) (*Session, []byte, uint32, error) {
	msg := make([]byte, 0, params.HashBytes+len(sealedHeader))
	msg = append(msg, hL[:]...)
	msg = append(msg, sealedHeader...)
	eid := primitives.HashWithPrefix(0, msg)

	ksBytes, err := primitives.SealOpen(sealedHeader[:params.SEPubBytes], &keys.PubSE, &keys.PrivSE)
	if err != nil {
		return nil, nil, 0, err
	}
	var ks [params.SharedKeyBytes]byte
	copy(ks[:], ksBytes)

	nonceEK := primitives.DeriveNonce(1, eid[:])
	ek, err := primitives.Encrypt(keys.KSE, nonceEK, nil, ks[:])
	if err != nil {
		return nil, nil, 0, err
	}

	n, err := codec.Decode[uint32](sealedHeader[params.SEPubBytes:], lbM)
	if err != nil {
		return nil, nil, 0, err
	}
	l := (n + uint32(lOut) - 1) / uint32(lOut)

	lBytes := make([]byte, params.U32Bytes)
	codec.EncodeU32(lBytes, l)
	ad := make([]byte, 0, params.HashBytes+params.U32Bytes+params.HashBytes)
	ad = append(ad, hL[:]...)
	ad = append(ad, lBytes...)
	ad = append(ad, eid[:]...)

	nonceMsg := make([]byte, 0, params.HashBytes+params.U32Bytes)
	nonceMsg = append(nonceMsg, eid[:]...)
	nonceMsg = append(nonceMsg, lBytes...)
	nonceCin := primitives.DeriveNonce(2, nonceMsg)

	cinL, err := primitives.Encrypt(keys.KSE, nonceCin, ad, nil)
	if err != nil {
		return nil, nil, 0, err
	}

	return &Session{keys: keys, EID: eid, EK: ek}, cinL, l, nil
}
