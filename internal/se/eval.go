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
	"fmt"

	"github.com/seruntime/se-runtime/internal/codec"
	"github.com/seruntime/se-runtime/internal/container"
	"github.com/seruntime/se-runtime/internal/eword"
	"github.com/seruntime/se-runtime/internal/lls"
	"github.com/seruntime/se-runtime/internal/memzero"
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/primitives"
	"github.com/seruntime/se-runtime/internal/serr"
)

func snippetAD(l container.LLMI, lbM, lbO int) []byte {
	ad := make([]byte, 0, params.U32Bytes+params.FlagBytes+2*lbM+(params.U32Bytes+lbO)*len(l.InputIDs))
	ad = append(ad, encode4(l.InstrID)...)
	ad = append(ad, l.RevealFlag)
	inpCount := make([]byte, lbM)
	_ = codec.Encode(inpCount, lbM, uint32(len(l.InputIDs)))
	ad = append(ad, inpCount...)
	for _, p := range l.InputIDs {
		ad = append(ad, encode4(p.InstrID)...)
		outID := make([]byte, lbO)
		_ = codec.Encode(outID, lbO, p.OutputID)
		ad = append(ad, outID...)
	}
	outCount := make([]byte, lbM)
	_ = codec.Encode(outCount, lbM, uint32(len(l.OutputMemIdx)))
	ad = append(ad, outCount...)
	return ad
}

func snippetNonce(instrID uint32) [params.NonceBytes]byte {
	var nonce [params.NonceBytes]byte
	idx := make([]byte, params.U32Bytes)
	codec.EncodeU32(idx, instrID)
	copy(nonce[params.NonceBytes-params.U32Bytes:], idx)
	return nonce
}

func wordAD(instrID, outputID uint32, eid [params.HashBytes]byte) []byte {
	ad := make([]byte, 0, 2*params.U32Bytes+params.HashBytes)
	ad = append(ad, encode4(instrID)...)
	ad = append(ad, encode4(outputID)...)
	ad = append(ad, eid[:]...)
	return ad
}

// Eval decrypts an LLMI's snippet and input words, executes the snippet
// over a fresh register file, and re-seals (or reveals) its outputs.
// lbM/lbR/lbO are the container's variable-width field widths; r is the
// register-file size; lOut is the build's output-window size; maxInstr
// is the per-snippet instruction cap. The output window is always the
// fixed range [r-lOut, r), regardless of this LLMI's own out_count.
func (s *Session) Eval(l container.LLMI, inputs []eword.Word, r, lbM, lbR, lbO, lOut, maxInstr int) ([]eword.Word, error) {
	nonceK := primitives.DeriveNonce(1, s.EID[:])
	ksBytes, err := primitives.Decrypt(s.keys.KSE, nonceK, nil, s.EK)
	if err != nil {
		return nil, serr.Wrap(serr.SealFail, "shared key did not authenticate", err)
	}
	var ks [params.SharedKeyBytes]byte
	copy(ks[:], ksBytes)

	ad := snippetAD(l, lbM, lbO)
	nonce := snippetNonce(l.InstrID)
	snippet, err := primitives.Decrypt(ks, nonce, ad, l.Ciphertext)
	if err != nil {
		return nil, serr.Wrap(serr.LLSFail, "snippet ciphertext did not authenticate", err)
	}
	defer memzero.Bytes(snippet)

	reg := make([]params.Word, r)
	defer memzero.Words(reg)

	if len(inputs) != len(l.InputIDs) {
		return nil, serr.Newf(serr.ProtocolFail, "got %d input words, want %d", len(inputs), len(l.InputIDs))
	}
	for j, in := range inputs {
		if !in.IsRevealed() {
			wad := wordAD(l.InputIDs[j].InstrID, l.InputIDs[j].OutputID, s.EID)
			wnonce := primitives.DeriveNonce(3, wad)
			plain, err := primitives.Decrypt(s.keys.KSE, wnonce, wad, in.Ciphertext())
			if err != nil {
				msg := fmt.Sprintf("input word %d (producer instrID=%d outputID=%d) did not authenticate",
					j, l.InputIDs[j].InstrID, l.InputIDs[j].OutputID)
				return nil, serr.Wrap(serr.WordDecFail, msg, err)
			}
			v, err := codec.DecodeWord(plain)
			if err != nil {
				return nil, err
			}
			reg[j] = v
		} else {
			reg[j] = in.RevealedValue()
		}
	}

	if err := lls.Execute(reg, snippet, params.WordBytes, lbR, maxInstr); err != nil {
		return nil, err
	}

	outCount := len(l.OutputMemIdx)
	outputs := make([]eword.Word, outCount)
	base := r - lOut
	for j := 0; j < outCount; j++ {
		v := reg[base+j]
		if l.RevealFlag != 0 {
			outputs[j] = eword.Revealed(v)
			continue
		}
		wad := wordAD(l.InstrID, uint32(j), s.EID)
		wnonce := primitives.DeriveNonce(3, wad)
		plain := make([]byte, params.WordBytes)
		codec.EncodeWord(plain, v)
		ct, err := primitives.Encrypt(s.keys.KSE, wnonce, wad, plain)
		if err != nil {
			return nil, err
		}
		outputs[j] = eword.Sealed(ct)
	}
	return outputs, nil
}
