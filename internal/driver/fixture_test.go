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

package driver

import (
	"testing"

	"github.com/seruntime/se-runtime/internal/codec"
	"github.com/seruntime/se-runtime/internal/container"
	"github.com/seruntime/se-runtime/internal/lls"
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/primitives"
	"github.com/seruntime/se-runtime/internal/sekeys"
)

// operand is one fixture-assembler operand: either an immediate word or a
// register index.
type operand struct {
	isReg bool
	val   uint32
}

func imm(v uint32) operand { return operand{isReg: false, val: v} }
func reg(v uint32) operand { return operand{isReg: true, val: v} }

// asm assembles one variable-width LLS instruction from an opcode, flag,
// destination register, and ordered operand list, matching the encoding
// internal/lls.Execute decodes.
func asm(op lls.Opcode, flag lls.Flag, dst uint32, lbc, lbr int, ops ...operand) []byte {
	out := []byte{byte(op)<<4 | byte(flag)}
	dstBuf := make([]byte, lbr)
	_ = codec.Encode(dstBuf, lbr, dst)
	out = append(out, dstBuf...)
	for _, o := range ops {
		if o.isReg {
			b := make([]byte, lbr)
			_ = codec.Encode(b, lbr, o.val)
			out = append(out, b...)
		} else {
			b := make([]byte, lbc)
			_ = codec.Encode(b, lbc, o.val)
			out = append(out, b...)
		}
	}
	return out
}

// fixtureLLMI is the pre-seal description of one multi-instruction; seal
// fills in its Ciphertext once the program's shared key is known.
type fixtureLLMI struct {
	inputMemIdx  []uint32
	outputMemIdx []uint32
	instrID      uint32
	revealFlag   byte
	inputIDs     []container.ProducerID
	snippet      []byte
}

// buildFixture assembles a complete bytecode container with n program
// inputs and the given LLMIs, sealed under a freshly generated SE
// keypair and a fixed (non-random, so assertions stay deterministic)
// shared key.
func buildFixture(t *testing.T, meta container.Meta, inputMemIdx, outputMemIdx []uint32, llmis []fixtureLLMI, nInputs int) []byte {
	t.Helper()
	keys := sekeys.Build()
	w := container.DeriveWidths(meta)

	var ks [params.SharedKeyBytes]byte
	for i := range ks {
		ks[i] = byte(i*7 + 3)
	}

	sealedKey, err := primitives.SealToPublic(ks[:], &keys.PubSE)
	if err != nil {
		t.Fatalf("seal shared key: %v", err)
	}
	nBytes := make([]byte, w.LbM)
	_ = codec.Encode(nBytes, w.LbM, uint32(nInputs))
	sealedHeader := append(sealedKey, nBytes...)

	b := container.NewBuilder(meta).SetSealedHeader(sealedHeader).SetMemoryMap(inputMemIdx, outputMemIdx)
	for _, f := range llmis {
		ad := make([]byte, 0)
		ad = appendU32Bytes(ad, f.instrID)
		ad = append(ad, f.revealFlag)
		inpCountBuf := make([]byte, w.LbM)
		_ = codec.Encode(inpCountBuf, w.LbM, uint32(len(f.inputIDs)))
		ad = append(ad, inpCountBuf...)
		for _, p := range f.inputIDs {
			ad = appendU32Bytes(ad, p.InstrID)
			outIDBuf := make([]byte, w.LbO)
			_ = codec.Encode(outIDBuf, w.LbO, p.OutputID)
			ad = append(ad, outIDBuf...)
		}
		outCountBuf := make([]byte, w.LbM)
		_ = codec.Encode(outCountBuf, w.LbM, uint32(len(f.outputMemIdx)))
		ad = append(ad, outCountBuf...)

		var nonce [params.NonceBytes]byte
		instrIDBuf := make([]byte, params.U32Bytes)
		codec.EncodeU32(instrIDBuf, f.instrID)
		copy(nonce[params.NonceBytes-params.U32Bytes:], instrIDBuf)

		ct, err := primitives.Encrypt(ks, nonce, ad, f.snippet)
		if err != nil {
			t.Fatalf("seal snippet %d: %v", f.instrID, err)
		}
		b.AddLLMI(container.LLMI{
			InputMemIdx:  f.inputMemIdx,
			OutputMemIdx: f.outputMemIdx,
			InstrID:      f.instrID,
			RevealFlag:   f.revealFlag,
			InputIDs:     f.inputIDs,
			Ciphertext:   ct,
		})
	}
	return b.Bytes()
}

func appendU32Bytes(dst []byte, v uint32) []byte {
	b := make([]byte, params.U32Bytes)
	codec.EncodeU32(b, v)
	return append(dst, b...)
}
