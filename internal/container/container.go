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

// Package container implements the big-endian bytecode container: the
// meta header, the sealed-key envelope, the memory map, and the list of
// multi-instruction (LLMI) descriptors with their in-place-referenced
// AEAD snippet ciphertexts. Parse reads a container once; Builder is its
// symmetric encoder, used by the driver's test fixtures and by this
// package's own tests.
package container

import (
	"github.com/seruntime/se-runtime/internal/codec"
	"github.com/seruntime/se-runtime/internal/params"
)

// Meta is the bytecode container's fixed 32-bit-field header.
type Meta struct {
	Version      uint32
	WordSize     uint32
	LIn          uint32
	LOut         uint32
	R            uint32
	S            uint32
	MemoryCount  uint32
}

// Widths bundles the variable byte widths derived from Meta, used
// throughout parsing, the SE protocol, and the LLS VM.
type Widths struct {
	LbM int // memory index width: ceil(log2(MemoryCount)/8)
	LbC int // immediate width: always WordBytes
	LbR int // register index width: ceil(log2(R)/8)
	LbO int // output-id width: ceil(log2(LOut)/8)
}

// ProducerID names the (instrID, outputID) pair a memory cell's value
// came from, as carried in an LLMI's input producer list.
type ProducerID struct {
	InstrID  uint32
	OutputID uint32
}

// LLMI is one parsed multi-instruction descriptor: the metadata needed to
// drive SEeval, plus the snippet ciphertext referenced in place from the
// container buffer (never copied).
type LLMI struct {
	InputMemIdx  []uint32
	OutputMemIdx []uint32
	InstrID      uint32
	RevealFlag   byte
	InputIDs     []ProducerID
	Ciphertext   []byte
}

// Container is the fully parsed bytecode file.
type Container struct {
	Meta         Meta
	Widths       Widths
	SealedHeader []byte // SEPubBytes envelope || program-n field
	InputMemIdx  []uint32
	OutputMemIdx []uint32
	LLMIs        []LLMI
}

// DeriveWidths computes Widths from a Meta, matching the reference's
// lb_m/lb_c/lb_r/lb_o computation.
func DeriveWidths(m Meta) Widths {
	return Widths{
		LbM: codec.ByteWidth(m.MemoryCount),
		LbC: params.WordBytes,
		LbR: codec.ByteWidth(m.R),
		LbO: codec.ByteWidth(m.LOut),
	}
}
