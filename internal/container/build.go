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

package container

import "github.com/seruntime/se-runtime/internal/params"

// Builder assembles a bytecode container byte-for-byte compatible with
// Parse. It exists to let tests (here and in internal/driver) construct
// fixtures without hand-packing byte slices.
type Builder struct {
	meta         Meta
	sealedHeader []byte
	inputMemIdx  []uint32
	outputMemIdx []uint32
	llmis        []LLMI
}

// NewBuilder starts a container build from a Meta whose widths are already
// final (MemoryCount, R, LOut must be set before adding LLMIs).
func NewBuilder(m Meta) *Builder {
	return &Builder{meta: m}
}

// SetSealedHeader installs the sealed-key envelope plus program-n field.
func (b *Builder) SetSealedHeader(h []byte) *Builder {
	b.sealedHeader = h
	return b
}

// SetMemoryMap installs the program's input and output memory indices.
func (b *Builder) SetMemoryMap(input, output []uint32) *Builder {
	b.inputMemIdx = input
	b.outputMemIdx = output
	return b
}

// AddLLMI appends one multi-instruction descriptor.
func (b *Builder) AddLLMI(l LLMI) *Builder {
	b.llmis = append(b.llmis, l)
	return b
}

func appendWidth(dst []byte, width int, v uint32) []byte {
	buf := make([]byte, width)
	for i := 0; i < width; i++ {
		buf[i] = byte(v >> uint(8*(width-1-i)))
	}
	return append(dst, buf...)
}

func appendU32(dst []byte, v uint32) []byte { return appendWidth(dst, params.U32Bytes, v) }

func appendIndexList(dst []byte, width int, idx []uint32) []byte {
	dst = appendWidth(dst, width, uint32(len(idx)))
	for _, i := range idx {
		dst = appendWidth(dst, width, i)
	}
	return dst
}

// Bytes serializes the container.
func (b *Builder) Bytes() []byte {
	w := DeriveWidths(b.meta)

	var out []byte
	out = appendU32(out, b.meta.Version)
	out = appendU32(out, b.meta.WordSize)
	out = appendU32(out, b.meta.LIn)
	out = appendU32(out, b.meta.LOut)
	out = appendU32(out, b.meta.R)
	out = appendU32(out, b.meta.S)
	out = appendU32(out, b.meta.MemoryCount)

	out = append(out, b.sealedHeader...)

	out = appendIndexList(out, w.LbM, b.inputMemIdx)
	out = appendIndexList(out, w.LbM, b.outputMemIdx)

	out = appendU32(out, uint32(len(b.llmis)))
	for _, l := range b.llmis {
		out = appendIndexList(out, w.LbM, l.InputMemIdx)
		out = appendIndexList(out, w.LbM, l.OutputMemIdx)
		out = appendU32(out, l.InstrID)
		out = append(out, l.RevealFlag)
		for _, p := range l.InputIDs {
			out = appendU32(out, p.InstrID)
			out = appendWidth(out, w.LbO, p.OutputID)
		}
		out = appendU32(out, uint32(len(l.Ciphertext)))
		out = append(out, l.Ciphertext...)
	}
	return out
}
