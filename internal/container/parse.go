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

import (
	"github.com/seruntime/se-runtime/internal/codec"
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/serr"
)

// reader walks the container buffer with bounds-checked fixed- and
// variable-width reads, reporting short reads as Codec failures.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) u32() (uint32, error) {
	if r.pos+params.U32Bytes > len(r.buf) {
		return 0, serr.New(serr.Codec, "container ended reading a 32-bit field")
	}
	v, err := codec.DecodeU32(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += params.U32Bytes
	return v, nil
}

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, serr.New(serr.Codec, "container ended reading a flag byte")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) width(width int) (uint32, error) {
	if r.pos+width > len(r.buf) {
		return 0, serr.New(serr.Codec, "container ended reading a variable-width field")
	}
	v, err := codec.Decode[uint32](r.buf[r.pos:], width)
	if err != nil {
		return 0, err
	}
	r.pos += width
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, serr.New(serr.Codec, "container ended reading a byte blob")
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) indexList(width int) ([]uint32, error) {
	count, err := r.width(width)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		v, err := r.width(width)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Parse decodes a full bytecode container from buf. It fails with
// HeaderMismatch if the meta header's version doesn't match what this
// build accepts, and with Trailing if bytes remain after the LLMI list.
func Parse(buf []byte) (*Container, error) {
	r := &reader{buf: buf}

	var m Meta
	fields := []*uint32{&m.Version, &m.WordSize, &m.LIn, &m.LOut, &m.R, &m.S, &m.MemoryCount}
	for _, f := range fields {
		v, err := r.u32()
		if err != nil {
			return nil, err
		}
		*f = v
	}
	if m.Version != params.BytecodeVersion {
		return nil, serr.Newf(serr.HeaderMismatch, "unsupported bytecode version %d", m.Version)
	}
	if m.WordSize != params.WordBits {
		return nil, serr.Newf(serr.HeaderMismatch, "unsupported word size %d", m.WordSize)
	}

	w := DeriveWidths(m)

	sealedHeader, err := r.bytes(params.SEPubBytes + w.LbM)
	if err != nil {
		return nil, err
	}

	inputMemIdx, err := r.indexList(w.LbM)
	if err != nil {
		return nil, err
	}
	outputMemIdx, err := r.indexList(w.LbM)
	if err != nil {
		return nil, err
	}

	llmiCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	llmis := make([]LLMI, llmiCount)
	for i := range llmis {
		inMem, err := r.indexList(w.LbM)
		if err != nil {
			return nil, err
		}
		outMem, err := r.indexList(w.LbM)
		if err != nil {
			return nil, err
		}
		instrID, err := r.u32()
		if err != nil {
			return nil, err
		}
		revealFlag, err := r.byte()
		if err != nil {
			return nil, err
		}
		producers := make([]ProducerID, len(inMem))
		for j := range producers {
			pInstrID, err := r.u32()
			if err != nil {
				return nil, err
			}
			pOutputID, err := r.width(w.LbO)
			if err != nil {
				return nil, err
			}
			producers[j] = ProducerID{InstrID: pInstrID, OutputID: pOutputID}
		}
		byteLen, err := r.u32()
		if err != nil {
			return nil, err
		}
		ciphertext, err := r.bytes(int(byteLen))
		if err != nil {
			return nil, err
		}
		llmis[i] = LLMI{
			InputMemIdx:  inMem,
			OutputMemIdx: outMem,
			InstrID:      instrID,
			RevealFlag:   revealFlag,
			InputIDs:     producers,
			Ciphertext:   ciphertext,
		}
	}

	if r.pos != len(buf) {
		return nil, serr.New(serr.Trailing, "extra bytes after the parsed LLMI list")
	}

	return &Container{
		Meta:         m,
		Widths:       w,
		SealedHeader: sealedHeader,
		InputMemIdx:  inputMemIdx,
		OutputMemIdx: outputMemIdx,
		LLMIs:        llmis,
	}, nil
}

// ProgramInputCount extracts the program-n field from the tail of the
// sealed-key header (the lb_m bytes following the SEPubBytes envelope).
func ProgramInputCount(c *Container) (uint32, error) {
	tail := c.SealedHeader[params.SEPubBytes:]
	return codec.Decode[uint32](tail, c.Widths.LbM)
}
