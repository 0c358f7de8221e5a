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
	"bytes"
	"testing"

	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/serr"
)

func testMeta() Meta {
	return Meta{
		Version:     params.BytecodeVersion,
		WordSize:    params.WordBits,
		LIn:         4,
		LOut:        4,
		R:           8,
		S:           20,
		MemoryCount: 8,
	}
}

func sealedHeaderFixture(w Widths, n uint32) []byte {
	h := make([]byte, params.SEPubBytes+w.LbM)
	for i := range h[:params.SEPubBytes] {
		h[i] = byte(i)
	}
	appendFieldInPlace(h[params.SEPubBytes:], w.LbM, n)
	return h
}

func appendFieldInPlace(dst []byte, width int, v uint32) {
	for i := 0; i < width; i++ {
		dst[i] = byte(v >> uint(8*(width-1-i)))
	}
}

func TestBuildParseRoundTrip(t *testing.T) {
	m := testMeta()
	w := DeriveWidths(m)

	b := NewBuilder(m).
		SetSealedHeader(sealedHeaderFixture(w, 2)).
		SetMemoryMap([]uint32{0, 1}, []uint32{2})

	b.AddLLMI(LLMI{
		InputMemIdx:  []uint32{0, 1},
		OutputMemIdx: []uint32{2},
		InstrID:      7,
		RevealFlag:   1,
		InputIDs: []ProducerID{
			{InstrID: 0, OutputID: 0},
			{InstrID: 0, OutputID: 1},
		},
		Ciphertext: []byte{1, 2, 3, 4, 5},
	})

	raw := b.Bytes()
	c, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if c.Meta != m {
		t.Fatalf("meta mismatch: got %+v, want %+v", c.Meta, m)
	}
	if len(c.InputMemIdx) != 2 || c.InputMemIdx[0] != 0 || c.InputMemIdx[1] != 1 {
		t.Fatalf("input memory map mismatch: %v", c.InputMemIdx)
	}
	if len(c.LLMIs) != 1 {
		t.Fatalf("llmi count = %d, want 1", len(c.LLMIs))
	}
	got := c.LLMIs[0]
	if got.InstrID != 7 || got.RevealFlag != 1 {
		t.Fatalf("llmi metadata mismatch: %+v", got)
	}
	if !bytes.Equal(got.Ciphertext, []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("ciphertext mismatch: %v", got.Ciphertext)
	}
	n, err := ProgramInputCount(c)
	if err != nil {
		t.Fatalf("program input count: %v", err)
	}
	if n != 2 {
		t.Fatalf("program input count = %d, want 2", n)
	}
}

func TestParseRejectsTrailingBytes(t *testing.T) {
	m := testMeta()
	w := DeriveWidths(m)
	b := NewBuilder(m).SetSealedHeader(sealedHeaderFixture(w, 0)).SetMemoryMap(nil, nil)
	raw := append(b.Bytes(), 0xff)
	_, err := Parse(raw)
	if !serr.Is(err, serr.Trailing) {
		t.Fatalf("got %v, want Trailing", err)
	}
}

func TestParseRejectsVersionMismatch(t *testing.T) {
	m := testMeta()
	m.Version = 99
	w := DeriveWidths(m)
	b := NewBuilder(m).SetSealedHeader(sealedHeaderFixture(w, 0)).SetMemoryMap(nil, nil)
	_, err := Parse(b.Bytes())
	if !serr.Is(err, serr.HeaderMismatch) {
		t.Fatalf("got %v, want HeaderMismatch", err)
	}
}

func TestParseRejectsShortBuffer(t *testing.T) {
	_, err := Parse([]byte{0, 0, 0, 0})
	if !serr.Is(err, serr.Codec) {
		t.Fatalf("got %v, want Codec", err)
	}
}

func TestDeriveWidthsClampsToMinimumOne(t *testing.T) {
	w := DeriveWidths(Meta{MemoryCount: 1, R: 1, LOut: 1})
	if w.LbM != 1 || w.LbR != 1 || w.LbO != 1 {
		t.Fatalf("widths = %+v, want all 1", w)
	}
}

func TestDeriveWidthsGrowsWithCount(t *testing.T) {
	w := DeriveWidths(Meta{MemoryCount: 300, R: 300, LOut: 300})
	if w.LbM != 2 || w.LbR != 2 || w.LbO != 2 {
		t.Fatalf("widths = %+v, want all 2", w)
	}
}
