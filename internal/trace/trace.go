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

// Package trace implements the driver's optional execution tracer: one
// newline-delimited JSON record per LLMI and per input batch, streamed
// through a zstd encoder. Records carry only non-secret metadata; no
// record type in this package can represent a hash, a key, or a word
// value.
package trace

import (
	"encoding/json"
	"io"

	"github.com/dchest/siphash"
	"github.com/klauspost/compress/zstd"
)

// fingerprintKey0/fingerprintKey1 key a non-cryptographic SipHash used
// only to give an operator a short, stable correlation tag for a
// ciphertext blob across trace lines. It carries no secrecy requirement:
// the ciphertext it hashes is already opaque, and the key is a build
// constant rather than provisioned material (unlike KSE/K_S in
// internal/sekeys).
const (
	fingerprintKey0 = 0x5345525547544631
	fingerprintKey1 = 0x494e474552505254
)

// Fingerprint returns a short uint64 tag for b, for log correlation only.
// It carries no cryptographic meaning and must never be used in place of
// a protocol hash or AEAD tag.
func Fingerprint(b []byte) uint64 {
	return siphash.Hash(fingerprintKey0, fingerprintKey1, b)
}

// LLMIRecord describes one completed SEeval call.
type LLMIRecord struct {
	Kind        string `json:"kind"`
	InstrID     uint32 `json:"instr_id"`
	RevealFlag  bool   `json:"reveal_flag"`
	ByteLen     int    `json:"byte_len"`
	Fingerprint uint64 `json:"fingerprint"`
	ElapsedNS   int64  `json:"elapsed_ns"`
}

// BatchRecord describes one completed SEinput call.
type BatchRecord struct {
	Kind      string `json:"kind"`
	Index     uint32 `json:"index"`
	ChainLen  uint32 `json:"chain_len"`
	ElapsedNS int64  `json:"elapsed_ns"`
}

// Writer streams trace records to an underlying zstd-compressed sink.
type Writer struct {
	enc *zstd.Encoder
}

// NewWriter wraps w in a zstd encoder. Callers must call Close to flush
// the final frame.
func NewWriter(w io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &Writer{enc: enc}, nil
}

// WriteLLMI appends one LLMI trace record.
func (t *Writer) WriteLLMI(r LLMIRecord) error {
	r.Kind = "llmi"
	return t.writeLine(r)
}

// WriteBatch appends one batch trace record.
func (t *Writer) WriteBatch(r BatchRecord) error {
	r.Kind = "batch"
	return t.writeLine(r)
}

func (t *Writer) writeLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = t.enc.Write(b)
	return err
}

// Close flushes and closes the underlying zstd encoder.
func (t *Writer) Close() error { return t.enc.Close() }
