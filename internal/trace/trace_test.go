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

package trace

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteBatch(BatchRecord{Index: 1, ChainLen: 3, ElapsedNS: 100}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if err := w.WriteLLMI(LLMIRecord{InstrID: 7, RevealFlag: true, ByteLen: 20, Fingerprint: Fingerprint([]byte("x")), ElapsedNS: 200}); err != nil {
		t.Fatalf("WriteLLMI: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dec, err := zstd.NewReader(&buf)
	if err != nil {
		t.Fatalf("zstd.NewReader: %v", err)
	}
	defer dec.Close()
	raw, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var batch BatchRecord
	if err := json.Unmarshal([]byte(lines[0]), &batch); err != nil {
		t.Fatalf("unmarshal batch record: %v", err)
	}
	if batch.Kind != "batch" || batch.Index != 1 || batch.ChainLen != 3 {
		t.Fatalf("batch record = %+v", batch)
	}

	var llmi LLMIRecord
	if err := json.Unmarshal([]byte(lines[1]), &llmi); err != nil {
		t.Fatalf("unmarshal llmi record: %v", err)
	}
	if llmi.Kind != "llmi" || llmi.InstrID != 7 || !llmi.RevealFlag {
		t.Fatalf("llmi record = %+v", llmi)
	}
}

func TestFingerprintDeterministicAndSensitive(t *testing.T) {
	a := Fingerprint([]byte("hello"))
	b := Fingerprint([]byte("hello"))
	if a != b {
		t.Fatalf("fingerprint not deterministic: %d != %d", a, b)
	}
	c := Fingerprint([]byte("hellp"))
	if a == c {
		t.Fatalf("fingerprint did not change for different input")
	}
}
