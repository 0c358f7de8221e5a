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

package lls

import (
	"testing"

	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/serr"
)

const (
	lbc = 4
	lbr = 1
)

func imm4(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func lead(op Opcode, fl Flag) byte { return byte(op)<<4 | byte(fl) }

func TestExecuteEmptySnippet(t *testing.T) {
	reg := make([]params.Word, 4)
	if err := Execute(reg, nil, lbc, lbr, 10); err != nil {
		t.Fatalf("empty snippet: %v", err)
	}
}

func TestExecuteNOP(t *testing.T) {
	reg := make([]params.Word, 4)
	snippet := []byte{lead(OpNOP, FlagINN)}
	if err := Execute(reg, snippet, lbc, lbr, 1); err != nil {
		t.Fatalf("nop: %v", err)
	}
}

func TestExecuteMOVImmToReg(t *testing.T) {
	reg := make([]params.Word, 4)
	snippet := append([]byte{lead(OpMOV, FlagINN), 2}, imm4(42)...)
	if err := Execute(reg, snippet, lbc, lbr, 10); err != nil {
		t.Fatalf("mov: %v", err)
	}
	if reg[2] != 42 {
		t.Fatalf("reg[2] = %d, want 42", reg[2])
	}
}

func TestExecuteOpcodes(t *testing.T) {
	cases := []struct {
		name string
		op   Opcode
		a, b params.Word
		want params.Word
	}{
		{"xor", OpXOR, 0xf0, 0x0f, 0xff},
		{"or", OpOR, 0xf0, 0x0f, 0xff},
		{"and", OpAND, 0xff, 0x0f, 0x0f},
		{"lsl", OpLSL, 1, 4, 16},
		{"lsr", OpLSR, 16, 4, 1},
		{"lt_true", OpLT, 1, 2, 1},
		{"lt_false", OpLT, 2, 1, 0},
		{"add", OpADD, 5, 7, 12},
		{"add_wrap", OpADD, 0xffffffff, 1, 0},
		{"sub", OpSUB, 10, 3, 7},
		{"mul", OpMUL, 6, 7, 42},
		{"eq_true", OpEQ, 9, 9, 1},
		{"eq_false", OpEQ, 9, 8, 0},
		{"div", OpDIV, 20, 4, 5},
		{"mod", OpMOD, 20, 6, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			reg := make([]params.Word, 4)
			snippet := append([]byte{lead(c.op, FlagIIN), 0}, imm4(uint32(c.a))...)
			snippet = append(snippet, imm4(uint32(c.b))...)
			if err := Execute(reg, snippet, lbc, lbr, 10); err != nil {
				t.Fatalf("%s: %v", c.name, err)
			}
			if reg[0] != c.want {
				t.Fatalf("%s: reg[0] = %d, want %d", c.name, reg[0], c.want)
			}
		})
	}
}

func TestExecuteShiftAmountCanonicalized(t *testing.T) {
	reg := make([]params.Word, 4)
	snippet := append([]byte{lead(OpLSL, FlagIIN), 0}, imm4(1)...)
	snippet = append(snippet, imm4(32)...)
	if err := Execute(reg, snippet, lbc, lbr, 10); err != nil {
		t.Fatalf("lsl: %v", err)
	}
	if reg[0] != 1 {
		t.Fatalf("reg[0] = %d, want 1 (shift amount masked mod word width)", reg[0])
	}
}

func TestExecuteCMOV(t *testing.T) {
	reg := []params.Word{0, 0, 11, 22}
	// CMOV dst, r1(cond), r2(true), r3(false) with flag RRR; the condition
	// is always the first operand, and the test flips its register value
	// to exercise both branches.
	snippet := []byte{lead(OpCMOV, FlagRRR), 0, 1, 2, 3}
	reg[1] = 1
	if err := Execute(reg, snippet, lbc, lbr, 10); err != nil {
		t.Fatalf("cmov true branch: %v", err)
	}
	if reg[0] != 11 {
		t.Fatalf("reg[0] = %d, want 11", reg[0])
	}

	reg[1] = 0
	reg[0] = 0
	if err := Execute(reg, snippet, lbc, lbr, 10); err != nil {
		t.Fatalf("cmov false branch: %v", err)
	}
	if reg[0] != 22 {
		t.Fatalf("reg[0] = %d, want 22", reg[0])
	}
}

func TestExecuteDivByZeroTraps(t *testing.T) {
	reg := make([]params.Word, 4)
	snippet := append([]byte{lead(OpDIV, FlagIIN), 0}, imm4(10)...)
	snippet = append(snippet, imm4(0)...)
	err := Execute(reg, snippet, lbc, lbr, 10)
	if !serr.Is(err, serr.ArithTrap) {
		t.Fatalf("div by zero: got %v, want ArithTrap", err)
	}
}

func TestExecuteModByZeroTraps(t *testing.T) {
	reg := make([]params.Word, 4)
	snippet := append([]byte{lead(OpMOD, FlagIIN), 0}, imm4(10)...)
	snippet = append(snippet, imm4(0)...)
	err := Execute(reg, snippet, lbc, lbr, 10)
	if !serr.Is(err, serr.ArithTrap) {
		t.Fatalf("mod by zero: got %v, want ArithTrap", err)
	}
}

func TestExecuteBadOpcode(t *testing.T) {
	reg := make([]params.Word, 4)
	snippet := []byte{lead(Opcode(12), FlagINN), 0, 0, 0, 0, 0}
	err := Execute(reg, snippet, lbc, lbr, 10)
	if !serr.Is(err, serr.BadOpcode) {
		t.Fatalf("gap opcode 12: got %v, want BadOpcode", err)
	}
}

func TestExecuteBadFlag(t *testing.T) {
	reg := make([]params.Word, 4)
	snippet := []byte{lead(OpMOV, Flag(14)), 0}
	err := Execute(reg, snippet, lbc, lbr, 10)
	if !serr.Is(err, serr.BadFlag) {
		t.Fatalf("out-of-range flag: got %v, want BadFlag", err)
	}
}

func TestExecuteTruncatedMidInstruction(t *testing.T) {
	reg := make([]params.Word, 4)
	// IRN expects an immediate and a register; only the leader and
	// destination register are present.
	snippet := []byte{lead(OpMOV, FlagIRN), 0}
	err := Execute(reg, snippet, lbc, lbr, 10)
	if !serr.Is(err, serr.Truncated) {
		t.Fatalf("truncated snippet: got %v, want Truncated", err)
	}
}

func TestExecuteSnippetTooLong(t *testing.T) {
	reg := make([]params.Word, 4)
	nop := lead(OpNOP, FlagINN)
	snippet := []byte{nop, nop, nop}
	err := Execute(reg, snippet, lbc, lbr, 2)
	if !serr.Is(err, serr.SnippetTooLong) {
		t.Fatalf("exceeding instruction cap: got %v, want SnippetTooLong", err)
	}
}

func TestExecuteAtExactInstructionCap(t *testing.T) {
	reg := make([]params.Word, 4)
	nop := lead(OpNOP, FlagINN)
	snippet := []byte{nop, nop}
	if err := Execute(reg, snippet, lbc, lbr, 2); err != nil {
		t.Fatalf("snippet at exact cap: %v", err)
	}
}
