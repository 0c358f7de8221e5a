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

// Package lls implements the low-level snippet virtual machine: a small,
// variable-width instruction-set interpreter executed over a private
// register file once a snippet has been decrypted (see internal/se).
package lls

import "github.com/seruntime/se-runtime/internal/params"

// Opcode is the high nibble of an instruction byte.
type Opcode uint8

const (
	OpNOP  Opcode = 0
	OpMOV  Opcode = 1
	OpXOR  Opcode = 2
	OpOR   Opcode = 3
	OpAND  Opcode = 4
	OpLSL  Opcode = 5
	OpLSR  Opcode = 6
	OpLT   Opcode = 7
	OpADD  Opcode = 8
	OpSUB  Opcode = 9
	OpMUL  Opcode = 10
	OpEQ   Opcode = 11
	OpDIV  Opcode = 13
	OpMOD  Opcode = 14
	OpCMOV Opcode = 15
)

// eval applies the opcode to up to three fetched operands and returns the
// value to be written to the destination register. arith traps (division
// or modulo by zero) are reported via the bool return.
func eval(op Opcode, v1, v2, v3 params.Word) (result params.Word, arithTrap bool, ok bool) {
	switch op {
	case OpMOV:
		return v1, false, true
	case OpXOR:
		return v1 ^ v2, false, true
	case OpOR:
		return v1 | v2, false, true
	case OpAND:
		return v1 & v2, false, true
	case OpLSL:
		// Shift amounts are masked to the word width: a shift by
		// WordBits behaves as a shift by 0 (LSR likewise).
		return v1 << (v2 & (params.WordBits - 1)), false, true
	case OpLSR:
		return v1 >> (v2 & (params.WordBits - 1)), false, true
	case OpLT:
		if v1 < v2 {
			return 1, false, true
		}
		return 0, false, true
	case OpADD:
		return v1 + v2, false, true
	case OpSUB:
		return v1 - v2, false, true
	case OpMUL:
		return v1 * v2, false, true
	case OpEQ:
		if v1 == v2 {
			return 1, false, true
		}
		return 0, false, true
	case OpDIV:
		if v2 == 0 {
			return 0, true, true
		}
		return v1 / v2, false, true
	case OpMOD:
		if v2 == 0 {
			return 0, true, true
		}
		return v1 % v2, false, true
	case OpCMOV:
		if v1 != 0 {
			return v2, false, true
		}
		return v3, false, true
	default:
		return 0, false, false
	}
}
