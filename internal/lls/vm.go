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
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/serr"
)

// Execute runs a decrypted snippet over reg, a private register file owned
// by the caller (internal/se) for the duration of one Eval call. lbc and
// lbr are the container's variable-width immediate and register field
// widths; maxInstr is the per-snippet instruction-count cap s.
//
// A NOP still consumes one slot of the instruction budget but carries no
// destination or operands. Any other opcode reads a destination register,
// looks up its flag in the operand table, fetches each operand in order,
// and writes the evaluated result back to the destination. Execution ends
// cleanly only when the cursor lands exactly on the end of the snippet;
// landing past it mid-instruction is Truncated, and exceeding maxInstr is
// SnippetTooLong.
func Execute(reg []params.Word, snippet []byte, lbc, lbr, maxInstr int) error {
	cur := &cursor{buf: snippet}
	count := 0
	for !cur.atEnd() {
		count++
		if count > maxInstr {
			return serr.Newf(serr.SnippetTooLong, "snippet exceeds instruction cap %d", maxInstr)
		}

		lead, err := cur.byte()
		if err != nil {
			return err
		}
		op := Opcode(lead >> 4)
		flag := Flag(lead & 0x0f)

		if op == OpNOP {
			continue
		}

		dst, err := cur.regIndex(lbr)
		if err != nil {
			return err
		}
		if dst < 0 || dst >= len(reg) {
			return serr.Newf(serr.BadOpcode, "destination register %d out of range", dst)
		}

		kinds, ok := operandTable[flag]
		if !ok {
			return serr.Newf(serr.BadFlag, "unknown flag %d", flag)
		}

		var operands [3]params.Word
		for i, kind := range kinds {
			switch kind {
			case operandImm:
				v, err := cur.imm(lbc)
				if err != nil {
					return err
				}
				operands[i] = v
			case operandReg:
				idx, err := cur.regIndex(lbr)
				if err != nil {
					return err
				}
				if idx < 0 || idx >= len(reg) {
					return serr.Newf(serr.BadOpcode, "operand register %d out of range", idx)
				}
				operands[i] = reg[idx]
			}
		}

		result, arithTrap, ok := eval(op, operands[0], operands[1], operands[2])
		if !ok {
			return serr.Newf(serr.BadOpcode, "unknown opcode %d", op)
		}
		if arithTrap {
			return serr.New(serr.ArithTrap, "division or modulo by zero")
		}
		reg[dst] = result
	}
	return nil
}
