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

// Flag is the low nibble of an instruction byte: a closed enumeration of
// the 14 operand-kind patterns an instruction can use. Representing it
// as a Go enum backed by a table (rather than re-deriving arity/kinds
// inline at decode time) turns spec §4.5's table into a single source of
// truth, per spec §9's design note.
type Flag uint8

const (
	FlagINN Flag = 0  // imm
	FlagIRN Flag = 1  // imm, reg
	FlagIRR Flag = 2  // imm, reg, reg
	FlagIRI Flag = 3  // imm, reg, imm
	FlagIIN Flag = 4  // imm, imm
	FlagIIR Flag = 5  // imm, imm, reg
	FlagIII Flag = 6  // imm, imm, imm
	FlagRNN Flag = 7  // reg
	FlagRRN Flag = 8  // reg, reg
	FlagRRI Flag = 9  // reg, reg, imm
	FlagRRR Flag = 10 // reg, reg, reg
	FlagRII Flag = 11 // reg, imm, imm
	FlagRIR Flag = 12 // reg, imm, reg
	FlagRIN Flag = 13 // reg, imm
)

// operandKind distinguishes an immediate operand (read as a WordBytes
// constant) from a register operand (read as an lb_r-byte index, then
// dereferenced through the register file).
type operandKind uint8

const (
	operandImm operandKind = iota
	operandReg
)

// operandTable gives, for each flag, the ordered list of operand kinds an
// instruction using that flag carries. Its length is the operand count
// consumed from the instruction stream.
var operandTable = map[Flag][]operandKind{
	FlagINN: {operandImm},
	FlagIRN: {operandImm, operandReg},
	FlagIRR: {operandImm, operandReg, operandReg},
	FlagIRI: {operandImm, operandReg, operandImm},
	FlagIIN: {operandImm, operandImm},
	FlagIIR: {operandImm, operandImm, operandReg},
	FlagIII: {operandImm, operandImm, operandImm},
	FlagRNN: {operandReg},
	FlagRRN: {operandReg, operandReg},
	FlagRRI: {operandReg, operandReg, operandImm},
	FlagRRR: {operandReg, operandReg, operandReg},
	FlagRII: {operandReg, operandImm, operandImm},
	FlagRIR: {operandReg, operandImm, operandReg},
	FlagRIN: {operandReg, operandImm},
}
