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
	"github.com/seruntime/se-runtime/internal/codec"
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/serr"
)

// cursor walks a decrypted snippet's byte stream. Unlike the reference
// interpreter, which tracks a mutable file-global pointer, the cursor is
// an explicit value threaded through every fetch, making the VM
// reentrant: two goroutines could execute two snippets over two cursors
// with no shared state (spec §9's design note on VM reentrancy).
type cursor struct {
	buf []byte
	pc  int
}

func (c *cursor) atEnd() bool { return c.pc == len(c.buf) }

// byte reads the next instruction-leading byte (opcode<<4 | flag).
func (c *cursor) byte() (b byte, err error) {
	if c.pc >= len(c.buf) {
		return 0, serr.New(serr.Truncated, "snippet ended mid-instruction")
	}
	b = c.buf[c.pc]
	c.pc++
	return b, nil
}

// regIndex reads an lb_r-byte register index.
func (c *cursor) regIndex(lbr int) (int, error) {
	if c.pc+lbr > len(c.buf) {
		return 0, serr.New(serr.Truncated, "snippet ended reading register index")
	}
	v, err := codec.Decode[uint32](c.buf[c.pc:], lbr)
	if err != nil {
		return 0, serr.Wrap(serr.Truncated, "decode register index", err)
	}
	c.pc += lbr
	return int(v), nil
}

// imm reads an lb_c-byte immediate word.
func (c *cursor) imm(lbc int) (params.Word, error) {
	if c.pc+lbc > len(c.buf) {
		return 0, serr.New(serr.Truncated, "snippet ended reading immediate")
	}
	v, err := codec.Decode[uint32](c.buf[c.pc:], lbc)
	if err != nil {
		return 0, serr.Wrap(serr.Truncated, "decode immediate", err)
	}
	c.pc += lbc
	return params.Word(v), nil
}
