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

// Package hashchain computes the hash chain H_0..H_L that binds an
// execution to a specific sequence of input batches.
package hashchain

import (
	"github.com/seruntime/se-runtime/internal/codec"
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/primitives"
)

// Zero is H_0, the all-zeros chain origin.
var Zero [params.HashBytes]byte

// Next computes H_i = Hash(H_{i-1} || batch_tobytes(X_i)).
func Next(prev [params.HashBytes]byte, batch []params.Word) [params.HashBytes]byte {
	msg := make([]byte, 0, params.HashBytes+len(batch)*params.WordBytes)
	msg = append(msg, prev[:]...)
	msg = append(msg, codec.BatchToBytes(batch)...)
	return primitives.Hash(msg)
}

// Chain computes H_1..H_L for the given ordered batches, given H_0.
func Chain(batches [][]params.Word) []([params.HashBytes]byte) {
	h := make([][params.HashBytes]byte, len(batches)+1)
	h[0] = Zero
	for i, b := range batches {
		h[i+1] = Next(h[i], b)
	}
	return h
}
