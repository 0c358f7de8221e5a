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

// Package se implements the Secure-Element protocol: deriving an
// execution identity and a re-sealed shared key from a bytecode header
// (Start), checking and re-emitting the input-commitment chain one batch
// at a time (Input), and decrypting, executing, and re-sealing one
// multi-instruction's snippet and words (Eval). Every AEAD call in this
// package is keyed and nonce-derived exactly as spec'd: nonces are always
// derived from a domain-separated hash, never drawn from an entropy
// source, so two calls with identical arguments always produce identical
// ciphertexts.
package se

import (
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/sekeys"
)

// Session is the per-invocation state SEstart hands back to the driver:
// the execution identity and the shared key re-sealed for hot-path AEAD
// use. Everything else the SE protocol needs (LLMI metadata, memory
// contents) is passed explicitly into Input/Eval rather than held here,
// keeping Session itself immutable for the life of one run.
type Session struct {
	keys *sekeys.Keys
	EID  [params.HashBytes]byte
	EK   []byte
}
