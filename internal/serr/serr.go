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

// Package serr defines the fatal error taxonomy shared by every layer of
// the SE runtime. Every fatal condition the protocol can raise is tagged
// with a Kind so that a caller (typically cmd/serun) can report a single
// diagnostic line and a stable exit reason without string-matching errors.
package serr

import "fmt"

// Kind identifies one of the fatal error conditions from the SE protocol.
type Kind string

const (
	Codec                Kind = "CODEC"
	HeaderMismatch        Kind = "BYTECODE_HEADER_MISMATCH"
	Trailing              Kind = "BYTECODE_TRAILING"
	SealOpenFail          Kind = "SEAL_OPEN_FAIL"
	SealFail              Kind = "SEAL_FAIL"
	ProtocolFail          Kind = "PROTOCOL_FAIL"
	LLSFail               Kind = "LLS_FAIL"
	WordDecFail           Kind = "WORD_DEC_FAIL"
	SnippetTooLong        Kind = "SNIPPET_TOO_LONG"
	BadOpcode             Kind = "BAD_OPCODE"
	BadFlag               Kind = "BAD_FLAG"
	Truncated             Kind = "TRUNCATED"
	ArithTrap             Kind = "ARITH_TRAP"
)

// Error is the concrete error type returned by every fatal condition in
// this module. It carries a Kind for programmatic dispatch and wraps the
// underlying cause, if any, for %w-style unwrapping.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
