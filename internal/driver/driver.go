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

// Package driver orchestrates one end-to-end bytecode evaluation: parse
// the container, derive the execution identity and shared key, feed
// input batches through the commitment chain, evaluate every
// multi-instruction in order, and decode the program's revealed outputs.
package driver

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/seruntime/se-runtime/internal/container"
	"github.com/seruntime/se-runtime/internal/eword"
	"github.com/seruntime/se-runtime/internal/hashchain"
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/se"
	"github.com/seruntime/se-runtime/internal/sekeys"
	"github.com/seruntime/se-runtime/internal/serr"
	"github.com/seruntime/se-runtime/internal/trace"
)

// Shape pins the compile-time LLMI-shape parameters this run is checked
// against (set either from internal/params defaults or a loaded
// config.DeviceProfile).
type Shape struct {
	WordBits int
	LIn      int
	LOut     int
	R        int
	S        int
}

// Options configures one Run call.
type Options struct {
	Shape  Shape
	Logger *log.Logger
	Trace  *trace.Writer
}

// Run executes steps 1-10 of the driver's evaluation procedure against a
// raw bytecode container and a list of program inputs, returning the
// decoded program outputs in order.
func Run(bytecode []byte, inputs []params.Word, opts Options) ([]params.Word, error) {
	reqID := uuid.New().String()
	logf := func(format string, args ...any) {
		if opts.Logger != nil {
			opts.Logger.Printf("req=%s "+format, append([]any{reqID}, args...)...)
		}
	}

	c, err := container.Parse(bytecode)
	if err != nil {
		return nil, err
	}
	if int(c.Meta.WordSize) != opts.Shape.WordBits ||
		int(c.Meta.LIn) != opts.Shape.LIn ||
		int(c.Meta.LOut) != opts.Shape.LOut ||
		int(c.Meta.R) != opts.Shape.R ||
		int(c.Meta.S) != opts.Shape.S {
		return nil, serr.Newf(serr.HeaderMismatch,
			"bytecode shape {word_bits=%d l_in=%d l_out=%d r=%d s=%d} does not match runtime shape %+v",
			c.Meta.WordSize, c.Meta.LIn, c.Meta.LOut, c.Meta.R, c.Meta.S, opts.Shape)
	}
	logf("parsed container: memory_count=%d llmi_count=%d", c.Meta.MemoryCount, len(c.LLMIs))

	progN, err := container.ProgramInputCount(c)
	if err != nil {
		return nil, err
	}
	if int(progN) != len(c.InputMemIdx) {
		return nil, serr.Newf(serr.ProtocolFail, "program-n %d does not match header input count %d", progN, len(c.InputMemIdx))
	}
	if len(inputs) != len(c.InputMemIdx) {
		return nil, serr.Newf(serr.ProtocolFail, "got %d inputs, program expects %d", len(inputs), len(c.InputMemIdx))
	}

	lOut := opts.Shape.LOut
	batches := buildBatches(inputs, lOut)
	chain := hashchain.Chain(batches)
	hL := chain[len(chain)-1]
	logf("built %d input batch(es)", len(batches))

	keys := sekeys.Build()
	sess, cinL, l, err := se.Start(keys, c.SealedHeader, c.Widths.LbM, hL, lOut)
	if err != nil {
		return nil, err
	}
	if int(l) != len(batches) {
		return nil, serr.Newf(serr.ProtocolFail, "SEstart computed L=%d, driver built %d batches", l, len(batches))
	}
	logf("SEstart ok: L=%d", l)

	memory := make([]eword.Word, c.Meta.MemoryCount)

	cin := cinL
	for i := len(batches); i >= 1; i-- {
		start := time.Now()
		hPrev := hashchain.Zero
		if i > 1 {
			hPrev = chain[i-2]
		}
		cinPrev, words, _, err := sess.Input(uint32(i), hPrev, batches[i-1], cin)
		if err != nil {
			return nil, err
		}
		scatterBatch(memory, c.InputMemIdx, i, lOut, words)
		if opts.Trace != nil {
			_ = opts.Trace.WriteBatch(trace.BatchRecord{
				Index:     uint32(i),
				ChainLen:  l,
				ElapsedNS: time.Since(start).Nanoseconds(),
			})
		}
		cin = cinPrev
	}
	logf("scattered %d input word(s) into memory", progN)

	for _, llmi := range c.LLMIs {
		start := time.Now()
		in := make([]eword.Word, len(llmi.InputMemIdx))
		for j, idx := range llmi.InputMemIdx {
			in[j] = memory[idx]
		}
		out, err := sess.Eval(llmi, in, opts.Shape.R, c.Widths.LbM, c.Widths.LbR, c.Widths.LbO, opts.Shape.LOut, opts.Shape.S)
		if err != nil {
			return nil, err
		}
		for j, idx := range llmi.OutputMemIdx {
			memory[idx] = out[j]
		}
		if opts.Trace != nil {
			_ = opts.Trace.WriteLLMI(trace.LLMIRecord{
				InstrID:     llmi.InstrID,
				RevealFlag:  llmi.RevealFlag != 0,
				ByteLen:     len(llmi.Ciphertext),
				Fingerprint: trace.Fingerprint(llmi.Ciphertext),
				ElapsedNS:   time.Since(start).Nanoseconds(),
			})
		}
	}
	logf("evaluated %d LLMI(s)", len(c.LLMIs))

	outputs := make([]params.Word, len(c.OutputMemIdx))
	for i, idx := range c.OutputMemIdx {
		w := memory[idx]
		if !w.IsRevealed() {
			return nil, serr.Newf(serr.ProtocolFail, "program output memory slot %d was never revealed", idx)
		}
		outputs[i] = w.RevealedValue()
	}
	return outputs, nil
}

// buildBatches splits inputs into ceil(n/lOut) batches of lOut words each,
// zero-padding the final batch.
func buildBatches(inputs []params.Word, lOut int) [][]params.Word {
	if len(inputs) == 0 {
		return nil
	}
	n := len(inputs)
	l := (n + lOut - 1) / lOut
	batches := make([][]params.Word, l)
	for i := 0; i < l; i++ {
		b := make([]params.Word, lOut)
		for j := 0; j < lOut; j++ {
			k := i*lOut + j
			if k < n {
				b[j] = inputs[k]
			}
		}
		batches[i] = b
	}
	return batches
}

// scatterBatch writes batch i's words into memory at the program's input
// memory indices, for only the positions that correspond to a real
// (non-padding) program input.
func scatterBatch(memory []eword.Word, inputMemIdx []uint32, i, lOut int, words []eword.Word) {
	base := (i - 1) * lOut
	for j, w := range words {
		k := base + j
		if k >= len(inputMemIdx) {
			continue
		}
		memory[inputMemIdx[k]] = w
	}
}

// ShapeFromParams returns the Shape implied by this build's compile-time
// defaults.
func ShapeFromParams() Shape {
	return Shape{
		WordBits: params.WordBits,
		LIn:      params.DefaultLIn,
		LOut:     params.DefaultLOut,
		R:        params.DefaultRegisterCount,
		S:        params.DefaultLLSMaxLength,
	}
}
