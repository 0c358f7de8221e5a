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

// Command serun evaluates a sealed bytecode file against a list of
// plaintext program inputs and prints the program's revealed outputs,
// one decimal value per line.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/seruntime/se-runtime/internal/config"
	"github.com/seruntime/se-runtime/internal/driver"
	"github.com/seruntime/se-runtime/internal/params"
	"github.com/seruntime/se-runtime/internal/primitives"
	"github.com/seruntime/se-runtime/internal/serr"
	"github.com/seruntime/se-runtime/internal/trace"
)

var (
	dashInputs   string
	dashOutCount int
	dashProfile  string
	dashTrace    string
	dashVerbose  bool
)

func init() {
	flag.CommandLine.Usage = printHelp
	flag.StringVar(&dashInputs, "inputs", "", "comma-separated list of decimal program inputs")
	flag.IntVar(&dashOutCount, "out_count", 0, "expected number of revealed program outputs (0 = no check)")
	flag.StringVar(&dashProfile, "profile", "", "YAML device profile overriding the compile-time LLMI shape")
	flag.StringVar(&dashTrace, "trace", "", "write a zstd-compressed execution trace to this file")
	flag.BoolVar(&dashVerbose, "v", false, "log every driver step to stderr")
}

func printHelp() {
	fmt.Fprintln(os.Stderr, "usage: serun BYTECODE_FILE --inputs INT1,INT2,...[,INTn] [--out_count N] [--profile FILE.yaml] [--trace FILE.zst]")
	flag.PrintDefaults()
}

func exitf(kind serr.Kind, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", kind, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func exit(err error) {
	if e, ok := err.(*serr.Error); ok {
		fmt.Fprintln(os.Stderr, e.Error())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

func parseInputs(s string) ([]params.Word, error) {
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	out := make([]params.Word, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid --inputs value %q: %w", f, err)
		}
		out[i] = params.Word(v)
	}
	return out, nil
}

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		flag.CommandLine.Usage()
		os.Exit(1)
	}
	bytecodePath := args[0]

	inputs, err := parseInputs(dashInputs)
	if err != nil {
		exitf(serr.ProtocolFail, "%s", err)
	}

	bytecode, err := os.ReadFile(bytecodePath)
	if err != nil {
		exitf(serr.ProtocolFail, "reading %s: %s", bytecodePath, err)
	}

	profile := config.Default()
	if dashProfile != "" {
		profile, err = config.Load(dashProfile)
		if err != nil {
			exitf(serr.ProtocolFail, "loading profile %s: %s", dashProfile, err)
		}
	}

	opts := driver.Options{
		Shape: driver.Shape{
			WordBits: profile.WordBits,
			LIn:      profile.LIn,
			LOut:     profile.LOut,
			R:        profile.R,
			S:        profile.S,
		},
	}
	if dashVerbose {
		logger := log.New(os.Stderr, "serun: ", log.LstdFlags)
		logger.Printf("backend=%s shape={word_bits=%d l_in=%d l_out=%d r=%d s=%d}",
			primitives.BackendTag(), profile.WordBits, profile.LIn, profile.LOut, profile.R, profile.S)
		opts.Logger = logger
	}

	if dashTrace != "" {
		f, err := os.Create(dashTrace)
		if err != nil {
			exitf(serr.ProtocolFail, "creating trace file %s: %s", dashTrace, err)
		}
		defer f.Close()
		w, err := trace.NewWriter(f)
		if err != nil {
			exitf(serr.ProtocolFail, "starting trace writer: %s", err)
		}
		defer w.Close()
		opts.Trace = w
	}

	outputs, err := driver.Run(bytecode, inputs, opts)
	if err != nil {
		exit(err)
	}
	if dashOutCount != 0 && len(outputs) != dashOutCount {
		exitf(serr.ProtocolFail, "program produced %d output(s), caller expected %d", len(outputs), dashOutCount)
	}
	for _, v := range outputs {
		fmt.Println(v)
	}
}
