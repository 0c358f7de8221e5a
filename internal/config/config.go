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

// Package config loads an optional device profile that overrides the
// build's compile-time LLMI-shape defaults (register count, snippet
// length cap, and so on) for test and demo runs, without touching the
// fixed primitive widths chosen in internal/params.
package config

import (
	"os"

	"sigs.k8s.io/yaml"

	"github.com/seruntime/se-runtime/internal/params"
)

// DeviceProfile mirrors the reference's compile-time SE_TINY/SE_SMALL/...
// presets as a runtime-loadable document.
type DeviceProfile struct {
	WordBits int `json:"word_bits"`
	LIn      int `json:"l_in"`
	LOut     int `json:"l_out"`
	R        int `json:"r"`
	S        int `json:"s"`
}

// Default returns this build's compile-time profile.
func Default() DeviceProfile {
	return DeviceProfile{
		WordBits: params.WordBits,
		LIn:      params.DefaultLIn,
		LOut:     params.DefaultLOut,
		R:        params.DefaultRegisterCount,
		S:        params.DefaultLLSMaxLength,
	}
}

// Load reads a DeviceProfile from a YAML (or JSON, since YAML is a JSON
// superset) file. Fields absent from the file keep their Default value.
func Load(path string) (DeviceProfile, error) {
	prof := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return prof, err
	}
	if err := yaml.Unmarshal(raw, &prof); err != nil {
		return prof, err
	}
	return prof, nil
}
