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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(path, []byte("l_out: 32\nr: 96\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	prof, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.LOut = 32
	want.R = 96
	if prof != want {
		t.Fatalf("got %+v, want %+v", prof, want)
	}
}

func TestLoadMissingFileReturnsDefaultAndError(t *testing.T) {
	prof, err := Load("/nonexistent/profile.yaml")
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if prof != Default() {
		t.Fatalf("expected Default() on error, got %+v", prof)
	}
}
