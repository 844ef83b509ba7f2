/*
Copyright © 2024 the PSIF authors.
This file is part of PSIF.

PSIF is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PSIF is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PSIF.  If not, see <http://www.gnu.org/licenses/>.
*/

package psifutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	if v := Cfg.GetString("CrosswalkTarget"); v != "zcta" {
		t.Errorf("CrosswalkTarget default is %q; want zcta", v)
	}
	if v := Cfg.GetFloat64("MaxDistanceKm"); v != 100 {
		t.Errorf("MaxDistanceKm default is %g; want 100", v)
	}
	if v := Cfg.GetString("WindowStart"); v != "01/01" {
		t.Errorf("WindowStart default is %q; want 01/01", v)
	}
}

func TestSetConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "config.toml")
	f, err := os.Create(fname)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(f, "MaxDistanceKm = 50.0\nSeasonStart = \"05-01\"\n")
	f.Close()

	Cfg.Set("config", fname)
	defer Cfg.Set("config", "")
	if err := setConfig(); err != nil {
		t.Fatal(err)
	}
	if v := Cfg.GetFloat64("MaxDistanceKm"); v != 50 {
		t.Errorf("MaxDistanceKm is %g; want 50", v)
	}
	if v := Cfg.GetString("SeasonStart"); v != "05-01" {
		t.Errorf("SeasonStart is %q; want 05-01", v)
	}
}

func TestGetStringSlice(t *testing.T) {
	Cfg.Set("Groups", "[060370001012, 482015545021]")
	defer Cfg.Set("Groups", "")
	got := GetStringSlice("Groups", Cfg)
	if len(got) != 2 || got[0] != "060370001012" || got[1] != "482015545021" {
		t.Errorf("got %v", got)
	}

	Cfg.Set("Groups", []string{"a", "b"})
	got = GetStringSlice("Groups", Cfg)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v", got)
	}
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "PSIF v") {
		t.Errorf("version output is %q", buf.String())
	}
}
