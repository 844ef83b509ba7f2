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

package psif

import (
	"testing"
	"time"

	"github.com/ctessum/geom"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestPrepFires(t *testing.T) {
	a := &FireEvent{AcqDate: day(2020, 6, 3), FRP: 1}
	b := &FireEvent{AcqDate: day(2020, 6, 1), FRP: 2}
	c := &FireEvent{AcqDate: day(2020, 6, 3), FRP: 3}

	fires := PrepFires([]*FireEvent{a, b, c})
	if fires[0] != b || fires[1] != a || fires[2] != c {
		t.Error("fires are not sorted stably by acquisition date")
	}
	for i, f := range fires {
		if f.ID != i {
			t.Errorf("fire %d has ID %d", i, f.ID)
		}
	}
}

func TestFilterFiresByMonthDay(t *testing.T) {
	fires := []*FireEvent{
		{AcqDate: day(2020, 4, 30)},
		{AcqDate: day(2020, 5, 1)},
		{AcqDate: day(2020, 7, 15)},
		{AcqDate: day(2020, 9, 30)},
		{AcqDate: day(2020, 10, 1)},
		{AcqDate: day(2021, 5, 1)},
	}
	kept := FilterFiresByMonthDay(fires, "05-01", "10-01")
	if len(kept) != 4 {
		t.Fatalf("kept %d fires; want 4", len(kept))
	}
	for _, f := range kept {
		md := f.AcqDate.Format("01-02")
		if md < "05-01" || md >= "10-01" {
			t.Errorf("fire on %s should have been filtered out", md)
		}
	}
}

func TestBuildGEOID(t *testing.T) {
	if g := BuildGEOID("6", "37", "101", "2"); g != "060370001012" {
		t.Errorf("GEOID is %s; want 060370001012", g)
	}
	if g := BuildGEOID("48", "201", "554502", "1"); g != "482015545021" {
		t.Errorf("GEOID is %s; want 482015545021", g)
	}
}

func TestFormatTract(t *testing.T) {
	tests := []struct{ in, want string }{
		{"101.02", "010102"},
		{"101.5", "010150"},
		{"9801", "009801"},
		{"554502", "554502"},
		{"1.01", "000101"},
	}
	for _, test := range tests {
		if got := FormatTract(test.in); got != test.want {
			t.Errorf("FormatTract(%q) = %q; want %q", test.in, got, test.want)
		}
	}
}

func TestFireEventString(t *testing.T) {
	f := &FireEvent{ID: 3, Point: geom.Point{X: -100, Y: 40}, AcqDate: day(2020, 6, 1)}
	want := "fire 3 at (40, -100) on 2020-06-01"
	if s := f.String(); s != want {
		t.Errorf("String() = %q; want %q", s, want)
	}
}
