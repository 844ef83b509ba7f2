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
)

func TestMovingAverageConstant(t *testing.T) {
	var recs []ReceptorDayIndex
	for d := 1; d <= 10; d++ {
		recs = append(recs, ReceptorDayIndex{Date: day(2020, 2, d), GEOID: "a", PSIF: 1})
	}

	out, err := MovingAverage(recs, "02/01", "02/10", nil)
	if err != nil {
		t.Fatal(err)
	}

	// The first 4 window days are dropped, leaving 02-05 through 02-10.
	if len(out) != 6 {
		t.Fatalf("got %d records; want 6", len(out))
	}
	if !out[0].Date.Equal(day(2020, 2, 5)) {
		t.Errorf("first record is on %v; want 2020-02-05", out[0].Date)
	}
	for _, r := range out {
		if different(r.PSIF, 1, testTolerance) || different(r.MovingAvg, 1, testTolerance) ||
			different(r.Total, 2, testTolerance) {
			t.Errorf("record %v: PSIF %g, moving average %g, total %g; want 1, 1, 2",
				r.Date, r.PSIF, r.MovingAvg, r.Total)
		}
	}
}

func TestMovingAverageSparse(t *testing.T) {
	recs := []ReceptorDayIndex{{Date: day(2020, 2, 6), GEOID: "a", PSIF: 3}}

	out, err := MovingAverage(recs, "02/01", "02/10", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 6 {
		t.Fatalf("got %d records; want 6", len(out))
	}

	want := []struct {
		d        int
		psif, ma float64
	}{
		{5, 0, 0},
		{6, 3, 0},
		{7, 0, 1}, // mean of (0, 0, 3)
		{8, 0, 1}, // mean of (0, 3, 0)
		{9, 0, 1}, // mean of (3, 0, 0)
		{10, 0, 0},
	}
	for i, w := range want {
		r := out[i]
		if !r.Date.Equal(day(2020, 2, w.d)) {
			t.Errorf("record %d is on %v; want 2020-02-%02d", i, r.Date, w.d)
		}
		if absDifferent(r.PSIF, w.psif, 1.e-12) || absDifferent(r.MovingAvg, w.ma, 1.e-12) {
			t.Errorf("2020-02-%02d: PSIF %g, moving average %g; want %g, %g",
				w.d, r.PSIF, r.MovingAvg, w.psif, w.ma)
		}
		if absDifferent(r.Total, w.psif+w.ma, 1.e-12) {
			t.Errorf("2020-02-%02d: total %g; want %g", w.d, r.Total, w.psif+w.ma)
		}
	}
}

func TestMovingAverageGroups(t *testing.T) {
	recs := []ReceptorDayIndex{{Date: day(2020, 2, 6), GEOID: "a", PSIF: 3}}

	out, err := MovingAverage(recs, "02/01", "02/10", []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	// Receptor b has no records but still gets an all-zero series.
	if len(out) != 12 {
		t.Fatalf("got %d records; want 12", len(out))
	}
	for _, r := range out[6:] {
		if r.GEOID != "b" {
			t.Fatalf("records are not sorted by receptor: got %s after a", r.GEOID)
		}
		if r.PSIF != 0 || r.MovingAvg != 0 || r.Total != 0 {
			t.Errorf("receptor b on %v should be all zero; got %+v", r.Date, r)
		}
	}
}

func TestMovingAverageYears(t *testing.T) {
	// Years are smoothed independently: a record at the end of one
	// year's window must not leak into the next year's lead-in.
	recs := []ReceptorDayIndex{
		{Date: day(2020, 2, 10), GEOID: "a", PSIF: 8},
		{Date: day(2021, 2, 6), GEOID: "a", PSIF: 2},
	}
	out, err := MovingAverage(recs, "02/01", "02/10", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 12 {
		t.Fatalf("got %d records; want 12", len(out))
	}
	for _, r := range out {
		if r.Date.Year() == 2021 && r.Date.Equal(day(2021, 2, 5)) && r.MovingAvg != 0 {
			t.Errorf("2021 lead-in average is %g; want 0", r.MovingAvg)
		}
	}
	// Sorted by (receptor, date) across years.
	for i := 1; i < len(out); i++ {
		if out[i].Date.Before(out[i-1].Date) && out[i].GEOID == out[i-1].GEOID {
			t.Fatal("records are not sorted by date within a receptor")
		}
	}
}

func TestMovingAverageBadWindow(t *testing.T) {
	recs := []ReceptorDayIndex{{Date: day(2020, 2, 6), GEOID: "a", PSIF: 3}}
	for _, md := range []string{"2/6/2020", "13/01", "02-06", ""} {
		if _, err := MovingAverage(recs, md, "02/10", nil); err == nil {
			t.Errorf("window start %q should cause an error", md)
		}
	}
}

func TestParseMonthDay(t *testing.T) {
	m, d, err := parseMonthDay("05/01")
	if err != nil {
		t.Fatal(err)
	}
	if m != 5 || d != 1 {
		t.Errorf("got month %d day %d; want 5 1", m, d)
	}
}

func TestUniqueYears(t *testing.T) {
	recs := []ReceptorDayIndex{
		{Date: day(2021, 2, 6)},
		{Date: day(2020, 2, 6)},
		{Date: day(2021, 3, 1)},
	}
	years := uniqueYears(recs)
	if len(years) != 2 || years[0] != 2020 || years[1] != 2021 {
		t.Errorf("got years %v; want [2020 2021]", years)
	}
}
