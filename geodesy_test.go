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
	"math"
	"testing"
)

const testTolerance = 1.e-4

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance {
		return true
	}
	return false
}

func TestHaversineKm(t *testing.T) {
	if d := HaversineKm(40, -100, 40, -100); d != 0 {
		t.Errorf("distance from a point to itself is %g; want 0", d)
	}

	// One degree of longitude along the equator is 1/360 of the
	// Earth's circumference.
	want := 2 * math.Pi * rEarthKm / 360
	if d := HaversineKm(0, 0, 0, 1); different(d, want, testTolerance) {
		t.Errorf("one degree along the equator is %g km; want %g", d, want)
	}

	d1 := HaversineKm(40, -100, 40.5, -100.5)
	d2 := HaversineKm(40.5, -100.5, 40, -100)
	if d1 != d2 {
		t.Errorf("distance is not symmetric: %g != %g", d1, d2)
	}
	if different(d1, 69.94, 1.e-3) {
		t.Errorf("distance is %g km; want 69.94", d1)
	}
}

func TestHaversineKmSlice(t *testing.T) {
	d, err := HaversineKmSlice(
		[]float64{0, 40}, []float64{0, -100},
		[]float64{0, 40.5}, []float64{1, -100.5})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{2 * math.Pi * rEarthKm / 360, 69.94}
	for i, v := range d {
		if different(v, want[i], 1.e-3) {
			t.Errorf("distance %d is %g km; want %g", i, v, want[i])
		}
	}

	if _, err := HaversineKmSlice([]float64{0}, []float64{0}, []float64{0, 1}, []float64{0}); err == nil {
		t.Error("mismatched input lengths should cause an error")
	}
}

func TestBearingDeg(t *testing.T) {
	tests := []struct {
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{0, 0, 1, 0, 0},    // due north
		{0, 0, 0, 1, 90},   // due east
		{0, 0, -1, 0, 180}, // due south
		{0, 0, 0, -1, 270}, // due west
		{40, -100, 40.5, -100.5, 322.64},
	}
	for _, test := range tests {
		b := BearingDeg(test.lat1, test.lon1, test.lat2, test.lon2)
		if b < 0 || b >= 360 {
			t.Errorf("bearing %g is outside [0,360)", b)
		}
		if absDifferent(b, test.want, 0.01) {
			t.Errorf("bearing from (%g,%g) to (%g,%g) is %g; want %g",
				test.lat1, test.lon1, test.lat2, test.lon2, b, test.want)
		}
	}
}

func TestBearingDegSlice(t *testing.T) {
	b, err := BearingDegSlice(
		[]float64{0, 0}, []float64{0, 0},
		[]float64{1, 0}, []float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 90}
	for i, v := range b {
		if absDifferent(v, want[i], 0.01) {
			t.Errorf("bearing %d is %g; want %g", i, v, want[i])
		}
	}

	if _, err := BearingDegSlice([]float64{0, 1}, []float64{0}, []float64{0}, []float64{0}); err == nil {
		t.Error("mismatched input lengths should cause an error")
	}
}
