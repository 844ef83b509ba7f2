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
	"fmt"
	"math"
)

// rEarthKm is the mean Earth radius [km].
const rEarthKm = 6371.0088

// HaversineKm returns the great-circle distance [km] between two points
// given in degrees latitude and longitude. The result is symmetric in its
// two endpoints and is always ≥ 0.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	dφ := φ2 - φ1
	dλ := (lon2 - lon1) * math.Pi / 180
	a := math.Pow(math.Sin(dφ/2), 2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Pow(math.Sin(dλ/2), 2)
	return 2 * rEarthKm * math.Asin(math.Sqrt(a))
}

// HaversineKmSlice is the elementwise version of HaversineKm. The four
// input slices must all have the same length.
func HaversineKmSlice(lat1, lon1, lat2, lon2 []float64) ([]float64, error) {
	if len(lon1) != len(lat1) || len(lat2) != len(lat1) || len(lon2) != len(lat1) {
		return nil, fmt.Errorf("psif: haversine: input lengths %d, %d, %d, and %d don't match",
			len(lat1), len(lon1), len(lat2), len(lon2))
	}
	o := make([]float64, len(lat1))
	for i := range lat1 {
		o[i] = HaversineKm(lat1[i], lon1[i], lat2[i], lon2[i])
	}
	return o, nil
}

// BearingDeg returns the initial bearing [degrees, in [0,360)] of the
// great-circle path from (lat1,lon1) to (lat2,lon2). It is not symmetric:
// in general the bearing from B to A is not the bearing from A to B plus
// 180°. The result when the two points coincide is implementation-defined.
func BearingDeg(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	dλ := (lon2 - lon1) * math.Pi / 180
	y := math.Sin(dλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(dλ)
	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}

// BearingDegSlice is the elementwise version of BearingDeg. The four
// input slices must all have the same length.
func BearingDegSlice(lat1, lon1, lat2, lon2 []float64) ([]float64, error) {
	if len(lon1) != len(lat1) || len(lat2) != len(lat1) || len(lon2) != len(lat1) {
		return nil, fmt.Errorf("psif: bearing: input lengths %d, %d, %d, and %d don't match",
			len(lat1), len(lon1), len(lat2), len(lon2))
	}
	o := make([]float64, len(lat1))
	for i := range lat1 {
		o[i] = BearingDeg(lat1[i], lon1[i], lat2[i], lon2[i])
	}
	return o, nil
}
