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

import "math"

// NSectors is the number of compass sectors that wind directions
// are discretized into.
const NSectors = 8

// AssignWindToSectors maps a direction angle [degrees] to one of 8 compass
// sectors, each spanning 45°:
//
//	1: [337.5, 360) ∪ [0, 22.5]
//	2: (22.5, 67.5]
//	3: (67.5, 112.5]
//	4: (112.5, 157.5]
//	5: (157.5, 202.5]
//	6: (202.5, 247.5]
//	7: (247.5, 292.5]
//	8: (292.5, 337.5)
//
// Sector 1 is centered on 0° and wraps; the remaining bins are
// right-inclusive. Behavior for directions outside [0,360) is undefined;
// callers must normalize first.
func AssignWindToSectors(direction float64) int8 {
	if direction >= 337.5 || direction < 22.5 {
		return 1
	}
	return int8(math.Ceil((direction-22.5)/45)) + 1
}

// AssignWindToSectorsSlice is the elementwise version of
// AssignWindToSectors.
func AssignWindToSectorsSlice(directions []float64) []int8 {
	o := make([]int8, len(directions))
	for i, d := range directions {
		o[i] = AssignWindToSectors(d)
	}
	return o
}

// OppositeSector returns the sector antipodal to s. With 8 sectors of 45°
// each, the sector 180° away is 4 positions around the circle, so
// sectors 1–4 map to 5–8 and sectors 5–8 map to 1–4.
func OppositeSector(s int8) int8 {
	return (s+3)%8 + 1
}
