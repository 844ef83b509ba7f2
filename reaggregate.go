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
	"log"
	"math"
	"sort"
	"time"
)

// CrosswalkWeight maps a source areal unit to a target areal unit with a
// fractional area-overlap weight. Weights for a given source unit need
// not sum to 1 across all targets when coverage is partial.
type CrosswalkWeight struct {
	// GEOID identifies the source unit (the receptor identifier).
	GEOID string

	// Target identifies the target areal unit (e.g. a ZCTA).
	Target string

	// Weight is the fraction of the source unit's area overlapping the
	// target, in [0,1]. NaN marks a weight that could not be parsed;
	// such entries are excluded from the weighted sum rather than
	// treated as zero.
	Weight float64
}

// UnitDayIndex is the reaggregated exposure index for one target areal
// unit on one day.
type UnitDayIndex struct {
	Unit string
	Date time.Time
	PSIF float64
}

// Reaggregate redistributes the receptor-level index onto a different
// areal unit using fractional area weights. Each smoothed record's Total
// is multiplied by the weight of every crosswalk entry for its receptor,
// and the weighted values are summed by (target unit, date). Receptors
// with no crosswalk entry contribute nothing; their count is logged as a
// diagnostic, never treated as fatal. Output is sorted by (unit, date).
func Reaggregate(recs []SmoothedRecord, xwalk []CrosswalkWeight) []UnitDayIndex {
	targets := make(map[string][]CrosswalkWeight)
	for _, w := range xwalk {
		targets[w.GEOID] = append(targets[w.GEOID], w)
	}

	type key struct {
		unit string
		date time.Time
	}
	sums := make(map[key]float64)
	unmatched := 0
	badWeights := 0

	for _, r := range recs {
		ws, ok := targets[r.GEOID]
		if !ok {
			unmatched++
			continue
		}
		for _, w := range ws {
			if math.IsNaN(w.Weight) {
				badWeights++
				continue
			}
			sums[key{w.Target, r.Date}] += r.Total * w.Weight
		}
	}

	if unmatched > 0 {
		log.Printf("psif: %d receptor-day records had no crosswalk entry and were excluded from reaggregation", unmatched)
	}
	if badWeights > 0 {
		log.Printf("psif: %d crosswalk applications skipped because of non-numeric weights", badWeights)
	}

	o := make([]UnitDayIndex, 0, len(sums))
	for k, v := range sums {
		o = append(o, UnitDayIndex{Unit: k.unit, Date: k.date, PSIF: v})
	}
	sort.Slice(o, func(i, j int) bool {
		if o[i].Unit != o[j].Unit {
			return o[i].Unit < o[j].Unit
		}
		return o[i].Date.Before(o[j].Date)
	})
	return o
}
