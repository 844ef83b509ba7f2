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
	"time"
)

// ReceptorDayIndex is the aggregated exposure index ("PSIF") for one
// receptor on one day.
type ReceptorDayIndex struct {
	// Date is the fire acquisition date, truncated to the day.
	Date time.Time

	// GEOID identifies the receptor.
	GEOID string

	// PSIF is the summed exposure contribution of all fire-receptor pairs
	// for this date and receptor.
	PSIF float64
}

// ComputeExposure computes the directional, distance-attenuated exposure
// contribution of every pair and aggregates the contributions to one
// record per (acquisition date, receptor). For each pair it derives the
// compass sector of the fire→receptor bearing, looks up the dwell
// probability for that sector on the fire side and (when attached) the
// receptor side, sums the two probabilities with a clamp at zero, and
// scales by the fire radiative power over the squared distance.
//
// The receptor-side dwell probability in the antipodal sector is computed
// and stored on each pair but deliberately not subtracted from the total;
// the reference model keeps it as a diagnostic only.
//
// Pairs at zero distance are excluded from the aggregation with a logged
// diagnostic rather than divided. Pairs whose probabilities are absent
// (NaN) contribute nothing to their (date, receptor) sum, which still
// appears in the output.
func ComputeExposure(pairs []*FireReceptorPair) []ReceptorDayIndex {
	noReceptorWind := 0
	zeroDistance := 0

	type key struct {
		date  time.Time
		geoid string
	}
	sums := make(map[key]float64)
	var order []key

	for _, p := range pairs {
		bearing := BearingDeg(p.Fire.Point.Y, p.Fire.Point.X, p.Receptor.Point.Y, p.Receptor.Point.X)
		p.BearingSector = AssignWindToSectors(bearing)
		p.BearingSectorOpposite = OppositeSector(p.BearingSector)

		p.SectorProb = p.Fire.Durations.Duration(p.BearingSector)
		if p.receptorWind {
			p.SectorProbSameDirection = p.ReceptorDurations.Duration(p.BearingSector)
			p.SectorProbOppositeDirection = p.ReceptorDurations.Duration(p.BearingSectorOpposite)
		} else {
			noReceptorWind++
			p.SectorProbSameDirection = 0
			p.SectorProbOppositeDirection = math.NaN()
		}

		p.SectorProbTotal = math.Max(0, p.SectorProb+p.SectorProbSameDirection)

		t := p.Fire.AcqDate
		k := key{
			date:  time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()),
			geoid: p.Receptor.GEOID,
		}
		if _, ok := sums[k]; !ok {
			sums[k] = 0
			order = append(order, k)
		}

		if p.DistanceKm < 1e-9 {
			zeroDistance++
			p.PSIFPart = math.NaN()
			continue
		}
		p.PSIFPart = p.Fire.FRP * p.SectorProbTotal / (p.DistanceKm * p.DistanceKm)
		if !math.IsNaN(p.PSIFPart) {
			sums[k] += p.PSIFPart
		}
	}

	if noReceptorWind > 0 {
		log.Printf("psif: %d pairs have no receptor-side wind statistics; "+
			"their exposure uses the fire-side probability only", noReceptorWind)
	}
	if zeroDistance > 0 {
		log.Printf("psif: excluded %d zero-distance pairs from exposure aggregation", zeroDistance)
	}

	o := make([]ReceptorDayIndex, len(order))
	for i, k := range order {
		o[i] = ReceptorDayIndex{Date: k.date, GEOID: k.geoid, PSIF: sums[k]}
	}
	return o
}
