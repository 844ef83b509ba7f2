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

// DefaultMaxKm is the default maximum fire-to-receptor distance.
const DefaultMaxKm = 100

// FireReceptorPair is a (fire event, receptor) combination retained
// because the geodesic distance between its endpoints is within the
// pairing threshold. The exposure-model fields are filled in by
// ComputeExposure.
type FireReceptorPair struct {
	Fire     *FireEvent
	Receptor *Receptor

	// DistanceKm is the great-circle distance between the endpoints [km].
	DistanceKm float64

	// ReceptorDurations holds the dwell-duration statistics at the
	// receptor's location on the fire's acquisition date, filled in by
	// WindProfile.AttachWindToPairs.
	ReceptorDurations SectorDurations
	receptorWind      bool

	// BearingSector is the compass sector of the fire→receptor bearing,
	// and BearingSectorOpposite its antipodal sector.
	BearingSector         int8
	BearingSectorOpposite int8

	// SectorProb is the probability that wind at the fire's location blew
	// toward the receptor: the fire-side dwell duration in BearingSector.
	SectorProb float64

	// SectorProbSameDirection is the receptor-side dwell duration in
	// BearingSector: the probability that wind at the receptor blew in the
	// same direction as the fire→receptor bearing.
	SectorProbSameDirection float64

	// SectorProbOppositeDirection is the receptor-side dwell duration in
	// BearingSectorOpposite. It is carried for parity with the reference
	// model but intentionally left out of SectorProbTotal.
	SectorProbOppositeDirection float64

	// SectorProbTotal is max(0, SectorProb+SectorProbSameDirection).
	SectorProbTotal float64

	// PSIFPart is the pair's exposure contribution,
	// FRP·SectorProbTotal/DistanceKm².
	PSIFPart float64
}

// FireReceptorPairs pairs fire events (origins) with receptors
// (destinations) within a maximum distance. It computes the full cross
// product of the two sets and keeps the pairs whose great-circle distance
// is at most maxKm, attaching the distance to each surviving pair.
// The cross join is quadratic, which is acceptable for the small to
// moderate event and receptor counts this model runs at.
func FireReceptorPairs(fires []*FireEvent, receptors []*Receptor, maxKm float64) []*FireReceptorPair {
	var pairs []*FireReceptorPair
	for _, f := range fires {
		for _, r := range receptors {
			d := HaversineKm(f.Point.Y, f.Point.X, r.Point.Y, r.Point.X)
			if d <= maxKm {
				pairs = append(pairs, &FireReceptorPair{
					Fire:       f,
					Receptor:   r,
					DistanceKm: d,
				})
			}
		}
	}
	return pairs
}
