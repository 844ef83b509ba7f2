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

	"github.com/ctessum/geom"
)

// durations returns SectorDurations with the given sector set to v and
// all other sectors zero.
func durations(sector int8, v float64) SectorDurations {
	var d SectorDurations
	d[sector-1] = v
	return d
}

func TestComputeExposure(t *testing.T) {
	fire := &FireEvent{
		Point:   geom.Point{X: -100, Y: 40},
		AcqDate: day(2020, 2, 1),
		FRP:     10,
	}
	receptor := &Receptor{GEOID: "a", Point: geom.Point{X: -100.5, Y: 40.5}}

	// The bearing from the fire to the receptor is ~322.6°, which falls
	// in sector 8; the antipodal sector is 4.
	fire.Durations = durations(8, 0.3)
	recDur := durations(8, 0.2)
	recDur[4-1] = 0.6

	pairs := FireReceptorPairs([]*FireEvent{fire}, []*Receptor{receptor}, DefaultMaxKm)
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs; want 1", len(pairs))
	}
	p := pairs[0]
	p.ReceptorDurations = recDur
	p.receptorWind = true

	index := ComputeExposure(pairs)

	if p.BearingSector != 8 {
		t.Errorf("bearing sector is %d; want 8", p.BearingSector)
	}
	if p.BearingSectorOpposite != 4 {
		t.Errorf("opposite sector is %d; want 4", p.BearingSectorOpposite)
	}
	if different(p.SectorProb, 0.3, testTolerance) {
		t.Errorf("fire-side probability is %g; want 0.3", p.SectorProb)
	}
	if different(p.SectorProbSameDirection, 0.2, testTolerance) {
		t.Errorf("receptor-side probability is %g; want 0.2", p.SectorProbSameDirection)
	}
	if different(p.SectorProbOppositeDirection, 0.6, testTolerance) {
		t.Errorf("antipodal probability is %g; want 0.6", p.SectorProbOppositeDirection)
	}
	// The antipodal probability is diagnostic only.
	if different(p.SectorProbTotal, 0.5, testTolerance) {
		t.Errorf("total probability is %g; want 0.5", p.SectorProbTotal)
	}

	if len(index) != 1 {
		t.Fatalf("got %d index records; want 1", len(index))
	}
	want := fire.FRP * 0.5 / (p.DistanceKm * p.DistanceKm)
	if different(index[0].PSIF, want, testTolerance) {
		t.Errorf("index is %g; want %g", index[0].PSIF, want)
	}
	if different(index[0].PSIF, 1.022e-3, 1.e-3) {
		t.Errorf("index is %g; want about 1.022e-3", index[0].PSIF)
	}
	if index[0].GEOID != "a" || !index[0].Date.Equal(day(2020, 2, 1)) {
		t.Errorf("index record is for (%v, %s); want (2020-02-01, a)", index[0].Date, index[0].GEOID)
	}
}

func TestComputeExposureClamp(t *testing.T) {
	fire := &FireEvent{
		Point:     geom.Point{X: -100, Y: 40},
		AcqDate:   day(2020, 2, 1),
		FRP:       10,
		Durations: durations(8, -0.4),
	}
	receptor := &Receptor{GEOID: "a", Point: geom.Point{X: -100.5, Y: 40.5}}

	pairs := FireReceptorPairs([]*FireEvent{fire}, []*Receptor{receptor}, DefaultMaxKm)
	pairs[0].ReceptorDurations = durations(8, -0.3)
	pairs[0].receptorWind = true

	index := ComputeExposure(pairs)
	if pairs[0].SectorProbTotal != 0 {
		t.Errorf("negative probability sum should clamp to 0; got %g", pairs[0].SectorProbTotal)
	}
	if len(index) != 1 || index[0].PSIF != 0 {
		t.Errorf("index should hold one zero record; got %+v", index)
	}
}

func TestComputeExposureMissingWind(t *testing.T) {
	// A fire with no wind statistics contributes nothing, but its
	// (date, receptor) key still appears in the output.
	fire := &FireEvent{
		Point:     geom.Point{X: -100, Y: 40},
		AcqDate:   day(2020, 2, 1),
		FRP:       10,
		Durations: nanDurations(),
	}
	receptor := &Receptor{GEOID: "a", Point: geom.Point{X: -100.5, Y: 40.5}}

	pairs := FireReceptorPairs([]*FireEvent{fire}, []*Receptor{receptor}, DefaultMaxKm)
	index := ComputeExposure(pairs)

	if !math.IsNaN(pairs[0].SectorProbOppositeDirection) {
		t.Error("pair without receptor wind should have NaN antipodal probability")
	}
	if len(index) != 1 {
		t.Fatalf("got %d index records; want 1", len(index))
	}
	if index[0].PSIF != 0 {
		t.Errorf("index is %g; want 0", index[0].PSIF)
	}
}

func TestComputeExposureZeroDistance(t *testing.T) {
	fire := &FireEvent{
		Point:     geom.Point{X: -100, Y: 40},
		AcqDate:   day(2020, 2, 1),
		FRP:       10,
		Durations: durations(1, 0.5),
	}
	receptor := &Receptor{GEOID: "a", Point: geom.Point{X: -100, Y: 40}}

	pairs := FireReceptorPairs([]*FireEvent{fire}, []*Receptor{receptor}, DefaultMaxKm)
	index := ComputeExposure(pairs)

	if !math.IsNaN(pairs[0].PSIFPart) {
		t.Errorf("zero-distance pair contribution is %g; want NaN", pairs[0].PSIFPart)
	}
	if len(index) != 1 || index[0].PSIF != 0 {
		t.Errorf("index should hold one zero record; got %+v", index)
	}
}

func TestComputeExposureAggregation(t *testing.T) {
	// Two fires on the same date near the same receptor sum into one
	// record; a third fire on a different date gets its own record, and
	// the output keeps first-appearance order.
	f1 := &FireEvent{Point: geom.Point{X: -100, Y: 40}, AcqDate: day(2020, 2, 2), FRP: 10, Durations: durations(8, 0.5)}
	f2 := &FireEvent{Point: geom.Point{X: -100.1, Y: 40.1}, AcqDate: day(2020, 2, 2), FRP: 20, Durations: durations(8, 0.5)}
	f3 := &FireEvent{Point: geom.Point{X: -100, Y: 40}, AcqDate: day(2020, 2, 1), FRP: 10, Durations: durations(8, 0.5)}
	receptor := &Receptor{GEOID: "a", Point: geom.Point{X: -100.5, Y: 40.5}}

	pairs := FireReceptorPairs([]*FireEvent{f1, f2, f3}, []*Receptor{receptor}, DefaultMaxKm)
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs; want 3", len(pairs))
	}
	index := ComputeExposure(pairs)
	if len(index) != 2 {
		t.Fatalf("got %d index records; want 2", len(index))
	}
	if !index[0].Date.Equal(day(2020, 2, 2)) || !index[1].Date.Equal(day(2020, 2, 1)) {
		t.Error("index records are not in first-appearance order")
	}
	var wantSum float64
	for _, p := range pairs[:2] {
		wantSum += p.Fire.FRP * p.SectorProbTotal / (p.DistanceKm * p.DistanceKm)
	}
	if different(index[0].PSIF, wantSum, testTolerance) {
		t.Errorf("summed index is %g; want %g", index[0].PSIF, wantSum)
	}
}
