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
	"io"
	"log"
	"math"
	"time"

	"github.com/ctessum/sparse"
)

// hoursPerDay is the number of samples in a complete day of hourly data.
// Dwell durations are normalized against it, so a day with fewer valid
// samples yields durations summing to less than one.
const hoursPerDay = 24

// NextData is a type of function that returns gridded data for the next
// time step. If there are no more time steps, it should return the io.EOF
// error.
type NextData func() (*sparse.DenseArray, error)

// WindSource supplies a time-ordered grid of wind vector components.
// U and V return one 2-D (lat, lon) array per time step, with NaN marking
// cells that have no valid sample at that step.
type WindSource interface {
	// Nx is the number of grid cells in the West-East direction.
	Nx() (int, error)
	// Ny is the number of grid cells in the South-North direction.
	Ny() (int, error)
	// Lats returns the cell center latitudes [degrees].
	Lats() ([]float64, error)
	// Lons returns the cell center longitudes [degrees].
	Lons() ([]float64, error)
	// Times returns the timestamps of the records returned by successive
	// calls to the U and V iterators.
	Times() ([]time.Time, error)
	// U is the eastward wind component [m/s].
	U() NextData
	// V is the northward wind component [m/s].
	V() NextData
}

// SectorDurations holds the normalized dwell durations for the 8 compass
// sectors at one location on one day: the fraction of the day (0–1) that
// the wind blew from each sector. NaN marks a sector with no information.
type SectorDurations [NSectors]float64

// Duration returns the dwell duration for the given sector (1–8).
func (d SectorDurations) Duration(sector int8) float64 {
	if sector < 1 || sector > NSectors {
		panic(fmt.Errorf("psif: sector %d out of range", sector))
	}
	return d[sector-1]
}

func nanDurations() SectorDurations {
	var d SectorDurations
	for i := range d {
		d[i] = math.NaN()
	}
	return d
}

// SectorSample holds the per-sector daily wind statistics copied from one
// wind-profile grid node.
type SectorSample struct {
	Durations SectorDurations
	// AvgSpeed is the mean wind speed [m/s] among the samples in each
	// sector, or NaN for a sector with no samples.
	AvgSpeed [NSectors]float64
}

// WindProfile holds daily directional wind statistics on a regular
// latitude-longitude grid: for each day and each of the 8 compass sectors,
// the mean speed of and the normalized dwell duration in that sector.
// It is immutable once built.
type WindProfile struct {
	// Lats and Lons are the grid cell center coordinates [degrees].
	Lats, Lons []float64

	// Days holds the representative date of each day of data: the first
	// timestamp that fell within the day.
	Days []time.Time

	// AvgSpeed and Duration hold one array per day, each with shape
	// [NSectors, len(Lats), len(Lons)].
	AvgSpeed []*sparse.DenseArray
	Duration []*sparse.DenseArray
}

// BuildDailyProfiles derives wind speed, direction, and compass sector for
// every grid cell and time step supplied by src, then aggregates the
// results to one record per grid cell per day: for each sector, the mean
// speed over the samples in that sector (NaN if there were none) and the
// dwell duration normalized by 24 hours. A cell with no valid sample at
// all during a day gets NaN durations rather than zeros.
func BuildDailyProfiles(src WindSource) (*WindProfile, error) {
	ny, err := src.Ny()
	if err != nil {
		return nil, err
	}
	nx, err := src.Nx()
	if err != nil {
		return nil, err
	}
	lats, err := src.Lats()
	if err != nil {
		return nil, err
	}
	lons, err := src.Lons()
	if err != nil {
		return nil, err
	}
	if len(lats) != ny || len(lons) != nx {
		return nil, fmt.Errorf("psif: wind grid is %d×%d but has %d latitudes and %d longitudes",
			ny, nx, len(lats), len(lons))
	}
	times, err := src.Times()
	if err != nil {
		return nil, err
	}

	p := &WindProfile{Lats: lats, Lons: lons}

	var speedSum, count *sparse.DenseArray // accumulated over one day
	var valid *sparse.DenseArray           // valid samples per cell over one day
	var curDay, dayStamp time.Time

	flush := func() {
		if speedSum == nil {
			return
		}
		avgSpeed := sparse.ZerosDense(NSectors, ny, nx)
		duration := sparse.ZerosDense(NSectors, ny, nx)
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				cellValid := valid.Get(j, i) > 0
				for s := 0; s < NSectors; s++ {
					n := count.Get(s, j, i)
					if !cellValid {
						avgSpeed.Set(math.NaN(), s, j, i)
						duration.Set(math.NaN(), s, j, i)
						continue
					}
					duration.Set(n/hoursPerDay, s, j, i)
					if n > 0 {
						avgSpeed.Set(speedSum.Get(s, j, i)/n, s, j, i)
					} else {
						avgSpeed.Set(math.NaN(), s, j, i)
					}
				}
			}
		}
		p.Days = append(p.Days, dayStamp)
		p.AvgSpeed = append(p.AvgSpeed, avgSpeed)
		p.Duration = append(p.Duration, duration)
		speedSum, count, valid = nil, nil, nil
	}

	uFunc, vFunc := src.U(), src.V()
	for _, t := range times {
		u, err := uFunc()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		v, err := vFunc()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(u.Shape) != 2 || u.Shape[0] != ny || u.Shape[1] != nx {
			return nil, fmt.Errorf("psif: eastward wind array shape %v doesn't match grid %d×%d", u.Shape, ny, nx)
		}
		if len(v.Shape) != 2 || v.Shape[0] != ny || v.Shape[1] != nx {
			return nil, fmt.Errorf("psif: northward wind array shape %v doesn't match grid %d×%d", v.Shape, ny, nx)
		}

		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		if day != curDay {
			flush()
			curDay, dayStamp = day, t
			speedSum = sparse.ZerosDense(NSectors, ny, nx)
			count = sparse.ZerosDense(NSectors, ny, nx)
			valid = sparse.ZerosDense(ny, nx)
		}

		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				uu := u.Get(j, i)
				vv := v.Get(j, i)
				if math.IsNaN(uu) || math.IsNaN(vv) {
					continue
				}
				speed := math.Sqrt(uu*uu + vv*vv)
				direction := math.Mod(math.Atan2(vv, uu)*180/math.Pi+360, 360)
				s := int(AssignWindToSectors(direction)) - 1
				speedSum.AddVal(speed, s, j, i)
				count.AddVal(1, s, j, i)
				valid.AddVal(1, j, i)
			}
		}
	}
	flush()
	return p, nil
}

// At copies the per-sector daily statistics from the wind-profile grid
// node nearest to the given time and location. Nearest selection happens
// independently on the time, latitude, and longitude axes rather than
// jointly in 3-D; this matches multi-axis nearest-selection semantics and
// changes results at grid boundaries relative to a combined-distance
// search, so it must be preserved. The second return value reports whether
// the profile contained any data to match against.
func (p *WindProfile) At(t time.Time, lat, lon float64) (SectorSample, bool) {
	o := SectorSample{Durations: nanDurations()}
	for i := range o.AvgSpeed {
		o.AvgSpeed[i] = math.NaN()
	}
	if len(p.Days) == 0 || len(p.Lats) == 0 || len(p.Lons) == 0 {
		return o, false
	}
	k := nearestTimeIndex(p.Days, t)
	j := nearestIndex(p.Lats, lat)
	i := nearestIndex(p.Lons, lon)
	for s := 0; s < NSectors; s++ {
		o.Durations[s] = p.Duration[k].Get(s, j, i)
		o.AvgSpeed[s] = p.AvgSpeed[k].Get(s, j, i)
	}
	return o, true
}

// AttachWindToFires copies the dwell-duration statistics from the profile
// node nearest each fire event onto the event.
func (p *WindProfile) AttachWindToFires(fires []*FireEvent) {
	warned := false
	for _, f := range fires {
		sample, ok := p.At(f.AcqDate, f.Point.Y, f.Point.X)
		if !ok && !warned {
			log.Println("psif: wind profile has no data; fire events keep empty wind statistics")
			warned = true
		}
		f.Durations = sample.Durations
	}
}

// AttachWindToPairs copies the dwell-duration statistics at each pair's
// receptor location, on the pair's fire acquisition date, onto the pair.
// The receptor-side statistics use the fire's date because the exposure
// model compares same-day wind at the two ends of the pair.
func (p *WindProfile) AttachWindToPairs(pairs []*FireReceptorPair) {
	warned := false
	for _, pr := range pairs {
		sample, ok := p.At(pr.Fire.AcqDate, pr.Receptor.Point.Y, pr.Receptor.Point.X)
		if !ok && !warned {
			log.Println("psif: wind profile has no data; pairs keep empty receptor wind statistics")
			warned = true
		}
		pr.ReceptorDurations = sample.Durations
		pr.receptorWind = ok
	}
}

// nearestIndex returns the index of the value in coords closest to x,
// preferring the lower index when two values are equally close.
func nearestIndex(coords []float64, x float64) int {
	best := 0
	bestDist := math.Abs(coords[0] - x)
	for i, c := range coords[1:] {
		if d := math.Abs(c - x); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}

// nearestTimeIndex returns the index of the timestamp in times closest to
// t, preferring the lower index when two timestamps are equally close.
func nearestTimeIndex(times []time.Time, t time.Time) int {
	best := 0
	bestDist := absDuration(times[0].Sub(t))
	for i, c := range times[1:] {
		if d := absDuration(c.Sub(t)); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
