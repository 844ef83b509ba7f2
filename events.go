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
	"sort"
	"strings"
	"time"

	"github.com/ctessum/geom"
)

// FireEvent is one detected fire occurrence.
type FireEvent struct {
	// ID is a synthetic sequential identifier, densely assigned starting
	// at 0 in acquisition-date order by PrepFires.
	ID int

	// Point is the fire location; X is longitude and Y is latitude
	// [degrees].
	Point geom.Point

	// AcqDate is the acquisition date and time of the detection.
	AcqDate time.Time

	// FRP is the fire radiative power [MW], never negative in valid data.
	FRP float64

	// Durations holds the dwell-duration statistics at the fire's location
	// on its acquisition date, filled in by WindProfile.AttachWindToFires.
	Durations SectorDurations
}

// Receptor is a representative point for an administrative areal unit
// (e.g. a census block-group centroid) at which exposure is evaluated.
type Receptor struct {
	// GEOID is the unit's composite identifier; see BuildGEOID.
	GEOID string

	// Point is the receptor location; X is longitude and Y is latitude
	// [degrees].
	Point geom.Point
}

// PrepFires stably sorts the fire events by acquisition date (ties keep
// their original order) and assigns each one a sequential identifier
// starting at 0. The input slice is sorted in place and returned.
func PrepFires(fires []*FireEvent) []*FireEvent {
	sort.SliceStable(fires, func(i, j int) bool {
		return fires[i].AcqDate.Before(fires[j].AcqDate)
	})
	for i, f := range fires {
		f.ID = i
	}
	return fires
}

// FilterFiresByMonthDay keeps only the fire events whose acquisition
// month-day falls in [startMD, endMD) within every calendar year.
// startMD and endMD are "MM-DD" strings; startMD is inclusive and endMD
// exclusive.
func FilterFiresByMonthDay(fires []*FireEvent, startMD, endMD string) []*FireEvent {
	var o []*FireEvent
	for _, f := range fires {
		md := f.AcqDate.Format("01-02")
		if md >= startMD && md < endMD {
			o = append(o, f)
		}
	}
	return o
}

// BuildGEOID concatenates hierarchical census codes into a block-group
// identifier: 2-digit state, 3-digit county, 6-digit tract, and 1-digit
// block group, each zero-padded to its width.
func BuildGEOID(state, county, tract, blockGroup string) string {
	return zfill(state, 2) + zfill(county, 3) + zfill(tract, 6) + zfill(blockGroup, 1)
}

// FormatTract normalizes a tract code for identifier construction.
// Crosswalk tables often carry tract codes with a decimal point (e.g.
// "101.02"); the decimal is removed, the fractional part right-padded to
// two digits, and the whole padded to six digits.
func FormatTract(tract string) string {
	if i := strings.IndexByte(tract, '.'); i >= 0 {
		left, right := tract[:i], tract[i+1:]
		for len(right) < 2 {
			right += "0"
		}
		return zfill(left, 4) + right
	}
	return zfill(tract, 6)
}

// zfill left-pads s with zeros to a width of n.
func zfill(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

func (f *FireEvent) String() string {
	return fmt.Sprintf("fire %d at (%g, %g) on %s", f.ID, f.Point.Y, f.Point.X, f.AcqDate.Format("2006-01-02"))
}
