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
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
)

// movingAvgWindow is the number of trailing days averaged by the smoother.
const movingAvgWindow = 3

// leadInDays is the number of days dropped from the start of each annual
// window because they lack a full trailing history.
const leadInDays = 4

// SmoothedRecord is a ReceptorDayIndex augmented with a trailing
// moving average and the combined total used for reaggregation.
type SmoothedRecord struct {
	GEOID string
	Date  time.Time

	// PSIF is the receptor-day index, with zeros filled in for days the
	// receptor had no exposure records.
	PSIF float64

	// MovingAvg is the mean of the PSIF values on the up-to-3 days
	// preceding Date within the annual window.
	MovingAvg float64

	// Total is PSIF + MovingAvg.
	Total float64
}

// MovingAverage smooths receptor-day index values with a trailing 3-day
// moving average computed within per-year windows. startMD and endMD are
// "MM/DD" month-day strings bounding the annual analysis window, both
// inclusive. For every calendar year present in recs, and independently
// for every receptor, the receptor's values are left-joined onto the
// complete daily calendar from window start to window end with absent
// days filled as 0; day D's smoothed value is then the mean of days
// D-3..D-1 (fewer at the start of the window, and 0 on the first day).
// The first 4 days of each window are dropped from the output because
// they lack a full trailing history. Results for all years and receptors
// are concatenated and sorted by (receptor, date).
//
// groups, if non-nil, fixes the set of receptors to smooth; a listed
// receptor with no records in a window still produces an all-zero series
// for that window. If groups is nil, each year covers the receptors that
// have at least one record inside that year's window, matching the
// reference model.
func MovingAverage(recs []ReceptorDayIndex, startMD, endMD string, groups []string) ([]SmoothedRecord, error) {
	startMonth, startDay, err := parseMonthDay(startMD)
	if err != nil {
		return nil, err
	}
	endMonth, endDay, err := parseMonthDay(endMD)
	if err != nil {
		return nil, err
	}

	years := uniqueYears(recs)
	var out []SmoothedRecord

	for _, year := range years {
		loc := time.UTC
		if len(recs) > 0 {
			loc = recs[0].Date.Location()
		}
		yearStart := time.Date(year, time.Month(startMonth), startDay, 0, 0, 0, 0, loc)
		yearEnd := time.Date(year, time.Month(endMonth), endDay, 0, 0, 0, 0, loc)
		maStart := yearStart.AddDate(0, 0, leadInDays)

		// The receptor values inside this year's window.
		vals := make(map[string]map[time.Time]float64)
		for _, r := range recs {
			if r.Date.Before(yearStart) || r.Date.After(yearEnd) {
				continue
			}
			if _, ok := vals[r.GEOID]; !ok {
				vals[r.GEOID] = make(map[time.Time]float64)
			}
			vals[r.GEOID][r.Date] = r.PSIF
		}

		yearGroups := groups
		if yearGroups == nil {
			if len(vals) == 0 {
				continue
			}
			yearGroups = make([]string, 0, len(vals))
			for g := range vals {
				yearGroups = append(yearGroups, g)
			}
			sort.Strings(yearGroups)
		}

		var calendar []time.Time
		for d := yearStart; !d.After(yearEnd); d = d.AddDate(0, 0, 1) {
			calendar = append(calendar, d)
		}

		for _, g := range yearGroups {
			filled := make([]float64, len(calendar))
			for i, d := range calendar {
				filled[i] = vals[g][d] // zero fill for absent days
			}
			for i, d := range calendar {
				if d.Before(maStart) {
					continue
				}
				lo := i - movingAvgWindow
				if lo < 0 {
					lo = 0
				}
				var ma float64
				if i > 0 {
					window := filled[lo:i]
					ma = floats.Sum(window) / float64(len(window))
				}
				out = append(out, SmoothedRecord{
					GEOID:     g,
					Date:      d,
					PSIF:      filled[i],
					MovingAvg: ma,
					Total:     filled[i] + ma,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GEOID != out[j].GEOID {
			return out[i].GEOID < out[j].GEOID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// parseMonthDay parses an "MM/DD" month-day string.
func parseMonthDay(md string) (month, day int, err error) {
	parts := strings.Split(md, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("psif: month-day %q is not in MM/DD format", md)
	}
	month, err = strconv.Atoi(parts[0])
	if err == nil {
		day, err = strconv.Atoi(parts[1])
	}
	if err != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("psif: month-day %q is not a valid MM/DD date", md)
	}
	return month, day, nil
}

func uniqueYears(recs []ReceptorDayIndex) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range recs {
		if !seen[r.Date.Year()] {
			seen[r.Date.Year()] = true
			years = append(years, r.Date.Year())
		}
	}
	sort.Ints(years)
	return years
}
