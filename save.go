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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// outDateFormat specifies the format to use when outputting dates.
const outDateFormat = "2006-01-02"

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteReceptorDay writes the smoothed receptor-day index as
// comma-delimited text with one row per (receptor, date).
func WriteReceptorDay(w io.Writer, recs []SmoothedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"GEOID", "acq_date", "PSIF", "moving_avg", "PSIF_Total"}); err != nil {
		return fmt.Errorf("psif: writing receptor-day header: %v", err)
	}
	for _, r := range recs {
		err := cw.Write([]string{
			r.GEOID,
			r.Date.Format(outDateFormat),
			formatFloat(r.PSIF),
			formatFloat(r.MovingAvg),
			formatFloat(r.Total),
		})
		if err != nil {
			return fmt.Errorf("psif: writing receptor-day record: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUnitDay writes the reaggregated unit-day index as comma-delimited
// text with one row per (target unit, date). unitName becomes the first
// column header (e.g. "zcta").
func WriteUnitDay(w io.Writer, unitName string, recs []UnitDayIndex) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{unitName, "acq_date", "PSIF"}); err != nil {
		return fmt.Errorf("psif: writing unit-day header: %v", err)
	}
	for _, r := range recs {
		err := cw.Write([]string{
			r.Unit,
			r.Date.Format(outDateFormat),
			formatFloat(r.PSIF),
		})
		if err != nil {
			return fmt.Errorf("psif: writing unit-day record: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
