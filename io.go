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
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ctessum/geom"
)

// header maps lower-cased column names to their positions in a delimited
// file.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	line, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("psif: reading table header: %v", err)
	}
	h := make(header, len(line))
	for i, name := range line {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h, nil
}

func (h header) index(names ...string) (int, error) {
	for _, name := range names {
		if i, ok := h[name]; ok {
			return i, nil
		}
	}
	return -1, fmt.Errorf("psif: table has none of the columns %v", names)
}

// ReadFires reads a fire-event table (in the style of a FIRMS active-fire
// CSV export) with at minimum latitude, longitude, acq_date, and frp
// columns. An acq_time column in HHMM format, if present, is combined
// into the acquisition timestamp.
func ReadFires(rd io.Reader) ([]*FireEvent, error) {
	r := csv.NewReader(rd)
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	latCol, err := h.index("latitude")
	if err != nil {
		return nil, err
	}
	lonCol, err := h.index("longitude")
	if err != nil {
		return nil, err
	}
	dateCol, err := h.index("acq_date")
	if err != nil {
		return nil, err
	}
	frpCol, err := h.index("frp")
	if err != nil {
		return nil, err
	}
	timeCol := -1
	if i, ok := h["acq_time"]; ok {
		timeCol = i
	}

	var fires []*FireEvent
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("psif: reading fire table line %d: %v", line, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[latCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("psif: fire table line %d latitude: %v", line, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[lonCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("psif: fire table line %d longitude: %v", line, err)
		}
		t, err := time.Parse("2006-01-02", strings.TrimSpace(rec[dateCol]))
		if err != nil {
			return nil, fmt.Errorf("psif: fire table line %d acq_date: %v", line, err)
		}
		if timeCol >= 0 {
			if hhmm, err := strconv.Atoi(strings.TrimSpace(rec[timeCol])); err == nil {
				t = t.Add(time.Duration(hhmm/100)*time.Hour + time.Duration(hhmm%100)*time.Minute)
			}
		}
		frp, err := strconv.ParseFloat(strings.TrimSpace(rec[frpCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("psif: fire table line %d frp: %v", line, err)
		}
		fires = append(fires, &FireEvent{
			Point:     geom.Point{X: lon, Y: lat},
			AcqDate:   t,
			FRP:       frp,
			Durations: nanDurations(),
		})
	}
	return fires, nil
}

// ReadReceptors reads a receptor table of areal-unit representative
// points (e.g. block-group centers of population). It requires latitude
// and longitude columns and either a prebuilt GEOID column or the
// hierarchical STATEFP, COUNTYFP, TRACTCE, and BLKGRPCE code columns,
// which are zero-padded and concatenated via BuildGEOID.
func ReadReceptors(rd io.Reader) ([]*Receptor, error) {
	r := csv.NewReader(rd)
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	latCol, err := h.index("latitude")
	if err != nil {
		return nil, err
	}
	lonCol, err := h.index("longitude")
	if err != nil {
		return nil, err
	}
	geoidCol := -1
	if i, ok := h["geoid"]; ok {
		geoidCol = i
	}
	var stateCol, countyCol, tractCol, bgCol int
	if geoidCol < 0 {
		if stateCol, err = h.index("statefp"); err != nil {
			return nil, err
		}
		if countyCol, err = h.index("countyfp"); err != nil {
			return nil, err
		}
		if tractCol, err = h.index("tractce"); err != nil {
			return nil, err
		}
		if bgCol, err = h.index("blkgrpce"); err != nil {
			return nil, err
		}
	}

	var receptors []*Receptor
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("psif: reading receptor table line %d: %v", line, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[latCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("psif: receptor table line %d latitude: %v", line, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[lonCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("psif: receptor table line %d longitude: %v", line, err)
		}
		var geoid string
		if geoidCol >= 0 {
			geoid = strings.TrimSpace(rec[geoidCol])
		} else {
			geoid = BuildGEOID(strings.TrimSpace(rec[stateCol]), strings.TrimSpace(rec[countyCol]),
				strings.TrimSpace(rec[tractCol]), strings.TrimSpace(rec[bgCol]))
		}
		receptors = append(receptors, &Receptor{
			GEOID: geoid,
			Point: geom.Point{X: lon, Y: lat},
		})
	}
	return receptors, nil
}

// ReadCrosswalk reads an areal-unit crosswalk table (in the style of a
// geocorr export) mapping receptor identifiers to the target unit named
// by targetCol (e.g. "zcta") with a fractional weight in the afact
// column. If the table has no prebuilt GEOID column, identifiers are
// built from the county, tract, and blockgroup columns, with decimal
// tract codes normalized via FormatTract. A second header row of column
// labels, which geocorr exports include, is detected by its non-numeric
// afact cell and skipped. Other non-numeric weights are coerced to NaN so
// they can be excluded from weighted sums rather than zeroing real
// contributions.
func ReadCrosswalk(rd io.Reader, targetCol string) ([]CrosswalkWeight, error) {
	r := csv.NewReader(rd)
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	targetIdx, err := h.index(strings.ToLower(targetCol))
	if err != nil {
		return nil, err
	}
	weightCol, err := h.index("afact", "weight")
	if err != nil {
		return nil, err
	}
	geoidCol := -1
	if i, ok := h["geoid"]; ok {
		geoidCol = i
	}
	var countyCol, tractCol, bgCol int
	if geoidCol < 0 {
		if countyCol, err = h.index("county"); err != nil {
			return nil, err
		}
		if tractCol, err = h.index("tract"); err != nil {
			return nil, err
		}
		if bgCol, err = h.index("blockgroup", "bg"); err != nil {
			return nil, err
		}
	}

	var xwalk []CrosswalkWeight
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("psif: reading crosswalk table line %d: %v", line, err)
		}
		w, werr := strconv.ParseFloat(strings.TrimSpace(rec[weightCol]), 64)
		if werr != nil {
			if line == 2 {
				// geocorr's second header row of human-readable labels.
				continue
			}
			w = math.NaN()
		}
		var geoid string
		if geoidCol >= 0 {
			geoid = strings.TrimSpace(rec[geoidCol])
		} else {
			geoid = zfill(strings.TrimSpace(rec[countyCol]), 3) +
				FormatTract(strings.TrimSpace(rec[tractCol])) +
				strings.TrimSpace(rec[bgCol])
		}
		xwalk = append(xwalk, CrosswalkWeight{
			GEOID:  geoid,
			Target: strings.TrimSpace(rec[targetIdx]),
			Weight: w,
		})
	}
	if len(xwalk) == 0 {
		log.Println("psif: crosswalk table contains no usable records")
	}
	return xwalk, nil
}
