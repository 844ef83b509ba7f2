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
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/tealeg/xlsx"
)

// excelCache holds previously opened Microsoft Excel files
// to avoid reading the same file multiple times.
var excelCache *requestcache.Cache

var loadExcelCacheOnce sync.Once

// loadExcelFile loads a Microsoft Excel file from disk, utilizing
// a cache to avoid loading the same file more than once.
func loadExcelFile(fileName string) (*xlsx.File, error) {
	// Create a request cache to avoid loading files more than once.
	loadExcelCacheOnce.Do(func() {
		excelCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			filename := req.(string)
			f, err := xlsx.OpenFile(filename)
			if err != nil {
				return nil, fmt.Errorf("psif: opening xlsx file: %v", err)
			}
			return f, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(1000))
	})
	// Get the file from the cache or generate it.
	r := excelCache.NewRequest(context.Background(), fileName, fileName)
	fI, err := r.Result()
	if err != nil {
		return nil, err
	}
	return fI.(*xlsx.File), nil
}

// ReadCrosswalkXLSX reads an areal-unit crosswalk from sheet in the
// Microsoft Excel file at fileName, with the same column conventions as
// ReadCrosswalk. If sheet is empty the first sheet in the file is used.
func ReadCrosswalkXLSX(fileName, sheet, targetCol string) ([]CrosswalkWeight, error) {
	f, err := loadExcelFile(fileName)
	if err != nil {
		return nil, err
	}
	var s *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("psif: xlsx file %s has no sheets", fileName)
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		if s, ok = f.Sheet[sheet]; !ok {
			return nil, fmt.Errorf("psif: reading crosswalk from Excel; no sheet %s", sheet)
		}
	}
	if len(s.Rows) == 0 {
		return nil, fmt.Errorf("psif: crosswalk sheet %s is empty", s.Name)
	}

	h := make(header, len(s.Rows[0].Cells))
	for i, c := range s.Rows[0].Cells {
		h[strings.ToLower(strings.TrimSpace(c.Value))] = i
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

	cell := func(row *xlsx.Row, i int) string {
		if i >= len(row.Cells) {
			return ""
		}
		return strings.TrimSpace(row.Cells[i].Value)
	}

	var xwalk []CrosswalkWeight
	for line, row := range s.Rows[1:] {
		w, werr := strconv.ParseFloat(cell(row, weightCol), 64)
		if werr != nil {
			if line == 0 {
				// geocorr's second header row of human-readable labels.
				continue
			}
			w = math.NaN()
		}
		var geoid string
		if geoidCol >= 0 {
			geoid = cell(row, geoidCol)
		} else {
			geoid = zfill(cell(row, countyCol), 3) +
				FormatTract(cell(row, tractCol)) +
				cell(row, bgCol)
		}
		xwalk = append(xwalk, CrosswalkWeight{
			GEOID:  geoid,
			Target: cell(row, targetIdx),
			Weight: w,
		})
	}
	return xwalk, nil
}
