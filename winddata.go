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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

const (
	// inDateFormat specifies the format to use when inputting dates.
	inDateFormat = "20060102"
)

// ErrEmptyArchive indicates that a wind archive contained no readable
// data for the requested period. Callers can distinguish it from internal
// faults and treat the run as an empty result.
var ErrEmptyArchive = errors.New("psif: wind archive contains no data for the requested period")

// NCFWindSource reads hourly wind vector components from an archive of
// daily NetCDF files (e.g. an NLDAS-2 forcing subset), fulfilling the
// WindSource interface. The file name template uses [DATE] as a wild card
// for the file date.
type NCFWindSource struct {
	fileTemplate string
	uVar, vVar   string
	latVar       string
	lonVar       string

	start, end time.Time

	recordDelta, fileDelta time.Duration

	msgChan chan string
}

// NewNCFWindSource initializes a wind source reading from NetCDF files at
// the given file name template, where [DATE] is a wild card for the file
// date. uVar and vVar name the eastward and northward wind component
// variables (e.g. "wind_e" and "wind_n" for NLDAS-2). startDate and
// endDate bound the period of interest in the format "YYYYMMDD"; files
// are assumed to hold one day of hourly records each. If msgChan is not
// nil, status messages will be sent to it.
func NewNCFWindSource(fileTemplate, uVar, vVar, startDate, endDate string, msgChan chan string) (*NCFWindSource, error) {
	w := &NCFWindSource{
		fileTemplate: fileTemplate,
		uVar:         uVar,
		vVar:         vVar,
		latVar:       "lat",
		lonVar:       "lon",
		msgChan:      msgChan,
	}
	var err error
	w.start, err = time.Parse(inDateFormat, startDate)
	if err != nil {
		return nil, fmt.Errorf("psif: wind source start time: %v", err)
	}
	w.end, err = time.Parse(inDateFormat, endDate)
	if err != nil {
		return nil, fmt.Errorf("psif: wind source end time: %v", err)
	}
	if !w.end.After(w.start) {
		return nil, fmt.Errorf("psif: wind source end time %v is not after start time %v", w.end, w.start)
	}
	w.recordDelta, err = time.ParseDuration("1h")
	if err != nil {
		return nil, fmt.Errorf("psif: wind source recordDelta: %v", err)
	}
	w.fileDelta, err = time.ParseDuration("24h")
	if err != nil {
		return nil, fmt.Errorf("psif: wind source fileDelta: %v", err)
	}
	return w, nil
}

// Nx helps fulfill the WindSource interface by returning
// the number of grid cells in the West-East direction.
func (w *NCFWindSource) Nx() (int, error) {
	f, ff, err := ncfFromTemplate(w.fileTemplate, inDateFormat, w.start)
	if err != nil {
		return -1, fmt.Errorf("nx: %w", archiveError(err))
	}
	defer f.Close()
	dims := ff.Header.Lengths(w.uVar)
	if len(dims) != 3 {
		return -1, fmt.Errorf("psif: wind variable %s has %d dimensions; want 3", w.uVar, len(dims))
	}
	return dims[2], nil
}

// Ny helps fulfill the WindSource interface by returning
// the number of grid cells in the South-North direction.
func (w *NCFWindSource) Ny() (int, error) {
	f, ff, err := ncfFromTemplate(w.fileTemplate, inDateFormat, w.start)
	if err != nil {
		return -1, fmt.Errorf("ny: %w", archiveError(err))
	}
	defer f.Close()
	dims := ff.Header.Lengths(w.uVar)
	if len(dims) != 3 {
		return -1, fmt.Errorf("psif: wind variable %s has %d dimensions; want 3", w.uVar, len(dims))
	}
	return dims[1], nil
}

// Lats helps fulfill the WindSource interface by returning the cell
// center latitudes.
func (w *NCFWindSource) Lats() ([]float64, error) {
	return w.readCoord(w.latVar)
}

// Lons helps fulfill the WindSource interface by returning the cell
// center longitudes.
func (w *NCFWindSource) Lons() ([]float64, error) {
	return w.readCoord(w.lonVar)
}

// Times helps fulfill the WindSource interface by returning the
// timestamps of the hourly records between the start and end times.
func (w *NCFWindSource) Times() ([]time.Time, error) {
	var o []time.Time
	for t := w.start; t.Before(w.end); t = t.Add(w.recordDelta) {
		o = append(o, t)
	}
	return o, nil
}

// U helps fulfill the WindSource interface by returning
// the eastward wind component [m/s].
func (w *NCFWindSource) U() NextData { return w.read(w.uVar) }

// V helps fulfill the WindSource interface by returning
// the northward wind component [m/s].
func (w *NCFWindSource) V() NextData { return w.read(w.vVar) }

func (w *NCFWindSource) read(varName string) NextData {
	return nextDataNCF(w.fileTemplate, inDateFormat, varName, w.start, w.end, w.recordDelta, w.fileDelta, readNCF, w.msgChan)
}

func (w *NCFWindSource) readCoord(varName string) ([]float64, error) {
	f, ff, err := ncfFromTemplate(w.fileTemplate, inDateFormat, w.start)
	if err != nil {
		return nil, archiveError(err)
	}
	defer f.Close()
	dims := ff.Header.Lengths(varName)
	if len(dims) != 1 {
		return nil, fmt.Errorf("psif: coordinate variable %s has %d dimensions; want 1", varName, len(dims))
	}
	r := ff.Reader(varName, nil, nil)
	buf := r.Zero(dims[0])
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("psif: reading netcdf coordinate %s: %v", varName, err)
	}
	o := make([]float64, dims[0])
	switch b := buf.(type) {
	case []float32:
		for i, v := range b {
			o[i] = float64(v)
		}
	case []float64:
		copy(o, b)
	default:
		return nil, fmt.Errorf("psif: coordinate variable %s has unsupported type %T", varName, buf)
	}
	return o, nil
}

// archiveError converts a missing-file condition into ErrEmptyArchive so
// callers can distinguish an empty or unreadable source archive from an
// internal fault.
func archiveError(err error) error {
	if os.IsNotExist(err) {
		return ErrEmptyArchive
	}
	return err
}

// nextDataNCF returns a function that sequentially retrieves time series
// data for the specified variable (varName) from a series of NetCDF files
// with the given file name template between the given start and end times.
// recordDelta and fileDelta specify the length of time between each record
// within a file and between each file, respectively. dateFormat is the
// format in which dates appear in the file name.
func nextDataNCF(fileTemplate, dateFormat, varName string, start, end time.Time, recordDelta, fileDelta time.Duration, readFunc readNCFFunc, msgChan chan string) NextData {
	recordsPerFile := int(fileDelta / recordDelta)
	var i int
	date := start
	return func() (*sparse.DenseArray, error) {
		if !date.Before(end) {
			return nil, io.EOF
		}
		f, ff, err := ncfFromTemplate(fileTemplate, dateFormat, date)
		if err != nil {
			return nil, archiveError(err)
		}
		defer f.Close()
		data, err := readFunc(varName, ff, i)
		if err != nil {
			return nil, err
		}
		i++
		if i == recordsPerFile {
			if msgChan != nil {
				fileName := strings.Replace(fileTemplate, "[DATE]", date.Format(dateFormat), -1)
				msgChan <- fmt.Sprintf("Read %d records of %s from %s", i, varName, fileName)
			}
			i = 0
			date = date.Add(fileDelta)
		}
		return data, err
	}
}

// readNCFFunc is a function that can read information from a
// NetCDF file.
type readNCFFunc func(varName string, file *cdf.File, index int) (*sparse.DenseArray, error)

// readNCF reads variable varName out of NetCDF file ff at the given
// index-0 (record) value.
func readNCF(varName string, ff *cdf.File, record int) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(varName)
	if len(dims) == 0 {
		return nil, fmt.Errorf("psif: wind reader: variable %v not in file", varName)
	}
	dims = dims[1:]
	nread := 1
	for _, dim := range dims {
		nread *= dim
	}
	start, end := make([]int, len(dims)+1), make([]int, len(dims)+1)
	start[0], end[0] = record, record+1
	r := ff.Reader(varName, start, end)
	buf := r.Zero(nread)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("psif: wind reader: reading netcdf variable %s: %v", varName, err)
	}
	data := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []float64:
		copy(data.Elements, b)
	default:
		return nil, fmt.Errorf("psif: wind reader: variable %s has unsupported type %T", varName, buf)
	}
	return data, nil
}

// ncfFromTemplate opens the NetCDF file corresponding to the given date.
func ncfFromTemplate(fileTemplate, dateFormat string, date time.Time) (*os.File, *cdf.File, error) {
	d := date.Format(dateFormat)
	file := strings.Replace(fileTemplate, "[DATE]", d, -1)
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, nil, err
	}
	return f, ff, err
}
