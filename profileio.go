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
	"os"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// ProfileDataVersion is the format version of saved wind-profile files.
// It changes whenever the file layout changes incompatibly.
const ProfileDataVersion = "1.0"

// Write writes the wind profile to NetCDF file w so it can be reloaded
// with LoadWindProfile instead of rebuilding it from the hourly archive.
func (p *WindProfile) Write(w *os.File) error {
	if len(p.Days) == 0 {
		return fmt.Errorf("psif: refusing to write an empty wind profile")
	}
	ny, nx := len(p.Lats), len(p.Lons)
	h := cdf.NewHeader(
		[]string{"time", "sector", "y", "x"},
		[]int{len(p.Days), NSectors, ny, nx})
	h.AddAttribute("", "comment", "PSIF daily directional wind statistics file")
	h.AddAttribute("", "data_version", ProfileDataVersion)

	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "description", "representative date of each day of data")
	h.AddAttribute("time", "units", "seconds since 1970-01-01 00:00:00 UTC")

	h.AddVariable("lat", []string{"y"}, []float64{0})
	h.AddAttribute("lat", "description", "grid cell center latitude")
	h.AddAttribute("lat", "units", "degrees_north")

	h.AddVariable("lon", []string{"x"}, []float64{0})
	h.AddAttribute("lon", "description", "grid cell center longitude")
	h.AddAttribute("lon", "units", "degrees_east")

	h.AddVariable("avg_speed", []string{"time", "sector", "y", "x"}, []float32{0})
	h.AddAttribute("avg_speed", "description", "mean wind speed among the samples in each sector")
	h.AddAttribute("avg_speed", "units", "m s-1")

	h.AddVariable("duration", []string{"time", "sector", "y", "x"}, []float32{0})
	h.AddAttribute("duration", "description", "normalized dwell duration in each sector")
	h.AddAttribute("duration", "units", "fraction of day")

	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}

	times := make([]float64, len(p.Days))
	for i, d := range p.Days {
		times[i] = float64(d.Unix())
	}
	if err := writeNCFFloat64(f, "time", times); err != nil {
		return err
	}
	if err := writeNCFFloat64(f, "lat", p.Lats); err != nil {
		return err
	}
	if err := writeNCFFloat64(f, "lon", p.Lons); err != nil {
		return err
	}

	n := NSectors * ny * nx
	speed32 := make([]float32, len(p.Days)*n)
	dur32 := make([]float32, len(p.Days)*n)
	for k := range p.Days {
		for i, v := range p.AvgSpeed[k].Elements {
			speed32[k*n+i] = float32(v)
		}
		for i, v := range p.Duration[k].Elements {
			dur32[k*n+i] = float32(v)
		}
	}
	if err := writeNCFFloat32(f, "avg_speed", speed32); err != nil {
		return err
	}
	if err := writeNCFFloat32(f, "duration", dur32); err != nil {
		return err
	}
	return cdf.UpdateNumRecs(w)
}

// LoadWindProfile loads a wind profile from a NetCDF file written by
// WindProfile.Write. Times are restored in UTC.
func LoadWindProfile(rw cdf.ReaderWriterAt) (*WindProfile, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("psif.LoadWindProfile: %v", err)
	}

	dataVersion, ok := f.Header.GetAttribute("", "data_version").(string)
	if !ok || dataVersion != ProfileDataVersion {
		return nil, fmt.Errorf("psif.LoadWindProfile: data version %v is incompatible "+
			"with the required version %s", dataVersion, ProfileDataVersion)
	}

	times, err := readNCFFloat64(f, "time")
	if err != nil {
		return nil, err
	}
	p := new(WindProfile)
	p.Days = make([]time.Time, len(times))
	for i, t := range times {
		p.Days[i] = time.Unix(int64(t), 0).UTC()
	}
	if p.Lats, err = readNCFFloat64(f, "lat"); err != nil {
		return nil, err
	}
	if p.Lons, err = readNCFFloat64(f, "lon"); err != nil {
		return nil, err
	}

	ny, nx := len(p.Lats), len(p.Lons)
	n := NSectors * ny * nx
	for _, v := range []string{"avg_speed", "duration"} {
		dims := f.Header.Lengths(v)
		if len(dims) != 4 || dims[0] != len(p.Days) || dims[1] != NSectors || dims[2] != ny || dims[3] != nx {
			return nil, fmt.Errorf("psif.LoadWindProfile: variable %s has dims %v, which don't "+
				"match %d days on a %d×%d grid", v, dims, len(p.Days), ny, nx)
		}
		r := f.Reader(v, nil, nil)
		buf := r.Zero(len(p.Days) * n)
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("psif.LoadWindProfile: reading %s: %v", v, err)
		}
		vals := buf.([]float32)
		for k := range p.Days {
			a := sparse.ZerosDense(NSectors, ny, nx)
			for i := range a.Elements {
				a.Elements[i] = float64(vals[k*n+i])
			}
			if v == "avg_speed" {
				p.AvgSpeed = append(p.AvgSpeed, a)
			} else {
				p.Duration = append(p.Duration, a)
			}
		}
	}
	return p, nil
}

func writeNCFFloat64(f *cdf.File, Var string, data []float64) error {
	end := f.Header.Lengths(Var)
	start := make([]int, len(end))
	w := f.Writer(Var, start, end)
	_, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("psif: writing variable %s to netcdf file: %v", Var, err)
	}
	return nil
}

func writeNCFFloat32(f *cdf.File, Var string, data []float32) error {
	end := f.Header.Lengths(Var)
	start := make([]int, len(end))
	w := f.Writer(Var, start, end)
	_, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("psif: writing variable %s to netcdf file: %v", Var, err)
	}
	return nil
}

func readNCFFloat64(f *cdf.File, Var string) ([]float64, error) {
	dims := f.Header.Lengths(Var)
	if len(dims) != 1 {
		return nil, fmt.Errorf("psif.LoadWindProfile: variable %s has %d dimensions; want 1", Var, len(dims))
	}
	r := f.Reader(Var, nil, nil)
	buf := r.Zero(dims[0])
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("psif.LoadWindProfile: reading %s: %v", Var, err)
	}
	o, ok := buf.([]float64)
	if !ok {
		return nil, fmt.Errorf("psif.LoadWindProfile: variable %s has unsupported type %T", Var, buf)
	}
	return o, nil
}
