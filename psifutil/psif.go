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

package psifutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Babakjfard/PSIF"
)

// Preproc reads hourly wind vector fields from the NetCDF archive at
// fileTemplate (with [DATE] as a wild card for the file date), aggregates
// them to daily directional statistics, and writes the result to outFile.
// uVar and vVar name the wind component variables, and startDate and
// endDate ("YYYYMMDD") bound the record.
func Preproc(fileTemplate, uVar, vVar, startDate, endDate, outFile string, msgChan chan string) error {
	src, err := psif.NewNCFWindSource(fileTemplate, uVar, vVar, startDate, endDate, msgChan)
	if err != nil {
		return err
	}
	profile, err := psif.BuildDailyProfiles(src)
	if err != nil {
		return err
	}
	w, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("psif: creating wind profile file: %v", err)
	}
	defer w.Close()
	if err := profile.Write(w); err != nil {
		return err
	}
	if msgChan != nil {
		msgChan <- fmt.Sprintf("Wrote %d days of wind statistics to %s", len(profile.Days), outFile)
	}
	return nil
}

// RunConfig holds the inputs of one model run.
type RunConfig struct {
	// FiresFile and ReceptorsFile are the fire-event and receptor tables.
	FiresFile     string
	ReceptorsFile string

	// CrosswalkFile, if nonempty, is a crosswalk table (CSV or XLSX) for
	// reaggregating the index onto the units in the CrosswalkTarget
	// column; CrosswalkSheet selects the XLSX sheet.
	CrosswalkFile   string
	CrosswalkSheet  string
	CrosswalkTarget string

	// WindProfile is the daily wind statistics file written by Preproc.
	WindProfile string

	MaxDistanceKm          float64
	SeasonStart, SeasonEnd string
	WindowStart, WindowEnd string

	// Groups optionally fixes the set of receptors the smoother produces
	// series for; see the MovingAverage documentation.
	Groups []string

	// ReceptorOutput and UnitOutput are where the receptor-day and
	// unit-day results are written.
	ReceptorOutput string
	UnitOutput     string

	MsgChan chan string
}

// Run executes one model run as configured by c.
func Run(c *RunConfig) error {
	fires, err := readFires(c.FiresFile)
	if err != nil {
		return err
	}
	receptors, err := readReceptors(c.ReceptorsFile)
	if err != nil {
		return err
	}
	var xwalk []psif.CrosswalkWeight
	if c.CrosswalkFile != "" {
		if xwalk, err = readCrosswalk(c.CrosswalkFile, c.CrosswalkSheet, c.CrosswalkTarget); err != nil {
			return err
		}
	}

	pf, err := os.Open(c.WindProfile)
	if err != nil {
		return fmt.Errorf("psif: opening wind profile: %v", err)
	}
	profile, err := psif.LoadWindProfile(pf)
	pf.Close()
	if err != nil {
		return err
	}

	p := &psif.Pipeline{
		MaxKm:       c.MaxDistanceKm,
		SeasonStart: c.SeasonStart,
		SeasonEnd:   c.SeasonEnd,
		WindowStart: c.WindowStart,
		WindowEnd:   c.WindowEnd,
		Groups:      c.Groups,
		MsgChan:     c.MsgChan,
	}
	smoothed, units, err := p.Run(fires, receptors, profile, xwalk)
	if err != nil {
		return err
	}

	w, err := os.Create(c.ReceptorOutput)
	if err != nil {
		return fmt.Errorf("psif: creating receptor output file: %v", err)
	}
	err = psif.WriteReceptorDay(w, smoothed)
	w.Close()
	if err != nil {
		return err
	}
	if c.MsgChan != nil {
		c.MsgChan <- fmt.Sprintf("Wrote %d receptor-day records to %s", len(smoothed), c.ReceptorOutput)
	}

	if units == nil {
		return nil
	}
	w, err = os.Create(c.UnitOutput)
	if err != nil {
		return fmt.Errorf("psif: creating unit output file: %v", err)
	}
	err = psif.WriteUnitDay(w, c.CrosswalkTarget, units)
	w.Close()
	if err != nil {
		return err
	}
	if c.MsgChan != nil {
		c.MsgChan <- fmt.Sprintf("Wrote %d unit-day records to %s", len(units), c.UnitOutput)
	}
	return nil
}

func readFires(file string) ([]*psif.FireEvent, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("psif: opening fire table: %v", err)
	}
	defer f.Close()
	return psif.ReadFires(f)
}

func readReceptors(file string) ([]*psif.Receptor, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("psif: opening receptor table: %v", err)
	}
	defer f.Close()
	return psif.ReadReceptors(f)
}

func readCrosswalk(file, sheet, target string) ([]psif.CrosswalkWeight, error) {
	if strings.EqualFold(filepath.Ext(file), ".xlsx") {
		return psif.ReadCrosswalkXLSX(file, sheet, target)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("psif: opening crosswalk table: %v", err)
	}
	defer f.Close()
	return psif.ReadCrosswalk(f, target)
}
