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
)

// Version gives the model version number.
const Version = "1.0.0"

// Pipeline configures one end-to-end run of the exposure model, from raw
// fire events and receptors through the smoothed receptor-day index and,
// when a crosswalk is supplied, the reaggregated unit-day index.
type Pipeline struct {
	// MaxKm is the maximum fire-to-receptor pairing distance [km].
	// If zero, DefaultMaxKm is used.
	MaxKm float64

	// SeasonStart and SeasonEnd, if both set, restrict the fire events to
	// acquisition month-days in [SeasonStart, SeasonEnd), as "MM-DD"
	// strings (e.g. "05-01" through "10-01" for a fire season).
	SeasonStart, SeasonEnd string

	// WindowStart and WindowEnd bound the annual smoothing window as
	// "MM/DD" strings, both inclusive.
	WindowStart, WindowEnd string

	// Groups, if non-nil, fixes the set of receptors the smoother
	// produces series for; see MovingAverage.
	Groups []string

	// MsgChan receives progress messages if it is not nil.
	MsgChan chan string
}

func (c *Pipeline) msg(format string, a ...interface{}) {
	if c.MsgChan != nil {
		c.MsgChan <- fmt.Sprintf(format, a...)
	}
}

// Run executes the exposure model: it filters and orders the fire events,
// attaches daily wind statistics to fires and receptors, pairs fires with
// receptors within the distance threshold, computes and aggregates the
// directional exposure index, and smooths it with the trailing moving
// average. The returned smoothed records are the receptor-day index; when
// xwalk is non-nil the second return value holds the index reaggregated
// onto the crosswalk's target units, otherwise it is nil.
func (c *Pipeline) Run(fires []*FireEvent, receptors []*Receptor, profile *WindProfile, xwalk []CrosswalkWeight) ([]SmoothedRecord, []UnitDayIndex, error) {
	maxKm := c.MaxKm
	if maxKm == 0 {
		maxKm = DefaultMaxKm
	}

	if c.SeasonStart != "" && c.SeasonEnd != "" {
		n := len(fires)
		fires = FilterFiresByMonthDay(fires, c.SeasonStart, c.SeasonEnd)
		c.msg("Kept %d of %d fire events in season [%s, %s)", len(fires), n, c.SeasonStart, c.SeasonEnd)
	}
	fires = PrepFires(fires)

	if profile == nil {
		return nil, nil, fmt.Errorf("psif: pipeline requires a wind profile")
	}
	profile.AttachWindToFires(fires)
	c.msg("Attached wind statistics to %d fire events", len(fires))

	pairs := FireReceptorPairs(fires, receptors, maxKm)
	c.msg("Paired %d fire events with %d receptors: %d pairs within %g km",
		len(fires), len(receptors), len(pairs), maxKm)

	profile.AttachWindToPairs(pairs)

	index := ComputeExposure(pairs)
	c.msg("Aggregated exposure to %d receptor-day records", len(index))

	smoothed, err := MovingAverage(index, c.WindowStart, c.WindowEnd, c.Groups)
	if err != nil {
		return nil, nil, err
	}
	c.msg("Smoothed index covers %d receptor-day records", len(smoothed))

	if xwalk == nil {
		return smoothed, nil, nil
	}
	units := Reaggregate(smoothed, xwalk)
	c.msg("Reaggregated index onto %d unit-day records", len(units))
	return smoothed, units, nil
}
