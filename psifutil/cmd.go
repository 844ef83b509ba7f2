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

	"github.com/Babakjfard/PSIF"
	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to PSIF.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "FiresFile",
			usage: `
              FiresFile is the path to the fire-event table (CSV with at least
              latitude, longitude, acq_date, and frp columns). The path can be
              a URL or include environment variables.`,
			defaultVal: "fires.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ReceptorsFile",
			usage: `
              ReceptorsFile is the path to the receptor table: one representative
              point per areal unit, with latitude and longitude columns and either
              a GEOID column or the STATEFP, COUNTYFP, TRACTCE, and BLKGRPCE census
              code columns. The path can be a URL or include environment variables.`,
			defaultVal: "receptors.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CrosswalkFile",
			usage: `
              CrosswalkFile is the path to an areal-unit crosswalk table (CSV or
              XLSX) mapping receptors to target units with fractional area
              weights. If empty, no reaggregation happens.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CrosswalkSheet",
			usage: `
              CrosswalkSheet names the sheet to read when CrosswalkFile is an
              XLSX workbook. If empty, the first sheet is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CrosswalkTarget",
			usage: `
              CrosswalkTarget is the crosswalk column naming the target areal
              unit to reaggregate onto.`,
			defaultVal: "zcta",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "WindProfile",
			usage: `
              WindProfile is the path to the daily wind statistics file created
              by the preproc command.`,
			defaultVal: "windprofile.ncf",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), preprocCmd.Flags()},
		},
		{
			name: "MaxDistanceKm",
			usage: `
              MaxDistanceKm is the maximum distance between a fire and a
              receptor for the fire to contribute to the receptor's exposure.`,
			defaultVal: float64(psif.DefaultMaxKm),
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SeasonStart",
			usage: `
              SeasonStart is the first month-day ("MM-DD", inclusive) of the
              fire season. Fires outside [SeasonStart, SeasonEnd) in any year
              are ignored. If SeasonStart or SeasonEnd is empty, all fires
              are kept.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SeasonEnd",
			usage: `
              SeasonEnd is the month-day ("MM-DD", exclusive) ending the fire
              season.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "WindowStart",
			usage: `
              WindowStart is the first month-day ("MM/DD", inclusive) of the
              annual smoothing window.`,
			defaultVal: "01/01",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "WindowEnd",
			usage: `
              WindowEnd is the last month-day ("MM/DD", inclusive) of the
              annual smoothing window.`,
			defaultVal: "12/31",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Groups",
			usage: `
              Groups optionally fixes the set of receptor identifiers the
              smoother produces series for; a listed receptor with no exposure
              records still gets an all-zero series. If empty, the receptors
              observed in each annual window are used.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ReceptorOutputFile",
			usage: `
              ReceptorOutputFile is the path where the smoothed receptor-day
              index should be written.`,
			defaultVal: "psif_receptors.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "UnitOutputFile",
			usage: `
              UnitOutputFile is the path where the reaggregated unit-day index
              should be written when a crosswalk is supplied.`,
			defaultVal: "psif_units.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Winds.FileTemplate",
			usage: `
              Winds.FileTemplate is the location of the hourly wind archive
              files (e.g. an NLDAS-2 forcing subset in NetCDF format).
              [DATE] should be used as a wild card for the file date.`,
			defaultVal: "winds_[DATE].ncf",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "Winds.UVar",
			usage: `
              Winds.UVar names the eastward wind component variable in the
              archive files.`,
			defaultVal: "wind_e",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "Winds.VVar",
			usage: `
              Winds.VVar names the northward wind component variable in the
              archive files.`,
			defaultVal: "wind_n",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "Winds.StartDate",
			usage: `
              Winds.StartDate is the date of the beginning of the wind record.
              Format = "YYYYMMDD".`,
			defaultVal: "No Default",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "Winds.EndDate",
			usage: `
              Winds.EndDate is the date of the end of the wind record
              (exclusive). Format = "YYYYMMDD".`,
			defaultVal: "No Default",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("PSIF")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(preprocCmd)
	Root.AddCommand(runCmd)
}

// outChan returns a channel printing to standard output.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for {
			msg := <-outChan
			fmt.Println(msg)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("psif: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "psif",
	Short: "A population smoke exposure index model.",
	Long: `PSIF estimates daily population exposure to wildfire smoke by combining
satellite fire detections with gridded wind fields. Use the subcommands
specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'PSIF_var' where
'var' is the name of the variable to be set. Many configuration variables are
additionally allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of PSIF.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("PSIF v%s\n", psif.Version)
	},
	DisableAutoGenTag: true,
}

// preprocCmd builds the daily wind statistics file from an hourly archive.
var preprocCmd = &cobra.Command{
	Use:   "preproc",
	Short: "Preprocess hourly wind data",
	Long: `preproc reads an archive of hourly wind vector fields, derives the
daily dwell duration and mean speed in each of the 8 compass sectors for every
grid cell, and saves the result so that future runs can skip the archive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Preproc(
			os.ExpandEnv(Cfg.GetString("Winds.FileTemplate")),
			Cfg.GetString("Winds.UVar"),
			Cfg.GetString("Winds.VVar"),
			Cfg.GetString("Winds.StartDate"),
			Cfg.GetString("Winds.EndDate"),
			os.ExpandEnv(Cfg.GetString("WindProfile")),
			outChan(),
		)
	},
	DisableAutoGenTag: true,
}

// runCmd runs the exposure model.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run pairs fire events with nearby receptors, computes the directional
distance-attenuated exposure index for every receptor and day, smooths it with
a trailing moving average, and optionally reaggregates it onto a different set
of areal units.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		msgChan := outChan()
		return Run(&RunConfig{
			FiresFile:       maybeDownload(os.ExpandEnv(Cfg.GetString("FiresFile")), msgChan),
			ReceptorsFile:   maybeDownload(os.ExpandEnv(Cfg.GetString("ReceptorsFile")), msgChan),
			CrosswalkFile:   maybeDownload(os.ExpandEnv(Cfg.GetString("CrosswalkFile")), msgChan),
			CrosswalkSheet:  Cfg.GetString("CrosswalkSheet"),
			CrosswalkTarget: Cfg.GetString("CrosswalkTarget"),
			WindProfile:     os.ExpandEnv(Cfg.GetString("WindProfile")),
			MaxDistanceKm:   Cfg.GetFloat64("MaxDistanceKm"),
			SeasonStart:     Cfg.GetString("SeasonStart"),
			SeasonEnd:       Cfg.GetString("SeasonEnd"),
			WindowStart:     Cfg.GetString("WindowStart"),
			WindowEnd:       Cfg.GetString("WindowEnd"),
			Groups:          GetStringSlice("Groups", Cfg),
			ReceptorOutput:  os.ExpandEnv(Cfg.GetString("ReceptorOutputFile")),
			UnitOutput:      os.ExpandEnv(Cfg.GetString("UnitOutputFile")),
			MsgChan:         msgChan,
		})
	},
	DisableAutoGenTag: true,
}
