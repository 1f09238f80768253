/*
Copyright © 2024 the shoal authors.
This file is part of shoal.

shoal is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

shoal is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with shoal.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package shoalutil holds the configuration and command-line interface for
// the shoal shallow-water optical forward model. The model itself lives in
// the parent package and knows nothing about files or flags.
package shoalutil

import (
	"fmt"
	"os"

	"github.com/spatialmodel/shoal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Cfg = viper.New()
	Cfg.SetEnvPrefix("SHOAL")
	Cfg.AutomaticEnv()

	defaults := shoal.DefaultConstants()

	// Options are the configuration options available to shoal.
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
			name: "SIOP.File",
			usage: `
              SIOP.File is the path to the file holding the specific inherent
              optical property spectra, one named column per spectrum with
              band centre wavelengths in the first column. Delimited text
              (.csv), spreadsheet (.xlsx) and spectral library (.hdr/.lib
              pair, given without the extension) formats are accepted.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SIOP.Sheet",
			usage: `
              SIOP.Sheet selects the sheet of a spreadsheet SIOP file. The
              default is the first sheet.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SIOP.WaterAbsorptionColumn",
			usage: `
              SIOP.WaterAbsorptionColumn names the SIOP file column holding
              the pure-water absorption spectrum. This column is required and
              its wavelength grid becomes the working grid of the model.`,
			defaultVal: "water_absorption",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SIOP.ChlAbsorptionColumn",
			usage: `
              SIOP.ChlAbsorptionColumn names the SIOP file column holding the
              phytoplankton specific absorption spectrum. This column is
              required; there is no slope parameterisation for it.`,
			defaultVal: "chl_absorption",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SIOP.WaterBackscatterColumn",
			usage: `
              SIOP.WaterBackscatterColumn names the SIOP file column holding
              the pure-water backscatter spectrum. If the column is absent the
              spectrum is derived from the Mobley (1994) parameterisation.`,
			defaultVal: "water_backscatter",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SIOP.CDOMAbsorptionColumn",
			usage: `
              SIOP.CDOMAbsorptionColumn names the SIOP file column holding
              the CDOM specific absorption spectrum. If the column is absent
              the spectrum is derived from the exponential slope
              parameterisation.`,
			defaultVal: "cdom_absorption",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SIOP.NAPAbsorptionColumn",
			usage: `
              SIOP.NAPAbsorptionColumn names the SIOP file column holding the
              NAP specific absorption spectrum. If the column is absent the
              spectrum is derived from the exponential slope parameterisation.`,
			defaultVal: "nap_absorption",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SIOP.NAPBackscatterColumn",
			usage: `
              SIOP.NAPBackscatterColumn names the SIOP file column holding
              the NAP specific backscatter spectrum. If the column is absent
              the spectrum is derived from the power-law parameterisation.`,
			defaultVal: "nap_backscatter",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SIOP.ChlBackscatter",
			usage: `
              SIOP.ChlBackscatter specifies whether a phytoplankton specific
              backscatter spectrum, derived from the power-law
              parameterisation, should be registered in addition to the NAP
              one.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Substrate.File",
			usage: `
              Substrate.File is the path to the file holding the benthic
              substrate reflectance spectra, in any of the formats accepted
              for SIOP.File.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Substrate.Sheet",
			usage: `
              Substrate.Sheet selects the sheet of a spreadsheet substrate
              file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Substrate.Column",
			usage: `
              Substrate.Column names the substrate file column to use as the
              benthic substrate reflectance.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Substrate.Column2",
			usage: `
              Substrate.Column2 optionally names a second substrate column.
              When set, each sample's substrate fraction mixes the two
              substrates as a convex combination.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Filter.File",
			usage: `
              Filter.File is the path to the file holding the sensor relative
              spectral response functions, one named column per band, in any
              of the formats accepted for SIOP.File. If empty, no band
              convolution is performed and only full-resolution spectra are
              written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Filter.Sheet",
			usage: `
              Filter.Sheet selects the sheet of a spreadsheet filter file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SamplesFile",
			usage: `
              SamplesFile is the path to the delimited-text table of model
              samples. Required columns are chl, cdom, nap and depth; an
              optional substrate_fraction column drives two-substrate mixing.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the simulated band observations
              are written as delimited text, one row per sample.`,
			defaultVal: "bands.csv",
			shorthand:  "o",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SpectraOutputDir",
			usage: `
              SpectraOutputDir, when set, is a directory where the
              full-resolution output spectra of every sample are written, one
              file per sample holding all per-wavelength model outputs.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Geometry.SolarZenith",
			usage: `
              Geometry.SolarZenith is the solar zenith angle in air
              [degrees].`,
			defaultVal: 30.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Geometry.ViewingZenith",
			usage: `
              Geometry.ViewingZenith is the sensor off-nadir angle in air
              [degrees].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Constants.G0",
			usage: `
              Constants.G0 is the constant coefficient of the deep-water
              reflectance polynomial.`,
			defaultVal: defaults.G0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Constants.G1",
			usage: `
              Constants.G1 is the linear coefficient of the deep-water
              reflectance polynomial.`,
			defaultVal: defaults.G1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Constants.RefractiveIndex",
			usage: `
              Constants.RefractiveIndex is the refractive index of the water
              body.`,
			defaultVal: defaults.RefractiveIndex,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Constants.MinDepth",
			usage: `
              Constants.MinDepth is the exclusive lower bound on water column
              depth [m].`,
			defaultVal: defaults.MinDepth,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	for _, option := range options {
		for _, set := range option.flagsets {
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
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
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("shoal: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "shoal",
	Short: "A semi-analytical shallow-water optical forward model.",
	Long: `shoal predicts the above-water remote-sensing reflectance of a shallow
water column from its constituent concentrations, depth and benthic
substrate, and convolves the result with sensor band response functions.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'SHOAL_var'
where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of shoal.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shoal v%s\n", shoal.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the forward model over a table of samples.",
	Long: `run evaluates the forward model once per row of the sample table,
sharing one set of SIOP, substrate and sensor filter spectra across all
samples, and writes the simulated band observations and, optionally, the
full-resolution output spectra.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(Cfg)
	},
	DisableAutoGenTag: true,
}

// Execute runs the root command, printing any error to standard error.
func Execute() {
	if err := Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
