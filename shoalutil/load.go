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

package shoalutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spatialmodel/shoal"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// loadSpectraFile reads named spectra from the given file, dispatching on
// the file name extension: ".csv" for delimited text, ".xlsx" for
// spreadsheets, and no extension for a spectral library .hdr/.lib pair.
func loadSpectraFile(path, sheet string) (map[string]*shoal.Spectrum, error) {
	path = os.ExpandEnv(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("shoal: opening spectra file: %v", err)
		}
		defer f.Close()
		return shoal.ReadSpectraCSV(f)
	case ".xlsx":
		return shoal.ReadSpectraXLSX(path, sheet)
	case "":
		return shoal.ReadSpectralLibrary(path)
	default:
		return nil, fmt.Errorf("shoal: unsupported spectra file format %q", filepath.Ext(path))
	}
}

// siopColumn fetches the named spectrum from the loaded SIOP table.
// Spectral library entries are keyed "file:name", so a bare column name
// also matches any entry with that suffix.
func siopColumn(spectra map[string]*shoal.Spectrum, column string) *shoal.Spectrum {
	if sp, ok := spectra[column]; ok {
		return sp
	}
	for name, sp := range spectra {
		if strings.HasSuffix(name, ":"+column) {
			return sp
		}
	}
	return nil
}

// LoadSIOPSet builds the model SIOPSet from the configured SIOP file.
// The pure-water and phytoplankton absorption columns must be present in
// the file; any other spectrum that is missing is derived from the default
// slope parameterisation, which mirrors how the SIOP sets for this model
// are usually published.
func LoadSIOPSet(cfg *viper.Viper) (*shoal.SIOPSet, error) {
	spectra, err := loadSpectraFile(cfg.GetString("SIOP.File"), cfg.GetString("SIOP.Sheet"))
	if err != nil {
		return nil, err
	}

	waterA := siopColumn(spectra, cfg.GetString("SIOP.WaterAbsorptionColumn"))
	if waterA == nil {
		return nil, fmt.Errorf("shoal: SIOP file has no %s column",
			cfg.GetString("SIOP.WaterAbsorptionColumn"))
	}
	chlA := siopColumn(spectra, cfg.GetString("SIOP.ChlAbsorptionColumn"))
	if chlA == nil {
		return nil, fmt.Errorf("shoal: SIOP file has no %s column",
			cfg.GetString("SIOP.ChlAbsorptionColumn"))
	}
	grid := waterA.Wavelengths()
	param := shoal.DefaultSIOPModel()

	derive := func(column string, f func([]float64) (*shoal.Spectrum, error)) (*shoal.Spectrum, error) {
		if sp := siopColumn(spectra, column); sp != nil {
			return sp, nil
		}
		return f(grid)
	}
	waterBb, err := derive(cfg.GetString("SIOP.WaterBackscatterColumn"), param.WaterBackscatter)
	if err != nil {
		return nil, err
	}
	cdomA, err := derive(cfg.GetString("SIOP.CDOMAbsorptionColumn"), param.CDOMAbsorption)
	if err != nil {
		return nil, err
	}
	napA, err := derive(cfg.GetString("SIOP.NAPAbsorptionColumn"), param.NAPAbsorption)
	if err != nil {
		return nil, err
	}
	napBb, err := derive(cfg.GetString("SIOP.NAPBackscatterColumn"), param.NAPBackscatter)
	if err != nil {
		return nil, err
	}

	absorption := map[shoal.Constituent]*shoal.Spectrum{
		shoal.Chlorophyll: chlA,
		shoal.CDOM:        cdomA,
		shoal.NAP:         napA,
	}
	backscatter := map[shoal.Constituent]*shoal.Spectrum{
		shoal.NAP: napBb,
	}
	if cfg.GetBool("SIOP.ChlBackscatter") {
		if backscatter[shoal.Chlorophyll], err = param.PhytoplanktonBackscatter(grid); err != nil {
			return nil, err
		}
	}
	return shoal.NewSIOPSet(waterA, waterBb, absorption, backscatter, grid)
}

// LoadSubstrates loads the configured substrate reflectance spectra,
// resampled onto the working grid. The second substrate is nil unless
// Substrate.Column2 is configured.
func LoadSubstrates(cfg *viper.Viper, grid []float64) (s1, s2 *shoal.Spectrum, err error) {
	spectra, err := loadSpectraFile(cfg.GetString("Substrate.File"), cfg.GetString("Substrate.Sheet"))
	if err != nil {
		return nil, nil, err
	}
	pick := func(column string) (*shoal.Spectrum, error) {
		sp := siopColumn(spectra, column)
		if sp == nil {
			return nil, fmt.Errorf("shoal: substrate file has no %s column", column)
		}
		return sp.Resample(grid)
	}
	if s1, err = pick(cfg.GetString("Substrate.Column")); err != nil {
		return nil, nil, err
	}
	if column2 := cfg.GetString("Substrate.Column2"); column2 != "" {
		if s2, err = pick(column2); err != nil {
			return nil, nil, err
		}
	}
	return s1, s2, nil
}

// LoadFilterSet loads the configured sensor filter file onto the working
// grid. It returns nil if no filter file is configured.
func LoadFilterSet(cfg *viper.Viper, grid []float64) (*shoal.FilterSet, error) {
	path := cfg.GetString("Filter.File")
	if path == "" {
		return nil, nil
	}
	filters, err := loadSpectraFile(path, cfg.GetString("Filter.Sheet"))
	if err != nil {
		return nil, err
	}
	return shoal.NewFilterSet(filters, grid)
}

// readSamples reads the sample table from delimited text. Required columns
// are chl, cdom, nap and depth; a substrate_fraction column is optional and
// defaults to 1 (all substrate 1).
func readSamples(r io.Reader) ([]sampleRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("shoal: reading sample table: %v", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("shoal: reading sample table: no data rows")
	}
	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"chl", "cdom", "nap", "depth"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("shoal: sample table has no %s column", required)
		}
	}
	_, hasFraction := index["substrate_fraction"]

	samples := make([]sampleRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		field := func(name string) (float64, error) {
			v, err := cast.ToFloat64E(rec[index[name]])
			if err != nil {
				return 0, fmt.Errorf("shoal: sample table row %d, column %s: %v", i+2, name, err)
			}
			return v, nil
		}
		var row sampleRow
		row.fraction = 1
		if row.chl, err = field("chl"); err != nil {
			return nil, err
		}
		if row.cdom, err = field("cdom"); err != nil {
			return nil, err
		}
		if row.nap, err = field("nap"); err != nil {
			return nil, err
		}
		if row.depth, err = field("depth"); err != nil {
			return nil, err
		}
		if hasFraction {
			if row.fraction, err = field("substrate_fraction"); err != nil {
				return nil, err
			}
		}
		samples = append(samples, row)
	}
	return samples, nil
}

// sampleRow is one row of the sample table.
type sampleRow struct {
	chl, cdom, nap float64
	depth          float64
	fraction       float64
}

// constantsFromConfig copies the configurable model constants out of the
// configuration.
func constantsFromConfig(cfg *viper.Viper) shoal.ModelConstants {
	constants := shoal.DefaultConstants()
	constants.G0 = cfg.GetFloat64("Constants.G0")
	constants.G1 = cfg.GetFloat64("Constants.G1")
	constants.RefractiveIndex = cfg.GetFloat64("Constants.RefractiveIndex")
	constants.MinDepth = cfg.GetFloat64("Constants.MinDepth")
	return constants
}
