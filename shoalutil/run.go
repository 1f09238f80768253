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
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spatialmodel/shoal"
	"github.com/spf13/viper"
)

// Run executes one batch forward model run as configured: load the SIOP,
// substrate and filter spectra, read the sample table, evaluate the model
// for every sample, and write the outputs.
func Run(cfg *viper.Viper) error {
	log.Info("Loading SIOP spectra...")
	siops, err := LoadSIOPSet(cfg)
	if err != nil {
		return err
	}
	grid := siops.Grid()
	log.WithFields(log.Fields{
		"wavelengths": len(grid),
		"min":         grid[0],
		"max":         grid[len(grid)-1],
	}).Info("Working wavelength grid")

	substrate1, substrate2, err := LoadSubstrates(cfg, grid)
	if err != nil {
		return err
	}
	filters, err := LoadFilterSet(cfg, grid)
	if err != nil {
		return err
	}
	if filters != nil {
		log.WithField("bands", len(filters.Bands())).Info("Loaded sensor filters")
	}

	samplesPath := os.ExpandEnv(cfg.GetString("SamplesFile"))
	f, err := os.Open(samplesPath)
	if err != nil {
		return fmt.Errorf("shoal: opening sample table: %v", err)
	}
	rows, err := readSamples(f)
	f.Close()
	if err != nil {
		return err
	}
	log.WithField("samples", len(rows)).Info("Running forward model...")

	solar := cfg.GetFloat64("Geometry.SolarZenith")
	viewing := cfg.GetFloat64("Geometry.ViewingZenith")
	samples := make([]shoal.Sample, len(rows))
	for i, row := range rows {
		samples[i] = shoal.Sample{
			Concentrations: shoal.Concentrations{
				shoal.Chlorophyll: row.chl,
				shoal.CDOM:        row.cdom,
				shoal.NAP:         row.nap,
			},
			Geometry: shoal.Geometry{
				Depth:             row.depth,
				SolarZenith:       solar,
				ViewingZenith:     viewing,
				Substrate:         substrate1,
				Substrate2:        substrate2,
				SubstrateFraction: row.fraction,
			},
		}
	}

	model := shoal.NewModel(constantsFromConfig(cfg))
	results, err := model.RunBatch(siops, samples, filters)
	if err != nil {
		return err
	}

	if dir := os.ExpandEnv(cfg.GetString("SpectraOutputDir")); dir != "" {
		if err := writeSpectra(dir, results); err != nil {
			return err
		}
	}
	if filters != nil {
		outputFile := os.ExpandEnv(cfg.GetString("OutputFile"))
		of, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("shoal: creating output file: %v", err)
		}
		defer of.Close()
		if err := shoal.WriteBandsCSV(of, results); err != nil {
			return err
		}
		log.WithField("file", outputFile).Info("Wrote band observations")
	}
	log.Info("Done.")
	return nil
}

// writeSpectra writes the full-resolution output spectra of every sample,
// one file per sample.
func writeSpectra(dir string, results []*shoal.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("shoal: creating spectra output directory: %v", err)
	}
	for i, r := range results {
		path := filepath.Join(dir, fmt.Sprintf("sample_%06d.csv", i))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("shoal: creating spectra output file: %v", err)
		}
		if err := r.WriteResultCSV(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("shoal: writing spectra output file: %v", err)
		}
	}
	log.WithFields(log.Fields{"directory": dir, "samples": len(results)}).
		Info("Wrote output spectra")
	return nil
}
