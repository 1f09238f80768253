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

package shoal

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// clearWaterSIOPSet returns a SIOPSet describing pure attenuating water:
// a_w(λ) = 0.01 + 0.002·λ' with λ' the normalised wavelength, zero
// specific absorptions, and zero backscatter everywhere.
func clearWaterSIOPSet(t *testing.T) *SIOPSet {
	t.Helper()
	grid := testGrid(400, 700, 10)
	aValues := make([]float64, len(grid))
	for i, w := range grid {
		aValues[i] = 0.01 + 0.002*(w-400)/300
	}
	waterA, err := NewSpectrum(grid, aValues)
	if err != nil {
		t.Fatal(err)
	}
	zero, err := ConstantSpectrum(grid, 0)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSIOPSet(waterA, zero,
		map[Constituent]*Spectrum{Chlorophyll: zero, CDOM: zero, NAP: zero},
		map[Constituent]*Spectrum{NAP: zero}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPipelineClearWaterScenario(t *testing.T) {
	// Pure water over a flat substrate: the total coefficients must equal
	// the water spectra exactly and the above-water reflectance must lie
	// strictly between zero and the substrate reflectance, because the
	// water column attenuates the substrate contribution.
	const substrateR = 0.1
	siops := clearWaterSIOPSet(t)
	grid := siops.Grid()
	substrate, err := ConstantSpectrum(grid, substrateR)
	if err != nil {
		t.Fatal(err)
	}
	model := NewModel(DefaultConstants())
	sample := Sample{
		Concentrations: Concentrations{Chlorophyll: 0, CDOM: 0, NAP: 0},
		Geometry: Geometry{
			Depth:       5,
			SolarZenith: 30,
			Substrate:   substrate,
		},
	}
	r, err := model.Run(siops, sample, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r.A.Values(), siops.WaterAbsorption().Values()) {
		t.Error("total absorption differs from water absorption")
	}
	if !reflect.DeepEqual(r.Bb.Values(), siops.WaterBackscatter().Values()) {
		t.Error("total backscatter differs from water backscatter")
	}
	for i, w := range grid {
		if v := r.AboveRrs.values[i]; v <= 0 || v >= substrateR {
			t.Errorf("at %g nm: above-water reflectance %g is not in (0, %g)",
				w, v, substrateR)
		}
		// With zero backscatter the deep-water term vanishes.
		if r.DeepRrs.values[i] != 0 {
			t.Errorf("at %g nm: deep-water reflectance %g; want 0", w, r.DeepRrs.values[i])
		}
	}
}

func TestPipelineWithFilters(t *testing.T) {
	siops := clearWaterSIOPSet(t)
	grid := siops.Grid()
	substrate, _ := ConstantSpectrum(grid, 0.1)
	fs, err := NewFilterSet(testFilters(t), grid)
	if err != nil {
		t.Fatal(err)
	}
	model := NewModel(DefaultConstants())
	sample := Sample{
		Concentrations: Concentrations{},
		Geometry:       Geometry{Depth: 5, SolarZenith: 30, Substrate: substrate},
	}
	r, err := model.Run(siops, sample, fs)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Bands) != 2 {
		t.Fatalf("got %d band values; want 2", len(r.Bands))
	}
	for name, v := range r.Bands {
		// A band average of a spectrum in (0, 0.1) stays in (0, 0.1).
		if v <= 0 || v >= 0.1 {
			t.Errorf("band %s = %g; want a value in (0, 0.1)", name, v)
		}
	}

	// Without filters the result must carry no band values.
	r2, err := model.Run(siops, sample, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r2.Bands != nil {
		t.Error("run without filters returned band values")
	}
}

func TestRunDeterministic(t *testing.T) {
	siops := testSIOPSet(t)
	grid := siops.Grid()
	substrate, _ := ConstantSpectrum(grid, 0.3)
	model := NewModel(DefaultConstants())
	sample := Sample{
		Concentrations: Concentrations{Chlorophyll: 1.2, CDOM: 0.4, NAP: 2.1},
		Geometry:       Geometry{Depth: 3.5, SolarZenith: 30, ViewingZenith: 10, Substrate: substrate},
	}
	first, err := model.Run(siops, sample, nil)
	if err != nil {
		t.Fatal(err)
	}
	for run := 0; run < 5; run++ {
		r, err := model.Run(siops, sample, nil)
		if err != nil {
			t.Fatal(err)
		}
		for _, pair := range [][2]*Spectrum{
			{r.A, first.A}, {r.Bb, first.Bb},
			{r.SubsurfaceRrs, first.SubsurfaceRrs}, {r.AboveRrs, first.AboveRrs},
			{r.Kd, first.Kd}, {r.KuC, first.KuC}, {r.KuB, first.KuB},
		} {
			if !reflect.DeepEqual(pair[0].Values(), pair[1].Values()) {
				t.Fatal("repeated runs gave different results")
			}
		}
	}
}

func TestRunBatch(t *testing.T) {
	siops := testSIOPSet(t)
	grid := siops.Grid()
	substrate, _ := ConstantSpectrum(grid, 0.3)
	model := NewModel(DefaultConstants())

	depths := []float64{0.5, 1, 2, 4, 8, 16, 32, 64}
	samples := make([]Sample, len(depths))
	for i, depth := range depths {
		samples[i] = Sample{
			Concentrations: Concentrations{Chlorophyll: 1, CDOM: 0.1, NAP: 1},
			Geometry:       Geometry{Depth: depth, SolarZenith: 30, Substrate: substrate},
		}
	}
	results, err := model.RunBatch(siops, samples, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(samples) {
		t.Fatalf("got %d results; want %d", len(results), len(samples))
	}
	// Batch results must match the equivalent serial runs exactly.
	for i, sample := range samples {
		serial, err := model.Run(siops, sample, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(results[i].SubsurfaceRrs.Values(), serial.SubsurfaceRrs.Values()) {
			t.Fatalf("batch result %d differs from the serial run", i)
		}
	}
}

func TestRunBatchError(t *testing.T) {
	siops := testSIOPSet(t)
	substrate, _ := ConstantSpectrum(siops.Grid(), 0.3)
	model := NewModel(DefaultConstants())

	geometry := Geometry{Depth: 5, SolarZenith: 30, Substrate: substrate}
	samples := []Sample{
		{Concentrations: Concentrations{Chlorophyll: 1}, Geometry: geometry},
		{Concentrations: Concentrations{Chlorophyll: 1}, Geometry: geometry},
		{Concentrations: Concentrations{Chlorophyll: -1}, Geometry: geometry},
		{Concentrations: Concentrations{Chlorophyll: 1}, Geometry: geometry},
	}
	_, err := model.RunBatch(siops, samples, nil)
	if err == nil {
		t.Fatal("expected an error but got none")
	}
	var invalid *InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidParameterError but got %v", err)
	}
	if !strings.Contains(err.Error(), "sample 2") {
		t.Errorf("error %q does not identify the failing sample", err)
	}
}
