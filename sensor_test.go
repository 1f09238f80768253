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
	"math"
	"testing"
)

// testFilters returns a two-band filter set: a triangular green band and a
// boxy red band, both deliberately unnormalised.
func testFilters(t *testing.T) map[string]*Spectrum {
	t.Helper()
	green, err := NewSpectrum(
		[]float64{500, 550, 600},
		[]float64{0, 2, 0})
	if err != nil {
		t.Fatal(err)
	}
	red, err := NewSpectrum(
		[]float64{640, 650, 670, 680},
		[]float64{0, 5, 5, 0})
	if err != nil {
		t.Fatal(err)
	}
	return map[string]*Spectrum{"green": green, "red": red}
}

func TestConvolveConstantSpectrum(t *testing.T) {
	// Convolving a constant spectrum must return that constant for every
	// band regardless of filter shape or normalisation.
	const k = 0.42
	grid := testGrid(400, 700, 10)
	fs, err := NewFilterSet(testFilters(t), grid)
	if err != nil {
		t.Fatal(err)
	}
	s, err := ConstantSpectrum(grid, k)
	if err != nil {
		t.Fatal(err)
	}
	bands, err := fs.Convolve(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(bands) != 2 {
		t.Fatalf("got %d bands; want 2", len(bands))
	}
	for name, v := range bands {
		if absDifferent(v, k, 1e-12) {
			t.Errorf("band %s = %g; want %g", name, v, k)
		}
	}
}

func TestConvolveNormalisationInvariance(t *testing.T) {
	// Scaling a filter by any positive factor must not change the band
	// values: convolution is a normalised weighted average, not a dot
	// product.
	grid := testGrid(400, 700, 10)
	values := make([]float64, len(grid))
	for i, w := range grid {
		values[i] = 0.01 + 0.05*math.Exp(-math.Pow((w-560)/80, 2))
	}
	s, err := NewSpectrum(grid, values)
	if err != nil {
		t.Fatal(err)
	}

	filters := testFilters(t)
	scaled := make(map[string]*Spectrum, len(filters))
	for name, f := range filters {
		scaledValues := f.Values()
		for i := range scaledValues {
			scaledValues[i] *= 37.5
		}
		if scaled[name], err = NewSpectrum(f.Wavelengths(), scaledValues); err != nil {
			t.Fatal(err)
		}
	}

	fs1, err := NewFilterSet(filters, grid)
	if err != nil {
		t.Fatal(err)
	}
	fs2, err := NewFilterSet(scaled, grid)
	if err != nil {
		t.Fatal(err)
	}
	bands1, err := fs1.Convolve(s)
	if err != nil {
		t.Fatal(err)
	}
	bands2, err := fs2.Convolve(s)
	if err != nil {
		t.Fatal(err)
	}
	for name := range bands1 {
		if absDifferent(bands1[name], bands2[name], 1e-12) {
			t.Errorf("band %s changed under filter scaling: %g != %g",
				name, bands1[name], bands2[name])
		}
	}
}

func TestFilterOutsideGrid(t *testing.T) {
	// A band whose support lies entirely outside the working grid can
	// never be simulated.
	nir, err := NewSpectrum([]float64{800, 850, 900}, []float64{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewFilterSet(map[string]*Spectrum{"nir": nir}, testGrid(400, 700, 10))
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected OutOfRangeError but got %v", err)
	}
}

func TestConvolveGridMismatch(t *testing.T) {
	fs, err := NewFilterSet(testFilters(t), testGrid(400, 700, 10))
	if err != nil {
		t.Fatal(err)
	}
	s, err := ConstantSpectrum(testGrid(400, 700, 5), 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Convolve(s); err == nil {
		t.Error("expected an error for a spectrum on a different grid but got none")
	}
}

func TestFilterSetBands(t *testing.T) {
	fs, err := NewFilterSet(testFilters(t), testGrid(400, 700, 10))
	if err != nil {
		t.Fatal(err)
	}
	bands := fs.Bands()
	if len(bands) != 2 || bands[0] != "green" || bands[1] != "red" {
		t.Errorf("bands = %v; want [green red]", bands)
	}
}
