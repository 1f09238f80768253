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

// different returns whether a and b are different, relative to the
// magnitude of the values.
func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance && math.Abs(a-b) > tolerance {
		return true
	}
	return false
}

// absDifferent returns whether a and b differ by more than tolerance.
func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

// testGrid returns wavelengths from start to stop (inclusive) with the
// given step.
func testGrid(start, stop, step float64) []float64 {
	var o []float64
	for w := start; w <= stop+step/2; w += step {
		o = append(o, w)
	}
	return o
}

func TestNewSpectrumInvariants(t *testing.T) {
	tests := []struct {
		name        string
		wavelengths []float64
		values      []float64
	}{
		{"length mismatch", []float64{400, 410, 420}, []float64{1, 2}},
		{"too short", []float64{400}, []float64{1}},
		{"not increasing", []float64{400, 410, 410}, []float64{1, 2, 3}},
		{"decreasing", []float64{400, 390, 420}, []float64{1, 2, 3}},
		{"NaN value", []float64{400, 410, 420}, []float64{1, math.NaN(), 3}},
		{"infinite value", []float64{400, 410, 420}, []float64{1, math.Inf(1), 3}},
	}
	for _, test := range tests {
		if _, err := NewSpectrum(test.wavelengths, test.values); err == nil {
			t.Errorf("%s: expected an error but got none", test.name)
		}
	}
	if _, err := NewSpectrum([]float64{400, 410, 420}, []float64{1, 2, 3}); err != nil {
		t.Errorf("valid spectrum: %v", err)
	}
}

func TestSpectrumImmutable(t *testing.T) {
	wavelengths := []float64{400, 500, 600}
	values := []float64{1, 2, 3}
	s, err := NewSpectrum(wavelengths, values)
	if err != nil {
		t.Fatal(err)
	}
	wavelengths[0] = 999 // mutating the input must not affect the spectrum
	s.Wavelengths()[1] = 999
	s.Values()[1] = 999
	if w := s.Wavelengths(); w[0] != 400 || w[1] != 500 {
		t.Errorf("spectrum shares memory with caller: %v", w)
	}
	if v := s.Values(); v[1] != 2 {
		t.Errorf("spectrum values share memory with caller: %v", v)
	}
}

func TestValueAt(t *testing.T) {
	s, err := NewSpectrum([]float64{400, 500, 600}, []float64{0, 1, 3})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		w, want float64
	}{
		{400, 0},
		{450, 0.5},
		{500, 1},
		{550, 2},
		{600, 3},
	}
	for _, test := range tests {
		v, err := s.ValueAt(test.w)
		if err != nil {
			t.Fatalf("ValueAt(%g): %v", test.w, err)
		}
		if absDifferent(v, test.want, 1e-12) {
			t.Errorf("ValueAt(%g) = %g; want %g", test.w, v, test.want)
		}
	}
	for _, w := range []float64{399.999, 250, 600.001, 1000} {
		if _, err := s.ValueAt(w); err == nil {
			t.Errorf("ValueAt(%g): expected OutOfRangeError but got none", w)
		} else {
			var oor *OutOfRangeError
			if !errors.As(err, &oor) {
				t.Errorf("ValueAt(%g): expected OutOfRangeError but got %v", w, err)
			}
		}
	}
}

func TestResampleRoundTrip(t *testing.T) {
	grid := testGrid(400, 700, 1)
	values := make([]float64, len(grid))
	for i, w := range grid {
		// A smooth synthetic spectrum.
		values[i] = 0.05 + 0.02*math.Sin((w-400)/300*2*math.Pi)
	}
	s, err := NewSpectrum(grid, values)
	if err != nil {
		t.Fatal(err)
	}
	coarse, err := s.Resample(testGrid(400, 700, 2))
	if err != nil {
		t.Fatal(err)
	}
	back, err := coarse.Resample(grid)
	if err != nil {
		t.Fatal(err)
	}
	const tolerance = 1e-5 // interpolation error of a smooth function
	for i, w := range grid {
		if absDifferent(back.values[i], values[i], tolerance) {
			t.Errorf("round trip at %g nm: %g != %g", w, back.values[i], values[i])
		}
	}
}

func TestResampleLinearExact(t *testing.T) {
	grid := testGrid(400, 700, 10)
	values := make([]float64, len(grid))
	for i, w := range grid {
		values[i] = 0.01 + 0.002*(w-400)/300
	}
	s, err := NewSpectrum(grid, values)
	if err != nil {
		t.Fatal(err)
	}
	// Linear interpolation reproduces a linear spectrum exactly on any
	// interior grid.
	r, err := s.Resample(testGrid(405, 695, 7))
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range r.Wavelengths() {
		want := 0.01 + 0.002*(w-400)/300
		if absDifferent(r.values[i], want, 1e-12) {
			t.Errorf("at %g nm: %g != %g", w, r.values[i], want)
		}
	}
}

func TestResampleOutOfRange(t *testing.T) {
	s, err := NewSpectrum([]float64{400, 500, 600}, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	for _, grid := range [][]float64{
		{350, 450},
		{450, 650},
		{100, 200},
		{700, 800},
	} {
		_, err := s.Resample(grid)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("Resample(%v): expected OutOfRangeError but got %v", grid, err)
		}
	}
}

func TestCommonRange(t *testing.T) {
	a, _ := NewSpectrum([]float64{400, 600}, []float64{1, 1})
	b, _ := NewSpectrum([]float64{500, 700}, []float64{1, 1})
	min, max, err := CommonRange(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if min != 500 || max != 600 {
		t.Errorf("common range = [%g, %g]; want [500, 600]", min, max)
	}
	c, _ := NewSpectrum([]float64{700, 800}, []float64{1, 1})
	if _, _, err := CommonRange(a, c); err == nil {
		t.Error("expected an error for disjoint ranges but got none")
	}
}
