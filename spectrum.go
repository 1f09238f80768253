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
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// A Spectrum is a wavelength-indexed series of values, such as an
// absorption coefficient spectrum or a substrate reflectance spectrum.
// Wavelengths are in nanometers and strictly increasing. A Spectrum is
// immutable once constructed; all model stages consume it read-only, so
// one Spectrum can be shared by any number of concurrent model runs.
type Spectrum struct {
	wavelengths []float64 // band centre wavelengths [nm]
	values      []float64
}

// NewSpectrum creates a Spectrum from parallel wavelength and value slices.
// The wavelengths must be strictly increasing and all values must be finite;
// at least two points are required so that the spectrum can be interpolated.
// The input slices are copied.
func NewSpectrum(wavelengths, values []float64) (*Spectrum, error) {
	if len(wavelengths) != len(values) {
		return nil, fmt.Errorf("shoal: creating spectrum: %d wavelengths but %d values",
			len(wavelengths), len(values))
	}
	if len(wavelengths) < 2 {
		return nil, fmt.Errorf("shoal: creating spectrum: need at least 2 points but have %d",
			len(wavelengths))
	}
	for i, w := range wavelengths {
		if i > 0 && w <= wavelengths[i-1] {
			return nil, fmt.Errorf("shoal: creating spectrum: wavelengths are not "+
				"strictly increasing at index %d (%g nm after %g nm)", i, w, wavelengths[i-1])
		}
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			return nil, fmt.Errorf("shoal: creating spectrum: non-finite value %g at %g nm",
				values[i], w)
		}
	}
	s := &Spectrum{
		wavelengths: make([]float64, len(wavelengths)),
		values:      make([]float64, len(values)),
	}
	copy(s.wavelengths, wavelengths)
	copy(s.values, values)
	return s, nil
}

// ConstantSpectrum creates a Spectrum holding the value v at every
// wavelength of the given grid.
func ConstantSpectrum(grid []float64, v float64) (*Spectrum, error) {
	values := make([]float64, len(grid))
	for i := range values {
		values[i] = v
	}
	return NewSpectrum(grid, values)
}

// Len returns the number of points in the spectrum.
func (s *Spectrum) Len() int { return len(s.wavelengths) }

// Wavelengths returns a copy of the wavelength grid [nm].
func (s *Spectrum) Wavelengths() []float64 {
	o := make([]float64, len(s.wavelengths))
	copy(o, s.wavelengths)
	return o
}

// Values returns a copy of the spectrum values.
func (s *Spectrum) Values() []float64 {
	o := make([]float64, len(s.values))
	copy(o, s.values)
	return o
}

// Range returns the first and last wavelength of the spectrum [nm].
func (s *Spectrum) Range() (min, max float64) {
	return s.wavelengths[0], s.wavelengths[len(s.wavelengths)-1]
}

// ValueAt returns the value at wavelength w [nm], linearly interpolating
// between the two nearest points. Wavelengths outside the spectrum range
// cause an OutOfRangeError; values are never extrapolated.
func (s *Spectrum) ValueAt(w float64) (float64, error) {
	min, max := s.Range()
	if w < min || w > max {
		return 0, &OutOfRangeError{Wavelength: w, Min: min, Max: max}
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(s.wavelengths, s.values); err != nil {
		return 0, fmt.Errorf("shoal: interpolating spectrum: %v", err)
	}
	return pl.Predict(w), nil
}

// Resample returns a new Spectrum on the given wavelength grid, with values
// obtained by linear interpolation of the receiver. Every grid wavelength
// must lie within the receiver's range; any wavelength outside of it causes
// an OutOfRangeError.
func (s *Spectrum) Resample(grid []float64) (*Spectrum, error) {
	min, max := s.Range()
	for _, w := range grid {
		if w < min || w > max {
			return nil, &OutOfRangeError{Wavelength: w, Min: min, Max: max}
		}
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(s.wavelengths, s.values); err != nil {
		return nil, fmt.Errorf("shoal: interpolating spectrum: %v", err)
	}
	values := make([]float64, len(grid))
	for i, w := range grid {
		values[i] = pl.Predict(w)
	}
	return NewSpectrum(grid, values)
}

// CommonRange returns the wavelength window [min, max] shared by the two
// spectra, or an error if their ranges do not overlap.
func CommonRange(a, b *Spectrum) (min, max float64, err error) {
	aMin, aMax := a.Range()
	bMin, bMax := b.Range()
	min = math.Max(aMin, bMin)
	max = math.Min(aMax, bMax)
	if min > max {
		return 0, 0, fmt.Errorf("shoal: spectra ranges [%g, %g] and [%g, %g] nm do not overlap",
			aMin, aMax, bMin, bMax)
	}
	return min, max, nil
}

// sameGrid reports whether two wavelength grids are identical.
func sameGrid(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
