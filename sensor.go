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
	"sort"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// A FilterSet holds the relative spectral response of every band of a
// sensor, resampled onto the working wavelength grid and stored as a
// band-response matrix. Because band values are computed as normalised
// weighted averages, filters do not need to be pre-normalised; a filter and
// any positive multiple of it produce identical band values.
//
// A FilterSet is immutable after construction and safe to share between
// concurrent model runs.
type FilterSet struct {
	grid     []float64
	bands    []string  // band names, sorted
	response *mat.Dense // rows follow bands, columns follow grid
	weights  []float64  // per-band response sums, for normalisation
}

// NewFilterSet creates a FilterSet from per-band relative spectral
// response spectra, resampling each one onto the given working grid. Grid
// wavelengths outside a filter's support take a zero response. A band whose
// support lies entirely outside the working grid causes an OutOfRangeError:
// such a band could never be simulated from spectra on this grid.
func NewFilterSet(filters map[string]*Spectrum, grid []float64) (*FilterSet, error) {
	if len(filters) == 0 {
		return nil, fmt.Errorf("shoal: creating filter set: no bands supplied")
	}
	f := &FilterSet{
		grid:    make([]float64, len(grid)),
		weights: make([]float64, 0, len(filters)),
	}
	copy(f.grid, grid)
	for name := range filters {
		f.bands = append(f.bands, name)
	}
	sort.Strings(f.bands)

	f.response = mat.NewDense(len(f.bands), len(grid), nil)
	for bi, name := range f.bands {
		sp := filters[name]
		min, max := sp.Range()
		var pl interp.PiecewiseLinear
		if err := pl.Fit(sp.wavelengths, sp.values); err != nil {
			return nil, fmt.Errorf("shoal: creating filter set: band %s: %v", name, err)
		}
		sum := 0.0
		for gi, w := range grid {
			if w < min || w > max {
				continue // outside the band's support
			}
			v := pl.Predict(w)
			f.response.Set(bi, gi, v)
			sum += v
		}
		if sum == 0 {
			return nil, &OutOfRangeError{Wavelength: (min + max) / 2,
				Min: grid[0], Max: grid[len(grid)-1]}
		}
		f.weights = append(f.weights, sum)
	}
	return f, nil
}

// Bands returns the band names in the set, sorted.
func (f *FilterSet) Bands() []string {
	o := make([]string, len(f.bands))
	copy(o, f.bands)
	return o
}

// Grid returns a copy of the working wavelength grid [nm].
func (f *FilterSet) Grid() []float64 {
	o := make([]float64, len(f.grid))
	copy(o, f.grid)
	return o
}

// Convolve integrates the given spectrum against every band's relative
// spectral response, returning one simulated observation per band:
//
//	band = Σ_λ s(λ)·filter(λ) / Σ_λ filter(λ)
//
// The spectrum must be on the FilterSet working grid. Bands are
// independent of each other; the whole operation is a single
// matrix-vector product.
func (f *FilterSet) Convolve(s *Spectrum) (map[string]float64, error) {
	if !sameGrid(f.grid, s.wavelengths) {
		return nil, errGridMismatch("sensor convolution")
	}
	v := mat.NewVecDense(len(s.values), s.Values())
	var prod mat.VecDense
	prod.MulVec(f.response, v)

	o := make(map[string]float64, len(f.bands))
	for i, name := range f.bands {
		o[name] = prod.AtVec(i) / f.weights[i]
	}
	return o, nil
}
