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
	"math"
	"sort"
)

// A Constituent is a named optically active water-column constituent.
type Constituent string

// The constituents required by the standard model configuration.
const (
	Chlorophyll Constituent = "chl"  // algal organic particles
	CDOM        Constituent = "cdom" // coloured dissolved organic matter
	NAP         Constituent = "nap"  // non-algal particles (tripton)
)

// requiredAbsorption lists the constituents that must have a specific
// absorption spectrum in every SIOPSet.
var requiredAbsorption = []Constituent{Chlorophyll, CDOM, NAP}

// requiredBackscatter lists the constituents that must have a specific
// backscatter spectrum in every SIOPSet. Phytoplankton and CDOM
// backscatter are optional roles; when absent they contribute zero.
var requiredBackscatter = []Constituent{NAP}

// A SIOPSet holds the specific inherent optical property spectra needed by
// the forward model: pure-water absorption and backscatter, plus a registry
// of per-constituent specific absorption and backscatter spectra. All
// spectra are resampled onto one common wavelength grid at construction
// time, so the model stages never need to align anything per run. A SIOPSet
// is immutable after construction and safe to share between concurrent
// model runs.
type SIOPSet struct {
	grid             []float64
	waterAbsorption  *Spectrum
	waterBackscatter *Spectrum
	absorption       map[Constituent]*Spectrum
	backscatter      map[Constituent]*Spectrum

	// Registry iteration orders, fixed at construction so that the
	// floating-point superposition is evaluated in the same order on
	// every run.
	absOrder []Constituent
	bbOrder  []Constituent
}

// NewSIOPSet creates a SIOPSet from pure-water absorption and backscatter
// spectra and per-constituent specific absorption and backscatter spectra.
// Specific absorption spectra for chlorophyll, CDOM and NAP and a specific
// backscatter spectrum for NAP are required; additional constituents may be
// registered and take part in the superposition exactly like the standard
// ones.
//
// grid gives the working wavelength grid that every spectrum is resampled
// onto. If grid is nil, the grid of the pure-water absorption spectrum is
// used as the reference. A spectrum that does not cover the whole working
// grid causes an OutOfRangeError.
func NewSIOPSet(waterAbsorption, waterBackscatter *Spectrum,
	absorption, backscatter map[Constituent]*Spectrum, grid []float64) (*SIOPSet, error) {

	if waterAbsorption == nil {
		return nil, &MissingSIOPError{Name: "water absorption"}
	}
	if waterBackscatter == nil {
		return nil, &MissingSIOPError{Name: "water backscatter"}
	}
	for _, c := range requiredAbsorption {
		if absorption[c] == nil {
			return nil, &MissingSIOPError{Name: string(c) + " specific absorption"}
		}
	}
	for _, c := range requiredBackscatter {
		if backscatter[c] == nil {
			return nil, &MissingSIOPError{Name: string(c) + " specific backscatter"}
		}
	}

	if grid == nil {
		grid = waterAbsorption.Wavelengths()
	} else {
		g := make([]float64, len(grid))
		copy(g, grid)
		grid = g
	}

	s := &SIOPSet{
		grid:        grid,
		absorption:  make(map[Constituent]*Spectrum, len(absorption)),
		backscatter: make(map[Constituent]*Spectrum, len(backscatter)),
	}
	var err error
	if s.waterAbsorption, err = waterAbsorption.Resample(grid); err != nil {
		return nil, err
	}
	if s.waterBackscatter, err = waterBackscatter.Resample(grid); err != nil {
		return nil, err
	}
	for c, sp := range absorption {
		if s.absorption[c], err = sp.Resample(grid); err != nil {
			return nil, err
		}
		s.absOrder = append(s.absOrder, c)
	}
	for c, sp := range backscatter {
		if s.backscatter[c], err = sp.Resample(grid); err != nil {
			return nil, err
		}
		s.bbOrder = append(s.bbOrder, c)
	}
	sort.Slice(s.absOrder, func(i, j int) bool { return s.absOrder[i] < s.absOrder[j] })
	sort.Slice(s.bbOrder, func(i, j int) bool { return s.bbOrder[i] < s.bbOrder[j] })
	return s, nil
}

// Grid returns a copy of the working wavelength grid [nm].
func (s *SIOPSet) Grid() []float64 {
	o := make([]float64, len(s.grid))
	copy(o, s.grid)
	return o
}

// WaterAbsorption returns the pure-water absorption spectrum on the
// working grid.
func (s *SIOPSet) WaterAbsorption() *Spectrum { return s.waterAbsorption }

// WaterBackscatter returns the pure-water backscatter spectrum on the
// working grid.
func (s *SIOPSet) WaterBackscatter() *Spectrum { return s.waterBackscatter }

// Absorption returns the specific absorption spectrum registered for the
// given constituent, or nil if there is none.
func (s *SIOPSet) Absorption(c Constituent) *Spectrum { return s.absorption[c] }

// Backscatter returns the specific backscatter spectrum registered for the
// given constituent, or nil if there is none.
func (s *SIOPSet) Backscatter(c Constituent) *Spectrum { return s.backscatter[c] }

// A SIOPModel holds the slope parameterisation used to derive SIOP spectra
// that are usually not measured directly. The defaults follow the published
// Sambuca parameterisation; all values are injectable so that site-specific
// calibrations can be used instead.
type SIOPModel struct {
	SlopeCDOM        float64 // exponential slope of CDOM absorption [1/nm]
	SlopeNAP         float64 // exponential slope of NAP absorption [1/nm]
	SlopeBackscatter float64 // power-law exponent of particulate backscatter
	Lambda0CDOM      float64 // CDOM absorption reference wavelength [nm]
	Lambda0NAP       float64 // NAP absorption reference wavelength [nm]
	Lambda0X         float64 // particulate backscatter reference wavelength [nm]
	ACDOMLambda0     float64 // CDOM absorption at Lambda0CDOM [1/m per unit concentration]
	ANAPLambda0      float64 // NAP absorption at Lambda0NAP [1/m per unit concentration]
	XPhLambda0       float64 // phytoplankton specific backscatter at Lambda0X
	XNAPLambda0      float64 // NAP specific backscatter at Lambda0X
	BbWaterLambdaRef float64 // pure-water backscatter reference wavelength [nm]
}

// DefaultSIOPModel returns the standard Sambuca slope parameterisation.
func DefaultSIOPModel() *SIOPModel {
	return &SIOPModel{
		SlopeCDOM:        0.0168052,
		SlopeNAP:         0.00977262,
		SlopeBackscatter: 0.878138,
		Lambda0CDOM:      550.0,
		Lambda0NAP:       550.0,
		Lambda0X:         546.0,
		ACDOMLambda0:     1.0,
		ANAPLambda0:      0.00433,
		XPhLambda0:       0.00157747,
		XNAPLambda0:      0.0225353,
		BbWaterLambdaRef: 550.0,
	}
}

// CDOMAbsorption derives the CDOM specific absorption spectrum on the
// given grid as an exponential decay away from the reference wavelength.
func (m *SIOPModel) CDOMAbsorption(grid []float64) (*Spectrum, error) {
	values := make([]float64, len(grid))
	for i, w := range grid {
		values[i] = m.ACDOMLambda0 * math.Exp(-m.SlopeCDOM*(w-m.Lambda0CDOM))
	}
	return NewSpectrum(grid, values)
}

// NAPAbsorption derives the NAP specific absorption spectrum on the given
// grid as an exponential decay away from the reference wavelength.
func (m *SIOPModel) NAPAbsorption(grid []float64) (*Spectrum, error) {
	values := make([]float64, len(grid))
	for i, w := range grid {
		values[i] = m.ANAPLambda0 * math.Exp(-m.SlopeNAP*(w-m.Lambda0NAP))
	}
	return NewSpectrum(grid, values)
}

// PhytoplanktonBackscatter derives the phytoplankton specific backscatter
// spectrum on the given grid as a power law in wavelength.
func (m *SIOPModel) PhytoplanktonBackscatter(grid []float64) (*Spectrum, error) {
	values := make([]float64, len(grid))
	for i, w := range grid {
		values[i] = m.XPhLambda0 * math.Pow(m.Lambda0X/w, m.SlopeBackscatter)
	}
	return NewSpectrum(grid, values)
}

// NAPBackscatter derives the NAP specific backscatter spectrum on the
// given grid as a power law in wavelength.
func (m *SIOPModel) NAPBackscatter(grid []float64) (*Spectrum, error) {
	values := make([]float64, len(grid))
	for i, w := range grid {
		values[i] = m.XNAPLambda0 * math.Pow(m.Lambda0X/w, m.SlopeBackscatter)
	}
	return NewSpectrum(grid, values)
}

// WaterBackscatter derives the pure-water backscatter spectrum on the given
// grid following Mobley (1994), Radiative Transfer in Natural Waters.
func (m *SIOPModel) WaterBackscatter(grid []float64) (*Spectrum, error) {
	values := make([]float64, len(grid))
	for i, w := range grid {
		values[i] = (0.00194 / 2.0) * math.Pow(m.BbWaterLambdaRef/w, 4.32)
	}
	return NewSpectrum(grid, values)
}
