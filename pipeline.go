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

// Package shoal implements a semi-analytical optical forward model for
// shallow-water remote sensing. Given water-column constituent
// concentrations, a substrate reflectance, a water depth and
// wavelength-resolved specific inherent optical properties, it predicts the
// remote-sensing reflectance spectrum observed above the water surface,
// along with the intermediate absorption, backscatter and attenuation
// spectra.
package shoal

// Version gives the version number of this version of shoal.
const Version = "0.1.0"

// A Sample is one parameter set for the forward model: the constituent
// concentrations of the water column plus its depth, substrate and viewing
// geometry.
type Sample struct {
	Concentrations Concentrations
	Geometry       Geometry
}

// A Result holds every output of one forward model run. The coefficient
// and attenuation spectra are part of the public output on purpose:
// downstream consumers need the IOP intermediates, not only the final
// reflectance.
type Result struct {
	A  *Spectrum // total absorption coefficient [1/m]
	Bb *Spectrum // total backscattering coefficient [1/m]

	SubstrateR    *Spectrum // combined substrate reflectance
	DeepRrs       *Spectrum // optically-deep subsurface reflectance
	Kd            *Spectrum // downwelling attenuation [1/m]
	KuC           *Spectrum // upwelling attenuation, water-column path [1/m]
	KuB           *Spectrum // upwelling attenuation, bottom-reflected path [1/m]
	SubsurfaceRrs *Spectrum // subsurface remote-sensing reflectance
	AboveRrs      *Spectrum // above-water remote-sensing reflectance

	// Bands holds the per-band simulated observations when a FilterSet
	// was supplied, and is nil otherwise.
	Bands map[string]float64
}

// A Model bundles the empirical constants used by the reflectance stage.
// The zero value is not usable; construct with NewModel.
type Model struct {
	constants ModelConstants
}

// NewModel creates a forward model using the given constants. Most callers
// want NewModel(DefaultConstants()).
func NewModel(constants ModelConstants) *Model {
	return &Model{constants: constants}
}

// Constants returns the model constants.
func (m *Model) Constants() ModelConstants { return m.constants }

// Run threads one sample through the three model stages — total optical
// coefficients, water-column reflectance, and (when filters is non-nil)
// sensor band convolution — and collects every intermediate. It is a pure
// function: identical inputs produce bit-for-bit identical outputs, the
// shared SIOPSet and FilterSet are never mutated, and a failure in any
// stage is returned unchanged.
func (m *Model) Run(siops *SIOPSet, sample Sample, filters *FilterSet) (*Result, error) {
	a, err := TotalAbsorption(siops, sample.Concentrations)
	if err != nil {
		return nil, err
	}
	bb, err := TotalBackscatter(siops, sample.Concentrations)
	if err != nil {
		return nil, err
	}
	refl, err := m.constants.Reflectance(a, bb, &sample.Geometry)
	if err != nil {
		return nil, err
	}
	r := &Result{
		A:             a,
		Bb:            bb,
		SubstrateR:    refl.SubstrateR,
		DeepRrs:       refl.DeepRrs,
		Kd:            refl.Kd,
		KuC:           refl.KuC,
		KuB:           refl.KuB,
		SubsurfaceRrs: refl.SubsurfaceRrs,
		AboveRrs:      refl.AboveRrs,
	}
	if filters != nil {
		if r.Bands, err = filters.Convolve(refl.AboveRrs); err != nil {
			return nil, err
		}
	}
	return r, nil
}
