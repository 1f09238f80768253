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

import "math"

// ModelConstants holds the empirical constants of the semi-analytical
// Lee/Sambuca shallow-water reflectance model. The defaults returned by
// DefaultConstants are the published values; all of them are plain data so
// that alternative calibrations can be supplied without touching the model
// code.
type ModelConstants struct {
	// Deep-water subsurface reflectance polynomial:
	// rrsdp = (G0 + G1·u)·u, with u = bb/(a+bb).
	G0, G1 float64

	// Optical path elongation for scattered photons,
	// Du = C0·sqrt(1 + C1·u), for light that has traversed only the
	// water column and for light reflected off the bottom.
	DuColumn0, DuColumn1 float64
	DuBottom0, DuBottom1 float64

	// RefractiveIndex of the water body, used to refract the solar and
	// viewing zenith angles beneath the surface.
	RefractiveIndex float64

	// Air-water interface correction relating subsurface to above-water
	// remote-sensing reflectance: Rrs = Zeta·rrs / (1 − Gamma·rrs).
	SurfaceZeta  float64
	SurfaceGamma float64

	// MinDepth is the exclusive lower bound on water column depth [m].
	MinDepth float64
}

// Refractive index of seawater.
const refractiveIndexSeawater = 1.33784

// DefaultConstants returns the published Lee/Sambuca model constants.
func DefaultConstants() ModelConstants {
	return ModelConstants{
		G0:              0.084,
		G1:              0.17,
		DuColumn0:       1.03,
		DuColumn1:       2.40,
		DuBottom0:       1.04,
		DuBottom1:       5.40,
		RefractiveIndex: refractiveIndexSeawater,
		SurfaceZeta:     0.518,
		SurfaceGamma:    1.562,
		MinDepth:        0,
	}
}

// Geometry describes the water column and viewing geometry for one model
// run.
type Geometry struct {
	Depth         float64 // water column depth [m], > MinDepth
	SolarZenith   float64 // solar zenith angle in air [degrees]
	ViewingZenith float64 // sensor off-nadir angle in air [degrees]

	// Substrate is the benthic substrate reflectance spectrum, on the
	// working wavelength grid.
	Substrate *Spectrum

	// Substrate2, when non-nil, is mixed with Substrate as
	// q·Substrate + (1−q)·Substrate2 where q = SubstrateFraction.
	Substrate2        *Spectrum
	SubstrateFraction float64
}

// WaterColumnReflectance holds the per-wavelength outputs of the
// reflectance stage. The attenuation spectra are externally meaningful
// intermediates, not just scratch values, and are retained for downstream
// consumers.
type WaterColumnReflectance struct {
	SubstrateR    *Spectrum // combined substrate reflectance
	DeepRrs       *Spectrum // optically-deep subsurface reflectance rrsdp
	Kd            *Spectrum // downwelling attenuation [1/m]
	KuC           *Spectrum // upwelling attenuation, water-column path [1/m]
	KuB           *Spectrum // upwelling attenuation, bottom-reflected path [1/m]
	SubsurfaceRrs *Spectrum // shallow-water subsurface reflectance rrs
	AboveRrs      *Spectrum // above-water remote-sensing reflectance Rrs
}

// checkGeometry validates the scalar parts of the geometry.
func (mc *ModelConstants) checkGeometry(g *Geometry) error {
	if g.Depth <= mc.MinDepth || math.IsNaN(g.Depth) || math.IsInf(g.Depth, 0) {
		return &InvalidParameterError{Name: "depth", Value: g.Depth,
			Constraint: "finite and > minimum depth"}
	}
	if g.SolarZenith < 0 || g.SolarZenith >= 90 {
		return &InvalidParameterError{Name: "solar zenith angle", Value: g.SolarZenith,
			Constraint: "in [0, 90) degrees"}
	}
	if g.ViewingZenith < 0 || g.ViewingZenith >= 90 {
		return &InvalidParameterError{Name: "viewing zenith angle", Value: g.ViewingZenith,
			Constraint: "in [0, 90) degrees"}
	}
	if g.Substrate2 != nil && (g.SubstrateFraction < 0 || g.SubstrateFraction > 1) {
		return &InvalidParameterError{Name: "substrate fraction", Value: g.SubstrateFraction,
			Constraint: "in [0, 1]"}
	}
	return nil
}

// Reflectance computes the subsurface and above-water remote-sensing
// reflectance spectra from total absorption a and total backscatter bb
// [both 1/m] and the given geometry, following the semi-analytical
// Lee/Sambuca model.
//
// Every wavelength is treated independently. At each one the
// single-scattering ratio u = bb/(a+bb) drives the deep-water reflectance
// polynomial, and the shallow-water value blends the deep-water reflectance
// with the substrate reflectance through exponential attenuation over the
// water column depth. Arbitrarily deep water saturates to the deep-water
// value because the bottom term underflows to zero; that needs no special
// branch. A wavelength where a and bb are both exactly zero causes a
// DivisionSingularityError.
func (mc *ModelConstants) Reflectance(a, bb *Spectrum, g *Geometry) (*WaterColumnReflectance, error) {
	if err := mc.checkGeometry(g); err != nil {
		return nil, err
	}
	grid := a.wavelengths
	if !sameGrid(grid, bb.wavelengths) || !sameGrid(grid, g.Substrate.wavelengths) {
		return nil, errGridMismatch("reflectance")
	}
	if g.Substrate2 != nil && !sameGrid(grid, g.Substrate2.wavelengths) {
		return nil, errGridMismatch("reflectance")
	}

	// Combined substrate reflectance.
	rb := make([]float64, len(grid))
	if g.Substrate2 == nil {
		copy(rb, g.Substrate.values)
	} else {
		q := g.SubstrateFraction
		for i := range rb {
			rb[i] = q*g.Substrate.values[i] + (1-q)*g.Substrate2.values[i]
		}
	}

	// Sub-surface solar and viewing zenith angles [radians], refracted
	// through the air-water interface.
	invN := 1.0 / mc.RefractiveIndex
	thetaW := math.Asin(invN * math.Sin(g.SolarZenith*math.Pi/180))
	thetaO := math.Asin(invN * math.Sin(g.ViewingZenith*math.Pi/180))
	invCosThetaW := 1.0 / math.Cos(thetaW)
	invCosThetaO := 1.0 / math.Cos(thetaO)

	deep := make([]float64, len(grid))
	kd := make([]float64, len(grid))
	kuc := make([]float64, len(grid))
	kub := make([]float64, len(grid))
	rrs := make([]float64, len(grid))
	above := make([]float64, len(grid))

	for i, w := range grid {
		kappa := a.values[i] + bb.values[i]
		if kappa == 0 {
			return nil, &DivisionSingularityError{Wavelength: w}
		}
		u := bb.values[i] / kappa

		// Optical path elongation for scattered photons, for the
		// water-column and bottom-reflected paths.
		duColumn := mc.DuColumn0 * math.Sqrt(1+mc.DuColumn1*u) * invCosThetaO
		duBottom := mc.DuBottom0 * math.Sqrt(1+mc.DuBottom1*u) * invCosThetaO

		deep[i] = (mc.G0 + mc.G1*u) * u
		kd[i] = kappa * invCosThetaW
		kuc[i] = kappa * duColumn
		kub[i] = kappa * duBottom

		kappaD := kappa * g.Depth
		rrs[i] = deep[i]*(1-math.Exp(-(invCosThetaW+duColumn)*kappaD)) +
			rb[i]/math.Pi*math.Exp(-(invCosThetaW+duBottom)*kappaD)
		above[i] = mc.SurfaceZeta * rrs[i] / (1 - mc.SurfaceGamma*rrs[i])
	}

	return &WaterColumnReflectance{
		SubstrateR:    &Spectrum{wavelengths: grid, values: rb},
		DeepRrs:       &Spectrum{wavelengths: grid, values: deep},
		Kd:            &Spectrum{wavelengths: grid, values: kd},
		KuC:           &Spectrum{wavelengths: grid, values: kuc},
		KuB:           &Spectrum{wavelengths: grid, values: kub},
		SubsurfaceRrs: &Spectrum{wavelengths: grid, values: rrs},
		AboveRrs:      &Spectrum{wavelengths: grid, values: above},
	}, nil
}
