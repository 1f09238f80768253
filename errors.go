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

import "fmt"

// InvalidParameterError indicates a scalar model input outside of its
// physical domain, for example a negative constituent concentration or a
// non-positive water depth. The model never substitutes a default for an
// out-of-domain parameter; the caller must fix the input.
type InvalidParameterError struct {
	Name       string  // name of the offending parameter
	Value      float64 // the value that was supplied
	Constraint string  // the constraint that was violated
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("shoal: invalid parameter %s = %g; must be %s",
		e.Name, e.Value, e.Constraint)
}

// OutOfRangeError indicates a request for data at a wavelength outside the
// range covered by a Spectrum, or a sensor band whose support lies entirely
// outside the working wavelength grid. Extrapolating past the ends of a
// measured spectrum would fabricate non-physical values, so it is always an
// error.
type OutOfRangeError struct {
	Wavelength float64 // requested wavelength [nm]
	Min, Max   float64 // available wavelength range [nm]
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("shoal: wavelength %g nm is outside of the available range [%g, %g] nm",
		e.Wavelength, e.Min, e.Max)
}

// DivisionSingularityError indicates a wavelength where both total
// absorption and total backscatter are exactly zero, so the single-scattering
// ratio u = bb/(a+bb) is undefined. A medium with no absorption and no
// scattering at some wavelength is physically degenerate and always means a
// misconfigured set of input spectra.
type DivisionSingularityError struct {
	Wavelength float64 // [nm]
}

func (e *DivisionSingularityError) Error() string {
	return fmt.Sprintf("shoal: total absorption and backscatter are both zero at %g nm",
		e.Wavelength)
}

// errGridMismatch reports spectra that should share a working wavelength
// grid but do not.
func errGridMismatch(stage string) error {
	return fmt.Errorf("shoal: %s: input spectra are not on a common wavelength grid", stage)
}

// MissingSIOPError indicates that a specific inherent optical property
// spectrum required by the model was not supplied when constructing a
// SIOPSet.
type MissingSIOPError struct {
	Name string // the missing spectrum, e.g. "water absorption"
}

func (e *MissingSIOPError) Error() string {
	return fmt.Sprintf("shoal: SIOP set is missing the required %s spectrum", e.Name)
}
