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
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// WriteResultCSV writes every per-wavelength output of one model run as
// delimited text, one row per wavelength.
func (r *Result) WriteResultCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"wavelength", "a", "bb", "kd", "kuc", "kub",
		"substrate_r", "deep_rrs", "rrs", "rrs_above"}); err != nil {
		return fmt.Errorf("shoal: writing result: %v", err)
	}
	grid := r.A.wavelengths
	for i, wl := range grid {
		rec := []string{
			formatFloat(wl),
			formatFloat(r.A.values[i]),
			formatFloat(r.Bb.values[i]),
			formatFloat(r.Kd.values[i]),
			formatFloat(r.KuC.values[i]),
			formatFloat(r.KuB.values[i]),
			formatFloat(r.SubstrateR.values[i]),
			formatFloat(r.DeepRrs.values[i]),
			formatFloat(r.SubsurfaceRrs.values[i]),
			formatFloat(r.AboveRrs.values[i]),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("shoal: writing result: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBandsCSV writes the simulated band observations of a batch of model
// runs as delimited text, one row per sample and one column per band.
// Every result must carry band values for the same set of bands.
func WriteBandsCSV(w io.Writer, results []*Result) error {
	if len(results) == 0 {
		return nil
	}
	if results[0].Bands == nil {
		return fmt.Errorf("shoal: writing band observations: results hold no band values")
	}
	bands := make([]string, 0, len(results[0].Bands))
	for name := range results[0].Bands {
		bands = append(bands, name)
	}
	sort.Strings(bands)

	cw := csv.NewWriter(w)
	header := append([]string{"sample"}, bands...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("shoal: writing band observations: %v", err)
	}
	for i, r := range results {
		rec := make([]string, 0, len(bands)+1)
		rec = append(rec, strconv.Itoa(i))
		for _, name := range bands {
			v, ok := r.Bands[name]
			if !ok {
				return fmt.Errorf("shoal: writing band observations: sample %d is missing band %s",
					i, name)
			}
			rec = append(rec, formatFloat(v))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("shoal: writing band observations: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
