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
	"runtime"
	"sync"
)

// RunBatch concurrently runs the forward model for every sample, sharing
// the read-only SIOPSet and FilterSet across runtime.GOMAXPROCS(0) worker
// goroutines. Samples are independent of each other, so no synchronisation
// beyond the final join is needed. Results keep the order of the input
// samples. If any samples fail, the error for the lowest-indexed failing
// sample is returned.
func (m *Model) RunBatch(siops *SIOPSet, samples []Sample, filters *FilterSet) ([]*Result, error) {
	nprocs := runtime.GOMAXPROCS(0)
	results := make([]*Result, len(samples))
	errs := make([]error, len(samples))

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for ii := pp; ii < len(samples); ii += nprocs {
				results[ii], errs[ii] = m.Run(siops, samples[ii], filters)
			}
		}(pp)
	}
	wg.Wait()

	for ii, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("shoal: sample %d: %w", ii, err)
		}
	}
	return results, nil
}
