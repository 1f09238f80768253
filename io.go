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
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
)

// This file holds the loading collaborators for the model: readers that
// turn spectral-library and tabular files into Spectrum values. The readers
// enforce the Spectrum numeric invariants (strictly increasing wavelengths,
// finite values) through NewSpectrum; the model stages themselves never
// re-validate file structure.

// ReadSpectraCSV reads named spectra from delimited text. The first column
// holds band centre wavelengths [nm]; every other column is one named
// spectrum, with the names taken from the header row.
func ReadSpectraCSV(r io.Reader) (map[string]*Spectrum, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("shoal: reading spectra from delimited text: %v", err)
	}
	if len(records) < 3 {
		return nil, fmt.Errorf("shoal: reading spectra from delimited text: "+
			"need a header row and at least 2 data rows but have %d rows", len(records))
	}
	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("shoal: reading spectra from delimited text: " +
			"need a wavelength column and at least one spectrum column")
	}
	nrows := len(records) - 1
	wavelengths := make([]float64, nrows)
	columns := make([][]float64, len(header)-1)
	for i := range columns {
		columns[i] = make([]float64, nrows)
	}
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("shoal: reading spectra from delimited text: "+
				"row %d has %d fields but the header has %d", i+2, len(rec), len(header))
		}
		if wavelengths[i], err = strconv.ParseFloat(rec[0], 64); err != nil {
			return nil, fmt.Errorf("shoal: reading spectra from delimited text: "+
				"row %d: %v", i+2, err)
		}
		for j, field := range rec[1:] {
			if columns[j][i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("shoal: reading spectra from delimited text: "+
					"row %d, column %s: %v", i+2, header[j+1], err)
			}
		}
	}
	o := make(map[string]*Spectrum, len(columns))
	for j, name := range header[1:] {
		if o[name], err = NewSpectrum(wavelengths, columns[j]); err != nil {
			return nil, fmt.Errorf("shoal: spectrum %s: %w", name, err)
		}
	}
	return o, nil
}

// ReadSpectraXLSX reads named spectra from a sheet of a Microsoft Excel
// file with the same layout that ReadSpectraCSV accepts: wavelengths in the
// first column, one named spectrum per following column. An empty sheet
// name selects the first sheet in the file.
func ReadSpectraXLSX(fileName, sheet string) (map[string]*Spectrum, error) {
	f, err := xlsx.OpenFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("shoal: opening xlsx file: %v", err)
	}
	var s *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("shoal: reading spectra from %s: file has no sheets", fileName)
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		if s, ok = f.Sheet[sheet]; !ok {
			return nil, fmt.Errorf("shoal: reading spectra from %s: no sheet %s", fileName, sheet)
		}
	}
	// Re-encode the sheet as delimited records so both tabular encodings
	// share one parser.
	var b strings.Builder
	cw := csv.NewWriter(&b)
	for _, row := range s.Rows {
		if len(row.Cells) == 0 {
			continue
		}
		rec := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			rec[i] = strings.TrimSpace(cell.Value)
		}
		cw.Write(rec)
	}
	cw.Flush()
	return ReadSpectraCSV(strings.NewReader(b.String()))
}

// spectralLibraryHeader holds the fields of a spectral library header file
// that the reader cares about.
type spectralLibraryHeader struct {
	samples     int // number of wavelengths per spectrum
	lines       int // number of spectra
	dataType    int
	byteOrder   int
	names       []string
	wavelengths []float64
}

// ReadSpectralLibrary reads named spectra from a spectral library: a pair
// of files sharing a base name, an ASCII header (.hdr) describing the
// layout plus the band centre wavelengths and spectra names, and a binary
// body (.lib) holding one 32-bit float spectrum per named entry. Spectrum
// names in the returned map are prefixed with the base of the file name,
// "base:name", so that entries from several libraries can be collected into
// one map without clashing.
func ReadSpectralLibrary(baseName string) (map[string]*Spectrum, error) {
	hdr, err := readSpectralLibraryHeader(baseName + ".hdr")
	if err != nil {
		return nil, err
	}
	body, err := os.Open(baseName + ".lib")
	if err != nil {
		return nil, fmt.Errorf("shoal: opening spectral library: %v", err)
	}
	defer body.Close()

	order := binary.ByteOrder(binary.LittleEndian)
	if hdr.byteOrder == 1 {
		order = binary.BigEndian
	}
	prefix := baseName
	if i := strings.LastIndexAny(prefix, "/\\"); i >= 0 {
		prefix = prefix[i+1:]
	}
	o := make(map[string]*Spectrum, hdr.lines)
	r := bufio.NewReader(body)
	for _, name := range hdr.names {
		raw := make([]float32, hdr.samples)
		if err := binary.Read(r, order, raw); err != nil {
			return nil, fmt.Errorf("shoal: reading spectral library %s: %v", baseName, err)
		}
		values := make([]float64, hdr.samples)
		for i, v := range raw {
			values[i] = float64(v)
		}
		sp, err := NewSpectrum(hdr.wavelengths, values)
		if err != nil {
			return nil, fmt.Errorf("shoal: spectral library entry %s: %w", name, err)
		}
		o[prefix+":"+name] = sp
	}
	return o, nil
}

func readSpectralLibraryHeader(fileName string) (*spectralLibraryHeader, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("shoal: opening spectral library header: %v", err)
	}
	defer f.Close()

	fields, err := parseHeaderFields(f)
	if err != nil {
		return nil, fmt.Errorf("shoal: reading spectral library header %s: %v", fileName, err)
	}
	hdr := &spectralLibraryHeader{dataType: 4}
	intField := func(key string, dst *int) error {
		v, ok := fields[key]
		if !ok {
			return fmt.Errorf("shoal: spectral library header %s is missing the %s field",
				fileName, key)
		}
		*dst, err = strconv.Atoi(v)
		return err
	}
	if err := intField("samples", &hdr.samples); err != nil {
		return nil, err
	}
	if err := intField("lines", &hdr.lines); err != nil {
		return nil, err
	}
	if v, ok := fields["data type"]; ok {
		if hdr.dataType, err = strconv.Atoi(v); err != nil {
			return nil, err
		}
	}
	if hdr.dataType != 4 {
		return nil, fmt.Errorf("shoal: spectral library header %s: unsupported data type %d "+
			"(only 32-bit floats are supported)", fileName, hdr.dataType)
	}
	if v, ok := fields["byte order"]; ok {
		if hdr.byteOrder, err = strconv.Atoi(v); err != nil {
			return nil, err
		}
	}
	for _, name := range splitHeaderList(fields["spectra names"]) {
		hdr.names = append(hdr.names, name)
	}
	if len(hdr.names) != hdr.lines {
		return nil, fmt.Errorf("shoal: spectral library header %s: %d spectra names for %d spectra",
			fileName, len(hdr.names), hdr.lines)
	}
	for _, field := range splitHeaderList(fields["wavelength"]) {
		w, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("shoal: spectral library header %s: wavelength: %v", fileName, err)
		}
		hdr.wavelengths = append(hdr.wavelengths, w)
	}
	if len(hdr.wavelengths) != hdr.samples {
		return nil, fmt.Errorf("shoal: spectral library header %s: %d wavelengths for %d samples",
			fileName, len(hdr.wavelengths), hdr.samples)
	}
	return hdr, nil
}

// parseHeaderFields reads "key = value" lines, where a value beginning
// with '{' continues across lines until the matching '}'.
func parseHeaderFields(r io.Reader) (map[string]string, error) {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.Contains(line, "=") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		for strings.HasPrefix(value, "{") && !strings.HasSuffix(value, "}") {
			if !scanner.Scan() {
				return nil, fmt.Errorf("unterminated list in field %s", key)
			}
			value += " " + strings.TrimSpace(scanner.Text())
		}
		fields[key] = value
	}
	return fields, scanner.Err()
}

// splitHeaderList splits a "{a, b, c}" header list into its elements.
func splitHeaderList(v string) []string {
	v = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(v), "{"), "}")
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	o := make([]string, len(parts))
	for i, p := range parts {
		o[i] = strings.TrimSpace(p)
	}
	return o
}
