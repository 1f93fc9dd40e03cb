// SPDX-License-Identifier: MIT

// Package matrix - plain-text persistence.
//
// Format:
//
//	<rows> <cols>\n
//	v00, v01, ..., \n
//	v10, v11, ..., \n
//
// Every value is written with "%f, " (so each row ends with a trailing ", ").
// SaveCSV writes the same body without the header; LoadShape reads such a
// headerless body given an explicit shape. Every failure wraps ErrIO.
package matrix

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
)

const (
	opSave = "Save"
	opLoad = "Load"
)

// countingWriter tracks bytes written for io.WriterTo.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}

// WriteTo writes the header and body to w. It implements io.WriterTo.
func (m *Dense) WriteTo(w io.Writer) (int64, error) {
	return m.write(w, true)
}

// WriteCSVTo writes the body only.
func (m *Dense) WriteCSVTo(w io.Writer) (int64, error) {
	return m.write(w, false)
}

func (m *Dense) write(w io.Writer, header bool) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	if header {
		if _, err := fmt.Fprintf(bw, "%d %d\n", m.r, m.c); err != nil {
			return cw.n, fmt.Errorf("%s: %w: %v", opSave, ErrIO, err)
		}
	}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			if _, err := fmt.Fprintf(bw, "%f, ", m.data[i*m.c+j]); err != nil {
				return cw.n, fmt.Errorf("%s: %w: %v", opSave, ErrIO, err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return cw.n, fmt.Errorf("%s: %w: %v", opSave, ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("%s: %w: %v", opSave, ErrIO, err)
	}

	return cw.n, nil
}

// Save writes m with its header to path (created or truncated).
func (m *Dense) Save(path string) error {
	return m.saveFile(path, true)
}

// SaveCSV writes m without the header to path.
func (m *Dense) SaveCSV(path string) error {
	return m.saveFile(path, false)
}

func (m *Dense) saveFile(path string, header bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s %q: %w: %v", opSave, path, ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%s %q: %w: %v", opSave, path, ErrIO, cerr)
		}
	}()
	_, err = m.write(f, header)

	return err
}

// tokens splits a text body on commas and whitespace.
func tokens(body string) []string {
	return strings.FieldsFunc(body, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
}

// parseValues parses rows*cols values. The shape is checked against the token
// count before allocating, so an overflowing or oversized header is ErrIO.
func parseValues(toks []string, rows, cols int) ([]float64, error) {
	if cols > 0 && rows > math.MaxInt/cols {
		return nil, fmt.Errorf("%s: shape %dx%d overflows: %w", opLoad, rows, cols, ErrIO)
	}
	n := rows * cols
	if len(toks) < n {
		return nil, fmt.Errorf("%s: have %d values, want %d: %w", opLoad, len(toks), n, ErrIO)
	}
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(toks[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: value %d: %w: %v", opLoad, i, ErrIO, err)
		}
		vals[i] = v
	}

	return vals, nil
}

// ReadFrom replaces m with a matrix parsed from the headered text format.
// It implements io.ReaderFrom.
func (m *Dense) ReadFrom(r io.Reader) (int64, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return int64(len(body)), fmt.Errorf("%s: %w: %v", opLoad, ErrIO, err)
	}
	toks := tokens(string(body))
	if len(toks) < 2 {
		return int64(len(body)), fmt.Errorf("%s: missing header: %w", opLoad, ErrIO)
	}
	rows, err1 := strconv.Atoi(toks[0])
	cols, err2 := strconv.Atoi(toks[1])
	if err1 != nil || err2 != nil || rows < 0 || cols < 0 {
		return int64(len(body)), fmt.Errorf("%s: bad header %q %q: %w", opLoad, toks[0], toks[1], ErrIO)
	}
	vals, err := parseValues(toks[2:], rows, cols)
	if err != nil {
		return int64(len(body)), err
	}
	m.adopt(rows, cols, vals)

	return int64(len(body)), nil
}

// ReadShapeFrom replaces m with a rows×cols matrix parsed from a headerless body.
func (m *Dense) ReadShapeFrom(r io.Reader, rows, cols int) error {
	if rows < 0 || cols < 0 {
		return matrixErrorf(opLoad, ErrInvalidDimensions)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", opLoad, ErrIO, err)
	}
	vals, err := parseValues(tokens(string(body)), rows, cols)
	if err != nil {
		return err
	}
	m.adopt(rows, cols, vals)

	return nil
}

func (m *Dense) adopt(rows, cols int, vals []float64) {
	m.r, m.c = rows, cols
	m.data = vals
	m.owned = true
	m.cursor, m.full = 0, false
	if m.eps == 0 {
		m.eps = DefaultEpsilon
	}
}

// Load reads a headered matrix file.
func Load(path string) (*Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w: %v", opLoad, path, ErrIO, err)
	}
	defer f.Close()
	m := NewEmpty()
	if _, err = m.ReadFrom(f); err != nil {
		return nil, err
	}

	return m, nil
}

// LoadShape reads a headerless matrix file with an explicit shape.
func LoadShape(path string, rows, cols int) (*Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w: %v", opLoad, path, ErrIO, err)
	}
	defer f.Close()
	m := NewEmpty()
	if err = m.ReadShapeFrom(f, rows, cols); err != nil {
		return nil, err
	}

	return m, nil
}
