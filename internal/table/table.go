// Package table holds the tabular artifact shared by the download and
// render steps: one ordered x column followed by one numeric column per
// tracked symbol.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"
)

// Table is a columnar series table. X carries the ordered x-axis keys
// (dates or bare years), Y carries one row per observation with one
// value per series in Names. Duplicate x keys are allowed; an empty
// table (header only) is valid.
type Table struct {
	XName string
	Names []string
	X     []string
	Y     [][]float64
}

// New creates an empty table with the given column names.
func New(xName string, names []string) *Table {
	return &Table{XName: xName, Names: append([]string(nil), names...)}
}

// Len returns the number of observation rows.
func (t *Table) Len() int { return len(t.X) }

// Append adds one observation row. The value count must match the
// number of series.
func (t *Table) Append(x string, values []float64) error {
	if len(values) != len(t.Names) {
		return fmt.Errorf("row has %d values, want %d", len(values), len(t.Names))
	}
	t.X = append(t.X, x)
	t.Y = append(t.Y, append([]float64(nil), values...))
	return nil
}

// Series returns the j-th value column.
func (t *Table) Series(j int) []float64 {
	col := make([]float64, len(t.Y))
	for i, row := range t.Y {
		col[i] = row[j]
	}
	return col
}

// RowMax returns the largest value in row i across all series.
func (t *Table) RowMax(i int) float64 {
	m := math.Inf(-1)
	for _, v := range t.Y[i] {
		m = math.Max(m, v)
	}
	return m
}

// MaxUpTo returns the largest value across all series in rows [0, n).
// n is clamped to the table length.
func (t *Table) MaxUpTo(n int) float64 {
	if n > len(t.Y) {
		n = len(t.Y)
	}
	m := math.Inf(-1)
	for i := 0; i < n; i++ {
		m = math.Max(m, t.RowMax(i))
	}
	return m
}

// Max returns the largest value across the whole table.
func (t *Table) Max() float64 { return t.MaxUpTo(len(t.Y)) }

// Sample returns a table with n evenly spaced rows (first and last
// included). When n >= Len or n <= 0 the receiver is returned as is.
func (t *Table) Sample(n int) *Table {
	if n <= 0 || n >= t.Len() {
		return t
	}
	out := New(t.XName, t.Names)
	if n == 1 {
		out.X = append(out.X, t.X[0])
		out.Y = append(out.Y, t.Y[0])
		return out
	}
	for i := 0; i < n; i++ {
		idx := int(float64(i) * float64(t.Len()-1) / float64(n-1))
		out.X = append(out.X, t.X[idx])
		out.Y = append(out.Y, t.Y[idx])
	}
	return out
}

// XLabel returns a short axis label for row i: the year when the x key
// is a date, otherwise the raw key.
func (t *Table) XLabel(i int) string {
	if d, err := time.Parse("2006-01-02", t.X[i]); err == nil {
		return strconv.Itoa(d.Year())
	}
	return t.X[i]
}

// WriteTo writes the table as CSV: a header row naming the columns,
// then one row per observation.
func (t *Table) WriteTo(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{t.XName}, t.Names...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, 1+len(t.Names))
	for i, x := range t.X {
		record[0] = x
		for j, v := range t.Y[i] {
			record[j+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table as a CSV file.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a CSV table. The header must have at least two columns;
// every data cell after the first column must be numeric.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("header has %d columns, want at least 2", len(header))
	}

	t := New(header[0], header[1:])
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		values := make([]float64, len(record)-1)
		for j, cell := range record[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", row, t.Names[j], err)
			}
			values[j] = v
		}
		if err := t.Append(record[0], values); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
	}
	return t, nil
}

// ReadFile parses a CSV table from a file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
