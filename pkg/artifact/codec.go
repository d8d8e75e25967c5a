// Package artifact reads and writes the CSV files exchanged between the
// pipeline stages.
package artifact

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var ErrMissingColumn = errors.New("missing column")

// Codec converts between rows of a CSV file with a fixed header and T.
// Columns are looked up by name when decoding, additional columns are
// ignored.
type Codec[T any] struct {
	header []string
	encode func(T) []string
	decode func(*Record) T
}

func (c Codec[T]) Header() []string {
	return c.header
}

func (c Codec[T]) Encode(w io.Writer, items []T) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(c.header); err != nil {
		return err
	}
	for i := range items {
		if err := cw.Write(c.encode(items[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (c Codec[T]) Decode(r io.Reader) ([]T, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range c.header {
		if _, ok := cols[h]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, h)
		}
	}
	ret := []T{}
	rec := &Record{cols: cols}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return ret, nil
		}
		if err != nil {
			return nil, err
		}
		rec.row = row
		rec.line, _ = cr.FieldPos(0)
		item := c.decode(rec)
		if rec.err != nil {
			return nil, rec.err
		}
		ret = append(ret, item)
	}
}

// WriteFile creates (or truncates) path and encodes items into it.
func (c Codec[T]) WriteFile(path string, items []T) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err = c.Encode(f, items); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c Codec[T]) ReadFile(path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ret, err := c.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ret, nil
}

// Record gives access to the fields of the current row. The first parse
// error is kept and reported after the row is decoded.
type Record struct {
	cols map[string]int
	row  []string
	line int
	err  error
}

func (r *Record) String(col string) string {
	idx := r.cols[col]
	if idx >= len(r.row) {
		r.fail(col, "", errors.New("no value"))
		return ""
	}
	return strings.TrimSpace(r.row[idx])
}

func (r *Record) Float(col string) float64 {
	s := r.String(col)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.fail(col, s, err)
	}
	return v
}

func (r *Record) Int(col string) int {
	s := r.String(col)
	v, err := strconv.Atoi(s)
	if err != nil {
		// values written as 3.0 are accepted
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && f == math.Trunc(f) {
			return int(f)
		}
		r.fail(col, s, err)
	}
	return v
}

func (r *Record) fail(col, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("line %d, column %s (%q): %w", r.line, col, value, err)
	}
}

// FormatFloat formats v with the shortest representation that parses back
// to v. Integral values keep a trailing ".0", very small and very large
// values use the exponent form.
func FormatFloat(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
