// Package tabular converts rankings to and from CSV.
//
// The file format is UTF-8, comma separated, with the header "name,position"
// and one row per ranked value in ascending position order.
package tabular

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jask/valuesort/internal/catalog"
)

// Header is the fixed column order.
var Header = []string{"name", "position"}

// ErrMalformedSource means the input could not be read as CSV rows at all.
var ErrMalformedSource = errors.New("malformed csv source")

// ParseError is returned by Deserialize when the source is unreadable.
type ParseError struct {
	Line int // 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", ErrMalformedSource, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrMalformedSource, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrMalformedSource, e.Err} }

// Row is one name/position pair.
type Row struct {
	Name     string
	Position int
}

// Serialize turns a ranking view into rows, preserving its order.
func Serialize(ranking []catalog.Entity) []Row {
	rows := make([]Row, 0, len(ranking))
	for _, e := range ranking {
		if e.Position == nil {
			continue
		}
		rows = append(rows, Row{Name: e.Name, Position: *e.Position})
	}
	return rows
}

// Write emits the header and rows as CSV.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Name, strconv.Itoa(r.Position)}); err != nil {
			return fmt.Errorf("write row %q: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Deserialize reads rows from r. The first record is the header; the name
// and position columns are located by name, case-insensitively, so extra
// columns and reordered files are accepted.
//
// A row is kept only when its name is non-empty and its position parses as
// a finite number (fractions are truncated). Every other row is dropped
// without error. The whole call fails only when the source cannot be read
// as CSV or the header lacks either column.
func Deserialize(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, parseErr(err)
	}
	nameCol, posCol := -1, -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case h == "name" && nameCol < 0:
			nameCol = i
		case h == "position" && posCol < 0:
			posCol = i
		}
	}
	if nameCol < 0 || posCol < 0 {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("header must contain name and position, got %q", strings.Join(header, ","))}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseErr(err)
		}
		if nameCol >= len(rec) || posCol >= len(rec) {
			continue
		}
		name := strings.TrimSpace(rec[nameCol])
		if name == "" {
			continue
		}
		pos, ok := parsePosition(rec[posCol])
		if !ok {
			continue
		}
		rows = append(rows, Row{Name: name, Position: pos})
	}
	return rows, nil
}

func parsePosition(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	// fractions truncate toward zero: 2.5 and 2 tie, and ties keep
	// catalog order until the ranking is renumbered
	return int(f), true
}

func parseErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Err: err}
}

// FileName is the suggested export name for a ranking taken at now.
func FileName(now time.Time) string {
	return "values_" + now.Format(time.DateOnly) + ".csv"
}

// WriteFile writes rows to path via a temporary file so a failed export never
// leaves a truncated file behind.
func WriteFile(path string, rows []Row) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, rows); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
