// Package tabular models named-sheet data sources (workbooks, CSV files, in-memory
// tables) behind a small interface so sheet lookup never depends on a concrete reader.
package tabular

import (
	"strconv"
	"strings"

	"github.com/Aashish23092/workforce-metrics/utils"
)

// CellKind classifies a cell value.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	default:
		return "empty"
	}
}

// Cell is one typed value of a row.
type Cell struct {
	Raw  string
	Kind CellKind
}

// NewCell types a raw value: blank is empty, anything ParseFloat accepts is a number.
func NewCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return Cell{Raw: raw, Kind: CellEmpty}
	case isNumber(trimmed):
		return Cell{Raw: raw, Kind: CellNumber}
	default:
		return Cell{Raw: raw, Kind: CellText}
	}
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// IsBlank reports whether the cell holds nothing but whitespace.
func (c Cell) IsBlank() bool {
	return c.Kind == CellEmpty
}

// Identifier returns the canonical identifier held by the cell. Number cells are
// already ASCII and go straight to numeric canonicalization; text cells may carry
// Eastern digits or thousands separators.
func (c Cell) Identifier() (string, bool) {
	switch c.Kind {
	case CellEmpty:
		return "", false
	case CellNumber:
		return utils.CanonicalNumericID(c.Raw)
	default:
		return utils.NormalizeIdentifier(c.Raw)
	}
}

// Text returns the value with surrounding whitespace removed.
func (c Cell) Text() string {
	return strings.TrimSpace(c.Raw)
}

// Table is a fully loaded sheet.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Cell
	index   map[string]int
}

// NewTable builds a table, trimming header names. Rows shorter than the header are
// treated as having empty trailing cells.
func NewTable(name string, columns []string, rows [][]Cell) *Table {
	t := &Table{
		Name:    name,
		Columns: TrimHeader(columns),
		Rows:    rows,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range t.Columns {
		if _, dup := t.index[col]; !dup {
			t.index[col] = i
		}
	}
	return t
}

// ColumnIndex returns the position of the first column named name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Value returns the cell at row for column, or an empty cell when either is out of range.
func (t *Table) Value(row []Cell, column string) Cell {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return Cell{}
	}
	return row[i]
}

// Sheet is one named table of a source. Header must be cheap: implementations read
// only the first row.
type Sheet interface {
	Name() string
	Header() ([]string, error)
	Load() (*Table, error)
}

// Source is an ordered collection of sheets.
type Source interface {
	Sheets() []Sheet
}

// TrimHeader returns a copy of columns with surrounding whitespace removed.
func TrimHeader(columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = strings.TrimSpace(col)
	}
	return out
}

func cellsFromStrings(values []string) []Cell {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = NewCell(v)
	}
	return cells
}
