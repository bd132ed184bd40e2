package tabular

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// rawValues keeps numeric identifiers as stored ("2345678901") instead of the
// display format ("2.35E+09").
var rawValues = excelize.Options{RawCellValue: true}

// Workbook is an xlsx Source. Close it when done.
type Workbook struct {
	file   *excelize.File
	sheets []Sheet
}

// OpenWorkbook parses xlsx bytes. Sheet order follows the workbook's tab order.
func OpenWorkbook(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}

	wb := &Workbook{file: f}
	for _, name := range f.GetSheetList() {
		wb.sheets = append(wb.sheets, &workbookSheet{file: f, name: name})
	}
	return wb, nil
}

func (w *Workbook) Sheets() []Sheet { return w.sheets }

// Close releases the underlying excelize file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

type workbookSheet struct {
	file *excelize.File
	name string
}

func (s *workbookSheet) Name() string { return s.name }

// Header streams the sheet and stops after the first row.
func (s *workbookSheet) Header() ([]string, error) {
	rows, err := s.file.Rows(s.name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", s.name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Error()
	}
	cols, err := rows.Columns(rawValues)
	if err != nil {
		return nil, fmt.Errorf("failed to read header of sheet %q: %w", s.name, err)
	}
	return TrimHeader(cols), nil
}

func (s *workbookSheet) Load() (*Table, error) {
	rows, err := s.file.Rows(s.name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", s.name, err)
	}
	defer rows.Close()

	var header []string
	var data [][]Cell
	first := true
	for rows.Next() {
		cols, err := rows.Columns(rawValues)
		if err != nil {
			return nil, fmt.Errorf("failed to read row of sheet %q: %w", s.name, err)
		}
		if first {
			header = cols
			first = false
			continue
		}
		data = append(data, cellsFromStrings(cols))
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", s.name, err)
	}
	return NewTable(s.name, header, data), nil
}
