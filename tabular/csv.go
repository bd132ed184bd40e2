package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadCSV parses CSV bytes into a single-sheet source named after the file.
func ReadCSV(name string, data []byte) (MemorySource, error) {
	// Excel exports CSV with a UTF-8 BOM; it would otherwise stick to the first header.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		rows = append(rows, record)
	}

	sheet := MemorySheet{SheetName: strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))}
	if len(rows) > 0 {
		sheet.Columns = rows[0]
		sheet.Rows = rows[1:]
	}
	return NewMemorySource(sheet), nil
}

// ErrUnreadable wraps every failure of Open: the file is not a workbook or CSV
// this package can parse.
var ErrUnreadable = errors.New("unreadable tabular file")

// Open picks the reader from the file extension. The returned close func is never nil.
func Open(name string, data []byte) (Source, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		src, err := ReadCSV(name, data)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
		return src, noop, nil
	case ".xlsx", ".xlsm":
		wb, err := OpenWorkbook(data)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
		return wb, wb.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unsupported file type %q", ErrUnreadable, filepath.Ext(name))
	}
}
