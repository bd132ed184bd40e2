package tabular

// MemorySheet is a sheet already held in memory.
type MemorySheet struct {
	SheetName string
	Columns   []string
	Rows      [][]string
}

func (s MemorySheet) Name() string { return s.SheetName }

func (s MemorySheet) Header() ([]string, error) {
	return TrimHeader(s.Columns), nil
}

func (s MemorySheet) Load() (*Table, error) {
	rows := make([][]Cell, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = cellsFromStrings(r)
	}
	return NewTable(s.SheetName, s.Columns, rows), nil
}

// MemorySource is a Source over in-memory sheets, in declared order.
type MemorySource []MemorySheet

// NewMemorySource builds a source from sheets.
func NewMemorySource(sheets ...MemorySheet) MemorySource {
	return MemorySource(sheets)
}

func (m MemorySource) Sheets() []Sheet {
	out := make([]Sheet, len(m))
	for i := range m {
		out[i] = m[i]
	}
	return out
}
