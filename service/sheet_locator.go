package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Aashish23092/workforce-metrics/tabular"
)

// ErrSchemaNotFound is matched by every *SchemaNotFoundError.
var ErrSchemaNotFound = errors.New("schema not found")

// RoleSpec names a sheet role and the columns a sheet must expose to fill it.
type RoleSpec struct {
	Role     string
	Required []string
}

// SchemaNotFoundError reports that no sheet satisfied a role. Observed maps every
// inspected sheet to the header it exposed.
type SchemaNotFoundError struct {
	Role     string
	Required []string
	Observed map[string][]string
	order    []string
}

func (e *SchemaNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no sheet provides the %s columns [%s]", e.Role, strings.Join(e.Required, ", "))
	if len(e.order) == 0 {
		b.WriteString("; the file has no sheets")
		return b.String()
	}
	b.WriteString("; observed:")
	for _, name := range e.order {
		fmt.Fprintf(&b, " %q=[%s]", name, strings.Join(e.Observed[name], ", "))
	}
	return b.String()
}

func (e *SchemaNotFoundError) Is(target error) bool {
	return target == ErrSchemaNotFound
}

// Missing returns the required columns absent from the named observed sheet.
func (e *SchemaNotFoundError) Missing(sheet string) []string {
	return missingColumns(e.Observed[sheet], e.Required)
}

// SheetResolution is the sheet chosen for a role.
type SheetResolution struct {
	Sheet tabular.Sheet
	// AlsoMatched lists later sheets that satisfied the role too; the first in
	// declared order always wins.
	AlsoMatched []string
}

// LocateSheet returns the first sheet, in declared order, whose header is a superset
// of role.Required. Only headers are read. A sheet whose header cannot be read does
// not match.
func LocateSheet(sheets []tabular.Sheet, role RoleSpec) (*SheetResolution, error) {
	var res *SheetResolution
	notFound := &SchemaNotFoundError{
		Role:     role.Role,
		Required: append([]string(nil), role.Required...),
		Observed: make(map[string][]string, len(sheets)),
	}

	for _, sheet := range sheets {
		header, err := sheet.Header()
		if err != nil {
			header = nil
		}
		notFound.Observed[sheet.Name()] = header
		notFound.order = append(notFound.order, sheet.Name())

		if len(missingColumns(header, role.Required)) > 0 {
			continue
		}
		if res == nil {
			res = &SheetResolution{Sheet: sheet}
		} else {
			res.AlsoMatched = append(res.AlsoMatched, sheet.Name())
		}
	}

	if res == nil {
		return nil, notFound
	}
	return res, nil
}

func missingColumns(header, required []string) []string {
	have := make(map[string]struct{}, len(header))
	for _, col := range header {
		have[strings.TrimSpace(col)] = struct{}{}
	}
	var missing []string
	for _, col := range required {
		if _, ok := have[col]; !ok {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}
