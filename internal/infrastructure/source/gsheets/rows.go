package gsheets

import (
	"fmt"
	"strings"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// mapRows converts raw sheet values into records keyed by header name.
// The first row is the header; it must contain every expected column for
// the table. Extra columns are carried through untouched, short data rows
// are padded with empty cells.
func mapRows(table record.Table, values [][]interface{}) ([]record.Row, error) {
	if len(values) == 0 {
		return nil, shared.WrapError("source", "mapRows", shared.ErrSheetEmpty,
			fmt.Sprintf("table %q", table), nil)
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = strings.TrimSpace(cellString(cell))
	}

	if err := checkHeader(table, header); err != nil {
		return nil, err
	}

	rows := make([]record.Row, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(record.Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(raw) {
				row[name] = cellString(raw[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// checkHeader verifies that every expected column for the table exists.
func checkHeader(table record.Table, header []string) error {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}

	var missing []string
	for _, name := range record.ExpectedColumns(table) {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return shared.WrapError("source", "checkHeader", shared.ErrMissingColumn,
			fmt.Sprintf("table %q: missing columns %s", table, strings.Join(missing, ", ")), nil)
	}
	return nil
}

// cellString renders a sheet cell as text. The Sheets API returns cells as
// untyped JSON values, so numbers may arrive as float64.
func cellString(v interface{}) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		// Avoid "85.000000" for integral cells.
		if c == float64(int64(c)) {
			return fmt.Sprintf("%d", int64(c))
		}
		return fmt.Sprintf("%g", c)
	case bool:
		if c {
			return "TRUE"
		}
		return "FALSE"
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}
