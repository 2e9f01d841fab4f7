// Package sheet loads and writes the single-table workbooks handled by the
// translator: a header row of column names followed by data rows.
package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheet indicates the workbook has no worksheet to read.
var ErrNoSheet = errors.New("workbook has no worksheets")

// Column is one named column of a table and its zero-based position.
type Column struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Table is the active worksheet. Rows holds every cell as text for
// translation; Values holds the same cells with their stored type
// (float64, bool or string, nil when blank) so untouched cells can be
// written back unchanged. Every row has exactly len(Columns) cells.
type Table struct {
	Sheet   string
	Columns []string
	Rows    [][]string
	Values  [][]interface{}
}

// Read loads the active worksheet of an xlsx file.
// Cells are read as stored, without number formats applied. Blank cells
// become "", and data rows whose cells are all blank are skipped. The table
// spans the widest row, so data right of the last header cell is kept under
// a column-letter name.
func Read(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	name := f.GetSheetName(f.GetActiveSheetIndex())
	if name == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, ErrNoSheet
		}
		name = list[0]
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	table := &Table{Sheet: name}
	if len(rows) == 0 {
		return table, nil
	}

	width := 0
	for _, raw := range rows {
		if len(raw) > width {
			width = len(raw)
		}
	}

	header := make([]string, width)
	copy(header, rows[0])
	table.Columns = headerNames(header)

	for r, raw := range rows[1:] {
		row := make([]string, width)
		copy(row, raw)
		if isBlank(row) {
			continue
		}

		values := make([]interface{}, width)
		for i, cell := range row {
			if cell == "" {
				continue
			}
			values[i], row[i] = typedValue(f, name, i+1, r+2, cell)
		}
		table.Rows = append(table.Rows, row)
		table.Values = append(table.Values, values)
	}

	return table, nil
}

// Value returns the stored value of a data cell, falling back to its text
// for tables built without Values.
func (t *Table) Value(row, col int) interface{} {
	if row < len(t.Values) && col < len(t.Values[row]) {
		return t.Values[row][col]
	}
	if text := t.Rows[row][col]; text != "" {
		return text
	}
	return nil
}

// NonEmptyColumns returns columns holding at least one non-empty value, in
// header order. Only these are offered for translation.
func (t *Table) NonEmptyColumns() []Column {
	var out []Column
	for i, name := range t.Columns {
		for _, row := range t.Rows {
			if row[i] != "" {
				out = append(out, Column{Name: name, Index: i})
				break
			}
		}
	}
	return out
}

// Select resolves column names to positions. Every column carrying a
// requested name is selected; names absent from the header are returned
// as missing.
func (t *Table) Select(names []string) (selected map[int]bool, missing []string) {
	selected = make(map[int]bool, len(names))
	for _, name := range names {
		found := false
		for i, col := range t.Columns {
			if col == name {
				selected[i] = true
				found = true
			}
		}
		if !found {
			missing = append(missing, name)
		}
	}
	return selected, missing
}

// headerNames names blank header cells after their column letter.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	for i, cell := range header {
		if strings.TrimSpace(cell) == "" {
			letter, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				letter = fmt.Sprintf("Column %d", i+1)
			}
			names[i] = letter
			continue
		}
		names[i] = cell
	}
	return names
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// typedValue converts a raw cell string to the value it was stored as and
// the text offered for translation.
func typedValue(f *excelize.File, sheetName string, col, row int, raw string) (interface{}, string) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw, raw
	}
	typ, err := f.GetCellType(sheetName, cell)
	if err != nil {
		return raw, raw
	}

	switch typ {
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return true, "TRUE"
		}
		return false, "FALSE"
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v, raw
		}
	}
	return raw, raw
}
