package sheet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Write serializes a header row followed by text rows to a new xlsx file.
func Write(path string, columns []string, rows [][]string) error {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = toValues(row)
	}
	return WriteValues(path, columns, values)
}

// WriteValues serializes a header row followed by typed data rows to a new
// xlsx file. Nil cells are left blank. The workbook is written to a
// temporary file next to path and renamed into place, so a failed write
// never leaves a partial file at path.
func WriteValues(path string, columns []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(f.GetSheetName(0))
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	if err := sw.SetRow("A1", toValues(columns)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("move workbook into place: %w", err)
	}

	return nil
}

func toValues(cells []string) []interface{} {
	values := make([]interface{}, len(cells))
	for i, cell := range cells {
		values[i] = cell
	}
	return values
}
