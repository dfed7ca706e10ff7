package tableqa

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is one worksheet loaded into memory: a header row plus string data
// rows. Rows are padded to the header width so cell lookups never go out of
// range.
type Table struct {
	SheetName string
	Columns   []string
	Rows      [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists in the header.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the trimmed value at the given data row for the named column.
// Missing columns and out-of-range rows yield "".
func (t *Table) Cell(row int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][idx])
}

// workbook exposes the sheets of one tabular file, whatever the container
// format. CSV files appear as a single sheet named after the file.
type workbook struct {
	sheetNames []string
	loadSheet  func(name string) (*Table, error)
	closeFn    func() error
}

func (w *workbook) Close() error {
	if w.closeFn != nil {
		return w.closeFn()
	}
	return nil
}

// openWorkbook opens the staged file by extension: csv through encoding/csv,
// everything else through excelize.
func openWorkbook(path string) (*workbook, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return openCSVWorkbook(path)
	}
	return openExcelWorkbook(path)
}

func openExcelWorkbook(path string) (*workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	return &workbook{
		sheetNames: f.GetSheetList(),
		loadSheet: func(name string) (*Table, error) {
			rows, err := f.GetRows(name)
			if err != nil {
				return nil, fmt.Errorf("read sheet %q: %w", name, err)
			}
			return tableFromRows(name, rows), nil
		},
		closeFn: f.Close,
	}, nil
}

func openCSVWorkbook(path string) (*workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are padded below

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, rec)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	table := tableFromRows(name, rows)

	return &workbook{
		sheetNames: []string{name},
		loadSheet: func(string) (*Table, error) {
			return table, nil
		},
	}, nil
}

// tableFromRows builds a Table from raw rows: first row is the header,
// remaining rows are data, padded or cut to the header width.
func tableFromRows(sheetName string, rows [][]string) *Table {
	t := &Table{SheetName: sheetName}
	if len(rows) == 0 {
		return t
	}

	for _, c := range rows[0] {
		t.Columns = append(t.Columns, strings.TrimSpace(c))
	}

	width := len(t.Columns)
	for _, row := range rows[1:] {
		data := make([]string, width)
		copy(data, row)
		t.Rows = append(t.Rows, data)
	}
	return t
}
