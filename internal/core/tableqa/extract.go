package tableqa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkruger-dev/tabulaq/internal/models"
)

// ValidateColumns checks a table against the expected schema. Missing
// required columns are returned by name; a missing optional column or any
// unknown column only produces a warning.
func ValidateColumns(t *Table, filename string) ([]string, []models.WarningRecord) {
	var warnings []models.WarningRecord
	var missing []string

	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}

	for _, col := range OptionalColumns {
		if !t.HasColumn(col) {
			warnings = append(warnings, newWarning(
				fmt.Sprintf("optional column %q missing in sheet %q", col, t.SheetName),
				KindMissingOptionalColumn,
				map[string]any{
					"column_name":       col,
					"filename":          filename,
					"sheet_name":        t.SheetName,
					"available_columns": t.Columns,
				},
			))
		}
	}

	known := make(map[string]bool, len(RequiredColumns)+len(OptionalColumns))
	for _, col := range RequiredColumns {
		known[col] = true
	}
	for _, col := range OptionalColumns {
		known[col] = true
	}

	var unknown []string
	for _, col := range t.Columns {
		if !known[col] {
			unknown = append(unknown, col)
		}
	}
	if len(unknown) > 0 {
		warnings = append(warnings, newWarning(
			fmt.Sprintf("unknown columns in sheet %q: %s", t.SheetName, strings.Join(unknown, ", ")),
			KindUnknownColumns,
			map[string]any{
				"unknown_columns":   unknown,
				"filename":          filename,
				"sheet_name":        t.SheetName,
				"available_columns": t.Columns,
				"supported_format":  supportedFormat,
			},
		))
	}

	return missing, warnings
}

// ExtractQAPairs converts data rows into QAPair records. Rows with a blank
// question or answer are dropped silently; the row id falls back to a
// synthetic row_<index> when the Nr. cell is blank or the column is absent.
func ExtractQAPairs(t *Table) []models.QAPair {
	hasComment := t.HasColumn("Kommentar")

	var pairs []models.QAPair
	for i := range t.Rows {
		question := t.Cell(i, "Frage")
		answer := t.Cell(i, "Antwort")
		if question == "" || answer == "" {
			continue
		}

		rowID := t.Cell(i, "Nr.")
		if rowID == "" {
			rowID = fmt.Sprintf("row_%d", i)
		}

		pair := models.QAPair{
			RowID:    rowID,
			Question: question,
			Answer:   answer,
			RowIndex: i,
		}
		if hasComment {
			if c := t.Cell(i, "Kommentar"); c != "" {
				pair.Comment = &c
			}
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

// Extractor runs sheet selection, schema validation, QA extraction and
// content formatting for one uploaded file. Structural problems are reported
// in the result's error list, never as a Go error.
type Extractor struct {
	selector *Selector
	logger   *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		selector: NewSelector(logger),
		logger:   logger,
	}
}

// Extract stages the raw bytes to a temp file, picks a sheet and produces the
// formatted content plus QA pairs. The staging file is removed before Extract
// returns.
func (e *Extractor) Extract(ctx context.Context, filename string, raw []byte) *models.ExtractionResult {
	res := &models.ExtractionResult{}

	path, cleanup, err := stageTempFile(filename, raw)
	if err != nil {
		res.Errors = append(res.Errors, newError(
			fmt.Sprintf("staging upload failed: %v", err),
			KindExcelReadError,
			map[string]any{"filename": filename},
		))
		return res
	}
	defer cleanup()

	table, err := e.selector.Select(path)
	if err != nil {
		if errors.Is(err, ErrNoValidSheet) {
			e.logger.Warn("no valid sheet", "filename", filename)
			res.Errors = append(res.Errors, newError(
				"no sheet with the expected structure found",
				KindNoValidSheet,
				map[string]any{
					"filename":         filename,
					"expected_sheets":  PrioritySheets,
					"supported_format": supportedFormat,
				},
			))
		} else {
			e.logger.Error("workbook unreadable", "filename", filename, "err", err)
			res.Errors = append(res.Errors, newError(
				fmt.Sprintf("reading spreadsheet failed: %v", err),
				KindExcelReadError,
				map[string]any{"filename": filename},
			))
		}
		return res
	}

	res.SheetName = table.SheetName
	res.TotalRows = len(table.Rows)
	res.TotalColumns = len(table.Columns)

	missing, warnings := ValidateColumns(table, filename)
	res.Warnings = append(res.Warnings, warnings...)

	if len(missing) > 0 {
		res.Errors = append(res.Errors, newError(
			fmt.Sprintf("required columns missing in sheet %q: %s", table.SheetName, strings.Join(missing, ", ")),
			KindMissingRequiredColumns,
			map[string]any{
				"missing_columns":   missing,
				"filename":          filename,
				"sheet_name":        table.SheetName,
				"available_columns": table.Columns,
				"supported_format":  supportedFormat,
			},
		))
		return res
	}

	res.QAPairs = ExtractQAPairs(table)
	res.Content = FormatContent(res.QAPairs, table.SheetName)

	e.logger.Info("extraction complete",
		"filename", filename, "sheet", table.SheetName, "qa_pairs", len(res.QAPairs))
	return res
}

// stageTempFile writes the upload into a scratch directory, keeping the
// original extension so the workbook opener can pick the right reader.
func stageTempFile(filename string, raw []byte) (string, func(), error) {
	dir, err := os.MkdirTemp("", "tabulaq-*")
	if err != nil {
		return "", nil, err
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		os.RemoveAll(dir)
		return "", nil, err
	}

	return path, func() { os.RemoveAll(dir) }, nil
}
