package tableqa

import (
	"fmt"
	"log/slog"
)

// Sheet names checked first, in priority order.
var PrioritySheets = []string{"Test_Chatbot", "FAQ_DEUTSCH", "FAQ_English"}

// Columns a sheet must carry to qualify.
var RequiredColumns = []string{"Nr.", "Frage", "Antwort"}

// Columns that may be present; absence is only a warning.
var OptionalColumns = []string{"Kommentar"}

// Selector picks the worksheet to extract from. Priority names are checked
// first, then every sheet in file order; the first one carrying all required
// columns wins. No scoring, first match only.
type Selector struct {
	prioritySheets  []string
	requiredColumns []string
	logger          *slog.Logger
}

func NewSelector(logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		prioritySheets:  PrioritySheets,
		requiredColumns: RequiredColumns,
		logger:          logger,
	}
}

// Select opens the staged file and returns the first qualifying sheet.
// A read failure surfaces as a wrapped error; a readable file with no
// qualifying sheet surfaces as ErrNoValidSheet.
func (s *Selector) Select(path string) (*Table, error) {
	wb, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	s.logger.Debug("workbook opened", "sheets", wb.sheetNames)

	available := make(map[string]bool, len(wb.sheetNames))
	for _, name := range wb.sheetNames {
		available[name] = true
	}

	for _, name := range s.prioritySheets {
		if !available[name] {
			continue
		}
		table, err := s.check(wb, name)
		if err != nil {
			return nil, err
		}
		if table != nil {
			return table, nil
		}
	}

	// No priority sheet matched; scan every sheet in file order.
	for _, name := range wb.sheetNames {
		table, err := s.check(wb, name)
		if err != nil {
			return nil, err
		}
		if table != nil {
			return table, nil
		}
	}

	return nil, ErrNoValidSheet
}

// check loads one sheet and returns it when all required columns exist.
func (s *Selector) check(wb *workbook, name string) (*Table, error) {
	table, err := wb.loadSheet(name)
	if err != nil {
		return nil, fmt.Errorf("load sheet: %w", err)
	}

	for _, col := range s.requiredColumns {
		if !table.HasColumn(col) {
			s.logger.Debug("sheet rejected", "sheet", name, "missing_column", col)
			return nil, nil
		}
	}

	s.logger.Info("valid sheet found", "sheet", name)
	return table, nil
}
