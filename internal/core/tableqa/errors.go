package tableqa

import (
	"errors"
	"time"

	"github.com/pkruger-dev/tabulaq/internal/models"
)

// ErrNoValidSheet is returned by the selector when the workbook is readable
// but no sheet carries the expected column structure.
var ErrNoValidSheet = errors.New("no sheet with the expected structure")

// Error kinds recorded in ProcessingErrors.
const (
	KindNoValidSheet           = "no_valid_sheet"
	KindMissingRequiredColumns = "missing_required_columns"
	KindExcelReadError         = "excel_read_error"
	KindUnexpectedError        = "unexpected_error"
)

// Warning kinds recorded in ProcessingWarnings.
const (
	KindMissingOptionalColumn = "missing_optional_column"
	KindUnknownColumns        = "unknown_columns"
)

// supportedFormat names the accepted layout in error details so callers can
// surface it to end users.
const supportedFormat = "spreadsheet with columns: Nr., Frage, Antwort (Kommentar optional)"

func newError(message, kind string, details map[string]any) models.ErrorRecord {
	return models.ErrorRecord{
		Message:   message,
		Kind:      kind,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func newWarning(message, kind string, details map[string]any) models.WarningRecord {
	return models.WarningRecord{
		Message:   message,
		Kind:      kind,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}
