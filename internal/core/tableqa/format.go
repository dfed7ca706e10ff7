package tableqa

import (
	"fmt"
	"strings"

	"github.com/pkruger-dev/tabulaq/internal/models"
)

// BlockMarker prefixes every QA block heading. The chunker recognizes QA
// boundaries by this exact prefix, so formatter and chunker must agree on it.
const BlockMarker = "## Frage"

// FormatContent renders QA pairs into the delimited text handed to the
// chunker: a sheet header, then one block per pair with question, answer,
// optional comment and a separator line.
func FormatContent(pairs []models.QAPair, sheetName string) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("# FAQ-Daten aus Excel (Tabellenblatt: %s)", sheetName))
	lines = append(lines, "")

	for _, pair := range pairs {
		lines = append(lines, fmt.Sprintf("%s %s", BlockMarker, pair.RowID))
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("**Frage:** %s", pair.Question))
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("**Antwort:** %s", pair.Answer))

		if pair.Comment != nil {
			lines = append(lines, "")
			lines = append(lines, fmt.Sprintf("**Kommentar:** %s", *pair.Comment))
		}

		lines = append(lines, "")
		lines = append(lines, "---")
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
