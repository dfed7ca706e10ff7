package tableqa_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkruger-dev/tabulaq/internal/core/tableqa"
	"github.com/pkruger-dev/tabulaq/internal/models"
)

func TestFormatContent(t *testing.T) {
	comment := "nur intern"
	pairs := []models.QAPair{
		{RowID: "1", Question: "Wie melde ich mich an?", Answer: "Mit der Firmen-Mail."},
		{RowID: "2", Question: "Wer hilft bei Problemen?", Answer: "Der Support.", Comment: &comment},
	}

	content := tableqa.FormatContent(pairs, "FAQ_DEUTSCH")

	assert.True(t, strings.HasPrefix(content, "# FAQ-Daten aus Excel (Tabellenblatt: FAQ_DEUTSCH)"))
	assert.Contains(t, content, "## Frage 1\n\n**Frage:** Wie melde ich mich an?\n\n**Antwort:** Mit der Firmen-Mail.\n\n---\n")
	assert.Contains(t, content, "**Antwort:** Der Support.\n\n**Kommentar:** nur intern\n\n---\n")

	// One block per pair, separated for the chunker.
	assert.Equal(t, 2, strings.Count(content, tableqa.BlockMarker))
	assert.Equal(t, 2, strings.Count(content, "\n---\n"))
}

func TestFormatContentNoPairs(t *testing.T) {
	content := tableqa.FormatContent(nil, "Test_Chatbot")

	assert.Equal(t, "# FAQ-Daten aus Excel (Tabellenblatt: Test_Chatbot)\n", content)
	assert.NotContains(t, content, tableqa.BlockMarker)
}
