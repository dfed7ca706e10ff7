// Package tableqa ingests FAQ spreadsheets: it selects the worksheet with the
// expected Nr./Frage/Antwort structure, extracts question/answer rows, renders
// them into delimited text, splits that text into QA-preserving chunks, and
// embeds and stores each chunk. Failures are accumulated per document or per
// chunk; the pipeline itself never raises for expected structural problems.
package tableqa
