package ingest

import (
	"encoding/csv"
	"strings"
)

// rowsFromDelimited parses a delimited-text payload. The first record is the
// header row; every later record is zipped against it positionally. The
// delimiter is sniffed from the header line (the Madrid portal has shipped
// both comma- and semicolon-separated exports).
func rowsFromDelimited(data []byte) ([]map[string]RawValue, error) {
	text := strings.TrimPrefix(string(data), "\ufeff") // strip UTF-8 BOM

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &SourceFormatError{Format: "csv", Reason: "malformed delimited text", Err: err}
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	rows := make([]map[string]RawValue, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		rows = append(rows, zipRow(headers, rec))
	}
	return rows, nil
}

func sniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	// Prefer the separator that actually splits the header.
	for _, c := range []rune{',', ';', '\t'} {
		if strings.ContainsRune(line, c) {
			return c
		}
	}
	return ','
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
