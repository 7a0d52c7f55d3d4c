package ingest

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

// rowsFromWorkbook parses an xlsx payload (the portal's "Exportar resultados
// a Excel" artifact). Only the first sheet is read; its first row is the
// header. Cell values arrive as formatted strings, so dates flow through the
// same RawValue parsing as delimited text.
func rowsFromWorkbook(data []byte) ([]map[string]RawValue, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &SourceFormatError{Format: "xlsx", Reason: "corrupt or unreadable workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &SourceFormatError{Format: "xlsx", Reason: "unreadable sheet", Err: err}
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
