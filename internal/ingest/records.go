package ingest

import (
	"encoding/json"
	"fmt"
)

// rowsFromRecords parses a structured-record payload: a JSON list of
// key/value objects, already row-shaped. Each element goes through the field
// normalizer as-is; nothing is positional here.
func rowsFromRecords(data []byte) ([]map[string]RawValue, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &SourceFormatError{Format: "json", Reason: "payload is not a list of records", Err: err}
	}

	rows := make([]map[string]RawValue, 0, len(raw))
	for _, rec := range raw {
		row := make(map[string]RawValue, len(rec))
		for k, v := range rec {
			row[k] = fromJSONValue(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func fromJSONValue(v any) RawValue {
	switch t := v.(type) {
	case nil:
		return Absent()
	case string:
		return String(t)
	case float64:
		return Number(t)
	case bool:
		if t {
			return String("true")
		}
		return String("false")
	default:
		// nested structures degrade to their printed form
		return String(fmt.Sprint(t))
	}
}
