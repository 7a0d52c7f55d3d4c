package ingest

import (
	"fmt"
	"strings"
	"time"

	"cursos-madrid/internal/domain"
	"cursos-madrid/internal/levelcache"
)

// SourceKind declares how a raw payload is encoded.
type SourceKind int

const (
	KindUnknown SourceKind = iota
	KindDelimited
	KindWorkbook
	KindRecords
)

func (k SourceKind) String() string {
	switch k {
	case KindDelimited:
		return "csv"
	case KindWorkbook:
		return "xlsx"
	case KindRecords:
		return "json"
	default:
		return "unknown"
	}
}

// KindForExtension infers the source kind from a file extension
// (with or without the leading dot).
func KindForExtension(ext string) (SourceKind, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "csv", "tsv":
		return KindDelimited, true
	case "xlsx", "xls":
		return KindWorkbook, true
	case "json":
		return KindRecords, true
	default:
		return KindUnknown, false
	}
}

// SourceFormatError reports a source that cannot be parsed at all: corrupt
// payload, unsupported extension. It is the only condition that aborts a
// load; malformed individual rows degrade field by field instead.
type SourceFormatError struct {
	Format string
	Reason string
	Err    error
}

func (e *SourceFormatError) Error() string {
	return fmt.Sprintf("ingest: unsupported source format %q: %s", e.Format, e.Reason)
}

func (e *SourceFormatError) Unwrap() error { return e.Err }

// Ingestor turns raw source payloads into course batches. When a cache store
// is attached, every batch is hydrated from it before being returned, so
// previously resolved levels are visible without any network round trip.
type Ingestor struct {
	Cache *levelcache.Store

	now func() time.Time // overridable in tests
}

func New(cache *levelcache.Store) *Ingestor {
	return &Ingestor{Cache: cache, now: time.Now}
}

// Ingest parses the payload according to kind and produces a fresh batch.
// An empty or header-only source yields an empty batch, not an error.
func (ing *Ingestor) Ingest(data []byte, kind SourceKind) (*domain.Batch, error) {
	var rows []map[string]RawValue
	var err error

	switch kind {
	case KindDelimited:
		rows, err = rowsFromDelimited(data)
	case KindWorkbook:
		rows, err = rowsFromWorkbook(data)
	case KindRecords:
		rows, err = rowsFromRecords(data)
	default:
		err = &SourceFormatError{Format: kind.String(), Reason: "no parser for this source kind"}
	}
	if err != nil {
		return nil, err
	}

	nowFn := ing.now
	if nowFn == nil {
		nowFn = time.Now
	}
	loadedAt := nowFn()

	batch := &domain.Batch{
		LoadedAt: loadedAt,
		Courses:  make([]domain.Course, 0, len(rows)),
	}
	for i, row := range rows {
		batch.Courses = append(batch.Courses, courseFromRow(NormalizeRow(row), domain.RecordID(loadedAt, i)))
	}

	if ing.Cache != nil {
		levelcache.Hydrate(batch.Courses, ing.Cache.Load())
	}
	return batch, nil
}

// courseFromRow maps a normalized row to the canonical course shape. Absent
// or unparseable fields become empty values; a row never fails.
func courseFromRow(row map[string]RawValue, id string) domain.Course {
	c := domain.Course{
		ID:           id,
		Code:         row[FieldCode].Text(),
		Title:        row[FieldTitle].Text(),
		Center:       row[FieldCenter].Text(),
		Municipality: row[FieldMunicipality].Text(),
		Modality:     row[FieldModality].Text(),
		Level:        row[FieldLevel].Text(),
	}
	// DetailURL is never taken from the source; deriving it here keeps the
	// code/URL invariant from the first moment of a course's life.
	c.SetSpecialtyCode(row[FieldSpecialty].Text())

	if t, ok := row[FieldStartDate].Date(); ok {
		c.StartDate = t
	}
	if t, ok := row[FieldEndDate].Date(); ok {
		c.EndDate = t
	}
	return c
}

// zipRow pairs headers with one positional row. Missing trailing cells are
// absent; extra cells beyond the header are dropped.
func zipRow(headers []string, cells []string) map[string]RawValue {
	row := make(map[string]RawValue, len(headers))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			continue
		}
		if i < len(cells) {
			row[h] = String(cells[i])
		} else {
			row[h] = Absent()
		}
	}
	return row
}
