package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Course is the canonical representation of a listed course inside this
// service. Every source (workbook, delimited text, structured-record feed)
// maps into this model, and every destination (categorizer, enrichment,
// CSV export) maps from it.
type Course struct {
	ID            string // unique within one loaded batch
	Code          string // course code as published by the source
	SpecialtyCode string // formative-specialty code, the enrichment key
	Title         string
	Center        string
	Municipality  string
	Modality      string

	StartDate time.Time // zero value = unknown
	EndDate   time.Time // zero value = unknown

	Level     string // "" until resolved via cache or lookup
	DetailURL string // always derived from SpecialtyCode, see SetSpecialtyCode
}

// SetSpecialtyCode updates the specialty code and re-derives DetailURL so the
// two can never diverge. This is the only supported way to change the code.
func (c *Course) SetSpecialtyCode(code string) {
	c.SpecialtyCode = code
	c.DetailURL = DetailURL(code)
}

// Resolved reports whether the course already carries a level.
func (c *Course) Resolved() bool {
	return c.Level != ""
}

// NormalizeCode returns the cache/lookup key for a specialty code:
// surrounding whitespace trimmed, uppercased. An empty result means the
// course cannot participate in enrichment.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

const detailBaseURL = "https://sede.sepe.gob.es/especialidadesformativas/RXBuscadorEFRED/DetalleEspecialidad.do"

// DetailURL derives the specialty detail-page URL for a code. It is a pure
// function of its input; an empty (or whitespace-only) code yields "".
func DetailURL(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	return detailBaseURL + "?codEspecialidad=" + url.QueryEscape(strings.ToUpper(code))
}

// Batch is the full set of courses produced by one ingestion event. A new
// batch always replaces the previous one wholesale; there is no merging.
type Batch struct {
	LoadedAt time.Time
	Courses  []Course
}

// ByID returns a pointer into the batch for in-place mutation, or nil when
// the id is unknown.
func (b *Batch) ByID(id string) *Course {
	for i := range b.Courses {
		if b.Courses[i].ID == id {
			return &b.Courses[i]
		}
	}
	return nil
}

// PendingIDs lists the courses that still have no level, in batch order.
func (b *Batch) PendingIDs() []string {
	var ids []string
	for i := range b.Courses {
		if !b.Courses[i].Resolved() {
			ids = append(ids, b.Courses[i].ID)
		}
	}
	return ids
}

// RecordID builds the batch-unique course id from the load instant and the
// row's ordinal position. Uniqueness within a batch needs no coordination:
// the load instant is shared and ordinals never repeat.
func RecordID(loadedAt time.Time, ordinal int) string {
	return fmt.Sprintf("%d-%04d", loadedAt.UnixMilli(), ordinal)
}
