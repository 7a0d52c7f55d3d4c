package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical field names. These are the only keys the course mapper reads;
// anything else in a normalized row is a passthrough column.
const (
	FieldCode         = "code"
	FieldSpecialty    = "specialtyCode"
	FieldTitle        = "title"
	FieldCenter       = "center"
	FieldMunicipality = "municipality"
	FieldModality     = "modality"
	FieldStartDate    = "startDate"
	FieldEndDate      = "endDate"
	FieldLevel        = "level"
	FieldDetailURL    = "detailUrl"
)

// Raw header synonyms per canonical field. Matching happens on the folded
// form, so "Código", "CODIGO" and "codigo " all land on the same entry; the
// accented spellings are listed anyway for readability.
var fieldSynonyms = map[string][]string{
	FieldCode: {
		"code", "codigo", "código", "cod", "codigo del curso", "codigo curso",
		"numero de curso", "nº curso",
	},
	FieldSpecialty: {
		"specialtycode", "especialidad", "codigo especialidad", "cod especialidad",
		"codigo de especialidad", "especialidad formativa", "cod ef",
	},
	FieldTitle: {
		"title", "titulo", "título", "denominacion", "denominación", "curso",
		"nombre del curso", "denominacion del curso",
	},
	FieldCenter: {
		"center", "centro", "centro de formacion", "centro formativo",
	},
	FieldMunicipality: {
		"municipality", "municipio", "localidad",
	},
	FieldModality: {
		"modality", "modalidad", "modalidad de imparticion",
	},
	FieldStartDate: {
		"startdate", "fecha inicio", "fecha de inicio", "f inicio", "inicio",
		"fecha comienzo",
	},
	FieldEndDate: {
		"enddate", "fecha fin", "fecha de fin", "f fin", "fin", "fecha finalizacion",
	},
	FieldLevel: {
		"level", "nivel", "nivel de cualificacion",
	},
	FieldDetailURL: {
		"detailurl", "url", "enlace", "enlace detalle",
	},
}

var canonicalByFolded = buildFieldIndex()

func buildFieldIndex() map[string]string {
	idx := make(map[string]string)
	for canonical, synonyms := range fieldSynonyms {
		for _, s := range synonyms {
			idx[foldKey(s)] = canonical
		}
	}
	return idx
}

// foldKey collapses a raw header into its matchable form: lower case, no
// diacritics, inner whitespace runs reduced to one space.
func foldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripDiacritics(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CanonicalField resolves a raw header to its canonical field name.
func CanonicalField(raw string) (string, bool) {
	canonical, ok := canonicalByFolded[foldKey(raw)]
	return canonical, ok
}

// NormalizeRow maps one raw source row onto canonical field names.
// Unrecognized keys pass through unchanged so unexpected columns are kept
// rather than silently dropped. When several raw keys resolve to the same
// canonical field, a present (non-absent) value is never overwritten. This
// never fails: unmapped data is not an error.
func NormalizeRow(row map[string]RawValue) map[string]RawValue {
	out := make(map[string]RawValue, len(row))
	for raw, v := range row {
		key := raw
		if canonical, ok := CanonicalField(raw); ok {
			key = canonical
		}
		if prev, ok := out[key]; ok && !prev.IsAbsent() {
			continue
		}
		out[key] = v
	}
	return out
}
