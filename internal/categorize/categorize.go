// Package categorize maps free course text to one of a fixed set of topic
// labels. Classification is a pure function: an ordered rule list is
// evaluated against the folded input and the first match wins, so rule order
// is a designed tie-break, not an accident.
package categorize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is returned when no rule matches.
const Fallback = "Other"

type rule struct {
	category string
	keywords []string
}

// Keywords are stored in folded form (lower case, no diacritics) and matched
// by substring. Earlier rules shadow later ones: a "programación de sistemas
// sanitarios" course is IT, not health, because IT is listed first.
var rules = []rule{
	{"Informática y comunicaciones", []string{
		"informatic", "programacion", "desarrollo de aplicaciones", "desarrollo web",
		"sistemas microinformaticos", "redes", "ciberseguridad", "ofimatic",
		"big data", "base de datos",
	}},
	{"Administración y gestión", []string{
		"administracion", "gestion contable", "contabilidad", "secretariado",
		"recursos humanos", "nominas", "facturacion",
	}},
	{"Sanidad y atención social", []string{
		"sanidad", "sanitari", "sociosanitari", "atencion a personas", "enfermeria",
		"farmacia", "geriatri",
	}},
	{"Hostelería y turismo", []string{
		"hosteleria", "cocina", "restauracion", "turismo", "camarero", "reposteria",
		"panaderia",
	}},
	{"Comercio y marketing", []string{
		"comercio", "marketing", "ventas", "escaparatismo", "atencion al cliente",
		"logistica", "almacen",
	}},
	{"Construcción e instalaciones", []string{
		"construccion", "albanileria", "fontaneria", "electricidad", "climatizacion",
		"soldadura", "carpinteria",
	}},
	{"Idiomas", []string{
		"ingles", "frances", "aleman", "idioma", "lengua de signos",
	}},
	{"Transporte y mantenimiento", []string{
		"transporte", "conduccion", "carretilla", "mecanica", "mantenimiento de vehiculos",
		"automocion",
	}},
}

// Category classifies text. The same input always yields the same label;
// anything no rule covers maps to Fallback.
func Category(text string) string {
	folded := fold(text)
	if folded == "" {
		return Fallback
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(folded, kw) {
				return r.category
			}
		}
	}
	return Fallback
}

// Categories lists every label the classifier can produce, Fallback last.
func Categories() []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, Fallback)
}

func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		return out
	}
	return s
}
