package ingest

import "testing"

func TestCanonicalFieldVariants(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		// case, diacritics, whitespace all fold away
		{"Código", FieldCode},
		{"codigo", FieldCode},
		{"CODIGO DEL CURSO", FieldCode},
		{"  Codigo  del   Curso  ", FieldCode},
		{"ESPECIALIDAD", FieldSpecialty},
		{"Código Especialidad", FieldSpecialty},
		{"Denominación", FieldTitle},
		{"denominacion", FieldTitle},
		{"CENTRO DE FORMACIÓN", FieldCenter},
		{"Municipio", FieldMunicipality},
		{"MODALIDAD", FieldModality},
		{"Fecha Inicio", FieldStartDate},
		{"FECHA  DE  INICIO", FieldStartDate},
		{"Fecha Fin", FieldEndDate},
		{"Nivel", FieldLevel},
		// canonical names are their own synonyms
		{"specialtyCode", FieldSpecialty},
		{"startDate", FieldStartDate},
	}

	for _, tc := range testCases {
		got, ok := CanonicalField(tc.raw)
		if !ok {
			t.Errorf("CanonicalField(%q) unmatched, want %q", tc.raw, tc.expected)
			continue
		}
		if got != tc.expected {
			t.Errorf("CanonicalField(%q) = %q, want %q", tc.raw, got, tc.expected)
		}
	}
}

func TestCanonicalFieldVariantsConverge(t *testing.T) {
	variants := []string{"Código", "codigo", "CÓDIGO", " codigo ", "CODIGO"}
	first, ok := CanonicalField(variants[0])
	if !ok {
		t.Fatalf("CanonicalField(%q) unmatched", variants[0])
	}
	for _, v := range variants[1:] {
		got, ok := CanonicalField(v)
		if !ok || got != first {
			t.Errorf("CanonicalField(%q) = %q (%v), want %q", v, got, ok, first)
		}
	}
}

func TestNormalizeRowPassesUnknownKeysThrough(t *testing.T) {
	row := map[string]RawValue{
		"Código":          String("23/1234"),
		"Columna Extraña": String("se conserva"),
	}

	out := NormalizeRow(row)
	if out[FieldCode].Text() != "23/1234" {
		t.Errorf("code = %q, want 23/1234", out[FieldCode].Text())
	}
	v, ok := out["Columna Extraña"]
	if !ok {
		t.Fatal("unrecognized column was dropped")
	}
	if v.Text() != "se conserva" {
		t.Errorf("passthrough value = %q, want original", v.Text())
	}
}

func TestNormalizeRowNeverFails(t *testing.T) {
	// Anything in, something out: no input shape is an error.
	if out := NormalizeRow(nil); len(out) != 0 {
		t.Errorf("NormalizeRow(nil) = %v, want empty map", out)
	}
	if out := NormalizeRow(map[string]RawValue{}); len(out) != 0 {
		t.Errorf("NormalizeRow(empty) = %v, want empty map", out)
	}
}

func TestNormalizeRowKeepsPresentValueOnCollision(t *testing.T) {
	row := map[string]RawValue{
		"codigo": String("A-1"),
		"Código": Absent(),
	}
	out := NormalizeRow(row)
	if out[FieldCode].Text() != "A-1" {
		t.Errorf("code = %q, want the present value to survive the collision", out[FieldCode].Text())
	}
}
