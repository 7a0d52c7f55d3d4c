package categorize

import "testing"

func TestCategory(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Programación con lenguajes orientados a objetos", "Informática y comunicaciones"},
		{"OFIMÁTICA EN LA NUBE", "Informática y comunicaciones"},
		{"Gestión contable y gestión administrativa para auditoría", "Administración y gestión"},
		{"Atención sociosanitaria a personas dependientes", "Sanidad y atención social"},
		{"Cocina profesional", "Hostelería y turismo"},
		{"Inglés B2", "Idiomas"},
		{"Soldadura con electrodo revestido", "Construcción e instalaciones"},
		{"Conducción de carretillas elevadoras", "Transporte y mantenimiento"},
		{"Apicultura avanzada", "Other"},
		{"", "Other"},
		{"   ", "Other"},
	}

	for _, tc := range testCases {
		result := Category(tc.input)
		if result != tc.expected {
			t.Errorf("Category(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestCategoryIsDeterministic(t *testing.T) {
	input := "Desarrollo web en entorno servidor"
	first := Category(input)
	for i := 0; i < 50; i++ {
		if got := Category(input); got != first {
			t.Fatalf("call %d: Category(%q) = %q, earlier call returned %q", i, input, got, first)
		}
	}
}

func TestCategoryRuleOrderBreaksTies(t *testing.T) {
	// Matches both the IT rule ("programacion") and the health rule
	// ("sanitari"); the IT rule is listed first, so it wins.
	got := Category("Programación de sistemas sanitarios")
	if got != "Informática y comunicaciones" {
		t.Errorf("Category() = %q, want the earlier rule's label", got)
	}
}

func TestCategoryDiacriticInsensitive(t *testing.T) {
	with := Category("Administración de fincas")
	without := Category("Administracion de fincas")
	if with != without {
		t.Errorf("accented %q vs plain %q should categorize identically", with, without)
	}
}

func TestCategoriesEndsWithFallback(t *testing.T) {
	all := Categories()
	if len(all) == 0 || all[len(all)-1] != Fallback {
		t.Errorf("Categories() = %v, want %q last", all, Fallback)
	}
}
