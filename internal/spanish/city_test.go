package spanish

import "testing"

func TestNormalizeCity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare city", "Madrid", "Madrid"},
		{"lowercase bare city", "madrid", "Madrid"},
		{"leading preposition", "desde Madrid", "Madrid"},
		{"short preposition a", "a Sevilla", "Sevilla"},
		{"travel phrase", "salgo desde Madrid", "Madrid"},
		{"travel phrase short variant", "salgo de Bilbao", "Bilbao"},
		{"quiero ir a", "quiero ir a Valencia", "Valencia"},
		{"me dirijo hacia", "me dirijo hacia Granada", "Granada"},
		{"paso por", "paso por Zaragoza", "Zaragoza"},
		{"trailing continuation", "Madrid y voy a Sevilla", "Madrid"},
		{"trailing y", "Madrid y", "Madrid"},
		{"phrase plus continuation", "salgo de Madrid y voy a Sevilla", "Madrid"},
		{"punctuation", "¿Córdoba?", "Córdoba"},
		{"accented city kept intact", "León", "León"},
		{"multi word city", "voy a San Sebastián", "San Sebastián"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCity(tt.in); got != tt.want {
				t.Errorf("NormalizeCity(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Normalizing an already-normalized string must be a no-op, whatever the input.
func TestNormalizeCity_Idempotent(t *testing.T) {
	inputs := []string{
		"Madrid",
		"salgo desde Madrid",
		"voy a San Sebastián y voy",
		"desde la Coruña",
		"estoy saliendo desde Cádiz",
		"¿hasta Toledo?",
		"a",
		"",
		"paso por Jerez de la Frontera",
	}
	for _, in := range inputs {
		once := NormalizeCity(in)
		twice := NormalizeCity(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
