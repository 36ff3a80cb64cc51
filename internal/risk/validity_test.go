package risk

import "testing"

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"plain identifier", "C1", true},
		{"numeric identifier", "0041992", true},
		{"empty string", "", false},
		{"whitespace only", "   ", false},
		{"null lowercase", "null", false},
		{"null uppercase", "NULL", false},
		{"null mixed case", "NuLl", false},
		{"null padded", "  null  ", false},
		{"n/a", "n/a", false},
		{"none", "None", false},
		{"undefined", "undefined", false},
		{"identifier containing null", "null-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidIdentifier(tt.value); got != tt.want {
				t.Errorf("IsValidIdentifier(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
