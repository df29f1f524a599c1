package task

import "testing"

func TestLooksLikeID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"7a6e91c2-52f1-4c4e-8d6a-09e2f4cc61b0", true},
		{"7A6E91C2-52F1-4C4E-8D6A-09E2F4CC61B0", true},
		{"00000000-0000-0000-0000-000000000000", true},
		{"7a6e91c2-52f1-4c4e-8d6a-09e2f4cc61b", false},   // last group too short
		{"7a6e91c2-52f1-4c4e-09e2f4cc61b0", false},       // missing group
		{"7a6e91c2x52f1-4c4e-8d6a-09e2f4cc61b0", false},  // wrong separator
		{"g7a6e91c-52f1-4c4e-8d6a-09e2f4cc61b0", false},  // non-hex digit
		{"{7a6e91c2-52f1-4c4e-8d6a-09e2f4cc61b0}", false}, // braces not accepted
		{"Fix login bug", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := LooksLikeID(tt.in); got != tt.want {
			t.Errorf("LooksLikeID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewIDShape(t *testing.T) {
	for i := 0; i < 10; i++ {
		id := NewID()
		if !LooksLikeID(id) {
			t.Errorf("NewID() = %q, does not match the identifier shape", id)
		}
	}
}
