package textutil

import (
	"testing"
)

func TestFields(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"a b c", []string{"a", "b", "c"}},
		{"  a\t\tb  ", []string{"a", "b"}},
		{"one", []string{"one"}},
		{"x\r y", []string{"x\r", "y"}},
	}
	for _, tt := range tests {
		got := Fields([]byte(tt.line))
		if len(got) != len(tt.want) {
			t.Errorf("Fields(%q) = %q, want %q", tt.line, got, tt.want)
			continue
		}
		for i := range got {
			if string(got[i]) != tt.want[i] {
				t.Errorf("Fields(%q)[%d] = %q, want %q", tt.line, i, got[i], tt.want[i])
			}
		}
	}
}

func TestField(t *testing.T) {
	tests := []struct {
		line   string
		n      int
		want   string
		wantOK bool
	}{
		{"a b c", 0, "a b c", true},
		{"a b c", 2, "b", true},
		{"a b c", 3, "c", true},
		{"a b c", 4, "", false},
		{"  lead", 1, "lead", true},
		{"", 0, "", true},
		{"", 1, "", false},
		{"a b", -1, "", false},
	}
	for _, tt := range tests {
		got, ok := Field([]byte(tt.line), tt.n)
		if ok != tt.wantOK || string(got) != tt.want {
			t.Errorf("Field(%q, %d) = %q, %v; want %q, %v", tt.line, tt.n, got, ok, tt.want, tt.wantOK)
		}
	}
}
