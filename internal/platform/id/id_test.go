package id

import (
	"strings"
	"testing"
)

func TestNewIDShape(t *testing.T) {
	t.Parallel()

	value, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(value) != 26 {
		t.Fatalf("expected 26 characters, got %d (%q)", len(value), value)
	}
	if value != strings.ToLower(value) {
		t.Fatalf("expected lowercase id, got %q", value)
	}
	if strings.Contains(value, "=") {
		t.Fatalf("expected no padding, got %q", value)
	}
}

func TestNewIDUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		value, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if _, ok := seen[value]; ok {
			t.Fatalf("duplicate id generated: %q", value)
		}
		seen[value] = struct{}{}
	}
}
