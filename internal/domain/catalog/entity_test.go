// internal/domain/catalog/entity_test.go
package catalog

import (
	"errors"
	"testing"
)

func TestSizeList(t *testing.T) {
	tests := []struct {
		sizes string
		want  int
	}{
		{"S,M,L,XL", 4},
		{"M, L , XL", 3},
		{"", 0},
		{"  ", 0},
		{"M,,L", 2},
	}

	for _, tt := range tests {
		p := Product{Sizes: tt.sizes}
		if got := len(p.SizeList()); got != tt.want {
			t.Errorf("SizeList(%q): expected %d labels, got %d", tt.sizes, tt.want, got)
		}
	}
}

func TestHasSize(t *testing.T) {
	p := Product{Sizes: "S,M,L"}

	if !p.HasSize("M") {
		t.Error("expected M to be valid")
	}
	if !p.HasSize("m") {
		t.Error("expected size match to be case insensitive")
	}
	if p.HasSize("XXL") {
		t.Error("expected XXL to be invalid")
	}
}

func TestNormalizeSizeForSizedProduct(t *testing.T) {
	p := Product{Sizes: "S,M,L"}

	got, err := NormalizeSize(&p, "m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "M" {
		t.Errorf("expected canonical M, got %q", got)
	}

	if _, err := NormalizeSize(&p, ""); !errors.Is(err, ErrSizeRequired) {
		t.Errorf("expected ErrSizeRequired for empty size, got %v", err)
	}
	if _, err := NormalizeSize(&p, "none"); !errors.Is(err, ErrSizeRequired) {
		t.Errorf("expected ErrSizeRequired for placeholder size, got %v", err)
	}
	if _, err := NormalizeSize(&p, "XXL"); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize for unknown label, got %v", err)
	}
}

func TestNormalizeSizeKeepsCatalogSpelling(t *testing.T) {
	tests := []struct {
		sizes string
		input string
		want  string
	}{
		{"s,m,l", "M", "m"},
		{"s,m,l", "m", "m"},
		{"S,M,L", "m", "M"},
		{"Small,Medium,Large", "MEDIUM", "Medium"},
	}

	for _, tt := range tests {
		p := Product{Sizes: tt.sizes}
		got, err := NormalizeSize(&p, tt.input)
		if err != nil {
			t.Fatalf("NormalizeSize(%q, %q): unexpected error: %v", tt.sizes, tt.input, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeSize(%q, %q) = %q, want %q", tt.sizes, tt.input, got, tt.want)
		}
	}
}

func TestNormalizeSizeForOneSizeProduct(t *testing.T) {
	p := Product{Sizes: ""}

	got, err := NormalizeSize(&p, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != SizeNone {
		t.Errorf("expected reserved key %q, got %q", SizeNone, got)
	}

	got, err = NormalizeSize(&p, "none")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != SizeNone {
		t.Errorf("expected reserved key %q, got %q", SizeNone, got)
	}

	if _, err := NormalizeSize(&p, "M"); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize for size on one-size product, got %v", err)
	}
}
