package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "postgres", err: errors.New(`duplicate key value violates unique constraint "idx_products_name"`), want: true},
		{name: "sqlite", err: errors.New("UNIQUE constraint failed: products.name"), want: true},
		{name: "other", err: errors.New("connection refused"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, ""); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIsUniqueViolationByConstraintName(t *testing.T) {
	err := errors.New(`duplicate key value violates unique constraint "idx_products_code"`)
	if !IsUniqueViolation(err, "idx_products_code") {
		t.Fatal("expected constraint name match")
	}
	if IsUniqueViolation(err, "idx_products_name") {
		t.Fatal("mismatched constraint name must not match")
	}
}
