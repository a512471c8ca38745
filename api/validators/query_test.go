package validators

import (
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/vortexsales/pos-backend/pkg/errors"
)

func TestParseQueryDate(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 3, 7, 10, 0, 0, 0, time.Local) }

	req := httptest.NewRequest("GET", "/report?date=2025-01-15", nil)
	day, err := ParseQueryDate(req, "date", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if day.Year() != 2025 || day.Month() != time.January || day.Day() != 15 {
		t.Fatalf("unexpected date %v", day)
	}

	req = httptest.NewRequest("GET", "/report", nil)
	day, err = ParseQueryDate(req, "date", now)
	if err != nil {
		t.Fatalf("parse default: %v", err)
	}
	if !day.Equal(now()) {
		t.Fatalf("expected fallback to now, got %v", day)
	}

	req = httptest.NewRequest("GET", "/report?date=15-01-2025", nil)
	_, err = ParseQueryDate(req, "date", now)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryTerm(t *testing.T) {
	req := httptest.NewRequest("GET", "/search?q=++widget++", nil)
	if got := ParseQueryTerm(req, "q"); got != "widget" {
		t.Fatalf("expected trimmed term, got %q", got)
	}
	if got := ParseQueryTerm(req, "missing"); got != "" {
		t.Fatalf("expected empty term, got %q", got)
	}
}
