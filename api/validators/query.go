package validators

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/vortexsales/pos-backend/pkg/errors"
)

// ParseQueryDate reads a YYYY-MM-DD query parameter. An empty value
// falls back to today's date in the server's local zone.
func ParseQueryDate(r *http.Request, key string, now func() time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return now(), nil
	}
	value, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date in YYYY-MM-DD format").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseQueryTerm reads a free-text query parameter and trims it.
func ParseQueryTerm(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
