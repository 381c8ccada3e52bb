package validators

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

// RequireKnownQueryParams rejects requests that carry query parameters
// outside the allowed set, so typos like min_pric fail loudly instead of
// silently widening a search.
func RequireKnownQueryParams(r *http.Request, allowed ...string) error {
	known := make(map[string]struct{}, len(allowed))
	for _, key := range allowed {
		known[key] = struct{}{}
	}
	var unknown []string
	for key := range r.URL.Query() {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown query parameter").
			WithDetails(map[string]any{"fields": unknown})
	}
	return nil
}

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}
