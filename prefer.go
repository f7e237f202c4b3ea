package postgrest

import (
	"fmt"
	"net/http"
	"strings"
)

const headerPrefer = "Prefer"

// Count selects how PostgREST counts the rows affected by a request.
// The zero value requests no count.
type Count string

const (
	// CountExact runs a COUNT(*) on the target relation.
	CountExact Count = "exact"
	// CountPlanned uses the PostgreSQL planner statistics.
	CountPlanned Count = "planned"
	// CountEstimated is exact for small counts and planned otherwise.
	CountEstimated Count = "estimated"
)

func (c Count) validate() error {
	switch c {
	case "", CountExact, CountPlanned, CountEstimated:
		return nil
	default:
		return fmt.Errorf("%w: unknown count %q", ErrInvalidArgument, string(c))
	}
}

func (c Count) directive() string {
	if c == "" {
		return ""
	}
	return "count=" + string(c)
}

// missingDefault returns the directive asking PostgREST to fill absent
// columns with their defaults. It only applies when defaultToNull is
// explicitly false.
func missingDefault(defaultToNull *bool) string {
	if defaultToNull != nil && !*defaultToNull {
		return "missing=default"
	}
	return ""
}

func resolution(ignoreDuplicates bool) string {
	if ignoreDuplicates {
		return "resolution=ignore-duplicates"
	}
	return "resolution=merge-duplicates"
}

// joinPrefer joins the non-empty directives in the given order.
func joinPrefer(directives ...string) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		if d = strings.TrimSpace(d); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, ",")
}

// setPrefer replaces the Prefer header of h with the merged directives.
// An empty merge removes the header.
func setPrefer(h http.Header, directives ...string) {
	v := joinPrefer(directives...)
	if v == "" {
		h.Del(headerPrefer)
		return
	}
	h.Set(headerPrefer, v)
}
