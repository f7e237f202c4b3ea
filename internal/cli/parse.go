package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	postgrest "github.com/pgrst/postgrest-query-go"
)

// parseFilter parses "column=op.value", e.g. "age=gte.18" or "status=not.is.null".
func parseFilter(s string) (column string, op postgrest.Operator, value string, negate bool, err error) {
	column, rest, ok := strings.Cut(s, "=")
	if !ok || column == "" {
		return "", "", "", false, fmt.Errorf("invalid filter %q: want column=op.value", s)
	}
	if after, found := strings.CutPrefix(rest, "not."); found {
		negate = true
		rest = after
	}
	name, value, ok := strings.Cut(rest, ".")
	if !ok {
		return "", "", "", false, fmt.Errorf("invalid filter %q: want column=op.value", s)
	}
	op = postgrest.Operator(name)
	if !slices.Contains(postgrest.Operators, op) {
		return "", "", "", false, fmt.Errorf("invalid filter %q: unknown operator %q", s, name)
	}
	return column, op, value, negate, nil
}

func applyFilters(q *postgrest.FilterBuilder, filters []string) (*postgrest.FilterBuilder, error) {
	for _, s := range filters {
		column, op, value, negate, err := parseFilter(s)
		if err != nil {
			return nil, err
		}
		if negate {
			q = q.Not(column, op, value)
		} else {
			q = q.Filter(column, op, value)
		}
	}
	return q, nil
}

// parseOrder parses "column[.asc|.desc][.nullsfirst|.nullslast]".
func parseOrder(s string) (string, *postgrest.OrderOptions, error) {
	parts := strings.Split(s, ".")
	opts := &postgrest.OrderOptions{}
	for _, p := range parts[1:] {
		switch p {
		case "asc":
			opts.Descending = false
		case "desc":
			opts.Descending = true
		case "nullsfirst":
			opts.NullsFirst = true
		case "nullslast":
			opts.NullsFirst = false
		default:
			return "", nil, fmt.Errorf("invalid order %q: unknown modifier %q", s, p)
		}
	}
	if parts[0] == "" {
		return "", nil, fmt.Errorf("invalid order %q: missing column", s)
	}
	return parts[0], opts, nil
}

// parseArgs parses "name=value" function arguments in order. A value that is
// valid JSON is passed as the decoded value, anything else as a string.
func parseArgs(args []string) (postgrest.Params, error) {
	params := make(postgrest.Params, 0, len(args))
	for _, s := range args {
		name, raw, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q: want name=value", s)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		params = append(params, postgrest.Param{Name: name, Value: value})
	}
	return params, nil
}

func parseCount(s string) (postgrest.Count, error) {
	switch c := postgrest.Count(s); c {
	case "", postgrest.CountExact, postgrest.CountPlanned, postgrest.CountEstimated:
		return c, nil
	default:
		return "", fmt.Errorf("invalid count %q: want exact, planned or estimated", s)
	}
}
