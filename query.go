package postgrest

import (
	"net/url"
	"strings"
)

// queryPair is one key=value entry of a query string.
type queryPair struct {
	key   string
	value string
}

// queryPairs is an ordered query string. Unlike url.Values it keeps insertion
// order when encoded, and a key may repeat: PostgREST ANDs repeated filters.
type queryPairs []queryPair

func parseQueryPairs(raw string) queryPairs {
	var q queryPairs
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		if uk, err := url.QueryUnescape(k); err == nil {
			k = uk
		}
		if uv, err := url.QueryUnescape(v); err == nil {
			v = uv
		}
		q = append(q, queryPair{key: k, value: v})
	}
	return q
}

// add returns a new list with key=value appended. The receiver is not modified.
func (q queryPairs) add(key, value string) queryPairs {
	out := make(queryPairs, len(q), len(q)+1)
	copy(out, q)
	return append(out, queryPair{key: key, value: value})
}

// set returns a new list where key has exactly one value. The first existing
// occurrence keeps its position; further occurrences are dropped.
func (q queryPairs) set(key, value string) queryPairs {
	out := make(queryPairs, 0, len(q)+1)
	found := false
	for _, p := range q {
		if p.key != key {
			out = append(out, p)
			continue
		}
		if !found {
			out = append(out, queryPair{key: key, value: value})
			found = true
		}
	}
	if !found {
		out = append(out, queryPair{key: key, value: value})
	}
	return out
}

func (q queryPairs) get(key string) (string, bool) {
	for _, p := range q {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

func (q queryPairs) encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
