// Package expect evaluates an optional JSON body expectation against
// completed responses. A response that misses the expectation is recorded as
// a failed attempt with a cause; with no expectation configured, any
// completed response counts as a success.
package expect

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Expectation asserts that a JSON field in the response body holds an exact
// value. Immutable once parsed.
type Expectation struct {
	path string
	want string
	raw  string
}

// Parse parses a "path=value" expectation string. The path accepts both
// gjson syntax (data.items.0.id) and a leading JSONPath-style "$." prefix.
func Parse(s string) (*Expectation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("expectation must be in path=value format: %q", s)
	}

	path := normalizePath(strings.TrimSpace(parts[0]))
	if path == "" {
		return nil, fmt.Errorf("expectation path cannot be empty: %q", s)
	}

	return &Expectation{
		path: path,
		want: strings.TrimSpace(parts[1]),
		raw:  s,
	}, nil
}

// Check returns nil when the body satisfies the expectation, and a
// descriptive error otherwise.
func (e *Expectation) Check(body []byte) error {
	if e == nil {
		return nil
	}

	result := gjson.GetBytes(body, e.path)
	if !result.Exists() {
		return fmt.Errorf("expectation %q: path not found in response body", e.raw)
	}
	if got := result.String(); got != e.want {
		return fmt.Errorf("expectation %q: got %q", e.raw, got)
	}
	return nil
}

// String returns the original expectation text.
func (e *Expectation) String() string {
	if e == nil {
		return ""
	}
	return e.raw
}

// normalizePath strips a leading $. or bare $ so JSONPath-flavored inputs
// work with gjson.
func normalizePath(path string) string {
	if len(path) > 0 && path[0] == '$' {
		if len(path) > 1 && path[1] == '.' {
			return path[2:]
		}
		if len(path) == 1 {
			return "@this"
		}
	}
	return path
}
