package schema

import (
	"errors"
	"strings"
)

// Issue is a single violated rule on a named field path.
// Paths use dotted notation, array elements by index: "data.0.icons_url".
type Issue struct {
	Path    string
	Message string
}

// Issues aggregates every violation found during one validation pass.
// It implements error so a whole pass can be surfaced as a single
// descriptive message, never a partial acceptance.
type Issues []Issue

func (is Issues) Error() string {
	parts := make([]string, 0, len(is))
	for _, i := range is {
		parts = append(parts, i.Path+": "+i.Message)
	}
	return strings.Join(parts, "; ")
}

// Fields returns the violations keyed by path, for field-level rendering.
func (is Issues) Fields() map[string]string {
	if len(is) == 0 {
		return nil
	}
	m := make(map[string]string, len(is))
	for _, i := range is {
		// First violation per path wins; later rules rarely add signal.
		if _, ok := m[i.Path]; !ok {
			m[i.Path] = i.Message
		}
	}
	return m
}

// AsIssues unwraps err into Issues if it is a validation failure.
func AsIssues(err error) (Issues, bool) {
	var is Issues
	if errors.As(err, &is) {
		return is, true
	}
	return nil, false
}
