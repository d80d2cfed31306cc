// Package sanitizer strips markup from user supplied text before it is stored.
package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer struct {
	policy *bluemonday.Policy
}

func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text removes every HTML element and returns the trimmed plain text.
func (s *Sanitizer) Text(in string) string {
	cleaned := s.policy.Sanitize(in)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
