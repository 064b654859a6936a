package tweets

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from externally-sourced strings before they
// reach a thread node. The transform is idempotent: sanitizing an
// already-clean string returns it unchanged.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a sanitizer that allows no markup at all.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean removes every HTML element from the value. Text content
// survives, entity-escaped.
func (s *Sanitizer) Clean(value string) string {
	return strings.TrimSpace(s.policy.Sanitize(value))
}
