// Package sanitize strips markup from user-supplied text before it is
// persisted. Messages and bios are rendered back to other users, so
// everything but plain text is dropped.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
