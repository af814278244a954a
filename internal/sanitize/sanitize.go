// Package sanitize strips markup from user-supplied text before it is stored
// or matched against.
package sanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// Strict policy: no tags, no attributes, plain text only.
var policy = bluemonday.StrictPolicy()

// Field removes all HTML tags and attributes from a field, leaving the
// unescaped plain text.
func Field(s string) string {
	return html.UnescapeString(policy.Sanitize(s))
}
