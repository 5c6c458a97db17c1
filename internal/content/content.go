package content

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Sanitize strips all HTML from wire input and trims surrounding space.
// Clients sanitize before sending, but the broker cannot trust a remote
// peer, so everything entering the registry passes through here.
func Sanitize(input string) string {
	return strings.TrimSpace(policy.Sanitize(input))
}

// Escape escapes special characters like "<" to become "&lt;". Used when
// embedding participant-controlled text inside server-generated markup.
func Escape(input string) string {
	return template.HTMLEscapeString(input)
}
