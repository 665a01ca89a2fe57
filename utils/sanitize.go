package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from user supplied display text (task names,
// challenge titles and descriptions) before storage.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
