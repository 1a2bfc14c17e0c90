package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips unsafe HTML from user-supplied text.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
