package utils

import "github.com/microcosm-cc/bluemonday"

// sanitizer allows the UGC subset: basic formatting and links survive,
// scripts and event handlers do not.
var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips disallowed markup from user-supplied text (titles,
// content bodies, review bodies) before it is stored.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
