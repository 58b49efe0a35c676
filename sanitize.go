package main

import (
	"html"
	"strings"
)

// DefaultFallbackImage is shown wherever a record has no usable image.
const DefaultFallbackImage = "/static/icon.svg"

// nullSentinel is what the spreadsheet export writes for an intentionally
// empty cell.
const nullSentinel = "null"

// provided reports whether an optional feed value carries real content.
func provided(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != nullSentinel
}

// Safe escapes text for embedding as HTML content. Text without markup
// characters comes back unchanged.
func Safe(text string) string {
	if text == "" {
		return ""
	}
	return html.EscapeString(text)
}

// ImageResolver turns an optional image reference into something an img
// tag can always display.
type ImageResolver struct {
	Fallback string
}

func NewImageResolver(fallback string) ImageResolver {
	if fallback == "" {
		fallback = DefaultFallbackImage
	}
	return ImageResolver{Fallback: fallback}
}

// Resolve returns ref unchanged unless it is blank or the "null" sentinel.
func (r ImageResolver) Resolve(ref string) string {
	if provided(ref) {
		return ref
	}
	return r.Fallback
}
