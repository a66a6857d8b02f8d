package utils

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRegex  = regexp.MustCompile(`[^a-z0-9]+`)
	multiDashRegex = regexp.MustCompile(`-+`)
)

// Slugify builds a URL-safe slug from the listing title, prefixed with
// the first segment of the vendor id.
func Slugify(input string, vendorID string) string {
	vendorPrefix := strings.Split(vendorID, "-")[0]

	slug := strings.ToLower(input)
	slug = strings.TrimSpace(slug)
	slug = nonAlnumRegex.ReplaceAllString(slug, "-")
	slug = multiDashRegex.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	return vendorPrefix + "-" + slug
}

func StrPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func PtrInt32(i *int32) int32 {
	if i == nil {
		return 0
	}
	return *i
}
