package builder

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases the name and collapses anything that is not a letter or
// digit into single hyphens.
func Slug(name string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(s, "-")
}

// ProjectID derives the project identity from the sanitized business name
// plus a millisecond timestamp. Millisecond resolution keeps sequential
// builds for the same name within one second from colliding.
func ProjectID(businessName string, now time.Time) string {
	slug := Slug(businessName)
	if slug == "" {
		slug = "website"
	}
	return fmt.Sprintf("%s-%d", slug, now.UnixMilli())
}
