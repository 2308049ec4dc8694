package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID creates a human-readable identifier.
// Format: {prefix}-{slug(name)}-{8charHexUUID}
//
// Example:
//   - Input: prefix="job", name="Outpost Hull"
//   - Output: "job-outpost-hull-a3f8e2b1"
//
// An empty name yields "{prefix}-{8charHexUUID}".
func GenerateID(prefix, name string) string {
	slug := Slugify(name)
	short := generateShortUUID()
	if slug == "" {
		return prefix + "-" + short
	}
	return prefix + "-" + slug + "-" + short
}

// Slugify lowercases name and replaces every run of non-alphanumerics with a dash.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func generateShortUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
