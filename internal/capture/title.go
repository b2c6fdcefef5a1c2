package capture

import (
	"regexp"
	"strings"
)

var (
	durationPattern        = regexp.MustCompile(`^\d+:\d+`)
	coverPattern           = regexp.MustCompile(`(?i)\s*\(cover\)\s*`)
	trailingVersionPattern = regexp.MustCompile(`(?i)\s*\bv\d+(?:\.\d+)?\+?\s*$`)
	trailingButtonPattern  = regexp.MustCompile(`(?i)\s*(?:\bpublish|\bedit|\bdelete|\d+)\s*$`)
	whitespacePattern      = regexp.MustCompile(`\s+`)
	versionPattern         = regexp.MustCompile(`(?i)\bv\d+(?:\.\d+)?(?:\+|\b)`)
)

// CleanTitle strips UI artifacts from a song link's visible text.
//
// The steps run in a fixed order: leading duration stamp, (Cover) annotations, then trailing version tokens and
// action-button labels or stray digits until none remain, then whitespace collapse.
func CleanTitle(text string) string {
	title := strings.TrimSpace(text)
	title = durationPattern.ReplaceAllString(title, "")
	title = coverPattern.ReplaceAllString(title, " ")
	title = stripTrailing(title)
	title = whitespacePattern.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// stripTrailing removes one trailing token per pass so labels interleaved with versions ("v4 Publish 12") all go.
func stripTrailing(title string) string {
	for {
		next := trailingVersionPattern.ReplaceAllString(title, "")
		next = trailingButtonPattern.ReplaceAllString(next, "")
		if next == title {
			return title
		}
		title = next
	}
}

// ExtractVersion returns the first version token (v4, v3.5, v4.5+) in text verbatim, or nil.
func ExtractVersion(text string) *string {
	match := versionPattern.FindString(text)
	if match == "" {
		return nil
	}
	return &match
}
