package sanitizer

import "regexp"

var (
	whitespaceRegex    = regexp.MustCompile(`\s+`)
	nameSeparatorRegex = regexp.MustCompile(`[._-]+`)
)
