package sanitizer

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase upper-cases the first letter of each word and lowercases the rest.
func TitleCase(s string) string {
	// A Caser is stateful and not safe for concurrent use.
	return cases.Title(language.Und).String(s)
}

// NameFromEmail derives a display name from the local part of an address:
// "jane.doe-smith@example.com" becomes "Jane Doe Smith".
func NameFromEmail(email string) string {
	local := EmailLocalPart(email)
	return TitleCase(NormalizeWhitespace(nameSeparatorRegex.ReplaceAllString(local, " ")))
}
