package sanitizer

import "strings"

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// It is the single normalisation applied before an address is used as a
// lookup key, so it deliberately leaves dots and plus-tags alone.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailLocalPart returns everything before the first "@", or the whole
// trimmed input when there is none.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

// EmailDomain returns the lowercased domain, or "" for input without "@".
func EmailDomain(email string) string {
	_, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok {
		return ""
	}
	return strings.ToLower(domain)
}

// MaskEmail keeps the first character of the local part and the full domain,
// e.g. "j***@example.com".
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return email
	}

	runes := []rune(local)
	if len(runes) == 1 {
		return "*@" + domain
	}

	return string(runes[0]) + strings.Repeat("*", len(runes)-1) + "@" + domain
}
