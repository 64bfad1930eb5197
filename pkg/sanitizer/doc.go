// Package sanitizer holds small string normalisation helpers used on user
// input before it reaches storage: e-mail normalisation and masking, display
// name derivation and whitespace cleanup.
//
// Helpers never return errors; they fall back to the (trimmed) input.
// Apply and Compose chain helpers into pipelines:
//
//	clean := sanitizer.Compose(sanitizer.SingleLine, strings.ToLower)
//	name := clean("  Jane\n  DOE ") // "jane doe"
package sanitizer
