package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	acceptedValues = []string{"yes", "on", "1", "true"}

	numericLiteralRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	phoneRegex          = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	alphanumericRegex   = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

func rule(field, code, message string, params map[string]any, check func() bool) Rule {
	return Rule{
		Check: check,
		Error: ValidationError{Field: field, Code: code, Message: message, Params: params},
	}
}

// Present fails for nil, blank strings and empty slices.
func Present(field string, value any) Rule {
	return rule(field, "required", "field is required", nil, func() bool {
		return !isBlank(value)
	})
}

// Accepted passes for an affirmative answer such as a ticked terms checkbox:
// true, 1, "yes", "on", "1" or "true".
func Accepted(field string, value any) Rule {
	return rule(field, "accepted", "must be accepted", nil, func() bool {
		switch v := value.(type) {
		case bool:
			return v
		case string:
			return slices.Contains(acceptedValues, strings.ToLower(strings.TrimSpace(v)))
		}
		f, ok := toFloat(value)
		return ok && f == 1
	})
}

func IsString(field string, value any) Rule {
	return rule(field, "string", "must be a string", nil, func() bool {
		_, ok := value.(string)
		return ok
	})
}

// IsNumeric passes for numbers and strings holding one.
func IsNumeric(field string, value any) Rule {
	return rule(field, "numeric", "must be a number", nil, func() bool {
		if s, ok := value.(string); ok {
			return numericLiteralRegex.MatchString(strings.TrimSpace(s))
		}
		_, ok := toFloat(value)
		return ok
	})
}

// ValidEmail requires a bare address with a dotted domain.
func ValidEmail(field, value string) Rule {
	return rule(field, "email", "must be a valid email address", nil, func() bool {
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != strings.TrimSpace(value) {
			return false
		}
		_, domain, ok := strings.Cut(addr.Address, "@")
		if !ok {
			return false
		}
		for part := range strings.SplitSeq(domain, ".") {
			if part == "" {
				return false
			}
		}
		return strings.Contains(domain, ".")
	})
}

// ValidURL requires an absolute URL with a host.
func ValidURL(field, value string) Rule {
	return rule(field, "url", "must be a valid URL", nil, func() bool {
		u, err := url.ParseRequestURI(strings.TrimSpace(value))
		return err == nil && u.Scheme != "" && u.Host != ""
	})
}

// ValidPhone accepts E.164-style numbers; spaces and dashes are ignored.
func ValidPhone(field, value string) Rule {
	return rule(field, "phone", "must be a valid phone number in international format", nil, func() bool {
		cleaned := strings.NewReplacer(" ", "", "-", "").Replace(value)
		return phoneRegex.MatchString(cleaned)
	})
}

func ValidAlphanumeric(field, value string) Rule {
	return rule(field, "alpha_num", "must contain only letters and numbers", nil, func() bool {
		return alphanumericRegex.MatchString(value)
	})
}

func InList(field, value string, allowed []string) Rule {
	return rule(field, "in", "must be one of: "+strings.Join(allowed, ", "),
		map[string]any{"values": allowed},
		func() bool { return slices.Contains(allowed, value) },
	)
}

// MinNum, MaxNum and SizeNum compare numbers by value.

func MinNum(field string, value, min float64) Rule {
	return rule(field, "min", fmt.Sprintf("must be at least %v", min), map[string]any{"min": min},
		func() bool { return value >= min })
}

func MaxNum(field string, value, max float64) Rule {
	return rule(field, "max", fmt.Sprintf("must be at most %v", max), map[string]any{"max": max},
		func() bool { return value <= max })
}

func SizeNum(field string, value, size float64) Rule {
	return rule(field, "size", fmt.Sprintf("must be %v", size), map[string]any{"size": size},
		func() bool { return value == size })
}

// MinLen, MaxLen and Len count characters, not bytes.

func MinLen(field, value string, min int) Rule {
	return rule(field, "min", fmt.Sprintf("must be at least %d characters long", min), map[string]any{"min": min},
		func() bool { return utf8.RuneCountInString(value) >= min })
}

func MaxLen(field, value string, max int) Rule {
	return rule(field, "max", fmt.Sprintf("must be at most %d characters long", max), map[string]any{"max": max},
		func() bool { return utf8.RuneCountInString(value) <= max })
}

func Len(field, value string, size int) Rule {
	return rule(field, "size", fmt.Sprintf("must be exactly %d characters long", size), map[string]any{"size": size},
		func() bool { return utf8.RuneCountInString(value) == size })
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
