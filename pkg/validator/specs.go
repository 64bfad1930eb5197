package validator

import (
	"fmt"
	"strconv"
	"strings"
)

// FromSpecs builds rules for a single field from rule strings such
// as "required", "string", "max:255" or "in:a,b".
//
// A blank value (nil, empty or whitespace string) is only checked by
// "required" and "accepted", so optional fields are validated when the user
// filled them in. "min", "max" and "size" compare numbers by value and strings
// by length in characters. An unknown or malformed spec returns an error wrapping
// ErrUnknownRule or ErrInvalidRuleSpec.
func FromSpecs(field string, value any, specs []string) ([]Rule, error) {
	blank := isBlank(value)

	rules := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		name, param, _ := strings.Cut(strings.TrimSpace(spec), ":")
		if name == "" {
			continue
		}

		rule, skip, err := ruleFromSpec(field, value, name, param)
		if err != nil {
			return nil, err
		}
		if skip || (blank && !implicitRules[name]) {
			continue
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

var implicitRules = map[string]bool{"required": true, "accepted": true}

func ruleFromSpec(field string, value any, name, param string) (Rule, bool, error) {
	switch name {
	case "required":
		return Present(field, value), false, nil
	case "nullable":
		return Rule{}, true, nil
	case "string":
		return IsString(field, value), false, nil
	case "accepted":
		return Accepted(field, value), false, nil
	case "numeric":
		return IsNumeric(field, value), false, nil
	case "email":
		return ValidEmail(field, stringValue(value)), false, nil
	case "url":
		return ValidURL(field, stringValue(value)), false, nil
	case "phone":
		return ValidPhone(field, stringValue(value)), false, nil
	case "alpha_num":
		return ValidAlphanumeric(field, stringValue(value)), false, nil
	case "in":
		if param == "" {
			return Rule{}, false, fmt.Errorf("%w: %q needs at least one value", ErrInvalidRuleSpec, name)
		}
		allowed := strings.Split(param, ",")
		for i := range allowed {
			allowed[i] = strings.TrimSpace(allowed[i])
		}
		return InList(field, stringValue(value), allowed), false, nil
	case "min", "max", "size":
		n, err := strconv.ParseFloat(strings.TrimSpace(param), 64)
		if err != nil {
			return Rule{}, false, fmt.Errorf("%w: %s:%s", ErrInvalidRuleSpec, name, param)
		}
		return boundRule(field, value, name, n), false, nil
	default:
		return Rule{}, false, fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
}

func boundRule(field string, value any, name string, n float64) Rule {
	if f, ok := toFloat(value); ok {
		switch name {
		case "min":
			return MinNum(field, f, n)
		case "max":
			return MaxNum(field, f, n)
		}
		return SizeNum(field, f, n)
	}

	s := stringValue(value)
	switch name {
	case "min":
		return MinLen(field, s, int(n))
	case "max":
		return MaxLen(field, s, int(n))
	}
	return Len(field, s, int(n))
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
