package validator

import "errors"

var (
	// ErrUnknownRule is returned by FromSpecs for a rule spec it does not understand.
	ErrUnknownRule = errors.New("unknown validation rule")

	// ErrInvalidRuleSpec is returned by FromSpecs when a rule parameter is malformed.
	ErrInvalidRuleSpec = errors.New("invalid validation rule spec")
)
