package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daikazu/frontdoor/pkg/validator"
)

func applySpecs(t *testing.T, field string, value any, specs ...string) validator.ValidationErrors {
	t.Helper()
	rules, err := validator.FromSpecs(field, value, specs)
	require.NoError(t, err)
	return validator.ExtractValidationErrors(validator.Apply(rules...))
}

func TestFromSpecs(t *testing.T) {
	t.Parallel()

	t.Run("required fails on blank values", func(t *testing.T) {
		t.Parallel()
		for _, v := range []any{nil, "", "   "} {
			errs := applySpecs(t, "name", v, "required", "string", "max:255")
			require.Len(t, errs, 1, "value %q", v)
			assert.Equal(t, "required", errs[0].Code)
		}
	})

	t.Run("optional blank field yields no rules", func(t *testing.T) {
		t.Parallel()
		rules, err := validator.FromSpecs("phone", "", []string{"nullable", "string", "max:32"})
		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("max counts characters for strings", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, applySpecs(t, "name", "Zoë", "string", "max:3"))

		errs := applySpecs(t, "name", "Zoëy", "string", "max:3")
		require.Len(t, errs, 1)
		assert.Equal(t, "must be at most 3 characters long", errs[0].Message)
	})

	t.Run("min and max compare numbers by value", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, applySpecs(t, "age", 18, "numeric", "min:18", "max:120"))
		assert.True(t, applySpecs(t, "age", 17, "min:18").Has("age"))
		assert.True(t, applySpecs(t, "age", 121.5, "max:120").Has("age"))
	})

	t.Run("size", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, applySpecs(t, "code", "AB12", "size:4"))
		assert.True(t, applySpecs(t, "code", "AB1", "size:4").Has("code"))
		assert.Empty(t, applySpecs(t, "seats", 4, "size:4"))
	})

	t.Run("string rejects non-string values", func(t *testing.T) {
		t.Parallel()
		errs := applySpecs(t, "name", 42, "string")
		require.Len(t, errs, 1)
		assert.Equal(t, "string", errs[0].Code)
	})

	t.Run("in", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, applySpecs(t, "plan", "pro", "in:free, pro"))
		assert.True(t, applySpecs(t, "plan", "enterprise", "in:free,pro").Has("plan"))
	})

	t.Run("format rules", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, applySpecs(t, "email", "jane@example.com", "email"))
		assert.True(t, applySpecs(t, "email", "not-an-email", "email").Has("email"))
		assert.Empty(t, applySpecs(t, "site", "https://example.com", "url"))
		assert.Empty(t, applySpecs(t, "phone", "+15551234567", "phone"))
		assert.True(t, applySpecs(t, "handle", "jane doe", "alpha_num").Has("handle"))
		assert.Empty(t, applySpecs(t, "amount", "-12.5", "numeric"))
		assert.True(t, applySpecs(t, "amount", "12abc", "numeric").Has("amount"))
	})

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()
		for _, v := range []any{true, "yes", "on", "1", "TRUE", 1} {
			assert.Empty(t, applySpecs(t, "terms", v, "required", "accepted"), "value %v", v)
		}
		for _, v := range []any{false, "no", 0} {
			assert.True(t, applySpecs(t, "terms", v, "required", "accepted").Has("terms"), "value %v", v)
		}
	})

	t.Run("unknown rule", func(t *testing.T) {
		t.Parallel()
		_, err := validator.FromSpecs("name", "x", []string{"uuid"})
		require.ErrorIs(t, err, validator.ErrUnknownRule)
	})

	t.Run("malformed parameter", func(t *testing.T) {
		t.Parallel()
		_, err := validator.FromSpecs("name", "x", []string{"max:lots"})
		require.ErrorIs(t, err, validator.ErrInvalidRuleSpec)

		_, err = validator.FromSpecs("name", "x", []string{"in:"})
		require.ErrorIs(t, err, validator.ErrInvalidRuleSpec)
	})
}

func TestValidationErrorsFieldErrors(t *testing.T) {
	t.Parallel()

	var errs validator.ValidationErrors
	errs.Add(validator.ValidationError{Field: "name", Message: "field is required"})
	errs.Add(validator.ValidationError{Field: "phone", Message: "must be a valid phone number"})
	errs.Add(validator.ValidationError{Field: "name", Message: "must be a string"})

	assert.Equal(t, map[string][]string{
		"name":  {"field is required", "must be a string"},
		"phone": {"must be a valid phone number"},
	}, errs.FieldErrors())
}
