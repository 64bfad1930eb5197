package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daikazu/frontdoor/pkg/validator"
)

func failing(field, msg string) validator.Rule {
	return validator.Rule{
		Check: func() bool { return false },
		Error: validator.ValidationError{Field: field, Message: msg},
	}
}

func passing() validator.Rule {
	return validator.Rule{Check: func() bool { return true }}
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all pass", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply())
		assert.NoError(t, validator.Apply(passing(), passing()))
	})

	t.Run("collects failures in order", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			failing("name", "field is required"),
			passing(),
			failing("email", "must be a valid email address"),
			failing("name", "must be a string"),
		)
		require.Error(t, err)

		errs := validator.ExtractValidationErrors(err)
		require.Len(t, errs, 3)
		assert.Equal(t, []string{"name", "email"}, errs.Fields())
		assert.Equal(t, []string{"field is required", "must be a string"}, errs.Get("name"))
		assert.True(t, errs.Has("email"))
		assert.False(t, errs.Has("phone"))
		assert.Equal(t,
			"validation failed: name: field is required; email: must be a valid email address; name: must be a string",
			err.Error(),
		)
	})
}

func TestValidationErrors_Empty(t *testing.T) {
	t.Parallel()

	var errs validator.ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())
	assert.Empty(t, errs.Fields())
	assert.Empty(t, errs.FieldErrors())
	assert.Nil(t, errs.Get("name"))
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	base := validator.Apply(failing("name", "field is required"))
	wrapped := fmt.Errorf("register: %w", base)
	joined := errors.Join(errors.New("registration data is invalid"), base)

	for _, err := range []error{base, wrapped, joined} {
		assert.True(t, validator.IsValidationError(err))
		assert.True(t, validator.ExtractValidationErrors(err).Has("name"))
	}

	assert.False(t, validator.IsValidationError(nil))
	assert.False(t, validator.IsValidationError(errors.New("boom")))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("boom")))
}
