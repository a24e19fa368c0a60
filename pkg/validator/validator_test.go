package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewForm struct {
	ProductID string `validate:"required,uuid"`
	Grade     int    `validate:"required,min=1,max=5"`
	Comment   string `validate:"max=2000"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(reviewForm{
		ProductID: "3b9f6f50-7d63-4f55-9c4e-54b2a1f23dd1",
		Grade:     4,
	})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(reviewForm{Grade: 4})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "ProductID")
	assert.Equal(t, "is required", valErr.Fields()["ProductID"])
}

func TestValidate_OutOfRange(t *testing.T) {
	err := Validate(reviewForm{
		ProductID: "3b9f6f50-7d63-4f55-9c4e-54b2a1f23dd1",
		Grade:     9,
	})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be at most 5", valErr.Fields()["Grade"])
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(reviewForm{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ProductID")
	assert.Contains(t, err.Error(), "is required")
}
