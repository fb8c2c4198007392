package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Grade string `validate:"required,grade"`
	Role  string `validate:"required,role"`
}

func TestCustomTags(t *testing.T) {
	assert.Empty(t, ValidateStruct(&sample{Grade: "Other", Role: "marker"}))

	errs := ValidateStruct(&sample{Grade: "Z", Role: "admin"})
	require.Len(t, errs, 1)
	assert.Equal(t, "sample.Grade", errs[0].FailedField)
	assert.Equal(t, "grade", errs[0].Tag)
	assert.Equal(t, "Validation failed: Field 'sample.Grade' failed on tag 'grade'", Message(errs))

	errs = ValidateStruct(&sample{Grade: "A", Role: "root"})
	require.Len(t, errs, 1)
	assert.Equal(t, "role", errs[0].Tag)
}
