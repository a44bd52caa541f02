package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
	"github.com/recipehub/recipehub-server/internal/validation"
)

type bookRequest struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Servings    int    `json:"servings" validate:"gte=0,lte=1000"`
}

type checkedRequest struct {
	Name  string `json:"name" validate:"notblank"`
	extra map[string]string
}

func (r checkedRequest) CheckFields() map[string]string {
	return r.extra
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(bookRequest{Name: "Weeknights", Description: "Quick dinners", Servings: 4})
	assert.NoError(t, err)
}

func TestValidator_NotBlank(t *testing.T) {
	v := validation.New()

	err := v.Validate(bookRequest{Name: "   ", Description: "ok"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
	assert.Equal(t, "name is required and must be a non-empty string", domainErr.Message)
}

func TestValidator_JoinsSortedMessages(t *testing.T) {
	v := validation.New()

	err := v.Validate(bookRequest{Servings: -1})
	require.Error(t, err)

	assert.Equal(t,
		"description is required and must be a non-empty string; "+
			"name is required and must be a non-empty string; "+
			"servings must be greater than or equal to 0",
		err.Error())

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Len(t, details, 3)
}

func TestValidator_FieldChecker(t *testing.T) {
	v := validation.New()

	err := v.Validate(checkedRequest{
		Name:  "Soup",
		extra: map[string]string{"ingredients": "at least one ingredient is required"},
	})
	require.Error(t, err)
	assert.Equal(t, "at least one ingredient is required", err.Error())

	// Tag failures win over checker messages for the same field.
	err = v.Validate(checkedRequest{
		extra: map[string]string{"name": "custom"},
	})
	require.Error(t, err)
	assert.Equal(t, "name is required and must be a non-empty string", err.Error())

	assert.NoError(t, v.Validate(checkedRequest{Name: "Soup"}))
}

func TestJoinMessages(t *testing.T) {
	assert.Equal(t, "a; b", validation.JoinMessages(map[string]string{"y": "b", "x": "a"}))
	assert.Equal(t, "", validation.JoinMessages(nil))
}
