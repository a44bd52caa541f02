package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"

	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
)

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		errs    []error
		want    *APIError
	}{
		{
			name:   "domain error wins",
			status: http.StatusInternalServerError,
			errs:   []error{fmt.Errorf("load: %w", domainerrors.NotFound("Recipe not found"))},
			want:   &APIError{status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Recipe not found"},
		},
		{
			name:    "schema failure becomes validation",
			status:  http.StatusUnprocessableEntity,
			message: "validation failed",
			errs:    []error{&huma.ErrorDetail{Location: "body.servings", Message: "expected integer"}},
			want:    &APIError{status: http.StatusBadRequest, Code: "VALIDATION", Message: "body.servings: expected integer"},
		},
		{
			name:    "plain status",
			status:  http.StatusUnauthorized,
			message: "nope",
			want:    &APIError{status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "nope"},
		},
		{
			name:    "unexpected error hides detail",
			status:  http.StatusInternalServerError,
			message: "unexpected error occurred",
			errs:    []error{fmt.Errorf("disk on fire")},
			want:    &APIError{status: http.StatusInternalServerError, Code: "INTERNAL", Message: "unexpected error occurred"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newAPIError(tt.status, tt.message, tt.errs...)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.status, got.GetStatus())
		})
	}
}
