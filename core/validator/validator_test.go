package validator_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdpredictor/trafficmap/core/validator"
)

type registerForm struct {
	Name     string `form:"name" validate:"required,max=10"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Nickname string `validate:"min=3"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		form   registerForm
		fields map[string]string
	}{
		{
			name: "valid",
			form: registerForm{Name: "Ada", Email: "ada@example.com", Password: "secret"},
		},
		{
			name: "all missing",
			form: registerForm{Name: "  "},
			fields: map[string]string{
				"name":     "name is required",
				"email":    "email is required",
				"password": "password is required",
			},
		},
		{
			name: "rule violations",
			form: registerForm{Name: "Ada Lovelace King", Email: "not-an-email", Password: "123", Nickname: "ab"},
			fields: map[string]string{
				"name":     "name must be at most 10 characters",
				"email":    "email must be a valid email address",
				"password": "password must be at least 6 characters",
				"nickname": "nickname must be at least 3 characters",
			},
		},
		{
			name:   "display name form is rejected",
			form:   registerForm{Name: "Ada", Email: "Ada <ada@example.com>", Password: "secret"},
			fields: map[string]string{"email": "email must be a valid email address"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := tt.form
			err := validator.ValidateStruct(&f)
			if tt.fields == nil {
				require.NoError(t, err)
				return
			}

			var ve validator.ValidationErrors
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.fields, ve.Fields())
			assert.True(t, validator.IsValidationError(err))
			assert.Equal(t, http.StatusUnprocessableEntity, ve.StatusCode())
		})
	}
}

func TestValidateStruct_InvalidTarget(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, validator.ValidateStruct(registerForm{}), validator.ErrInvalidTarget)
}
