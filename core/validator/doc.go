// Package validator checks structs against `validate` tags.
//
//	type registerForm struct {
//		Name     string `form:"name" validate:"required,max=100"`
//		Email    string `form:"email" validate:"required,email"`
//		Password string `form:"password" validate:"required,min=6"`
//	}
//
//	if err := validator.ValidateStruct(&form); err != nil {
//		var ve validator.ValidationErrors
//		errors.As(err, &ve)
//		// ve.Fields() maps form field names to messages
//	}
//
// Rules: required, email, min=N and max=N (rune length). Unknown rule names
// are ignored.
package validator
