// Package sanitizer normalizes user input before validation.
//
//	type registerForm struct {
//		Name  string `sanitize:"single_line"`
//		Email string `sanitize:"email"`
//	}
//	_ = sanitizer.SanitizeStruct(&form)
package sanitizer
