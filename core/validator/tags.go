package validator

import (
	"fmt"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Rule checks value and returns a message when it fails. params come from
// the tag, e.g. "min=6" yields ["6"].
type Rule func(field string, value reflect.Value, params []string) (string, bool)

var registry = map[string]Rule{
	"required": required,
	"email":    email,
	"min":      minLen,
	"max":      maxLen,
}

// ValidateStruct checks exported fields against their `validate:"..."` tags.
// Field names in errors come from the `form` tag when present. Rules other
// than required are skipped for empty values.
func ValidateStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	var errs ValidationErrors
	validateStruct(rv.Elem(), &errs)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateStruct(rv reflect.Value, errs *ValidationErrors) {
	rt := rv.Type()
	for i := range rv.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		field := rv.Field(i)
		tag := sf.Tag.Get("validate")

		if field.Kind() == reflect.Struct && tag == "" {
			validateStruct(field, errs)
			continue
		}
		if tag == "" || tag == "-" {
			continue
		}
		validateField(fieldName(sf), field, tag, errs)
	}
}

func fieldName(sf reflect.StructField) string {
	if name, _, _ := strings.Cut(sf.Tag.Get("form"), ","); name != "" && name != "-" {
		return name
	}
	return strings.ToLower(sf.Name)
}

func validateField(name string, value reflect.Value, tag string, errs *ValidationErrors) {
	empty := value.IsZero()
	for spec := range strings.SplitSeq(tag, ",") {
		ruleName, param, _ := strings.Cut(strings.TrimSpace(spec), "=")
		if empty && ruleName != "required" {
			continue
		}
		rule, ok := registry[ruleName]
		if !ok {
			continue
		}
		var params []string
		if param != "" {
			params = strings.Split(param, "|")
		}
		if msg, failed := rule(name, value, params); failed {
			*errs = append(*errs, FieldError{Field: name, Rule: ruleName, Message: msg})
			if ruleName == "required" {
				return
			}
		}
	}
}

func required(field string, value reflect.Value, _ []string) (string, bool) {
	if value.Kind() == reflect.String {
		if strings.TrimSpace(value.String()) == "" {
			return field + " is required", true
		}
		return "", false
	}
	if value.IsZero() {
		return field + " is required", true
	}
	return "", false
}

func email(field string, value reflect.Value, _ []string) (string, bool) {
	if value.Kind() != reflect.String {
		return "", false
	}
	addr, err := mail.ParseAddress(value.String())
	if err != nil || addr.Address != value.String() {
		return field + " must be a valid email address", true
	}
	return "", false
}

func minLen(field string, value reflect.Value, params []string) (string, bool) {
	n, ok := intParam(params)
	if !ok {
		return "", false
	}
	if length(value) < n {
		return fmt.Sprintf("%s must be at least %d characters", field, n), true
	}
	return "", false
}

func maxLen(field string, value reflect.Value, params []string) (string, bool) {
	n, ok := intParam(params)
	if !ok {
		return "", false
	}
	if length(value) > n {
		return fmt.Sprintf("%s must be at most %d characters", field, n), true
	}
	return "", false
}

func intParam(params []string) (int, bool) {
	if len(params) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(params[0])
	return n, err == nil
}

func length(value reflect.Value) int {
	switch value.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(value.String())
	case reflect.Slice, reflect.Map, reflect.Array:
		return value.Len()
	default:
		return 0
	}
}
