package sanitizer

import (
	"errors"
	"reflect"
	"strings"
)

// ErrInvalidTarget is returned when SanitizeStruct gets anything but a
// pointer to a struct.
var ErrInvalidTarget = errors.New("sanitizer: must pass a pointer to struct")

var registry = map[string]func(string) string{
	"trim":        Trim,
	"lower":       ToLower,
	"email":       NormalizeEmail,
	"no_control":  RemoveControlChars,
	"single_line": SingleLine,
	// Place names and route labels typed into the search form.
	"place": func(s string) string { return SingleLine(Trim(s)) },
}

// SanitizeStruct rewrites string fields in place following their
// `sanitize:"a,b"` tags, left to right. Nested structs are walked; unknown
// names are ignored.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	sanitizeStruct(rv.Elem())
	return nil
}

func sanitizeStruct(rv reflect.Value) {
	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}
		tag := rt.Field(i).Tag.Get("sanitize")
		if tag == "-" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			if tag != "" {
				field.SetString(apply(field.String(), tag))
			}
		case reflect.Pointer:
			if field.IsNil() {
				continue
			}
			if elem := field.Elem(); elem.Kind() == reflect.String && tag != "" {
				elem.SetString(apply(elem.String(), tag))
			} else if elem.Kind() == reflect.Struct {
				sanitizeStruct(elem)
			}
		case reflect.Struct:
			sanitizeStruct(field)
		}
	}
}

func apply(s, tag string) string {
	for name := range strings.SplitSeq(tag, ",") {
		if fn, ok := registry[strings.TrimSpace(name)]; ok {
			s = fn(s)
		}
	}
	return s
}
