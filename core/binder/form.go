package binder

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxMemory bounds in-memory multipart parsing.
const DefaultMaxMemory = 1 << 20

// Form decodes url-encoded or multipart form fields into struct fields tagged
// `form:"name"`. Untagged fields use their lowercased name; `form:"-"` skips.
//
// Supported kinds: string, bool, ints, uints, floats, time.Time (RFC 3339 or
// the datetime-local layout), pointers to those, and slices of strings.
func Form() Binder {
	return func(r *http.Request, v any) error {
		var values url.Values
		switch mt := mediaType(r); mt {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
			values = r.PostForm
		case "multipart/form-data":
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
			values = url.Values(r.MultipartForm.Value)
		case "":
			return fmt.Errorf("%w: expected a form content type", ErrMissingContentType)
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mt)
		}
		return bindValues(values, v)
	}
}

func bindValues(values url.Values, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := fieldName(sf)
		if name == "" {
			continue
		}
		vals, ok := values[name]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := setField(rv.Field(i), vals); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrFailedToParseForm, name, err)
		}
	}
	return nil
}

func fieldName(sf reflect.StructField) string {
	tag := sf.Tag.Get("form")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return strings.ToLower(sf.Name)
}

var timeType = reflect.TypeOf(time.Time{})

// Layouts accepted for time.Time fields; the second is what an HTML
// datetime-local input submits.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02T15:04:05"}

func setField(field reflect.Value, vals []string) error {
	if field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String {
		field.Set(reflect.ValueOf(append([]string(nil), vals...)))
		return nil
	}

	raw := vals[0]
	if field.Kind() == reflect.Pointer {
		if raw == "" {
			return nil
		}
		ptr := reflect.New(field.Type().Elem())
		if err := setScalar(ptr.Elem(), raw); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}
	return setScalar(field, raw)
}

func setScalar(field reflect.Value, raw string) error {
	if field.Type() == timeType {
		if raw == "" {
			return nil
		}
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
				field.Set(reflect.ValueOf(t))
				return nil
			}
		}
		return fmt.Errorf("invalid time %q", raw)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		if raw == "" || raw == "on" {
			field.SetBool(raw == "on")
			return nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if raw == "" {
			return nil
		}
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
