package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxJSONSize caps JSON bodies.
const DefaultMaxJSONSize = 1 << 20

// JSON decodes an application/json body. Unknown fields are rejected.
func JSON() Binder {
	return func(r *http.Request, v any) error {
		if err := r.Context().Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}

		switch mt := mediaType(r); mt {
		case "application/json":
		case "":
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		default:
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mt)
		}

		dec := json.NewDecoder(io.LimitReader(r.Body, DefaultMaxJSONSize))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
			}
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}
		return nil
	}
}
