// Package bind decodes and validates an HTTP request body.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/shashiranjanraj/pizzeria/config"
	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/validate"
)

// maxBodyBytes is MAX_BODY_BYTES, 4 MB by default.
func maxBodyBytes() int64 {
	return int64(config.Int("MAX_BODY_BYTES", 4<<20))
}

// JSON decodes r.Body into dest (a pointer to a struct or a slice of
// structs) and validates it. Malformed or oversized bodies yield a
// BadRequest; rule violations yield an apperror.Validation.
func JSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperror.BadRequest("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return apperror.BadRequest("request body is empty")
		default:
			return apperror.BadRequest("invalid JSON: %s", err.Error())
		}
	}

	var errs validate.Errors
	if reflect.Indirect(reflect.ValueOf(dest)).Kind() == reflect.Slice {
		errs = validate.Slice(dest)
	} else {
		errs = validate.Struct(dest)
	}
	if validate.HasErrors(errs) {
		return apperror.Validation(errs...)
	}
	return nil
}

// MustNotBeEmpty rejects an empty JSON array body.
func MustNotBeEmpty(n int, field string) error {
	if n == 0 {
		return apperror.Validation(apperror.FieldError{
			Field:   field,
			Message: fmt.Sprintf("The %s must not be empty.", field),
		})
	}
	return nil
}
