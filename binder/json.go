// Package binder decodes and validates JSON request payloads.
package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Common binding errors.
var (
	ErrInvalidJSON = errors.New("binder.invalid_json")
	ErrValidation  = errors.New("binder.validation")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// JSON decodes the request body into v and validates it against its
// `validate` struct tags. Unknown fields are rejected.
func JSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrInvalidJSON)
		}
		return errors.Join(ErrInvalidJSON, err)
	}

	if err := validate.Struct(v); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return errors.Join(ErrValidation, vErrs)
		}
		return errors.Join(ErrValidation, err)
	}
	return nil
}

// ValidationFields flattens validator errors into a field -> messages map
// for the response envelope. Returns nil when err carries no field errors.
func ValidationFields(err error) map[string][]string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return nil
	}

	fields := make(map[string][]string, len(vErrs))
	for _, fe := range vErrs {
		fields[fe.Field()] = append(fields[fe.Field()], fmt.Sprintf("failed on the '%s' rule", fe.Tag()))
	}
	return fields
}
