package service

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"event-share/pkg/apierror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest runs struct tag validation and reports failing fields by
// their JSON names.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierror.New("VALIDATION_ERROR", "invalid request", "", http.StatusBadRequest)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, jsonFieldName(fe.Field())+" ("+fe.Tag()+")")
	}

	return apierror.New("VALIDATION_ERROR", "missing or invalid fields", strings.Join(fields, ", "), http.StatusBadRequest)
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// parseEventDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, apierror.New("VALIDATION_ERROR", "date must be RFC 3339 or YYYY-MM-DD", raw, http.StatusBadRequest)
	}
	return t.UTC(), nil
}
