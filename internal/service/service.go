// Package service holds the business rules behind every route: field
// validation, authorization, one storage operation and the activity record.
package service

import (
	"strings"
	"time"

	"campusboard/api/internal/apperr"
)

// field pairs a request field name with its submitted value.
type field struct {
	name  string
	value string
}

// requireFields fails with a validation error naming the first blank field.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return apperr.Validation(f.name + " is required")
		}
	}
	return nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
