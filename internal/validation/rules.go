// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

var (
	// insuredIDRegex matches exactly five numeric characters.
	insuredIDRegex = regexp.MustCompile(`^[0-9]{5}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput while
// keeping the original error in the chain, so boundaries can recover the full
// per-field violation list with errors.As.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
}

// FieldViolations extracts the per-field violation messages from an error chain
// produced by WrapValidationError. Returns nil when the error carries no
// field-level detail.
func FieldViolations(err error) map[string]string {
	var verrs validation.Errors
	if !apperrors.As(err, &verrs) {
		return nil
	}

	violations := make(map[string]string, len(verrs))
	for field, fieldErr := range verrs {
		violations[field] = fieldErr.Error()
	}
	return violations
}

// InsuredID validates the five-digit insured party identifier.
var InsuredID = validation.NewStringRuleWithError(
	func(s string) bool {
		return insuredIDRegex.MatchString(s)
	},
	validation.NewError("validation_insured_id", "must be exactly 5 numeric digits"),
)

// UUID validates that a string is a well-formed UUID.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
