package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

func TestInsuredID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid five digits", "12345", false},
		{"leading zeros", "00042", false},
		{"too short", "1234", true},
		{"too long", "123456", true},
		{"non numeric", "12a45", true},
		{"blank", "", true},
		{"whitespace", " 1234", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, InsuredID)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUUID(t *testing.T) {
	assert.NoError(t, validation.Validate("0190b7a0-5a2e-7cc3-b44c-97f5ef1696b4", UUID))
	assert.Error(t, validation.Validate("not-a-uuid", UUID))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("x", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}

func TestWrapValidationError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(validation.Errors{
			"insuredId": validation.NewError("validation_insured_id", "must be exactly 5 numeric digits"),
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestFieldViolations(t *testing.T) {
	t.Run("recovers every violated field", func(t *testing.T) {
		err := WrapValidationError(validation.Errors{
			"insuredId":  validation.NewError("validation_insured_id", "must be exactly 5 numeric digits"),
			"scheduleId": validation.NewError("validation_min", "must be no less than 1"),
		})

		violations := FieldViolations(err)
		require.Len(t, violations, 2)
		assert.Contains(t, violations, "insuredId")
		assert.Contains(t, violations, "scheduleId")
	})

	t.Run("returns nil without field detail", func(t *testing.T) {
		assert.Nil(t, FieldViolations(apperrors.ErrInvalidInput))
	})
}
