package apperrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		invalid   bool
		retryable bool
	}{
		{"wrapped not found", errors.Wrap(ErrNotFound, "patient p-1"), true, false, false},
		{"validation error", Invalid("price", "must not be negative"), false, true, false},
		{"invalid input", InvalidInput(errors.New("amount: cannot be blank.")), false, true, false},
		{"conflict", errors.Wrapf(ErrConflict, "lock %s", "patient_lock:p-1"), false, false, true},
		{"storage", errors.Wrap(Unavailable(errors.New("connection refused")), "failed to insert treatment"), false, false, true},
		{"plain", errors.New("boom"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.invalid, IsInvalidArgument(tt.err))
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := Invalid("tooth_number", "19 is not part of the adult chart")
	assert.Equal(t, "invalid tooth_number: 19 is not part of the adult chart", err.Error())

	var ve ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "tooth_number", ve.Field)
}

func TestNilPassthrough(t *testing.T) {
	assert.NoError(t, InvalidInput(nil))
	assert.NoError(t, Unavailable(nil))
}
