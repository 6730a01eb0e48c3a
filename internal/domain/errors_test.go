package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("message", "must not be empty")
	assert.Equal(t, "invalid message: must not be empty", err.Error())
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("handler: %w", err)))
	assert.False(t, IsValidation(errors.New("something else")))
}

func TestPersistenceErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &PersistenceError{Op: "message append", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "message append")
}

func TestExternalServiceErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := &ExternalServiceError{Service: "completion", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "completion")
}

func TestValidateMessageText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty", "", true},
		{"single char", "a", false},
		{"exactly max", repeat('x', MaxMessageLength), false},
		{"over max", repeat('x', MaxMessageLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessageText(tt.text)
			if tt.wantErr {
				assert.True(t, IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func repeat(r rune, n int) string {
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = r
	}
	return string(runes)
}
