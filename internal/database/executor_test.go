package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasLimitClause(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT * FROM user", false},
		{"SELECT * FROM user LIMIT 1", true},
		{"select * from user limit 5", true},
		{"SELECT unlimited FROM user", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, hasLimitClause(tt.query), tt.query)
	}
}

func TestIsUniqueIndexViolation(t *testing.T) {
	assert.True(t, isUniqueIndexViolation(errors.New("Database index `unique_username` already contains 'alice'")))
	assert.True(t, isUniqueIndexViolation(errors.New("index is unique")))
	assert.False(t, isUniqueIndexViolation(errors.New("connection refused")))
	assert.False(t, isUniqueIndexViolation(nil))
}
