package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"translated duplicate", gorm.ErrDuplicatedKey, true},
		{"wrapped translated duplicate", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"mysql 1062 text", errors.New("Error 1062 (23000): Duplicate entry '1-3' for key 'idx_user_course'"), true},
		{"sqlite unique text", errors.New("UNIQUE constraint failed: subscriptions.user_id, subscriptions.course_id"), true},
		{"unrelated error", errors.New("connection refused"), false},
		{"record not found", gorm.ErrRecordNotFound, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDuplicateKeyError(tc.err))
		})
	}
}
