package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentValidateTarget(t *testing.T) {
	courseID := uint(1)
	lessonID := uint(2)

	tests := []struct {
		name    string
		payment Payment
		wantErr bool
	}{
		{"course only", Payment{PaidCourseID: &courseID}, false},
		{"lesson only", Payment{PaidLessonID: &lessonID}, false},
		{"neither", Payment{}, true},
		{"both", Payment{PaidCourseID: &courseID, PaidLessonID: &lessonID}, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.payment.ValidateTarget()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrPaymentTarget)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
