package contentpolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateVideoURL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"Empty value passes", "", false},
		{"YouTube watch link", "https://www.youtube.com/watch?v=x", false},
		{"Bare youtube host", "https://youtube.com/watch?v=x", false},
		{"Short-link alias", "https://youtu.be/dQw4w9WgXcQ", false},
		{"External host rejected", "https://example.com/x", true},
		{"Plain http external", "http://vimeo.com/12345", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVideoURL(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Contains(t, err.Error(), ApprovedVideoDomain)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNoExternalLinks(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"Empty text passes", "", false},
		{"Text without links passes", "Just a description with no links.", false},
		{"YouTube link allowed", "See https://youtube.com/watch?v=x", false},
		{"Short-link alias allowed", "Watch https://youtu.be/abc for details", false},
		{"External link rejected", "See https://example.com/learn", true},
		{"Mixed links rejected", "Intro https://youtube.com/watch?v=x and https://example.com/more", true},
		{"Link embedded in sentence", "Materials (https://docs.example.org/a) attached", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNoExternalLinks(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
