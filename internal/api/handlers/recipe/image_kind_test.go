package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeImage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "empty"},
		{"data:image/png;base64,iVBOR", "data_uri_png"},
		{"data:;base64,AAAA", "data_uri"},
		{"/9j/4AAQSkZJRg", "base64_jpeg"},
		{"iVBORw0KGgoAAAANSUhEUg", "base64_png"},
		{"UklGRiQAAABXRUJQ", "base64_webp"},
		{"R0lGODlhAQABAAAAACw=", "base64"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, describeImage(tt.in), tt.in)
	}
}
