package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeaderText(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantSep bool
	}{
		{"My Section", "My Section", false},
		{"  padded  ", "padded", false},
		{"-My Section", "My Section", true},
		{"--- Setup ---", " Setup ", true},
		{"Setup---", "Setup", false},
		{"-", "", true},
		{"", "", false},
		{"   ", "", false},
		{"a-b", "a-b", false},
	}

	for _, tt := range tests {
		text, sep := NormalizeHeaderText(tt.raw)
		assert.Equal(t, tt.want, text, "NormalizeHeaderText(%q) text", tt.raw)
		assert.Equal(t, tt.wantSep, sep, "NormalizeHeaderText(%q) separator", tt.raw)
	}
}
