package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"alice@example.com":  "a***e@e******.com",
		" ab@x.io ":          "a*@x.io",
		"a@example.com":      "a@e******.com",
		"not-an-email":       "not-an-email",
		"two@at@example.com": "two@at@example.com",
		"guest@localhost":    "g***t@localhost",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskEmail(in), in)
	}
}
