package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"widget x", "widget_x"},
		{"Widget X (64GB, Blue)", "Widget_X_64GB_Blue"},
		{"simple", "simple"},
		{"  spaced  out  ", "spaced_out"},
		{"!!!", "_"},
		{"trailing punctuation!!!", "trailing_punctuation"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeKey(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeKey_CapsLength(t *testing.T) {
	long := strings.Repeat("a", 500)
	key := SanitizeKey(long)
	assert.Len(t, key, 100)
}

func TestSanitizeKey_Deterministic(t *testing.T) {
	assert.Equal(t, SanitizeKey("widget x"), SanitizeKey("widget x"))
}
