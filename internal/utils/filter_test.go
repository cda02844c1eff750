package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCheckable(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"hello", true},
		{"don't", true},
		{"Straße", true},
		{"2025", false},
		{"--", false},
		{"", false},
		{"https://example.com", false},
		{"v2", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCheckable(tt.in), tt.in)
	}
}

func TestDedupeSuggestions(t *testing.T) {
	got := DedupeSuggestions("Cat", []string{"cat", "cart", "Cart", "coat", "chat"}, 2)
	assert.Equal(t, []string{"cart", "coat"}, got)
	assert.Empty(t, DedupeSuggestions("x", nil, 3))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatWithCommas(1234567))
	assert.Equal(t, "999", FormatWithCommas(999))
	assert.Equal(t, "1.5 kB", FormatBytes(1500))
	assert.Equal(t, "?", FormatBytes(-1))
}
