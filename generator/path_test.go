package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Single name",
			input:    "limit",
			expected: []string{"limit"},
		},
		{
			name:     "Dotted path",
			input:    "filter.status",
			expected: []string{"filter", "status"},
		},
		{
			name:     "Index",
			input:    "items[0]",
			expected: []string{"items", "0"},
		},
		{
			name:     "Index between names",
			input:    "a[0].b.c",
			expected: []string{"a", "0", "b", "c"},
		},
		{
			name:     "Negative decimal index",
			input:    "a[-1.5]",
			expected: []string{"a", "-1.5"},
		},
		{
			name:     "Quoted key with a dot",
			input:    "a['b.c']",
			expected: []string{"a", "b.c"},
		},
		{
			name:     "Double quoted key with escaped quote",
			input:    `a["b\"c"]`,
			expected: []string{"a", `b"c`},
		},
		{
			name:     "Leading dot",
			input:    ".a",
			expected: []string{"", "a"},
		},
		{
			name:     "Empty segment",
			input:    "a..b",
			expected: []string{"a", "", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToPath(tt.input))
		})
	}
}

func TestToPath_Empty(t *testing.T) {
	assert.Empty(t, ToPath(""))
}
