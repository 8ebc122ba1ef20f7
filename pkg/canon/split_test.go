package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitComponents(t *testing.T) {
	tests := []struct {
		name string
		path string
		rest []string
		want []string
	}{
		{"absolute", "/a/b/c", nil, []string{"a", "b", "c"}},
		{"relative", "a/b", nil, []string{"a", "b"}},
		{"leading_slashes", "//a", nil, []string{"a"}},
		{"consecutive_slashes", "a//b", nil, []string{"a", "b"}},
		{"trailing_slash", "a/b/", nil, []string{"a", "b"}},
		{"root_only", "/", nil, []string{}},
		{"empty", "", nil, []string{}},
		{"dots_kept", "./a/..", nil, []string{".", "a", ".."}},
		{"splice_before_rest", "x/y", []string{"rest", "tail"}, []string{"x", "y", "rest", "tail"}},
		{"empty_with_rest", "/", []string{"keep"}, []string{"keep"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitComponents(tt.path, tt.rest)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitComponentsDoesNotAliasRest(t *testing.T) {
	rest := []string{"a", "b"}
	got := splitComponents("x", rest)

	got[1] = "mutated"
	assert.Equal(t, []string{"a", "b"}, rest)
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name     string
		resolved []string
		want     string
	}{
		{"empty_is_root", nil, "/"},
		{"single", []string{"a"}, "/a"},
		{"multiple", []string{"a", "b", "c"}, "/a/b/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assemble(tt.resolved))
		})
	}
}
