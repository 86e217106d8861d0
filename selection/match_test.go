package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"literal", "sub/file", "sub/file", true},
		{"literal miss", "sub/file", "sub/other", false},
		{"star within segment", "*.pyc", "cache.pyc", true},
		{"star crosses separators", "*.pyc", "sub/dir/cache.pyc", true},
		{"star in middle", "sub/*/d", "sub/dir/d", true},
		{"star absorbs separators", "sub/*/d", "sub/a/b/d", true},
		{"star does not extend match", "sub/*/d", "sub/dir/d/e", false},
		{"star empty run", "a*b", "ab", true},
		{"trailing star", "logs*", "logs", true},
		{"question mark", "file.?", "file.a", true},
		{"question mark needs a rune", "file.?", "file.", false},
		{"class member", "[ac]", "a", true},
		{"class non-member", "[ac]", "b", false},
		{"class is whole-path", "[ac]", "ab", false},
		{"class range", "v[0-9]", "v7", true},
		{"class range miss", "v[0-9]", "vx", false},
		{"negated class", "[!ac]", "b", true},
		{"negated class miss", "[!ac]", "a", false},
		{"caret negation", "[^ac]", "b", true},
		{"literal close bracket", "[]]", "]", true},
		{"unterminated class is literal", "a[bc", "a[bc", true},
		{"unterminated class no match", "a[bc", "abc", false},
		{"empty pattern", "", "a", false},
		{"empty path", "*", "", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Match(tt.pattern, tt.path))
		})
	}
}

func TestMatchAny(t *testing.T) {
	t.Parallel()

	patterns := []string{"[ac]", "sub/*/d"}
	assert.True(t, MatchAny(patterns, "a"))
	assert.True(t, MatchAny(patterns, "sub/dir/d"))
	assert.False(t, MatchAny(patterns, "b"))
	assert.False(t, MatchAny(patterns, "sub/dir"))
	assert.False(t, MatchAny(nil, "anything"))
}
