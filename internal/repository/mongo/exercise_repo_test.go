package mongo

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameSearchRegexQuotesMetacharacters(t *testing.T) {
	for _, search := range []string{
		"biceps (cable)",
		"c++ curl",
		"pull*up",
		"squat [front]",
	} {
		r := nameSearchRegex(search)

		compiled, err := regexp.Compile(r.Pattern)
		require.NoError(t, err, "pattern for %q must stay a valid regex", search)
		assert.True(t, compiled.MatchString(search), "pattern must match the literal term %q", search)
		assert.Equal(t, "i", r.Options)
	}
}

func TestNameSearchRegexLiteralOnly(t *testing.T) {
	// A dot matches only itself, not any character.
	r := nameSearchRegex("jump.rope")
	compiled := regexp.MustCompile(r.Pattern)
	assert.True(t, compiled.MatchString("jump.rope"))
	assert.False(t, compiled.MatchString("jumpXrope"))
}
