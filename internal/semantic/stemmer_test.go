package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStemJoinsMorphologicalVariants(t *testing.T) {
	assert.Equal(t, Stem("parse"), Stem("parsing"))
	assert.Equal(t, Stem("parse"), Stem("parses"))
	assert.Equal(t, Stem("walk"), Stem("walking"))
}

func TestStemKeepsShortWords(t *testing.T) {
	assert.Equal(t, "go", Stem("Go"))
	assert.Equal(t, "io", Stem("io"))
}

func TestTokensSplitOnNonWordRunes(t *testing.T) {
	assert.Equal(t, []string{"walks", "the", "tree", "fast"}, Tokens("Walks the tree, fast."))
	assert.Empty(t, Tokens("  ... "))
}

func TestMatchesSubstring(t *testing.T) {
	doc := "Walks the tree and collects nodes."

	assert.True(t, Matches("walks the", doc, false))
	assert.True(t, Matches("COLLECTS", doc, false))
	assert.False(t, Matches("absent", doc, false))
}

func TestMatchesStemmed(t *testing.T) {
	doc := "Parses the source and walks every node."

	assert.True(t, Matches("parsing", doc, true))
	assert.True(t, Matches("walking nodes", doc, true))
	assert.False(t, Matches("rendering", doc, true))
	assert.False(t, Matches("", doc, true))
}
