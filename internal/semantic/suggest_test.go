package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSuggestRanksClosestFirst(t *testing.T) {
	s := NewSuggester(0.85, 3)

	got := s.Suggest("ParseTre", []string{"Render", "ParseText", "ParseTree"})
	assert.NotEmpty(t, got)
	assert.Equal(t, "ParseTree", got[0])
	assert.NotContains(t, got, "Render")
}

func TestSuggestHonorsThreshold(t *testing.T) {
	s := NewSuggester(0.85, 3)

	assert.Empty(t, s.Suggest("zzz", []string{"Parse", "Render", "Walk"}))
}

func TestSuggestCapsResults(t *testing.T) {
	s := NewSuggester(0.85, 3)

	got := s.Suggest("handle", []string{"handles", "handled", "handler", "handlex", "handle2"})
	assert.Len(t, got, 3)
}

func TestSuggestIsCaseInsensitive(t *testing.T) {
	s := NewSuggester(0.85, 3)

	assert.Equal(t, []string{"Parse"}, s.Suggest("parse", []string{"Parse"}))
}

func TestSuggestSkipsDuplicateCandidates(t *testing.T) {
	s := NewSuggester(0.85, 3)

	got := s.Suggest("push", []string{"pushed", "pushed", "pusher"})
	assert.Equal(t, []string{"pushed", "pusher"}, got)
}

func TestNewSuggesterDefaults(t *testing.T) {
	s := NewSuggester(0, 0)
	assert.Equal(t, 0.85, s.threshold)
	assert.Equal(t, 3, s.max)

	s = NewSuggester(1.5, -1)
	assert.Equal(t, 0.85, s.threshold)
	assert.Equal(t, 3, s.max)
}
