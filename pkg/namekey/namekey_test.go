package namekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain ascii", "kimminsu", "kimminsu"},
		{"uppercase", "KIM MIN SU", "kimminsu"},
		{"hyphenated", "Kim Min-Su", "kimminsu"},
		{"internal whitespace", "  Jane\tDoe \n", "janedoe"},
		{"hangul", "김 민수", "김민수"},
		{"hangul with punctuation", "김민수!!", "김민수"},
		{"mixed hangul ascii", "김minsu 99", "김minsu99"},
		{"symbols only", "***---", ""},
		{"digits kept", "user 0042", "user0042"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Canonical(tc.input))
		})
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	inputs := []string{"Kim Min-Su", "김 민수", "JANE DOE", "a1 b2"}
	for _, in := range inputs {
		once := Canonical(in)
		assert.Equal(t, once, Canonical(once))
	}
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("Kim Min-Su", "kimminsu"))
	assert.True(t, Match("KIM MIN SOO", "kim minsoo"))
	assert.True(t, Match("김 민수", "김민수"))
	assert.False(t, Match("Kim Minsu", "Kim Minsoo"))

	// Empty canonical keys never match, even against each other.
	assert.False(t, Match("", ""))
	assert.False(t, Match("***", "---"))
}
