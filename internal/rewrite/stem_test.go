package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStemmer_StemsWordsAtOrAboveMinLength(t *testing.T) {
	s := newStemmer(true, 3)
	assert.Equal(t, "connect", s.stem("connection"))
}

func TestStemmer_SkipsWordsBelowMinLength(t *testing.T) {
	s := newStemmer(true, 5)
	assert.Equal(t, "auth", s.stem("auth"))
}

func TestStemmer_NeverStemsExclusions(t *testing.T) {
	s := newStemmer(true, 1)
	assert.Equal(t, "api", s.stem("api"))
	assert.Equal(t, "SQL", s.stem("SQL"), "exclusion check is case-insensitive but the original casing is preserved")
}

func TestStemmer_DisabledIsIdentity(t *testing.T) {
	s := newStemmer(false, 3)
	assert.Equal(t, []string{"connection", "servers"}, s.stemAll([]string{"connection", "servers"}))
}

func TestNewStemmer_DefaultsMinLengthWhenNonPositive(t *testing.T) {
	s := newStemmer(true, 0)
	assert.Equal(t, 3, s.minLength)
}
