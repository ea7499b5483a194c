package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandSynonyms_AppendsMissingPartnersOnce(t *testing.T) {
	out := expandSynonyms([]string{"auth", "db"})
	assert.Equal(t, []string{"auth", "db", "authentication", "authorization", "database"}, out)
}

func TestExpandSynonyms_NoPartnersLeavesListUnchanged(t *testing.T) {
	out := expandSynonyms([]string{"widget"})
	assert.Equal(t, []string{"widget"}, out)
}

func TestExpandAcronyms_AppendsSplitExpansionWords(t *testing.T) {
	out := expandAcronyms([]string{"api"})
	assert.Equal(t, []string{"api", "application", "programming", "interface"}, out)
}

func TestExpandAcronyms_DeduplicatesAgainstExistingTerms(t *testing.T) {
	out := expandAcronyms([]string{"cli", "command"})
	assert.Equal(t, []string{"cli", "command", "line", "interface"}, out)
}
