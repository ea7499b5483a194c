package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_SplitsCamelCaseSnakeCaseAndSeparators(t *testing.T) {
	terms, quoted := normalize(`getUserByID user_name db::Connection "Exact Phrase"`)
	assert.Contains(t, terms, "get")
	assert.Contains(t, terms, "user")
	assert.Contains(t, terms, "by")
	assert.Contains(t, terms, "id")
	assert.Contains(t, terms, "name")
	assert.Contains(t, terms, "connection")
	assert.Equal(t, []string{"Exact Phrase"}, quoted)
}

func TestNormalize_UnterminatedQuoteIsTreatedAsPlainText(t *testing.T) {
	terms, quoted := normalize(`foo "bar`)
	assert.Empty(t, quoted)
	assert.Contains(t, terms, "foo")
	assert.Contains(t, terms, "bar")
}

func TestSplitIdentifier_HandlesAcronymRuns(t *testing.T) {
	words := splitIdentifier("HTTPServerConfig")
	assert.Equal(t, []string{"http", "server", "config"}, words)
}
