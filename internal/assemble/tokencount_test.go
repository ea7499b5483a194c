package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountTokens_NonEmptyTextYieldsPositiveCount(t *testing.T) {
	n := CountTokens("o200k_base", "func widget() {}")
	assert.Greater(t, n, 0)
}

func TestCountTokens_EmptyTextYieldsZero(t *testing.T) {
	assert.Equal(t, 0, CountTokens("o200k_base", ""))
}

func TestCountTokens_LongerTextYieldsMoreTokens(t *testing.T) {
	short := CountTokens("o200k_base", "func widget() {}")
	long := CountTokens("o200k_base", "func widget() { doSomethingWithAVeryLongNameIndeed() }")
	assert.Greater(t, long, short)
}
