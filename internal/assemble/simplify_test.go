package assemble

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linesOf(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line" + strconv.Itoa(i)
	}
	return strings.Join(lines, "\n")
}

func TestSimplify_LeavesShortSourceUnchanged(t *testing.T) {
	src := linesOf(10)
	out, truncated := simplify(src, "function", RoleRoot)
	assert.False(t, truncated)
	assert.Equal(t, src, out)
}

func TestSimplify_TruncatesOversizedNonFileRoot(t *testing.T) {
	src := linesOf(nonFileRootLineLimit + 50)
	out, truncated := simplify(src, "function", RoleRoot)
	require.True(t, truncated)

	outLines := strings.Split(out, "\n")
	assert.Len(t, outLines, otherHeadLines+1+tailLines)
	assert.Equal(t, "line0", outLines[0])
	assert.Contains(t, outLines[otherHeadLines], "lines omitted")
}

func TestSimplify_FileKindUsesWiderLimitsAndMoreHeadLines(t *testing.T) {
	src := linesOf(nonFileRootLineLimit + 50)
	out, truncated := simplify(src, "file", RoleRoot)
	assert.False(t, truncated, "under the file-kind limit even though it exceeds the non-file-root limit")
	assert.Equal(t, src, out)

	bigger := linesOf(fileRootLineLimit + 100)
	out, truncated = simplify(bigger, "file", RoleRoot)
	require.True(t, truncated)
	outLines := strings.Split(out, "\n")
	assert.Len(t, outLines, fileRootHeadLines+1+tailLines)
}

func TestSimplify_NonRootRoleUsesTighterLimit(t *testing.T) {
	src := linesOf(nonRootLineLimit + 10)
	out, truncated := simplify(src, "function", RoleExpanded)
	require.True(t, truncated)
	assert.NotEqual(t, src, out)
}

func TestLineLimitFor_PicksKindAndRoleDependentLimit(t *testing.T) {
	assert.Equal(t, fileRootLineLimit, lineLimitFor("file", RoleRoot))
	assert.Equal(t, fileRootLineLimit, lineLimitFor("file", RoleExpanded))
	assert.Equal(t, nonFileRootLineLimit, lineLimitFor("function", RoleRoot))
	assert.Equal(t, nonRootLineLimit, lineLimitFor("function", RoleExtra))
}
