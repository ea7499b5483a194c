package assemble

import (
	"strconv"
	"strings"
)

const tailLines = 5

// lineLimits are the kind-dependent oversized-body thresholds from spec.md
// section 4.6 step 5.
const (
	fileRootLineLimit    = 1000
	nonFileRootLineLimit = 500
	nonRootLineLimit     = 100
)

// headLines are how many leading lines survive simplification: more for a
// file root (its own section 4.6 step 5 "file: 50" figure) than for any
// other role.
const (
	fileRootHeadLines = 50
	otherHeadLines    = 15
)

// simplify truncates source to the head/tail shape from spec.md section
// 4.6 step 5 if it exceeds the kind/role-dependent line limit, returning
// the (possibly unchanged) text and whether truncation happened.
func simplify(source string, kind string, role Role) (string, bool) {
	lines := strings.Split(source, "\n")
	limit := lineLimitFor(kind, role)
	if len(lines) <= limit {
		return source, false
	}

	head := otherHeadLines
	if kind == "file" {
		head = fileRootHeadLines
	}
	if head > len(lines) {
		head = len(lines)
	}
	tail := tailLines
	if head+tail >= len(lines) {
		return source, false
	}

	omitted := len(lines) - head - tail
	marker := "... (" + strconv.Itoa(omitted) + " lines omitted) ..."

	out := make([]string, 0, head+1+tail)
	out = append(out, lines[:head]...)
	out = append(out, marker)
	out = append(out, lines[len(lines)-tail:]...)
	return strings.Join(out, "\n"), true
}

func lineLimitFor(kind string, role Role) int {
	if kind == "file" {
		return fileRootLineLimit
	}
	if role == RoleRoot {
		return nonFileRootLineLimit
	}
	return nonRootLineLimit
}
