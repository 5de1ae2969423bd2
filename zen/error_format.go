package zen

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders the offending source line with a caret under the
// given column. It returns "" when the position falls outside the source.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	text := strings.TrimRight(lines[pos.Line-1], "\r")
	width := len([]rune(text))
	column := min(max(pos.Column, 1), width+1)

	label := strconv.Itoa(pos.Line)
	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line, column,
		label, text,
		strings.Repeat(" ", len(label)), strings.Repeat(" ", column-1),
	)
}
