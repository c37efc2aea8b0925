package strings

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultCellWidth is the display width used for free-text table cells
// such as the last error of a document.
const DefaultCellWidth = 60

// minCellWidth leaves room for one column of content plus the ellipsis.
const minCellWidth = 4

const ellipsis = "..."

// SingleLine collapses all whitespace runs (newlines included) into single
// spaces and cuts the result to at most width terminal columns, ending it
// with "..." when anything was dropped.
//
// Width is measured in display columns, so wide runes count double.
// Widths below 4 are raised to 4.
func SingleLine(s string, width int) string {
	if width < minCellWidth {
		width = minCellWidth
	}

	s = strings.Join(strings.Fields(s), " ")
	if text.StringWidthWithoutEscSequences(s) <= width {
		return s
	}

	var b strings.Builder
	used, limit := 0, width-len(ellipsis)
	for _, r := range s {
		w := text.RuneWidth(r)
		if used+w > limit {
			break
		}
		used += w
		b.WriteRune(r)
	}
	return b.String() + ellipsis
}
