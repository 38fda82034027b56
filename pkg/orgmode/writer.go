package orgmode

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/harrisonrobin/gantta/pkg/model"
)

// Write formats t as an aligned Org pipe table.
func Write(w io.Writer, t model.Table) error {
	rows := make([][]string, 0, len(t.Rows)+1)
	rows = append(rows, t.Headers)
	for r := range t.Rows {
		row := make([]string, len(t.Headers))
		for c := range row {
			row[c] = escape(model.CellText(t.At(r, c)))
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(t.Headers))
	for _, row := range rows {
		for c, v := range row {
			widths[c] = max(widths[c], utf8.RuneCountInString(v))
		}
	}

	bw := bufio.NewWriter(w)
	for i, row := range rows {
		bw.WriteString("|")
		for c, v := range row {
			bw.WriteString(" " + v + strings.Repeat(" ", widths[c]-utf8.RuneCountInString(v)) + " |")
		}
		bw.WriteString("\n")
		if i == 0 {
			bw.WriteString("|")
			for c := range row {
				if c > 0 {
					bw.WriteString("+")
				}
				bw.WriteString(strings.Repeat("-", widths[c]+2))
			}
			bw.WriteString("|\n")
		}
	}
	return bw.Flush()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\vert{}")
}
