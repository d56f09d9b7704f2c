package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column is a table header. Right-aligned columns suit durations and counts.
type Column struct {
	Title string
	Right bool
}

// Cols builds left-aligned columns from titles.
func Cols(titles ...string) []Column {
	cols := make([]Column, len(titles))
	for i, t := range titles {
		cols[i] = Column{Title: t}
	}
	return cols
}

const colGap = 2

// RenderTable renders an aligned table with a separator under the header.
// Widths are measured on visible text, so styled cells line up.
func RenderTable(cols []Column, rows [][]string) string {
	if len(cols) == 0 {
		return ""
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c.Title)
	}
	for _, row := range rows {
		for i := 0; i < len(cols) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = StyleHeader.Render(c.Title)
	}
	writeRow(&b, cols, widths, header)

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < len(cols)-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		writeRow(&b, cols, widths, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cols []Column, widths []int, row []string) {
	last := len(cols) - 1
	for i, c := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := max(widths[i]-lipgloss.Width(cell), 0)
		switch {
		case c.Right:
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
		case i < last:
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", pad))
		default:
			b.WriteString(cell)
		}
		if i < last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}
