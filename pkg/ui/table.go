package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = "  "

// TableColumn describes one column. Width is a minimum; MaxWidth, when set,
// truncates longer cells from the left so asset names stay visible.
type TableColumn struct {
	Header   string
	Width    int
	MaxWidth int
	Align    string // "left" (default), "right" or "center"
}

// Table is a plain aligned table with a rule under the header
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

func NewTable(columns []TableColumn) *Table {
	return &Table{Columns: columns}
}

// AddRow appends cells; extra cells beyond the column count are ignored
func (t *Table) AddRow(cells []string) {
	row := make([]string, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = t.Columns[i].clip(cells[i])
		}
	}
	t.Rows = append(t.Rows, row)
}

func (c TableColumn) clip(cell string) string {
	if c.MaxWidth > 0 && lipgloss.Width(cell) > c.MaxWidth {
		return TruncatePath(cell, c.MaxWidth)
	}
	return cell
}

// widths sizes each column to its widest cell, never below the declared Width
func (t *Table) widths() []int {
	out := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = max(c.Width, lipgloss.Width(c.Header))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			out[i] = max(out[i], lipgloss.Width(cell))
		}
	}
	return out
}

func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	widths := t.widths()
	line := func(style lipgloss.Style, cell func(i int) string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			parts[i] = cell(i)
		}
		return style.Render(strings.Join(parts, columnGap)) + "\n"
	}

	var b strings.Builder
	b.WriteString(line(StyleTableHeader, func(i int) string {
		return padString(t.Columns[i].Header, widths[i], "left")
	}))
	b.WriteString(line(StyleTableBorder, func(i int) string {
		return strings.Repeat("─", widths[i])
	}))
	for n, row := range t.Rows {
		style := StyleTableRow
		if n%2 == 1 {
			style = StyleTableRowAlt
		}
		b.WriteString(line(style, func(i int) string {
			return padString(row[i], widths[i], t.Columns[i].Align)
		}))
	}
	return b.String()
}

func padString(s string, width int, align string) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case "right":
		return strings.Repeat(" ", gap) + s
	case "center":
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	}
	return s + strings.Repeat(" ", gap)
}

func RenderSimpleList(items []string) string {
	bullet := StyleInfo.Render("  • ")
	var b strings.Builder
	for _, item := range items {
		b.WriteString(bullet + item + "\n")
	}
	return b.String()
}

func RenderKeyValue(key, value string) string {
	return StyleAccent.Render(key) + ": " + value
}

// TruncatePath shortens a long asset path to width cells, keeping the tail
// where the asset name lives.
func TruncatePath(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return "…" + string(runes[len(runes)-width+1:])
}
