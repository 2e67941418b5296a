package ui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/models"
)

// Table renders data in a compact markdown-style table format.
// This is optimized for terminal display with fixed-width columns.
type Table struct {
	Headers  []string
	Rows     [][]string
	MaxWidth int // Max width per column (0 = auto)

	// CellStyle, when set, overrides the default cell style for a column.
	// Returning nil falls back to the default.
	CellStyle func(col int, val string) *lipgloss.Style
}

// ColumnWidths calculates optimal column widths based on content.
// Widths are measured in runes so multi-byte text lines up.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))

	// Start with header widths
	for i, h := range t.Headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	// Expand for content
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	// Apply max width constraint
	if t.MaxWidth > 0 {
		for i := range widths {
			if widths[i] > t.MaxWidth {
				widths[i] = t.MaxWidth
			}
		}
	}

	return widths
}

// Render outputs the table to a string.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.ColumnWidths()
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	cellStyle := lipgloss.NewStyle().Foreground(ColorText)
	dimStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	// Header row
	var headerCells []string
	for i, h := range t.Headers {
		headerCells = append(headerCells, headerStyle.Render(padRight(h, widths[i])))
	}
	sb.WriteString(" " + strings.Join(headerCells, "  ") + "\n")

	// Separator
	var sepParts []string
	for _, w := range widths {
		sepParts = append(sepParts, dimStyle.Render(strings.Repeat("─", w)))
	}
	sb.WriteString(" " + strings.Join(sepParts, "──") + "\n")

	// Data rows
	for _, row := range t.Rows {
		var cells []string
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			// Truncate if needed (guard against zero/small widths)
			runes := []rune(val)
			if widths[i] >= 2 && len(runes) > widths[i] {
				val = string(runes[:widths[i]-1]) + "…"
			} else if widths[i] == 1 && len(runes) > 1 {
				val = "…"
			}
			style := cellStyle
			if t.CellStyle != nil {
				if override := t.CellStyle(i, val); override != nil {
					style = *override
				}
			}
			cells = append(cells, style.Render(padRight(val, widths[i])))
		}
		sb.WriteString(" " + strings.Join(cells, "  ") + "\n")
	}

	return sb.String()
}

// padRight pads a string to the specified width in runes.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// RenderTaskList renders a titled table of tasks for one stage view.
// Timestamps are shown only once set, mirroring the lifecycle invariant.
func RenderTaskList(title string, tasks []models.Task) string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(fmt.Sprintf("--- %s (%d) ---", title, len(tasks))) + "\n")
	if len(tasks) == 0 {
		sb.WriteString(StyleSubtle.Render("(none)") + "\n")
		return sb.String()
	}

	table := &Table{
		Headers:  []string{"ID", "Description", "Status", "Estimate (sec)", "Started", "Finished"},
		MaxWidth: 40,
		CellStyle: func(col int, val string) *lipgloss.Style {
			if col != 2 {
				return nil
			}
			style := StatusStyle(val)
			return &style
		},
	}
	for _, task := range tasks {
		started, finished := "", ""
		if task.StartedAt != nil {
			started = task.StartedAt.Format(models.TimestampFormat)
		}
		if task.FinishedAt != nil {
			finished = task.FinishedAt.Format(models.TimestampFormat)
		}
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(task.ID),
			task.Description,
			string(task.Status),
			strconv.Itoa(task.EstimateSeconds),
			started,
			finished,
		})
	}
	sb.WriteString(table.Render())
	return sb.String()
}
