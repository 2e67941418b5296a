package ui

import (
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/taskdeck/taskdeck/models"
)

func TestTable_ColumnWidths(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Description", "Status"},
		Rows: [][]string{
			{"1", "First item", "staged"},
			{"2", "Second item with longer text", "active"},
		},
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 2, widths[0])  // "ID" is longest in first column
	assert.Equal(t, 28, widths[1]) // "Second item with longer text"
	assert.Equal(t, 6, widths[2])  // "staged"/"active"/"Status"
}

func TestTable_ColumnWidths_MaxWidth(t *testing.T) {
	table := &Table{
		Headers:  []string{"ID", "Description"},
		Rows:     [][]string{{"1", "This is a very long description that should be truncated"}},
		MaxWidth: 20,
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 2, widths[0])
	assert.Equal(t, 20, widths[1]) // Capped at MaxWidth
}

func TestTable_Render(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Description"},
		Rows: [][]string{
			{"1", "Write report"},
			{"2", "Review report"},
		},
	}

	output := table.Render()

	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "Description")
	assert.Contains(t, output, "Write report")
	assert.Contains(t, output, "Review report")
	assert.Contains(t, output, "─")
}

func TestTable_ColumnWidths_CountsRunes(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Description"},
		Rows:    [][]string{{"1", "Écrire le résumé"}},
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 16, widths[1]) // runes, not bytes
}

func TestTable_Render_TruncatesOnRuneBoundary(t *testing.T) {
	table := &Table{
		Headers:  []string{"Description"},
		Rows:     [][]string{{"Préparer la réunion d'équipe"}},
		MaxWidth: 12,
	}

	output := table.Render()

	assert.True(t, utf8.ValidString(output), "truncation must not split a rune")
	assert.Contains(t, output, "…")
}

func TestTable_Render_CellStyleAppliesToColumn(t *testing.T) {
	styledCols := map[int][]string{}
	table := &Table{
		Headers: []string{"ID", "Status"},
		Rows: [][]string{
			{"1", "staged"},
			{"2", "active"},
		},
		CellStyle: func(col int, val string) *lipgloss.Style {
			if col != 1 {
				return nil
			}
			styledCols[col] = append(styledCols[col], val)
			style := StatusStyle(val)
			return &style
		},
	}

	output := table.Render()

	assert.Contains(t, output, "staged")
	assert.Contains(t, output, "active")
	assert.Equal(t, []string{"staged", "active"}, styledCols[1])
	assert.Len(t, styledCols, 1, "only the status column gets the override")
}

func TestStatusStyle_PerStage(t *testing.T) {
	assert.Equal(t, StyleWarning, StatusStyle("active"))
	assert.Equal(t, StyleSuccess, StatusStyle("finished"))
	assert.Equal(t, StyleSubtle, StatusStyle("staged"))
}

func TestRenderTaskList_Empty(t *testing.T) {
	output := RenderTaskList("Staged Tasks", nil)

	assert.Contains(t, output, "Staged Tasks (0)")
	assert.Contains(t, output, "(none)")
}

func TestRenderTaskList_TimestampsOnlyWhenSet(t *testing.T) {
	staged := models.NewTask(1, "Write report", 3600)
	output := RenderTaskList("Staged Tasks", []models.Task{staged})

	assert.Contains(t, output, "Write report")
	assert.Contains(t, output, "staged")

	active := staged
	active.MarkActive()
	output = RenderTaskList("Active Tasks", []models.Task{active})
	assert.Contains(t, output, active.StartedAt.Format(models.TimestampFormat))
}
