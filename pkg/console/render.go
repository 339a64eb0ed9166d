package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nodix/pipeconf/pkg/logger"
	"github.com/nodix/pipeconf/pkg/styles"
)

var renderLog = logger.New("console:render")

// TableConfig describes a table to render.
type TableConfig struct {
	Title     string
	Headers   []string
	Rows      [][]string
	ShowTotal bool
	TotalRow  []string
}

// RenderTable renders config as a bordered table on a terminal and as
// space-aligned columns otherwise. Empty tables render as "".
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 && len(config.Rows) == 0 {
		return ""
	}
	renderLog.Printf("Rendering table: title=%q, columns=%d, rows=%d", config.Title, len(config.Headers), len(config.Rows))
	if !isTTY() {
		return renderPlainTable(config)
	}

	rows := config.Rows
	if config.ShowTotal && len(config.TotalRow) > 0 {
		rows = append(rows[:len(rows):len(rows)], config.TotalRow)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.TableBorder).
		Headers(config.Headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeader
			}
			return styles.TableCell
		})

	var sb strings.Builder
	if config.Title != "" {
		sb.WriteString(styles.Info.Bold(true).Render(config.Title))
		sb.WriteString("\n")
	}
	sb.WriteString(t.String())
	sb.WriteString("\n")
	return sb.String()
}

// renderPlainTable pads every column to its widest cell and separates
// columns by two spaces. Trailing spaces are trimmed.
func renderPlainTable(config TableConfig) string {
	all := make([][]string, 0, len(config.Rows)+2)
	all = append(all, config.Headers)
	all = append(all, config.Rows...)
	if config.ShowTotal && len(config.TotalRow) > 0 {
		all = append(all, config.TotalRow)
	}

	var widths []int
	for _, row := range all {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string) string {
		var sb strings.Builder
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
		}
		return strings.TrimRight(sb.String(), " ") + "\n"
	}
	rule := func() string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("-", w)
		}
		return strings.Join(parts, "  ") + "\n"
	}

	var sb strings.Builder
	if config.Title != "" {
		sb.WriteString(config.Title + "\n\n")
	}
	if len(config.Headers) > 0 {
		sb.WriteString(line(config.Headers))
		sb.WriteString(rule())
	}
	for _, row := range config.Rows {
		sb.WriteString(line(row))
	}
	if config.ShowTotal && len(config.TotalRow) > 0 {
		sb.WriteString(rule())
		sb.WriteString(line(config.TotalRow))
	}
	return sb.String()
}
