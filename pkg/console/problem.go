package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nodix/pipeconf/pkg/styles"
)

// Problem is a validation diagnostic placed in a file, ready for display.
type Problem struct {
	File string
	// Line and Column are 1-based; zero means unknown.
	Line    int
	Column  int
	Kind    string
	Path    string
	Message string
	// SourceLine is the text of line Line, shown under the message with a
	// caret at Column when set.
	SourceLine string
}

// FormatProblem renders a problem as
//
//	file:line:col: error: path: message (kind)
//
// followed by the offending source line when known.
func FormatProblem(p Problem) string {
	var sb strings.Builder
	if loc := location(p); loc != "" {
		sb.WriteString(applyStyle(styles.Location, loc+":"))
		sb.WriteByte(' ')
	}
	sb.WriteString(applyStyle(styles.Error, "error:"))
	sb.WriteByte(' ')
	if p.Path != "" {
		sb.WriteString(applyStyle(styles.Path, p.Path))
		sb.WriteString(": ")
	}
	sb.WriteString(p.Message)
	if p.Kind != "" {
		sb.WriteByte(' ')
		sb.WriteString(applyStyle(styles.Kind, "("+p.Kind+")"))
	}

	if p.SourceLine != "" && p.Line > 0 {
		gutter := fmt.Sprintf("%5d | ", p.Line)
		sb.WriteByte('\n')
		sb.WriteString(gutter + p.SourceLine)
		if p.Column > 0 {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", len(gutter)-2) + "| ")
			sb.WriteString(strings.Repeat(" ", p.Column-1))
			sb.WriteString(applyStyle(styles.Error, "^"))
		}
	}
	return sb.String()
}

func location(p Problem) string {
	loc := p.File
	if p.Line > 0 {
		loc += ":" + strconv.Itoa(p.Line)
		if p.Column > 0 {
			loc += ":" + strconv.Itoa(p.Column)
		}
	}
	return strings.TrimPrefix(loc, ":")
}

// FormatProblems renders each problem on its own block, separated by a newline.
func FormatProblems(problems []Problem) string {
	blocks := make([]string, len(problems))
	for i, p := range problems {
		blocks[i] = FormatProblem(p)
	}
	return strings.Join(blocks, "\n")
}

// FormatSummary reports the outcome of validating files.
func FormatSummary(files, invalid, problems int) string {
	if invalid == 0 {
		return FormatSuccessMessage(fmt.Sprintf("%s valid", pluralize(files, "file")))
	}
	return FormatErrorMessage(fmt.Sprintf("%d of %s invalid, %s",
		invalid, pluralize(files, "file"), pluralize(problems, "problem")))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
