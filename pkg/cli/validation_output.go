package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nodix/pipeconf/pkg/console"
	"github.com/nodix/pipeconf/pkg/parser"
)

// FormatValidationError formats an error for console output. Multi-line
// messages keep their structure.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}
	return console.FormatErrorMessage(err.Error())
}

// PrintValidationError prints err to stderr with console formatting.
func PrintValidationError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatValidationError(err))
}

// problemsFor places the diagnostics of r in its file, attaching the source
// line each one points at.
func problemsFor(r FileResult) []console.Problem {
	var lines []string
	if r.source != nil {
		lines = strings.Split(string(r.source.Content), "\n")
	}
	problems := make([]console.Problem, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		p := console.Problem{
			File:    r.File,
			Line:    d.Line,
			Column:  d.Column,
			Kind:    d.Kind.String(),
			Path:    d.Path.String(),
			Message: d.Message,
		}
		if d.Line > 0 && d.Line <= len(lines) {
			p.SourceLine = strings.TrimRight(lines[d.Line-1], "\r")
		}
		problems[i] = p
	}
	return problems
}

// writeHumanResults prints every result, a table when several files were
// checked, and a one-line summary.
func writeHumanResults(w io.Writer, results []FileResult, colored bool) {
	for _, r := range results {
		var syntaxErr *parser.SyntaxError
		switch {
		case r.Valid:
			fmt.Fprintln(w, console.FormatSuccessMessage(r.File+" is valid"))
		case errors.As(r.err, &syntaxErr):
			fmt.Fprintln(w, console.FormatErrorMessage(syntaxErr.Error()))
			fmt.Fprintln(w, syntaxErr.Format(colored))
		case r.Error != "":
			fmt.Fprintln(w, console.FormatErrorMessage(r.Error))
		default:
			fmt.Fprintln(w, console.FormatProblems(problemsFor(r)))
		}
	}

	invalid, problems := summarize(results)
	if len(results) > 1 {
		fmt.Fprint(w, console.RenderTable(resultsTable(results, problems)))
	}
	fmt.Fprintln(w, console.FormatSummary(len(results), invalid, problems))
}

func resultsTable(results []FileResult, problems int) console.TableConfig {
	config := console.TableConfig{
		Headers:   []string{"File", "Status", "Problems"},
		ShowTotal: true,
		TotalRow:  []string{"TOTAL", "", strconv.Itoa(problems)},
	}
	for _, r := range results {
		status, count := "valid", 0
		if !r.Valid {
			status, count = "invalid", max(len(r.Diagnostics), 1)
		}
		config.Rows = append(config.Rows, []string{r.File, status, strconv.Itoa(count)})
	}
	return config
}

// writeJSONResults prints results as an indented JSON array.
func writeJSONResults(w io.Writer, results []FileResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
