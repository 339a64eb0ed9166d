// lint_error_messages checks the wording of error and diagnostic messages.
//
// Usage:
//
//	go run ./scripts/lint_error_messages.go [dir]...
//
// Every fmt.Errorf and errors.New call must start with a lowercase word (or
// an acronym) and must not end with punctuation. Every diagnostic reported
// through a validator's report method must also say what was expected in the
// vocabulary of its kind.
package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// QualityIssue represents a quality issue with a message.
type QualityIssue struct {
	File       string
	Line       int
	Issue      string
	Suggestion string
}

// FileStats tracks statistics for a single file.
type FileStats struct {
	Total     int
	Compliant int
	Issues    []QualityIssue
}

// kindVocabulary lists, per diagnostic kind, the words a message of that
// kind must contain. Any one word is enough.
var kindVocabulary = map[string][]string{
	"TypeMismatch":         {"expected"},
	"RangeViolation":       {"must"},
	"EnumViolation":        {"expected one of"},
	"UnrecognizedShape":    {"expected"},
	"UnknownField":         {"unknown"},
	"MissingRequiredField": {"required"},
	"UnresolvedReference":  {"unknown"},
}

func main() {
	dirs := os.Args[1:]
	if len(dirs) == 0 {
		dirs = []string{"pkg", "cmd"}
	}

	allStats := make(map[string]*FileStats)
	total, compliant := 0, 0
	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			stats := analyzeFile(path)
			if stats.Total > 0 {
				allStats[path] = stats
				total += stats.Total
				compliant += stats.Compliant
			}
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error walking directory %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	files := make([]string, 0, len(allStats))
	for file := range allStats {
		files = append(files, file)
	}
	sort.Strings(files)

	issueCount := 0
	for _, file := range files {
		for _, issue := range allStats[file].Issues {
			fmt.Printf("%s:%d: %s\n", issue.File, issue.Line, issue.Issue)
			if issue.Suggestion != "" {
				fmt.Printf("    Suggestion: %s\n", issue.Suggestion)
			}
			issueCount++
		}
	}

	fmt.Printf("%d messages checked, %d compliant, %d issues\n", total, compliant, issueCount)
	if issueCount > 0 {
		os.Exit(1)
	}
}

func analyzeFile(path string) *FileStats {
	stats := &FileStats{Issues: []QualityIssue{}}

	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return stats
	}

	ast.Inspect(node, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		var issue *QualityIssue
		switch {
		case isPackageCall(sel, "fmt", "Errorf"), isPackageCall(sel, "errors", "New"):
			message, ok := stringArg(call, 0)
			if !ok {
				return true
			}
			issue = checkErrorMessage(message)
		case sel.Sel.Name == "report" && len(call.Args) >= 3:
			message, ok := stringArg(call, 2)
			if !ok {
				return true
			}
			issue = checkDiagnosticMessage(kindName(call.Args[0]), message)
		default:
			return true
		}

		stats.Total++
		if issue == nil {
			stats.Compliant++
			return true
		}
		issue.File = path
		issue.Line = fset.Position(call.Pos()).Line
		stats.Issues = append(stats.Issues, *issue)
		return true
	})

	return stats
}

func isPackageCall(sel *ast.SelectorExpr, pkg, name string) bool {
	ident, ok := sel.X.(*ast.Ident)
	return ok && ident.Name == pkg && sel.Sel.Name == name
}

// stringArg returns the value of argument i when it is a string literal.
func stringArg(call *ast.CallExpr, i int) (string, bool) {
	if i >= len(call.Args) {
		return "", false
	}
	lit, ok := call.Args[i].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

func kindName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	}
	return ""
}

func checkErrorMessage(message string) *QualityIssue {
	if isVerbOnly(message) {
		return nil
	}
	runes := []rune(message)
	if len(runes) > 1 && unicode.IsUpper(runes[0]) && unicode.IsLower(runes[1]) {
		return &QualityIssue{
			Issue:      fmt.Sprintf("error message should start with a lowercase word: %q", message),
			Suggestion: "Lowercase the first word unless it is an acronym",
		}
	}
	if strings.HasSuffix(message, ".") || strings.HasSuffix(message, "!") || strings.HasSuffix(message, "\n") {
		return &QualityIssue{
			Issue:      fmt.Sprintf("error message should not end with punctuation: %q", message),
			Suggestion: "Drop the trailing punctuation; callers may wrap the error",
		}
	}
	return nil
}

func checkDiagnosticMessage(kind, message string) *QualityIssue {
	if issue := checkErrorMessage(message); issue != nil {
		issue.Issue = strings.Replace(issue.Issue, "error message", "diagnostic", 1)
		return issue
	}
	if isVerbOnly(message) {
		return nil
	}
	words, ok := kindVocabulary[kind]
	if !ok {
		return nil
	}
	for _, word := range words {
		if strings.Contains(message, word) {
			return nil
		}
	}
	return &QualityIssue{
		Issue:      fmt.Sprintf("%s diagnostic should say %q: %q", kind, words[0], message),
		Suggestion: "State what the schema expects, then what was found",
	}
}

// isVerbOnly reports whether a format string is nothing but verbs, as in
// fmt.Errorf("%s", msg), so its wording is checked elsewhere.
func isVerbOnly(format string) bool {
	rest := strings.TrimSpace(format)
	for rest != "" {
		if !strings.HasPrefix(rest, "%") || len(rest) < 2 {
			return false
		}
		rest = strings.TrimSpace(rest[2:])
	}
	return true
}
