// Package logger provides namespaced debug loggers in the style of the npm
// debug package. Loggers are silent unless their namespace is enabled through
// the DEBUG environment variable.
package logger

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nodix/pipeconf/pkg/tty"
)

// Logger writes debug lines for a single namespace.
type Logger struct {
	namespace string
	enabled   bool
	color     string

	mu      sync.Mutex
	lastLog time.Time
	out     io.Writer
}

var (
	// debugEnv is read once; loggers compute their enabled state at construction.
	debugEnv = os.Getenv("DEBUG")

	debugColors = os.Getenv("DEBUG_COLORS") != "0"

	isTTY = tty.IsStderrTerminal()

	// ANSI 256-color codes readable on light and dark backgrounds.
	colorPalette = []string{
		"\033[38;5;33m",
		"\033[38;5;35m",
		"\033[38;5;166m",
		"\033[38;5;125m",
		"\033[38;5;37m",
		"\033[38;5;161m",
		"\033[38;5;136m",
		"\033[38;5;124m",
		"\033[38;5;28m",
		"\033[38;5;63m",
	}

	colorReset = "\033[0m"
)

// New creates a Logger for namespace. DEBUG accepts a comma separated list:
//
//	DEBUG=*                 - every namespace
//	DEBUG=pipeline:*        - every namespace under pipeline:
//	DEBUG=cli:*,parser:*    - several prefixes
//	DEBUG=*,-pipeline:yaml  - everything except one namespace
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   computeEnabled(namespace),
		color:     selectColor(namespace),
		lastLog:   time.Now(),
		out:       os.Stderr,
	}
}

func selectColor(namespace string) string {
	if !debugColors || !isTTY {
		return ""
	}
	h := fnv.New32a()
	if _, err := h.Write([]byte(namespace)); err != nil {
		return ""
	}
	return colorPalette[h.Sum32()%uint32(len(colorPalette))]
}

// Enabled reports whether the namespace is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf writes a formatted line followed by the time elapsed since the
// previous line of this logger.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprintf(format, args...))
}

// Print writes its arguments like fmt.Sprint.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprint(args...))
}

func (l *Logger) write(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	diff := now.Sub(l.lastLog)
	l.lastLog = now

	if l.color != "" {
		fmt.Fprintf(l.out, "%s%s%s %s +%s\n", l.color, l.namespace, colorReset, message, formatDuration(diff))
		return
	}
	fmt.Fprintf(l.out, "%s %s +%s\n", l.namespace, message, formatDuration(diff))
}

// formatDuration renders d the way the debug package does: 0ms, 15ms, 2.1s, 3m.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}

func computeEnabled(namespace string) bool {
	enabled := false
	for _, pattern := range strings.Split(debugEnv, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if exclude, ok := strings.CutPrefix(pattern, "-"); ok {
			if matchPattern(namespace, exclude) {
				return false
			}
			continue
		}
		if matchPattern(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

// matchPattern matches namespace against a pattern with at most one '*'.
func matchPattern(namespace, pattern string) bool {
	if pattern == "*" || pattern == namespace {
		return true
	}
	prefix, suffix, ok := strings.Cut(pattern, "*")
	if !ok {
		return false
	}
	return len(namespace) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(namespace, prefix) &&
		strings.HasSuffix(namespace, suffix)
}
