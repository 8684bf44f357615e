package cc11

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hashicorp/logutils"

	"github.com/relang/cc11/ascii"
)

// DiagLevel is the three-way severity spec.md §6 names.
type DiagLevel int

const (
	LevelNote DiagLevel = iota
	LevelWarning
	LevelError
)

func (l DiagLevel) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	default:
		return "note"
	}
}

// Diagnostic is a single logged message, keyed to the mark it
// applies to. It implements error so it can flow through ordinary Go
// error-handling where convenient, mirroring the teacher's
// ParsingError implementing error over a Span.
type Diagnostic struct {
	Level   DiagLevel
	Mark    *fmark
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Mark, d.Level, d.Message)
}

// DiagLogger collects diagnostics for a compilation and decides the
// process exit code: success iff no error-level diagnostic was ever
// logged (spec.md §7), independent of how many warnings/notes were
// emitted. Output goes through a logutils.LevelFilter exactly as the
// qjcg-driving example wraps the standard log.Logger, so a -v/-q flag
// can raise or lower the minimum level without rewriting call sites.
type DiagLogger struct {
	diags    []Diagnostic
	hadError bool
	writer   io.Writer
	filter   *logutils.LevelFilter
	logger   *log.Logger
	colorize bool
	theme    ascii.Theme
}

// NewDiagLogger creates a logger writing to w, filtering out messages
// below minLevel ("DEBUG", "WARN", "ERROR" in logutils vocabulary —
// diagnostics below LevelWarning are tagged "DEBUG" so -q can hide
// notes without hiding warnings).
func NewDiagLogger(w io.Writer, minLevel string, colorize bool) *DiagLogger {
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "WARN", "ERROR"},
		MinLevel: logutils.LogLevel(minLevel),
		Writer:   w,
	}
	return &DiagLogger{
		writer:   w,
		filter:   filter,
		logger:   log.New(filter, "", 0),
		colorize: colorize,
		theme:    ascii.DefaultTheme,
	}
}

// NewDefaultDiagLogger writes to stderr at the default "WARN" level
// and always colorizes, whether or not stderr is a terminal.
func NewDefaultDiagLogger() *DiagLogger {
	return NewDiagLogger(os.Stderr, "WARN", true)
}

func (d *DiagLogger) log(level DiagLevel, m *fmark, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	diag := Diagnostic{Level: level, Mark: m, Message: msg}
	d.diags = append(d.diags, diag)
	if level == LevelError {
		d.hadError = true
	}

	line := fmt.Sprintf("%s: %s: %s", m, level, msg)
	logutilsLevel := "DEBUG"
	switch level {
	case LevelError:
		logutilsLevel = "ERROR"
	case LevelWarning:
		logutilsLevel = "WARN"
	}
	if d.colorize {
		line = d.theme.LevelColor(level.String()) + line + ascii.Reset
	}
	d.logger.Print("[" + logutilsLevel + "] " + line)
}

// Errorf logs an error-level diagnostic.
func (d *DiagLogger) Errorf(m *fmark, format string, args ...any) {
	d.log(LevelError, m, format, args...)
}

// Warnf logs a warning-level diagnostic.
func (d *DiagLogger) Warnf(m *fmark, format string, args ...any) {
	d.log(LevelWarning, m, format, args...)
}

// Notef logs a note attached to the previously logged diagnostic; per
// spec.md §6 notes never appear without a preceding error or warning,
// which callers are responsible for honoring.
func (d *DiagLogger) Notef(m *fmark, format string, args ...any) {
	d.log(LevelNote, m, format, args...)
}

// HadError reports whether any error-level diagnostic has been
// logged; the process exit code is 1 iff this is true (spec.md §7).
func (d *DiagLogger) HadError() bool {
	return d.hadError
}

// Diagnostics returns every diagnostic logged so far, in order.
func (d *DiagLogger) Diagnostics() []Diagnostic {
	return d.diags
}

// ExitCode returns the process exit code spec.md §6 specifies.
func (d *DiagLogger) ExitCode() int {
	if d.hadError {
		return 1
	}
	return 0
}
