package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger prints status lines in the same colors the commands use.
// Debug output is dropped unless verbose is set.
type Logger struct {
	out     io.Writer
	verbose bool

	info    *color.Color
	success *color.Color
	warn    *color.Color
	err     *color.Color
	debug   *color.Color
}

func New(out io.Writer, verbose bool) *Logger {
	return &Logger{
		out:     out,
		verbose: verbose,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed),
		debug:   color.New(color.FgHiBlack),
	}
}

func Default(verbose bool) *Logger {
	return New(os.Stdout, verbose)
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger {
	return New(io.Discard, false)
}

func (l *Logger) Verbose() bool {
	return l.verbose
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.print(l.info, format, args...)
}

func (l *Logger) Success(format string, args ...interface{}) {
	l.print(l.success, "✅ "+format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.print(l.warn, "⚠️  "+format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.print(l.err, "❌ "+format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.print(l.debug, format, args...)
}

func (l *Logger) print(c *color.Color, format string, args ...interface{}) {
	c.Fprintln(l.out, fmt.Sprintf(format, args...))
}
