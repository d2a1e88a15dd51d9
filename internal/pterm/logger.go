package pterm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// Logger provides leveled logging with PTerm. Everything goes to stderr so
// command output on stdout stays machine readable.
type Logger struct {
	debugEnabled bool
	disabled     bool
	out          io.Writer
}

// NewLogger creates a new logger instance. Debug messages are shown when
// verbose is set or CLOCKIFY_DEBUG=true.
func NewLogger(disabled, verbose bool) *Logger {
	l := &Logger{
		debugEnabled: verbose || os.Getenv("CLOCKIFY_DEBUG") == "true",
		disabled:     disabled,
		out:          os.Stderr,
	}
	if l.debugEnabled {
		pterm.EnableDebugMessages()
	}
	return l
}

// SetOutput redirects log lines to w.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

func (l *Logger) print(printer pterm.PrefixPrinter, plainPrefix, message string) {
	if l.disabled {
		fmt.Fprintf(l.out, "%s %s\n", plainPrefix, message)
		return
	}
	printer.WithWriter(l.out).Println(message)
}

// Debug logs a debug message (only in verbose mode)
func (l *Logger) Debug(message string, args ...interface{}) {
	if !l.debugEnabled {
		return
	}
	l.print(pterm.Debug, "[DEBUG]", l.formatMessage(message, args...))
}

// Info logs an informational message
func (l *Logger) Info(message string, args ...interface{}) {
	l.print(pterm.Info, "[INFO]", l.formatMessage(message, args...))
}

// Success logs a success message
func (l *Logger) Success(message string, args ...interface{}) {
	l.print(pterm.Success, "[SUCCESS] ✓", l.formatMessage(message, args...))
}

// Warning logs a warning message
func (l *Logger) Warning(message string, args ...interface{}) {
	l.print(pterm.Warning, "[WARNING] ⚠", l.formatMessage(message, args...))
}

// Error logs an error message
func (l *Logger) Error(message string, args ...interface{}) {
	l.print(pterm.Error, "[ERROR] ✗", l.formatMessage(message, args...))
}

// Debugf logs a formatted debug message (only in verbose mode)
func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.debugEnabled {
		return
	}
	l.print(pterm.Debug, "[DEBUG]", fmt.Sprintf(format, args...))
}

// Infof logs a formatted informational message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.print(pterm.Info, "[INFO]", fmt.Sprintf(format, args...))
}

// Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.print(pterm.Warning, "[WARNING] ⚠", fmt.Sprintf(format, args...))
}

// formatMessage formats a message with optional key-value pairs
func (l *Logger) formatMessage(message string, args ...interface{}) string {
	if len(args) == 0 {
		return message
	}

	var pairs []string
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%v=%v", args[i], args[i+1]))
	}

	if len(pairs) > 0 {
		return fmt.Sprintf("%s (%s)", message, strings.Join(pairs, ", "))
	}
	return message
}

// IsDebugEnabled returns whether debug logging is enabled
func (l *Logger) IsDebugEnabled() bool {
	return l.debugEnabled
}
