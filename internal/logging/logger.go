// Package logging provides the leveled, colorized logger used throughout
// copysnap, adapted from the teacher's pkg/logging: a Logger that still
// functions (as a no-op) when nil, sublogger prefixing via dotted names, and
// an io.Writer adapter that splits arbitrary output into logged lines. Where
// the teacher gates Debug output on a single process-wide mutagen.DebugEnabled
// flag, this Logger carries its own Level so a library caller (or a test)
// can configure verbosity per run rather than per process.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

// lineWriter is an io.Writer that splits its input stream into lines and
// writes those lines to an underlying callback, one line at a time.
type lineWriter struct {
	callback func(string)
	buffer   []byte
}

// trimCarriageReturn trims any single trailing carriage return from the end
// of a byte slice.
func trimCarriageReturn(buffer []byte) []byte {
	if len(buffer) > 0 && buffer[len(buffer)-1] == '\r' {
		return buffer[:len(buffer)-1]
	}
	return buffer
}

// Write implements io.Writer.Write.
func (w *lineWriter) Write(buffer []byte) (int, error) {
	w.buffer = append(w.buffer, buffer...)

	var processed int
	remaining := w.buffer
	for {
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}
		w.callback(string(trimCarriageReturn(remaining[:index])))
		processed += index + 1
		remaining = remaining[index+1:]
	}

	if processed > 0 {
		leftover := len(w.buffer) - processed
		if leftover > 0 {
			copy(w.buffer[:leftover], w.buffer[processed:])
		}
		w.buffer = w.buffer[:leftover]
	}

	return len(buffer), nil
}

// Logger is the main logger type. It has the novel property that it still
// functions if nil, but it doesn't log anything — this lets library code
// accept a *Logger parameter and call it unconditionally rather than
// nil-checking at every call site. It is safe for concurrent use.
type Logger struct {
	prefix string
	level  Level
	target *log.Logger
}

// New constructs a root Logger that writes to out at the given level. A
// level of LevelDisabled produces a Logger that accepts calls but emits
// nothing.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{
		level:  level,
		target: log.New(out, "", log.LstdFlags),
	}
}

// Sublogger creates a new sublogger with the specified name, inheriting the
// parent's level and output target.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{
		prefix: prefix,
		level:  l.level,
		target: l.target,
	}
}

// output is the internal logging method.
func (l *Logger) output(line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	l.target.Output(3, line)
}

func (l *Logger) enabled(level Level) bool {
	return l != nil && l.target != nil && l.level >= level
}

// Print logs information with semantics equivalent to fmt.Print, at
// LevelInfo.
func (l *Logger) Print(v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output(fmt.Sprint(v...))
	}
}

// Printf logs information with semantics equivalent to fmt.Printf, at
// LevelInfo.
func (l *Logger) Printf(format string, v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output(fmt.Sprintf(format, v...))
	}
}

// Println logs information with semantics equivalent to fmt.Println, at
// LevelInfo.
func (l *Logger) Println(v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output(fmt.Sprintln(v...))
	}
}

// Writer returns an io.Writer that writes lines using Println.
func (l *Logger) Writer() io.Writer {
	if !l.enabled(LevelInfo) {
		return io.Discard
	}
	return &lineWriter{callback: func(s string) { l.Println(s) }}
}

// Debug logs information with semantics equivalent to fmt.Print, at
// LevelDebug.
func (l *Logger) Debug(v ...interface{}) {
	if l.enabled(LevelDebug) {
		l.output(fmt.Sprint(v...))
	}
}

// Debugf logs information with semantics equivalent to fmt.Printf, at
// LevelDebug.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.enabled(LevelDebug) {
		l.output(fmt.Sprintf(format, v...))
	}
}

// DebugWriter returns an io.Writer that writes lines using Debug.
func (l *Logger) DebugWriter() io.Writer {
	if !l.enabled(LevelDebug) {
		return io.Discard
	}
	return &lineWriter{callback: func(s string) { l.Debug(s) }}
}

// Warn logs error information with a warning prefix and yellow color, at
// LevelWarn.
func (l *Logger) Warn(err error) {
	if l.enabled(LevelWarn) {
		l.output(color.YellowString("Warning: %v", err))
	}
}

// Error logs error information with an error prefix and red color, at
// LevelError.
func (l *Logger) Error(err error) {
	if l.enabled(LevelError) {
		l.output(color.RedString("Error: %v", err))
	}
}
