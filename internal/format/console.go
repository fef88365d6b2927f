package format

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"scribe/internal/event"
)

const consoleTimestampLayout = "2006-01-02 15:04:05"

// ANSI SGR sequences for level labels.
const (
	ansiReset  = "\x1b[0m"
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

// Console renders records as single human-readable lines:
//
//	2026-08-23 10:04:05 INFO [app] Logging setup complete. [main.go:42 main.run] key=value
//
// Exception and stack text, when present, follow on their own lines.
type Console struct {
	color bool
}

// NewConsole constructs a console formatter. color enables ANSI coloring of
// the level label; callers should gate it on terminal detection.
func NewConsole(color bool) *Console {
	return &Console{color: color}
}

func (f *Console) Format(rec *event.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(160 + len(rec.Extras)*24)

	buf.WriteString(rec.Time.In(time.Local).Format(consoleTimestampLayout))
	buf.WriteByte(' ')
	buf.WriteString(f.levelLabel(rec.Level))
	if rec.Logger != "" {
		buf.WriteString(" [")
		buf.WriteString(rec.Logger)
		buf.WriteByte(']')
	}

	buf.WriteByte(' ')
	if msg := strings.TrimSpace(rec.Message); msg != "" {
		buf.WriteString(msg)
	} else {
		buf.WriteString("(no message)")
	}

	if rec.Source.Line > 0 {
		buf.WriteString(" [")
		buf.WriteString(rec.Source.File)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(rec.Source.Line))
		if fn := shortFunction(rec.Source.Function); fn != "" {
			buf.WriteByte(' ')
			buf.WriteString(fn)
		}
		buf.WriteByte(']')
	}

	for _, key := range sortedKeys(rec.Extras) {
		buf.WriteByte(' ')
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(rec.Extras[key]))
	}

	buf.WriteByte('\n')
	if rec.ExcInfo != "" {
		buf.WriteString(strings.TrimRight(rec.ExcInfo, "\n"))
		buf.WriteByte('\n')
	}
	if rec.StackInfo != "" {
		buf.WriteString(strings.TrimRight(rec.StackInfo, "\n"))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (f *Console) levelLabel(level event.Severity) string {
	label := level.String()
	if !f.color {
		return label
	}
	switch {
	case level >= event.Error:
		return ansiRed + label + ansiReset
	case level >= event.Warning:
		return ansiYellow + label + ansiReset
	case level >= event.Info:
		return ansiGreen + label + ansiReset
	default:
		return ansiCyan + label + ansiReset
	}
}

// shortFunction trims the package path from a runtime function name, keeping
// "pkg.Func" or "pkg.(*Type).Method".
func shortFunction(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
