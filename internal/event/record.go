package event

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Fields carries caller-supplied extra key/value data attached to one record.
type Fields map[string]any

// Source identifies the call site that produced a record.
type Source struct {
	Path     string
	File     string
	Line     int
	Function string
	Package  string
}

// Record is one log event. Records are built by the pipeline at the call
// site, consumed synchronously by every accepting sink, and never retained.
type Record struct {
	Logger   string
	Level    Severity
	Template string
	Args     []any
	Message  string
	Time     time.Time
	Source   Source
	PID      int

	// ExcInfo holds formatted exception text; StackInfo holds a captured call
	// stack. Both are optional and independent.
	ExcInfo   string
	StackInfo string

	Extras Fields
}

// New builds a record for the given call depth. skip counts stack frames
// between New's immediate caller and the application call site: 0 attributes
// the record to whoever called New.
func New(logger string, level Severity, template string, args []any, skip int) *Record {
	rec := &Record{
		Logger:   logger,
		Level:    level,
		Template: template,
		Args:     args,
		Message:  renderMessage(template, args),
		Time:     time.Now(),
		PID:      os.Getpid(),
	}
	rec.Source = callerSource(skip + 2)
	return rec
}

func renderMessage(template string, args []any) string {
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

func callerSource(skip int) Source {
	pc, path, line, ok := runtime.Caller(skip)
	if !ok {
		return Source{}
	}
	src := Source{Path: path, File: filepath.Base(path), Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		src.Function = fn.Name()
		src.Package = packageFromFunc(fn.Name())
	}
	return src
}

// packageFromFunc extracts the package name from a runtime function name such
// as "scribe/internal/pipeline.(*Pipeline).Emit".
func packageFromFunc(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}
