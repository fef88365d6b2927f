package pipeline

import (
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// ensureStack attaches a call stack to err when it does not already carry
// one.
func ensureStack(err error) error {
	if err == nil {
		return nil
	}
	var tracer stackTracer
	if stderrors.As(err, &tracer) {
		return err
	}
	return errors.WithStack(err)
}

// formatException renders err for the exc_info field: the concrete type of
// the root cause, the full message, then the attached stack trace.
func formatException(err error) string {
	if err == nil {
		return ""
	}
	text := fmt.Sprintf("%T: %v", errors.Cause(err), err)
	var tracer stackTracer
	if stderrors.As(err, &tracer) {
		text += fmt.Sprintf("%+v", tracer.StackTrace())
	}
	return text
}

func captureStack() string {
	return strings.TrimRight(string(debug.Stack()), "\n")
}
