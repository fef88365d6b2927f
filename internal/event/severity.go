package event

import (
	"fmt"
	"strings"
)

// Severity is the ordinal level attached to every record. Higher values are
// more severe; the numeric gaps leave room for intermediate levels.
type Severity int

const (
	Debug    Severity = 10
	Info     Severity = 20
	Warning  Severity = 30
	Error    Severity = 40
	Critical Severity = 50
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Critical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(s))
	}
}

// ParseSeverity maps a configuration string onto a Severity. The empty string
// defaults to Info; anything else unknown is a configuration error.
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	case "critical", "fatal":
		return Critical, nil
	default:
		return 0, fmt.Errorf("severity: unsupported value %q", value)
	}
}
