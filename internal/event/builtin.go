package event

import "fmt"

// builtinAttrs enumerates every intrinsic attribute name resolvable on a
// Record. The set must stay in lockstep with Intrinsic: a name missing here
// would let extras shadow record metadata, and a stale entry would resolve to
// nothing.
var builtinAttrs = map[string]struct{}{
	"name":       {},
	"levelname":  {},
	"levelno":    {},
	"msg":        {},
	"message":    {},
	"created":    {},
	"pathname":   {},
	"filename":   {},
	"lineno":     {},
	"funcName":   {},
	"module":     {},
	"process":    {},
	"exc_info":   {},
	"stack_info": {},
}

// IsBuiltin reports whether name is an intrinsic record attribute.
func IsBuiltin(name string) bool {
	_, ok := builtinAttrs[name]
	return ok
}

// Intrinsic resolves an intrinsic attribute by its built-in name.
func (r *Record) Intrinsic(name string) (any, bool) {
	switch name {
	case "name":
		return r.Logger, true
	case "levelname":
		return r.Level.String(), true
	case "levelno":
		return int(r.Level), true
	case "msg":
		return r.Template, true
	case "message":
		return r.Message, true
	case "created":
		return float64(r.Time.UnixNano()) / 1e9, true
	case "pathname":
		return r.Source.Path, true
	case "filename":
		return r.Source.File, true
	case "lineno":
		return r.Source.Line, true
	case "funcName":
		return r.Source.Function, true
	case "module":
		return r.Source.Package, true
	case "process":
		return r.PID, true
	case "exc_info":
		return r.ExcInfo, true
	case "stack_info":
		return r.StackInfo, true
	default:
		return nil, false
	}
}

// ValidateExtras rejects extras that would shadow an intrinsic attribute.
func ValidateExtras(extras Fields) error {
	for key := range extras {
		if IsBuiltin(key) {
			return fmt.Errorf("extra field %q shadows a built-in record attribute", key)
		}
	}
	return nil
}
