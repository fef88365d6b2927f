package format

import (
	"fmt"
	"strings"

	"scribe/internal/event"
)

// Rule maps one output key to the record attribute that supplies its value.
type Rule struct {
	Key    string
	Source string
}

// Spec is the ordered rule set controlling JSON field layout. A Spec is built
// once at pipeline setup, validated, and shared read-only by every format
// call.
type Spec []Rule

// DefaultSpec mirrors the stock file layout: level, message, timestamp.
func DefaultSpec() Spec {
	return Spec{
		{Key: "level", Source: "levelname"},
		{Key: "message", Source: "message"},
		{Key: "timestamp", Source: "timestamp"},
	}
}

// derivedAttrs are the always-present fields computed per record, available
// as rule sources in addition to the intrinsic attribute set.
var derivedAttrs = map[string]struct{}{
	"message":    {},
	"timestamp":  {},
	"exc_info":   {},
	"stack_info": {},
}

// Validate rejects malformed rules and rules referencing attributes that no
// record can supply. Running this at setup keeps source-attribute mistakes
// out of the hot path.
func (s Spec) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, rule := range s {
		if strings.TrimSpace(rule.Key) == "" {
			return fmt.Errorf("format spec: rule with source %q has an empty output key", rule.Source)
		}
		if strings.TrimSpace(rule.Source) == "" {
			return fmt.Errorf("format spec: key %q has an empty source attribute", rule.Key)
		}
		if _, dup := seen[rule.Key]; dup {
			return fmt.Errorf("format spec: duplicate output key %q", rule.Key)
		}
		seen[rule.Key] = struct{}{}
		if _, derived := derivedAttrs[rule.Source]; derived {
			continue
		}
		if !event.IsBuiltin(rule.Source) {
			return fmt.Errorf("format spec: key %q references unknown attribute %q", rule.Key, rule.Source)
		}
	}
	return nil
}
