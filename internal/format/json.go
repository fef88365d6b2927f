package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"scribe/internal/event"
)

// JSON renders records as single-line JSON documents suitable for JSON-Lines
// storage.
type JSON struct {
	spec Spec
}

// NewJSON constructs a JSON formatter. An empty spec falls back to
// DefaultSpec.
func NewJSON(spec Spec) (*JSON, error) {
	if len(spec) == 0 {
		spec = DefaultSpec()
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &JSON{spec: spec}, nil
}

type jsonField struct {
	key   string
	value any
}

// Format renders rec as one newline-terminated JSON object. Output key order
// is the spec's order, then unconsumed always-present fields, then extras in
// sorted key order, so identical records serialize byte-identically.
func (f *JSON) Format(rec *event.Record) ([]byte, error) {
	always := make([]jsonField, 0, 4)
	always = append(always,
		jsonField{key: "message", value: rec.Message},
		jsonField{key: "timestamp", value: rec.Time.UTC().Format(time.RFC3339Nano)},
	)
	if rec.ExcInfo != "" {
		always = append(always, jsonField{key: "exc_info", value: rec.ExcInfo})
	}
	if rec.StackInfo != "" {
		always = append(always, jsonField{key: "stack_info", value: rec.StackInfo})
	}

	consumed := make(map[string]struct{}, len(always))
	out := make([]jsonField, 0, len(f.spec)+len(always)+len(rec.Extras))
	for _, rule := range f.spec {
		if value, ok := takeAlways(always, consumed, rule.Source); ok {
			out = append(out, jsonField{key: rule.Key, value: value})
			continue
		}
		value, ok := rec.Intrinsic(rule.Source)
		if !ok {
			return nil, fmt.Errorf("format spec: source attribute %q is not present on the record", rule.Source)
		}
		out = append(out, jsonField{key: rule.Key, value: value})
	}
	for _, field := range always {
		if _, ok := consumed[field.key]; ok {
			continue
		}
		out = append(out, field)
	}
	for _, key := range sortedKeys(rec.Extras) {
		out = append(out, jsonField{key: key, value: rec.Extras[key]})
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(out)*24)
	buf.WriteByte('{')
	for i, field := range out {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(field.key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", field.key, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(encodeValue(field.value))
	}
	buf.WriteByte('}')
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func takeAlways(always []jsonField, consumed map[string]struct{}, source string) (any, bool) {
	for _, field := range always {
		if field.key != source {
			continue
		}
		if _, done := consumed[source]; done {
			return nil, false
		}
		consumed[source] = struct{}{}
		return field.value, true
	}
	return nil, false
}

// encodeValue serializes a single value, substituting its text form when it
// has no native JSON representation. A bad value degrades one field, never
// the whole record.
func encodeValue(value any) []byte {
	encoded, err := json.Marshal(value)
	if err == nil {
		return encoded
	}
	text, err := json.Marshal(fmt.Sprint(value))
	if err == nil {
		return text
	}
	return []byte(`""`)
}
