package event

import (
	"strings"
	"testing"
	"time"
)

func TestNewRendersMessage(t *testing.T) {
	rec := New("app", Info, "processed %d items in %s", []any{3, "5s"}, 0)
	if rec.Message != "processed 3 items in 5s" {
		t.Fatalf("unexpected message: %q", rec.Message)
	}
	if rec.Template != "processed %d items in %s" {
		t.Fatalf("template not preserved: %q", rec.Template)
	}
}

func TestNewWithoutArgsSkipsFormatting(t *testing.T) {
	rec := New("app", Info, "100%% done", nil, 0)
	if rec.Message != "100%% done" {
		t.Fatalf("template without args must pass through verbatim, got %q", rec.Message)
	}
}

func TestNewCapturesCallSite(t *testing.T) {
	rec := New("app", Debug, "hello", nil, 0)
	if rec.Source.File != "record_test.go" {
		t.Fatalf("source file = %q, want record_test.go", rec.Source.File)
	}
	if rec.Source.Line <= 0 {
		t.Fatalf("source line = %d, want > 0", rec.Source.Line)
	}
	if !strings.Contains(rec.Source.Function, "TestNewCapturesCallSite") {
		t.Fatalf("source function = %q", rec.Source.Function)
	}
	if rec.Source.Package != "event" {
		t.Fatalf("source package = %q, want event", rec.Source.Package)
	}
	if rec.PID <= 0 {
		t.Fatalf("pid = %d", rec.PID)
	}
}

func TestIntrinsicResolvesBuiltins(t *testing.T) {
	rec := New("worker", Warning, "disk %s", []any{"full"}, 0)
	rec.ExcInfo = "boom"

	cases := []struct {
		attr string
		want any
	}{
		{"name", "worker"},
		{"levelname", "WARNING"},
		{"levelno", 30},
		{"msg", "disk %s"},
		{"message", "disk full"},
		{"filename", "record_test.go"},
		{"module", "event"},
		{"exc_info", "boom"},
		{"stack_info", ""},
	}
	for _, tc := range cases {
		got, ok := rec.Intrinsic(tc.attr)
		if !ok {
			t.Errorf("Intrinsic(%q) not resolved", tc.attr)
			continue
		}
		if got != tc.want {
			t.Errorf("Intrinsic(%q) = %v, want %v", tc.attr, got, tc.want)
		}
	}

	if _, ok := rec.Intrinsic("customer_id"); ok {
		t.Fatal("non-builtin attribute must not resolve")
	}
}

func TestIntrinsicCreatedMatchesTime(t *testing.T) {
	rec := New("app", Info, "x", nil, 0)
	value, ok := rec.Intrinsic("created")
	if !ok {
		t.Fatal("created not resolved")
	}
	created, ok := value.(float64)
	if !ok {
		t.Fatalf("created has type %T", value)
	}
	want := float64(rec.Time.UnixNano()) / float64(time.Second.Nanoseconds())
	if diff := created - want; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("created = %f, want %f", created, want)
	}
}

func TestBuiltinSetMatchesIntrinsic(t *testing.T) {
	// Every name in the built-in set must resolve, and the classifier must
	// cover every resolvable name checked above.
	rec := New("app", Info, "x", nil, 0)
	for name := range builtinAttrs {
		if _, ok := rec.Intrinsic(name); !ok {
			t.Errorf("builtin %q does not resolve via Intrinsic", name)
		}
	}
	if IsBuiltin("session_id") {
		t.Fatal("session_id must not be intrinsic")
	}
	for _, name := range []string{"thread", "threadName", "msecs", "relativeCreated", "args"} {
		if IsBuiltin(name) {
			t.Errorf("%q must not be intrinsic", name)
		}
	}
	if !IsBuiltin("levelname") {
		t.Fatal("levelname must be intrinsic")
	}
}

func TestValidateExtras(t *testing.T) {
	if err := ValidateExtras(Fields{"x": "hello", "count": 2}); err != nil {
		t.Fatalf("benign extras rejected: %v", err)
	}
	if err := ValidateExtras(Fields{"levelname": "sneaky"}); err == nil {
		t.Fatal("expected rejection of extras shadowing a builtin")
	}
	if err := ValidateExtras(nil); err != nil {
		t.Fatalf("nil extras rejected: %v", err)
	}
}
