package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"scribe/internal/event"
	"scribe/internal/format"
)

// lineSink collects rendered JSON lines in memory.
type lineSink struct {
	buf  bytes.Buffer
	sink *StreamSink
}

func newLineSink(t *testing.T, name string, min event.Severity, spec format.Spec, filters ...Filter) *lineSink {
	t.Helper()
	formatter, err := format.NewJSON(spec)
	if err != nil {
		t.Fatalf("NewJSON: %v", err)
	}
	ls := &lineSink{}
	ls.sink = NewStreamSink(name, &ls.buf, formatter, min, filters...)
	return ls
}

func (ls *lineSink) lines(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(ls.buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			t.Fatalf("malformed line %q: %v", raw, err)
		}
		out = append(out, decoded)
	}
	return out
}

func TestPipelineThresholdGatesEmission(t *testing.T) {
	ls := newLineSink(t, "mem", event.Debug, nil)
	p := New("app", event.Warning, WithSinks(ls.sink))

	p.Debugf("dropped")
	p.Infof("dropped too")
	p.Warningf("kept")

	lines := ls.lines(t)
	if len(lines) != 1 {
		t.Fatalf("expected 1 record past the threshold, got %d", len(lines))
	}
	if lines[0]["message"] != "kept" {
		t.Errorf("message = %v", lines[0]["message"])
	}
}

func TestPipelineRoutesPerSinkSeverity(t *testing.T) {
	verbose := newLineSink(t, "verbose", event.Debug, nil)
	errorsOnly := newLineSink(t, "errors", event.Error, nil)
	p := New("app", event.Debug, WithSinks(verbose.sink, errorsOnly.sink))

	p.Infof("routine")
	p.Errorf("failure")

	if got := len(verbose.lines(t)); got != 2 {
		t.Errorf("verbose sink received %d records, want 2", got)
	}
	got := errorsOnly.lines(t)
	if len(got) != 1 || got[0]["message"] != "failure" {
		t.Errorf("errors sink received %v", got)
	}
}

func TestPipelineNonErrorSinkRouting(t *testing.T) {
	quiet := newLineSink(t, "quiet", event.Debug, nil, NonError())
	p := New("app", event.Debug, WithSinks(quiet.sink))

	p.Infof("fine")
	p.Warningf("not fine")
	p.Criticalf("very not fine")

	lines := quiet.lines(t)
	if len(lines) != 1 {
		t.Fatalf("non-error sink received %d records, want 1", len(lines))
	}
	if lines[0]["message"] != "fine" {
		t.Errorf("message = %v", lines[0]["message"])
	}
}

func TestPipelineBoundFieldsMergeWithCallSiteWinning(t *testing.T) {
	ls := newLineSink(t, "mem", event.Debug, nil)
	p := New("app", event.Debug, WithSinks(ls.sink))
	scoped := p.WithFields(event.Fields{"job": "encode", "attempt": 1})

	if err := scoped.Emit(event.Info, "working", nil, event.Fields{"attempt": 2}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	// The parent handle stays clean.
	p.Infof("untouched")

	lines := ls.lines(t)
	if len(lines) != 2 {
		t.Fatalf("got %d records", len(lines))
	}
	if lines[0]["job"] != "encode" {
		t.Errorf("bound field missing: %v", lines[0])
	}
	if lines[0]["attempt"] != float64(2) {
		t.Errorf("call-site extra did not win: %v", lines[0]["attempt"])
	}
	if _, ok := lines[1]["job"]; ok {
		t.Error("parent handle leaked scoped fields")
	}
}

func TestPipelineRejectsExtrasShadowingIntrinsics(t *testing.T) {
	ls := newLineSink(t, "mem", event.Debug, nil)
	var reports bytes.Buffer
	p := New("app", event.Debug, WithSinks(ls.sink), WithErrorOutput(&reports))

	err := p.Emit(event.Info, "sneaky", nil, event.Fields{"levelname": "DEBUG"})
	if err == nil {
		t.Fatal("expected rejection of colliding extras")
	}
	if len(ls.lines(t)) != 0 {
		t.Error("rejected record was still dispatched")
	}
	if !strings.Contains(reports.String(), "levelname") {
		t.Errorf("failure not reported to error output: %q", reports.String())
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestPipelineReportsWriteFailureAndKeepsGoing(t *testing.T) {
	formatter, err := format.NewJSON(nil)
	if err != nil {
		t.Fatalf("NewJSON: %v", err)
	}
	broken := NewStreamSink("broken", failingWriter{err: errors.New("disk full")}, formatter, event.Debug)
	healthy := newLineSink(t, "healthy", event.Debug, nil)
	var reports bytes.Buffer
	p := New("app", event.Debug, WithSinks(broken, healthy.sink), WithErrorOutput(&reports))

	emitErr := p.Emit(event.Info, "still delivered", nil, nil)
	if emitErr == nil {
		t.Fatal("expected write failure to surface")
	}
	if !strings.Contains(emitErr.Error(), "broken") || !strings.Contains(emitErr.Error(), "disk full") {
		t.Errorf("error does not name the failing sink: %v", emitErr)
	}
	if len(healthy.lines(t)) != 1 {
		t.Error("healthy sink skipped after a sibling failure")
	}
	if !strings.Contains(reports.String(), "disk full") {
		t.Errorf("failure not reported: %q", reports.String())
	}
}

func TestPipelineExceptionCarriesCauseType(t *testing.T) {
	ls := newLineSink(t, "mem", event.Debug, nil)
	p := New("app", event.Debug, WithSinks(ls.sink))

	p.Exception(errors.New("upstream unavailable"), "request failed")

	lines := ls.lines(t)
	if len(lines) != 1 {
		t.Fatalf("got %d records", len(lines))
	}
	if lines[0]["level"] != "ERROR" {
		t.Errorf("level = %v", lines[0]["level"])
	}
	excInfo, _ := lines[0]["exc_info"].(string)
	if !strings.Contains(excInfo, "*errors.errorString") {
		t.Errorf("exc_info missing cause type: %q", excInfo)
	}
	if !strings.Contains(excInfo, "upstream unavailable") {
		t.Errorf("exc_info missing message: %q", excInfo)
	}
}

func TestPipelineExceptionWithNilError(t *testing.T) {
	ls := newLineSink(t, "mem", event.Debug, nil)
	p := New("app", event.Debug, WithSinks(ls.sink))

	p.Exception(nil, "odd call")

	lines := ls.lines(t)
	if len(lines) != 1 {
		t.Fatalf("got %d records", len(lines))
	}
	if _, ok := lines[0]["exc_info"]; ok {
		t.Error("exc_info present for nil error")
	}
}

func TestPipelineStackCapture(t *testing.T) {
	ls := newLineSink(t, "mem", event.Debug, nil)
	p := New("app", event.Debug, WithSinks(ls.sink))

	if err := p.EmitDetail(event.Warning, "with stack", nil, Detail{Stack: true}); err != nil {
		t.Fatalf("EmitDetail: %v", err)
	}

	lines := ls.lines(t)
	stack, _ := lines[0]["stack_info"].(string)
	if !strings.Contains(stack, "goroutine") {
		t.Errorf("stack_info does not look like a stack trace: %q", stack)
	}
}

func TestPipelineAttributesApplicationCallSite(t *testing.T) {
	ls := newLineSink(t, "mem", event.Debug, format.Spec{
		{Key: "file", Source: "filename"},
		{Key: "func", Source: "funcName"},
	})
	p := New("app", event.Debug, WithSinks(ls.sink))

	p.Infof("where am I")

	lines := ls.lines(t)
	if lines[0]["file"] != "pipeline_test.go" {
		t.Errorf("file = %v, want pipeline_test.go", lines[0]["file"])
	}
	fn, _ := lines[0]["func"].(string)
	if !strings.Contains(fn, "TestPipelineAttributesApplicationCallSite") {
		t.Errorf("func = %q", fn)
	}
}

func TestPipelineConcurrentEmitsStayWellFormed(t *testing.T) {
	ls := newLineSink(t, "mem", event.Debug, nil)
	p := New("app", event.Debug, WithSinks(ls.sink))

	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			scoped := p.WithFields(event.Fields{"worker": w})
			for i := 0; i < perWorker; i++ {
				scoped.Infof("tick %d", i)
			}
		}(w)
	}
	wg.Wait()

	lines := ls.lines(t)
	if len(lines) != workers*perWorker {
		t.Fatalf("got %d records, want %d", len(lines), workers*perWorker)
	}
	for _, line := range lines {
		if _, ok := line["worker"]; !ok {
			t.Fatalf("record missing bound field: %v", line)
		}
	}
}

func TestPipelineCloseReleasesInReverseOrder(t *testing.T) {
	var order []string
	mk := func(name string) closerFunc {
		return func() error {
			order = append(order, name)
			return nil
		}
	}
	p := New("app", event.Debug, WithCloser(mk("first")), WithCloser(mk("second")))

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("close order = %v", order)
	}
}
