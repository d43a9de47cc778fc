package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"stylo/registry"
	"stylo/sink"
	"stylo/style"
)

func openTemp(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.sqlite"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecord(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()

	first := registry.Capture{Session: "s1", CSS: ".a{color:red;}.b{width:1px;}", Identifiers: []string{"a", "b", "a"}}
	second := registry.Capture{Session: "s2", CSS: ".c{color:blue;}", Identifiers: []string{"c", "b"}}
	for _, c := range []registry.Capture{first, second} {
		if err := l.Record(ctx, c); err != nil {
			t.Fatalf("Record(%s) error = %v", c.Session, err)
		}
	}

	ids, err := l.Identifiers(ctx)
	if err != nil {
		t.Fatalf("Identifiers() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
		t.Errorf("identifiers mismatch (-want +got):\n%s", diff)
	}

	css, err := l.Stylesheet(ctx)
	if err != nil {
		t.Fatalf("Stylesheet() error = %v", err)
	}
	if want := first.CSS + second.CSS; css != want {
		t.Errorf("Stylesheet() = %q, want %q", css, want)
	}

	if n, err := l.Sessions(ctx); err != nil || n != 2 {
		t.Errorf("Sessions() = %d, %v, want 2", n, err)
	}
}

func TestRecord_EmptyCaptureSkipped(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()

	if err := l.Record(ctx, registry.Capture{Session: "empty"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if n, _ := l.Sessions(ctx); n != 0 {
		t.Errorf("empty capture recorded, sessions = %d", n)
	}
}

func TestRecord_DuplicateSessionRollsBack(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()

	c := registry.Capture{Session: "s1", CSS: ".a{}", Identifiers: []string{"a"}}
	if err := l.Record(ctx, c); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	dup := registry.Capture{Session: "s1", CSS: ".z{}", Identifiers: []string{"z"}}
	if err := l.Record(ctx, dup); err == nil {
		t.Fatal("expected error recording duplicate session")
	}

	ids, _ := l.Identifiers(ctx)
	if diff := cmp.Diff([]string{"a"}, ids); diff != "" {
		t.Errorf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_NoSession(t *testing.T) {
	l := openTemp(t)
	if err := l.Record(context.Background(), registry.Capture{CSS: ".a{}", Identifiers: []string{"a"}}); err == nil {
		t.Error("expected error for capture without session")
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.sqlite")
	ctx := context.Background()

	l, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := l.Record(ctx, registry.Capture{Session: "s1", CSS: ".a{}", Identifiers: []string{"a"}}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	l, err = Open(path, nil)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer l.Close()

	ids, err := l.Identifiers(ctx)
	if err != nil {
		t.Fatalf("Identifiers() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, ids); diff != "" {
		t.Errorf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestCancelledContext(t *testing.T) {
	l := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Identifiers(ctx); err == nil {
		t.Error("expected error with cancelled context")
	}
}

func TestCaptureRoundTrip(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()

	producer, err := registry.New(zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("registry.New() error = %v", err)
	}
	d := style.New(style.E("color", "red"), style.E("&&:hover", style.New(style.E("color", "blue"))))

	_ = producer.StartCapture()
	id := producer.Resolve(d)
	c, _ := producer.StopCapture()
	if err := l.Record(ctx, c); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	buf := &sink.Buffer{}
	consumer, err := registry.New(zaptest.NewLogger(t), registry.WithSink(buf))
	if err != nil {
		t.Fatalf("registry.New() error = %v", err)
	}
	ids, err := l.Identifiers(ctx)
	if err != nil {
		t.Fatalf("Identifiers() error = %v", err)
	}
	consumer.Rehydrate(ids...)

	if got := consumer.Resolve(d); got != id {
		t.Errorf("Resolve() = %q, want %q", got, id)
	}
	if buf.Appends() != 0 {
		t.Errorf("recorded class emitted again: %q", buf.String())
	}
}
