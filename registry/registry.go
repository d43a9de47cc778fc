// Package registry turns style descriptions into class names and makes sure
// CSS of every distinct description reaches the output at most once.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stylo/css"
	"stylo/sink"
	"stylo/style"
)

var (
	// ErrInvalidDescription is reported when Resolve gets no description.
	ErrInvalidDescription = errors.New("style description is absent")
	// ErrCaptureActive is returned by StartCapture during a capture.
	ErrCaptureActive = errors.New("capture is already active")
	// ErrCaptureInactive is returned by StopCapture without a capture.
	ErrCaptureInactive = errors.New("capture is not active")
)

// Capture is CSS collected while capture mode was on.
type Capture struct {
	Session     string   // unique id of the capture session
	CSS         string   // concatenated CSS text in resolve order
	Identifiers []string // class names in resolve order, may repeat
}

// Registry owns the emitted-identifier cache and routes generated CSS
// either to its sink or to a capture buffer. Every instance is independent;
// use one per document or request. Methods are safe for concurrent use,
// compilation happens under the lock so a description is emitted at most
// once even when resolved from several goroutines.
type Registry struct {
	log      *zap.Logger
	compiler *css.Compiler
	scanner  *css.Scanner
	sink     sink.Sink
	prefix   string
	sorted   bool

	mu        sync.Mutex
	emitted   map[string]struct{}
	capturing bool
	session   string
	text      strings.Builder
	ids       []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithPrefix sets class name prefix, see ValidPrefix.
func WithPrefix(prefix string) Option {
	return func(r *Registry) { r.prefix = prefix }
}

// WithSortedFingerprint makes fingerprints independent of key order.
func WithSortedFingerprint() Option {
	return func(r *Registry) { r.sorted = true }
}

// WithCompiler replaces the default compiler.
func WithCompiler(c *css.Compiler) Option {
	return func(r *Registry) { r.compiler = c }
}

// WithSink sets live mode destination. Default discards output.
func WithSink(s sink.Sink) Option {
	return func(r *Registry) { r.sink = s }
}

// New creates a registry in live mode.
func New(log *zap.Logger, opts ...Option) (*Registry, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		log:     log.Named("registry"),
		prefix:  DefaultPrefix,
		emitted: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if !ValidPrefix(r.prefix) {
		return nil, fmt.Errorf("invalid class name prefix %q", r.prefix)
	}
	if r.compiler == nil {
		r.compiler = css.NewCompiler(log)
	}
	if r.sink == nil {
		r.sink = sink.Null{}
	}
	r.scanner = css.NewScanner(log)
	return r, nil
}

// Identifier returns the class name of d without compiling or emitting.
func (r *Registry) Identifier(d *style.Description) string {
	return Identifier(r.prefix, Fingerprint(d, r.sorted))
}

// Resolve returns class name for d. CSS for d is compiled and routed only
// if the class name has not been emitted yet. A nil description is logged
// and yields an empty class name.
func (r *Registry) Resolve(d *style.Description) string {
	if d == nil {
		r.log.Error("Unable to resolve style", zap.Error(ErrInvalidDescription))
		return ""
	}
	id := r.Identifier(d)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.emitted[id]; ok {
		return id
	}

	sheet := r.compiler.Compile("."+id, d)
	text := sheet.String()

	if r.capturing {
		r.text.WriteString(text)
		r.ids = append(r.ids, id)
		r.log.Debug("Captured style", zap.String("class", id), zap.String("session", r.session), zap.Int("bytes", len(text)))
		return id
	}

	if err := r.sink.Append(text); err != nil {
		r.log.Warn("Unable to append style to sink", zap.String("class", id), zap.Error(err))
	}
	r.emitted[id] = struct{}{}
	r.log.Debug("Emitted style", zap.String("class", id), zap.Strings("selectors", sheet.Selectors()), zap.Int("bytes", len(text)))
	return id
}

// StartCapture redirects output into a fresh capture buffer. Captures do
// not nest.
func (r *Registry) StartCapture() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capturing {
		return ErrCaptureActive
	}
	r.capturing = true
	r.session = uuid.NewString()
	r.text.Reset()
	r.ids = nil
	r.log.Debug("Capture started", zap.String("session", r.session))
	return nil
}

// StopCapture returns collected output, resets the buffer and switches back
// to live mode. Captured classes are not marked as emitted.
func (r *Registry) StopCapture() (Capture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.capturing {
		return Capture{}, ErrCaptureInactive
	}
	c := Capture{Session: r.session, CSS: r.text.String(), Identifiers: r.ids}

	r.capturing = false
	r.session = ""
	r.text.Reset()
	r.ids = nil
	r.log.Debug("Capture stopped", zap.String("session", c.Session), zap.Int("classes", len(c.Identifiers)), zap.Int("bytes", len(c.CSS)))
	return c, nil
}

// Capturing reports whether capture mode is on.
func (r *Registry) Capturing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capturing
}

// Rehydrate marks class names as already emitted, e.g. CSS rendered by
// another process and already present in the output.
func (r *Registry) Rehydrate(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		r.emitted[id] = struct{}{}
	}
	if len(ids) > 0 {
		r.log.Debug("Rehydrated", zap.Int("classes", len(ids)))
	}
}

// RehydrateFromCSS marks every class carrying the registry prefix found in
// text as emitted and returns their number.
func (r *Registry) RehydrateFromCSS(text string) int {
	ids := r.scanner.Classes([]byte(text), r.prefix)
	r.Rehydrate(ids...)
	return len(ids)
}

// Emitted reports whether id has been emitted or rehydrated.
func (r *Registry) Emitted(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.emitted[id]
	return ok
}
