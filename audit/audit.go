// Package audit keeps the append-only access log of catalog operations.
//
// Each entry is one block of text:
//
//	2024-03-01T14:05:09+01:00 search, sort_by=start_date, sort_order=desc
//
// followed by a blank line. Entries are written atomically; writer failures
// are logged and counted but never returned to the operation being audited.
package audit

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TimeLayout is the timestamp written at the start of every entry.
const TimeLayout = "2006-01-02T15:04:05-07:00"

// Recorder is implemented by anything that accepts audit entries.
type Recorder interface {
	Record(op string, fields ...Field)
}

// Field is one key=value argument of an entry.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func (f Field) String() string {
	return f.Key + "=" + render(f.Value)
}

func render(v any) string {
	if v == nil {
		return "none"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return "none"
		}
	}
	return fmt.Sprintf("%v", v)
}

// Sink writes entries to a single destination. It is safe for concurrent use.
type Sink struct {
	mu       sync.Mutex
	w        io.Writer
	now      func() time.Time
	logger   zerolog.Logger
	failures int
	lastErr  error
}

type Option func(*Sink)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		s.now = now
	}
}

// NewSink returns a sink appending entries to w.
func NewSink(w io.Writer, opts ...Option) *Sink {
	s := &Sink{
		w:      w,
		now:    time.Now,
		logger: log.With().Str("component", "audit").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenFile opens path for appending, creating it if needed.
func OpenFile(path string, opts ...Option) (*Sink, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open audit log: %w", err)
	}
	return NewSink(f, opts...), f, nil
}

// Format renders a complete entry, terminator included.
func Format(at time.Time, op string, fields ...Field) string {
	var b strings.Builder
	b.WriteString(at.Format(TimeLayout))
	b.WriteByte(' ')
	b.WriteString(op)
	for _, f := range fields {
		b.WriteString(", ")
		b.WriteString(f.String())
	}
	b.WriteString("\n\n")
	return b.String()
}

// Record appends one entry. It never fails from the caller's point of view.
func (s *Sink) Record(op string, fields ...Field) {
	entry := Format(s.now().Local(), op, fields...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, entry); err != nil {
		s.failures++
		s.lastErr = err
		s.logger.Warn().Err(err).Str("op", op).Msg("audit entry dropped")
	}
}

// Failures returns how many entries could not be written.
func (s *Sink) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

// LastError returns the most recent write error, or nil.
func (s *Sink) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

type nop struct{}

func (nop) Record(string, ...Field) {}

// Nop returns a Recorder that discards every entry.
func Nop() Recorder {
	return nop{}
}

type silentKey struct{}

// Silence marks ctx so that work done on its behalf is not audited.
func Silence(ctx context.Context) context.Context {
	return context.WithValue(ctx, silentKey{}, true)
}

// Silenced reports whether ctx was marked by Silence.
func Silenced(ctx context.Context) bool {
	silent, _ := ctx.Value(silentKey{}).(bool)
	return silent
}
