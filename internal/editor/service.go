// Package editor applies admin and contact-form mutations to the content
// document and persists the whole document after each one.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/store"
)

// ErrNotFound indicates an edit or delete that referenced an id no longer in the document.
var ErrNotFound = errors.New("editor: entry not found")

// ValidationError carries field-level messages for a rejected form.
type ValidationError struct {
	Fields content.FieldErrors
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "editor: invalid input: " + strings.Join(e.Fields.Fields(), ", ")
}

func invalid(fields content.FieldErrors) error {
	if fields.Empty() {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Store is the persistence surface the editor depends on.
type Store interface {
	FetchDocument(ctx context.Context) content.Document
	SaveDocument(ctx context.Context, doc content.Document) (bool, error)
	Status() store.SyncStatus
	Fallback() *store.Fallback
}

// Result reports the outcome of a persisted mutation.
type Result struct {
	ID           string
	RemoteSynced bool
}

// Service is the only writer of the document. Every read-modify-write starts
// from a fresh fetch and runs under one lock.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	hooks []func(content.Document)
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service over the given store.
func NewService(st Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// OnSave registers a callback invoked with the new document after every save.
func (s *Service) OnSave(fn func(content.Document)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Document fetches the current document.
func (s *Service) Document(ctx context.Context) content.Document {
	return s.store.FetchDocument(ctx)
}

// Status reports the last sync outcome of the underlying store.
func (s *Service) Status() store.SyncStatus {
	return s.store.Status()
}

// mutate fetches the latest document, applies fn and persists the result.
// Nothing is written when fn fails.
func (s *Service) mutate(ctx context.Context, op string, fn func(doc *content.Document) (string, error)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.store.FetchDocument(ctx)
	id, err := fn(&doc)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("stale entry id; nothing changed", zap.String("op", op), zap.String("id", id))
		}
		return Result{ID: id}, err
	}

	remoteOK, err := s.store.SaveDocument(ctx, doc)
	if err != nil {
		return Result{ID: id}, fmt.Errorf("editor: %s: %w", op, err)
	}
	if !remoteOK {
		s.logger.Warn("saved locally only", zap.String("op", op))
	}
	for _, hook := range s.hooks {
		hook(doc.Clone())
	}
	return Result{ID: id, RemoteSynced: remoteOK}, nil
}

// Stats summarises the document for the dashboard.
type Stats struct {
	Videos            int
	Testimonials      int
	Services          int
	Submissions       int
	NewSubmissions    int
	RecentSubmissions int
}

// Stats counts entries; recent submissions are those from the last seven days.
func (s *Service) Stats(ctx context.Context) Stats {
	doc := s.Document(ctx)
	weekAgo := s.now().Add(-7 * 24 * time.Hour)
	st := Stats{
		Videos:         len(doc.Videos),
		Testimonials:   len(doc.Testimonials),
		Services:       len(doc.Services),
		Submissions:    len(doc.Submissions),
		NewSubmissions: doc.NewSubmissionCount(),
	}
	for _, sub := range doc.Submissions {
		if ts := sub.Time(); !ts.IsZero() && ts.After(weekAgo) {
			st.RecentSubmissions++
		}
	}
	return st
}

// SortedSubmissions returns submissions newest first.
func SortedSubmissions(subs []content.Submission) []content.Submission {
	out := append([]content.Submission(nil), subs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time().After(out[j].Time())
	})
	return out
}
