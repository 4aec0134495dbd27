package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/content"
)

const defaultRemoteTimeout = 10 * time.Second

// Source names where a fetched document came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceSeed   Source = "seed"
)

// SyncStatus reports the outcome of the most recent remote interaction.
type SyncStatus struct {
	LastSyncOK    bool
	LastOperation string
	LastAttempt   time.Time
	LastSuccess   time.Time
	LastError     string
	Source        Source
}

// Client reads from the remote store first, then the local mirror, then the
// seed document. Every save is mirrored locally whatever the remote outcome.
type Client struct {
	remote   Remote
	fallback *Fallback
	seed     content.Document
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.RWMutex
	status SyncStatus
}

// Option customises a Client.
type Option func(*Client)

// WithSeed sets the document served when neither store has content.
func WithSeed(doc content.Document) Option {
	return func(c *Client) {
		c.seed = doc.Clone()
	}
}

// WithRemoteTimeout bounds each remote call.
func WithRemoteTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for degraded-mode warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs a two-tier Client. A nil remote means local-only.
func NewClient(remote Remote, local Local, opts ...Option) *Client {
	if remote == nil {
		remote = Nop{}
	}
	c := &Client{
		remote:   remote,
		fallback: NewFallback(local),
		seed:     content.Empty(),
		timeout:  defaultRemoteTimeout,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Fallback exposes the local slot accessors.
func (c *Client) Fallback() *Fallback {
	return c.fallback
}

// FetchDocument returns the latest document. It never fails: remote errors
// degrade to the local mirror and then to the seed document.
func (c *Client) FetchDocument(ctx context.Context) content.Document {
	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	doc, err := c.remote.Fetch(rctx)
	cancel()
	if err == nil {
		doc.Normalize()
		c.record("fetch", SourceRemote, nil)
		return doc
	}

	if errors.Is(err, ErrNotFound) {
		c.logger.Info("remote document not found; using local copy")
	} else {
		c.logger.Warn("remote fetch failed; using local copy", zap.Error(err))
	}
	c.record("fetch", "", err)

	mirrored, lerr := c.fallback.Load(ctx)
	if lerr != nil {
		c.logger.Warn("local mirror unreadable; using seed", zap.Error(lerr))
	}
	if mirrored != nil {
		c.setSource(SourceLocal)
		return *mirrored
	}
	c.setSource(SourceSeed)
	return c.seed.Clone()
}

// SaveDocument replaces the remote document and mirrors it locally. remoteOK
// reports whether the remote accepted the write; err is set only when the
// local mirror failed too.
func (c *Client) SaveDocument(ctx context.Context, doc content.Document) (remoteOK bool, err error) {
	doc = doc.Clone()

	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	rerr := c.remote.Replace(rctx, doc)
	cancel()
	if rerr != nil {
		c.logger.Warn("remote save failed; keeping local mirror only", zap.Error(rerr))
	}

	lerr := c.fallback.Save(ctx, doc)
	if lerr != nil {
		c.logger.Error("local mirror save failed", zap.Error(lerr))
	}

	source := SourceRemote
	if rerr != nil {
		source = SourceLocal
	}
	c.record("save", source, rerr)

	if rerr != nil && lerr != nil {
		return false, errors.Join(rerr, lerr)
	}
	return rerr == nil, nil
}

// Status returns the last recorded sync outcome.
func (c *Client) Status() SyncStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Client) record(op string, source Source, err error) {
	now := c.now().UTC()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.LastOperation = op
	c.status.LastAttempt = now
	if source != "" {
		c.status.Source = source
	}
	if err != nil {
		c.status.LastSyncOK = false
		c.status.LastError = err.Error()
		return
	}
	c.status.LastSyncOK = true
	c.status.LastSuccess = now
	c.status.LastError = ""
}

func (c *Client) setSource(source Source) {
	c.mu.Lock()
	c.status.Source = source
	c.mu.Unlock()
}
