// Package store persists the content document to a hosted remote store and
// mirrors every write into a local slot store used when the remote is down.
package store

import (
	"context"
	"errors"

	"finitefield.org/portfolio/internal/content"
)

var (
	// ErrNotFound indicates a slot or remote document that has never been written.
	ErrNotFound = errors.New("store: not found")
	// ErrUnavailable indicates the remote store cannot be reached or is not configured.
	ErrUnavailable = errors.New("store: remote unavailable")
)

// Remote reads and replaces the whole document in the hosted store.
type Remote interface {
	Fetch(ctx context.Context) (content.Document, error)
	Replace(ctx context.Context, doc content.Document) error
}

// Local is a key/value slot store. Get returns ErrNotFound for unknown keys.
type Local interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Nop is a Remote that is never available, used for local-only deployments.
type Nop struct{}

// Fetch always fails with ErrUnavailable.
func (Nop) Fetch(context.Context) (content.Document, error) {
	return content.Document{}, ErrUnavailable
}

// Replace always fails with ErrUnavailable.
func (Nop) Replace(context.Context, content.Document) error {
	return ErrUnavailable
}
