package site

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"finitefield.org/portfolio/internal/content"
)

const documentKey = "document"

// DocumentSource fetches the current document. It never fails; callers get
// the remote copy, the local mirror or the seed.
type DocumentSource interface {
	FetchDocument(ctx context.Context) content.Document
}

// documentCache keeps the fetched document for a short TTL so page views do
// not hit the remote store on every request.
type documentCache struct {
	source DocumentSource
	ttl    time.Duration
	items  *cache.Cache
}

func newDocumentCache(source DocumentSource, ttl time.Duration) *documentCache {
	cleanup := 2 * ttl
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &documentCache{
		source: source,
		ttl:    ttl,
		items:  cache.New(ttl, cleanup),
	}
}

func (c *documentCache) Get(ctx context.Context) content.Document {
	if c.ttl > 0 {
		if v, ok := c.items.Get(documentKey); ok {
			return v.(content.Document)
		}
	}
	doc := c.source.FetchDocument(ctx)
	c.Put(doc)
	return doc
}

// Put replaces the cached document, typically right after an admin save.
func (c *documentCache) Put(doc content.Document) {
	if c.ttl <= 0 {
		return
	}
	c.items.Set(documentKey, doc.Clone(), cache.DefaultExpiration)
}
