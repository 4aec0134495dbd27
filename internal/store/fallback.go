package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"finitefield.org/portfolio/internal/content"
)

const (
	// DocumentSlot holds the mirrored copy of the full document.
	DocumentSlot = "portfolioData"
	// LegacySubmissionsSlot holds contact submissions written before they moved into the document.
	LegacySubmissionsSlot = "contactSubmissions"
)

// Fallback exposes the named slots of a Local store with typed accessors.
type Fallback struct {
	local Local
}

// NewFallback wraps a Local slot store.
func NewFallback(local Local) *Fallback {
	if local == nil {
		local = NewMemoryLocal()
	}
	return &Fallback{local: local}
}

// Load returns the previously mirrored document, or nil when nothing was ever saved.
func (f *Fallback) Load(ctx context.Context) (*content.Document, error) {
	raw, err := f.local.Get(ctx, DocumentSlot)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load mirror: %w", err)
	}
	var doc content.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("store: decode mirror: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

// Save overwrites the mirrored document.
func (f *Fallback) Save(ctx context.Context, doc content.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode mirror: %w", err)
	}
	if err := f.local.Put(ctx, DocumentSlot, raw); err != nil {
		return fmt.Errorf("store: save mirror: %w", err)
	}
	return nil
}

// LegacySubmissions returns submissions stored in the legacy slot. A missing
// or unreadable slot yields an empty list.
func (f *Fallback) LegacySubmissions(ctx context.Context) ([]content.Submission, error) {
	raw, err := f.local.Get(ctx, LegacySubmissionsSlot)
	if errors.Is(err, ErrNotFound) {
		return []content.Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load legacy submissions: %w", err)
	}
	var subs []content.Submission
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, fmt.Errorf("store: decode legacy submissions: %w", err)
	}
	if subs == nil {
		subs = []content.Submission{}
	}
	return subs, nil
}

// PutLegacySubmissions replaces the legacy slot. The import-legacy command
// fills it from an exported contactSubmissions array.
func (f *Fallback) PutLegacySubmissions(ctx context.Context, subs []content.Submission) error {
	raw, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("store: encode legacy submissions: %w", err)
	}
	return f.local.Put(ctx, LegacySubmissionsSlot, raw)
}

// ClearLegacySubmissions removes the legacy slot.
func (f *Fallback) ClearLegacySubmissions(ctx context.Context) error {
	if err := f.local.Delete(ctx, LegacySubmissionsSlot); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("store: clear legacy submissions: %w", err)
	}
	return nil
}
