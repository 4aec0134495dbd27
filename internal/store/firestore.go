package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finitefield.org/portfolio/internal/content"
)

const (
	envEmulatorHost            = "FIRESTORE_EMULATOR_HOST"
	defaultFirestoreCollection = "portfolio"
	defaultFirestoreDocument   = "content"
)

// FirestoreConfig points at the single document holding the site content.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
	Collection      string
	Document        string
}

// Firestore keeps the document in one Firestore document, replaced in full on every save.
type Firestore struct {
	client *firestore.Client
	ref    *firestore.DocumentRef
}

// NewFirestore initialises a Firestore client through the Firebase Admin SDK.
// FIRESTORE_EMULATOR_HOST is honoured by the underlying client.
func NewFirestore(ctx context.Context, cfg FirestoreConfig, opts ...option.ClientOption) (*Firestore, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("firestore: project id is required")
	}
	if cfg.CredentialsFile != "" && os.Getenv(envEmulatorHost) == "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: init firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore: create client: %w", err)
	}
	return NewFirestoreFromClient(client, cfg.Collection, cfg.Document), nil
}

// NewFirestoreFromClient wraps an existing client.
func NewFirestoreFromClient(client *firestore.Client, collection, document string) *Firestore {
	if strings.TrimSpace(collection) == "" {
		collection = defaultFirestoreCollection
	}
	if strings.TrimSpace(document) == "" {
		document = defaultFirestoreDocument
	}
	return &Firestore{
		client: client,
		ref:    client.Collection(collection).Doc(document),
	}
}

// Fetch reads the stored document.
func (f *Firestore) Fetch(ctx context.Context) (content.Document, error) {
	snap, err := f.ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return content.Document{}, ErrNotFound
		}
		return content.Document{}, fmt.Errorf("firestore: get %s: %w", f.ref.Path, err)
	}
	if !snap.Exists() {
		return content.Document{}, ErrNotFound
	}

	raw, err := json.Marshal(snap.Data())
	if err != nil {
		return content.Document{}, fmt.Errorf("firestore: encode snapshot: %w", err)
	}
	var doc content.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return content.Document{}, fmt.Errorf("firestore: decode snapshot: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

// Replace overwrites the stored document without merging.
func (f *Firestore) Replace(ctx context.Context, doc content.Document) error {
	fields, err := documentFields(doc)
	if err != nil {
		return err
	}
	if _, err := f.ref.Set(ctx, fields); err != nil {
		return fmt.Errorf("firestore: set %s: %w", f.ref.Path, err)
	}
	return nil
}

// Close releases the underlying client.
func (f *Firestore) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}

// documentFields projects the document through its JSON shape so Firestore
// field names match the keys used by every other backend.
func documentFields(doc content.Document) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("firestore: encode document: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("firestore: project document: %w", err)
	}
	return fields, nil
}
