package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// RemoteConfig selects and configures the hosted store.
type RemoteConfig struct {
	Driver     string
	JSONBin    JSONBinConfig
	Firestore  FirestoreConfig
	HTTPClient HTTPClient
}

// JSONBinConfig identifies the bin and its secret key.
type JSONBinConfig struct {
	BaseURL   string
	BinID     string
	MasterKey string
}

// LocalConfig selects and configures the local mirror.
type LocalConfig struct {
	Driver     string
	Dir        string
	SQLitePath string
}

// OpenRemote builds the configured Remote. The returned closer is never nil.
func OpenRemote(ctx context.Context, cfg RemoteConfig) (Remote, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "none":
		return Nop{}, nopCloser{}, nil
	case "jsonbin":
		client := cfg.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: 15 * time.Second}
		}
		bin, err := NewJSONBin(cfg.JSONBin.BaseURL, cfg.JSONBin.BinID, cfg.JSONBin.MasterKey, client)
		if err != nil {
			return nil, nil, err
		}
		return bin, nopCloser{}, nil
	case "firestore":
		fs, err := NewFirestore(ctx, cfg.Firestore)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs, nil
	default:
		return nil, nil, fmt.Errorf("store: unknown remote driver %q", cfg.Driver)
	}
}

// OpenLocal builds the configured Local. The returned closer is never nil.
func OpenLocal(cfg LocalConfig) (Local, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "file":
		local, err := NewFileLocal(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return local, nopCloser{}, nil
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(cfg.Dir, "portfolio.db")
		}
		local, err := NewSQLiteLocal(path)
		if err != nil {
			return nil, nil, err
		}
		return local, local, nil
	case "memory":
		return NewMemoryLocal(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("store: unknown local driver %q", cfg.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
