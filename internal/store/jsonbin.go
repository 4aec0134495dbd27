package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"finitefield.org/portfolio/internal/content"
)

// DefaultJSONBinBaseURL is the v3 bin endpoint of the hosted JSON store.
const DefaultJSONBinBaseURL = "https://api.jsonbin.io/v3/b"

const masterKeyHeader = "X-Master-Key"

// HTTPClient matches the subset of http.Client used by JSONBin.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// JSONBin stores the document in a single bin of a hosted JSON document API.
type JSONBin struct {
	base      *url.URL
	binID     string
	masterKey string
	client    HTTPClient
}

// NewJSONBin constructs a Remote for the given bin.
func NewJSONBin(baseURL, binID, masterKey string, client HTTPClient) (*JSONBin, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultJSONBinBaseURL
	}
	if strings.TrimSpace(binID) == "" {
		return nil, errors.New("jsonbin: bin id is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("jsonbin: parse base URL: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &JSONBin{
		base:      parsed,
		binID:     strings.TrimSpace(binID),
		masterKey: masterKey,
		client:    client,
	}, nil
}

type binEnvelope struct {
	Record *content.Document `json:"record"`
}

// Fetch reads the latest version of the bin.
func (b *JSONBin) Fetch(ctx context.Context) (content.Document, error) {
	req, err := b.newRequest(ctx, http.MethodGet, b.binID+"/latest", nil)
	if err != nil {
		return content.Document{}, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return content.Document{}, fmt.Errorf("jsonbin: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return content.Document{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return content.Document{}, b.errorFromResponse(resp)
	}

	var payload binEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return content.Document{}, fmt.Errorf("jsonbin: decode record: %w", err)
	}
	if payload.Record == nil {
		return content.Document{}, errors.New("jsonbin: response has no record")
	}
	doc := *payload.Record
	doc.Normalize()
	return doc, nil
}

// Replace overwrites the bin with the full document.
func (b *JSONBin) Replace(ctx context.Context, doc content.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("jsonbin: encode document: %w", err)
	}
	req, err := b.newRequest(ctx, http.MethodPut, b.binID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("jsonbin: replace: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return b.errorFromResponse(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (b *JSONBin) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	rel := *b.base
	rel.Path = path.Join(b.base.Path, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, rel.String(), body)
	if err != nil {
		return nil, fmt.Errorf("jsonbin: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if b.masterKey != "" {
		req.Header.Set(masterKeyHeader, b.masterKey)
	}
	return req, nil
}

func (b *JSONBin) errorFromResponse(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("jsonbin: status %d: %s", resp.StatusCode, payload.Message)
	}
	return fmt.Errorf("jsonbin: status %d", resp.StatusCode)
}
