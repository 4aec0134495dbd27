package store_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/store"
)

func newJSONBinServer(t *testing.T) (*httptest.Server, *[]byte) {
	t.Helper()

	var (
		mu     sync.Mutex
		record []byte
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret-key", r.Header.Get("X-Master-Key"))
		mu.Lock()
		defer mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v3/b/bin-1/latest":
			if record == nil {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"message":"Bin not found"}`)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"record":`+string(record)+`,"metadata":{"id":"bin-1","private":true}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/v3/b/bin-1":
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			record = body
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"record":`+string(body)+`}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(ts.Close)
	return ts, &record
}

func TestJSONBinReplaceAndFetch(t *testing.T) {
	t.Parallel()

	ts, record := newJSONBinServer(t)
	bin, err := store.NewJSONBin(ts.URL+"/v3/b", "bin-1", "secret-key", ts.Client())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = bin.Fetch(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	doc := sampleDocument()
	require.NoError(t, bin.Replace(ctx, doc))

	var stored map[string]any
	require.NoError(t, json.Unmarshal(*record, &stored))
	require.Contains(t, stored, "videos")
	require.Contains(t, stored, "submissions")

	got, err := bin.Fetch(ctx)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}

func TestJSONBinErrors(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `not json`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid X-Master-Key"}`)
	}))
	t.Cleanup(ts.Close)

	bin, err := store.NewJSONBin(ts.URL, "bin-1", "wrong", ts.Client())
	require.NoError(t, err)

	_, err = bin.Fetch(context.Background())
	require.Error(t, err)

	err = bin.Replace(context.Background(), content.Empty())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid X-Master-Key")
}

func TestJSONBinRequiresBinID(t *testing.T) {
	t.Parallel()

	_, err := store.NewJSONBin("", " ", "key", nil)
	require.Error(t, err)
}

func TestClientOverJSONBinSurvivesOutage(t *testing.T) {
	t.Parallel()

	ts, _ := newJSONBinServer(t)
	bin, err := store.NewJSONBin(ts.URL+"/v3/b", "bin-1", "secret-key", ts.Client())
	require.NoError(t, err)
	client := store.NewClient(bin, store.NewMemoryLocal())
	ctx := context.Background()

	doc := sampleDocument()
	ok, err := client.SaveDocument(ctx, doc)
	require.NoError(t, err)
	require.True(t, ok)

	ts.Close()

	got := client.FetchDocument(ctx)
	require.Equal(t, doc, got)
	require.False(t, client.Status().LastSyncOK)
}
