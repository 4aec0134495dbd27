//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finitefield.org/portfolio/internal/store"
)

// Requires a running emulator, e.g.
// gcloud emulators firestore start --host-port=127.0.0.1:8681
func TestFirestoreRoundTripAgainstEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fs, err := store.NewFirestore(ctx, store.FirestoreConfig{
		ProjectID:  "portfolio-test",
		Collection: "portfolio",
		Document:   "content-" + time.Now().UTC().Format("20060102150405.000000000"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })

	_, err = fs.Fetch(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	doc := sampleDocument()
	require.NoError(t, fs.Replace(ctx, doc))

	got, err := fs.Fetch(ctx)
	require.NoError(t, err)
	require.Equal(t, doc, got)

	client := store.NewClient(fs, store.NewMemoryLocal())
	require.Equal(t, doc, client.FetchDocument(ctx))
	require.True(t, client.Status().LastSyncOK)
}
