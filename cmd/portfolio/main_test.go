package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/portfolio/internal/content"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.Execute()
	return out.String(), err
}

func setLocalEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("REMOTE_DRIVER", "none")
	t.Setenv("LOCAL_DRIVER", "file")
	t.Setenv("LOCAL_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SEED_FILE", "")
	return dir
}

func TestSeedThenExport(t *testing.T) {
	dir := setLocalEnv(t)

	out, err := runCLI(t, "seed")
	require.NoError(t, err)
	require.Contains(t, out, "stored locally only")

	_, err = runCLI(t, "seed")
	require.ErrorContains(t, err, "--force")

	_, err = runCLI(t, "seed", "--force")
	require.NoError(t, err)

	target := filepath.Join(dir, "export.json")
	_, err = runCLI(t, "export", "--output", target)
	require.NoError(t, err)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	var doc content.Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	seed, err := content.Seed()
	require.NoError(t, err)
	require.Len(t, doc.Videos, len(seed.Videos))
	require.Equal(t, seed.Services, doc.Services)
}

func TestSeedFromFile(t *testing.T) {
	dir := setLocalEnv(t)
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte("services:\n  - id: s1\n    title: Trailers\n"), 0o600))
	t.Setenv("SEED_FILE", seedPath)

	_, err := runCLI(t, "seed")
	require.NoError(t, err)

	out, err := runCLI(t, "export")
	require.NoError(t, err)
	var doc content.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Services, 1)
	require.Equal(t, "Trailers", doc.Services[0].Title)
	require.Empty(t, doc.Videos)
}

func TestImportLegacySubmissions(t *testing.T) {
	dir := setLocalEnv(t)
	first := filepath.Join(dir, "legacy.json")
	require.NoError(t, os.WriteFile(first, []byte(`[
  {"id": 1700000000000, "name": "Old", "phone": "1234567890", "message": "hi", "timestamp": "2024-01-01T00:00:00Z"},
  {"id": 1700000000000, "name": "Twin", "phone": "1234567890", "message": "again", "timestamp": "2024-01-01T00:00:01Z"}
]`), 0o600))
	second := filepath.Join(dir, "more.json")
	require.NoError(t, os.WriteFile(second, []byte(`[{"name": "NoID", "phone": "1234567890", "message": "hey", "status": "read"}]`), 0o600))

	out, err := runCLI(t, "import-legacy", first)
	require.NoError(t, err)
	require.Contains(t, out, "queued 2 legacy submissions")

	out, err = runCLI(t, "import-legacy", "--migrate", second)
	require.NoError(t, err)
	require.Contains(t, out, "migrated 3 legacy submissions")

	out, err = runCLI(t, "export")
	require.NoError(t, err)
	var doc content.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Submissions, 3)
	ids := map[string]bool{}
	for _, sub := range doc.Submissions {
		require.NotEmpty(t, sub.ID)
		ids[sub.ID] = true
	}
	require.Len(t, ids, 3)
	require.Equal(t, "1700000000000", doc.Submissions[0].ID)
	require.Equal(t, content.StatusNew, doc.Submissions[0].Status)
	require.Equal(t, content.StatusRead, doc.Submissions[2].Status)
}

func TestImportLegacyRejectsMalformedFile(t *testing.T) {
	dir := setLocalEnv(t)
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "an array"}`), 0o600))

	_, err := runCLI(t, "import-legacy", bad)
	require.ErrorContains(t, err, "decode legacy submissions")
}

func TestInvalidConfigFails(t *testing.T) {
	setLocalEnv(t)
	t.Setenv("LOCAL_DRIVER", "floppy")

	_, err := runCLI(t, "export")
	require.ErrorContains(t, err, "LOCAL_DRIVER")
}
