package ingestion

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func skippedNames(batch *Batch) []string {
	names := make([]string, 0, len(batch.Skipped))
	for _, s := range batch.Skipped {
		names = append(names, s.Name)
	}
	return names
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"bob.txt":         "Bob\nJava and Spring",
		"alice.md":        "# Alice\n- Go\n- Kubernetes",
		"empty.txt":       "   \n\n",
		"photo.png":       "\x89PNG",
		".hidden.txt":     "should not be read",
		"nested/carl.txt": "subdirectories are not walked",
	})

	batch, err := LoadDirectory(dir, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, batch.Documents, 2)
	assert.Equal(t, "alice.md", batch.Documents[0].ID)
	assert.Equal(t, "# Alice\n- Go\n- Kubernetes", batch.Documents[0].Text)
	assert.Equal(t, "bob.txt", batch.Documents[1].ID)
	require.Len(t, batch.Metadata, 2)
	assert.Equal(t, filepath.Join(dir, "bob.txt"), batch.Metadata[1].Source)

	assert.ElementsMatch(t, []string{"empty.txt", "photo.png"}, skippedNames(batch))
	for _, s := range batch.Skipped {
		if s.Name == "empty.txt" {
			assert.Equal(t, "no extractable text", s.Reason)
		} else {
			assert.Contains(t, s.Reason, "unsupported file type")
		}
	}
}

func TestLoadDirectory_Missing(t *testing.T) {
	_, err := LoadDirectory(filepath.Join(t.TempDir(), "nope"), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read directory")
}

func TestLoadZip(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "resumes.zip")
	writeZip(t, archive, map[string]string{
		"team/zoe.txt":          "Zoe\nPython and pandas",
		"team/adam.html":        "<html><body><main><p>Adam</p><p>Go</p></main></body></html>",
		"team/notes.xlsx":       "binary",
		"team/blank.md":         "",
		"__MACOSX/team/zoe.txt": "resource fork",
		"team/.DS_Store":        "junk",
	})

	batch, err := LoadZip(archive, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, batch.Documents, 2)
	assert.Equal(t, "team/adam.html", batch.Documents[0].ID)
	assert.Equal(t, "Adam\nGo", batch.Documents[0].Text)
	assert.Equal(t, "team/zoe.txt", batch.Documents[1].ID)
	assert.Equal(t, archive+"!team/zoe.txt", batch.Metadata[1].Source)

	assert.ElementsMatch(t, []string{"team/blank.md", "team/notes.xlsx"}, skippedNames(batch))
}

func TestLoadZip_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.zip")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	_, err := LoadZip(path, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open archive")
}

func TestLoadPath(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"one.txt": "Go"})
	archive := filepath.Join(t.TempDir(), "bundle.ZIP")
	writeZip(t, archive, map[string]string{"two.txt": "Rust"})

	fromDir, err := LoadPath(dir, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, fromDir.Documents, 1)
	assert.Equal(t, "one.txt", fromDir.Documents[0].ID)

	fromZip, err := LoadPath(archive, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, fromZip.Documents, 1)
	assert.Equal(t, "two.txt", fromZip.Documents[0].ID)

	_, err = LoadPath(filepath.Join(dir, "one.txt"), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither a directory nor a .zip archive")
}
