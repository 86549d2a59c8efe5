package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpenRoundTrips(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	rel, err := s.Save("Engineering_TERM_1_assignments.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)

	f, err := s.Open(rel)
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestLocalStorageCleanupOlderThanRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = s.Save("old.csv", []byte("stale"))
	require.NoError(t, err)
	stale := s.Path("old.csv")
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	_, err = s.Save("fresh.csv", []byte("new"))
	require.NoError(t, err)

	deleted, err := s.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Contains(t, deleted, "old.csv")

	_, statErr := os.Stat(filepath.Join(dir, "fresh.csv"))
	assert.NoError(t, statErr)
}

func TestArtifactNameFormatsConventionalFilename(t *testing.T) {
	assert.Equal(t, "Engineering_TERM_1_assignments.csv", ArtifactName("Engineering", "TERM_1", "assignments", "csv"))
}
