// Package storage persists generation artifacts (exported CSV/PDF files,
// spec §4.12) to a base-dir-scoped location on disk, adapted from the
// teacher's pkg/storage.LocalStorage. The signed-URL download token half
// of the teacher's package is dropped — it exists to hand out browser
// download links from an HTTP handler, and this core has no HTTP boundary
// (see Non-goals).
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// LocalStorage writes generation artifacts under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./artifacts"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create artifacts directory")
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes `data` to the given relative path under the base dir,
// creating any intermediate directories, and returns the relative path.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := s.resolve(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "prepare artifact directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write artifact file")
	}
	return filename, nil
}

// Open returns a read-only handle for a stored artifact.
func (s *LocalStorage) Open(filename string) (*os.File, error) {
	file, err := os.Open(s.resolve(filename))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "open artifact file")
	}
	return file, nil
}

// Delete removes a stored artifact if present.
func (s *LocalStorage) Delete(filename string) error {
	if err := os.Remove(s.resolve(filename)); err != nil && !os.IsNotExist(err) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete artifact file")
	}
	return nil
}

// CleanupOlderThan removes artifacts last modified before `ttl` ago and
// returns their relative paths. The CLI subcommands do not call it.
func (s *LocalStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	deleted := make([]string, 0)
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			rel = path
		}
		deleted = append(deleted, rel)
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "cleanup artifacts")
	}
	return deleted, nil
}

// Path exposes the resolved absolute path for a stored artifact.
func (s *LocalStorage) Path(filename string) string {
	return s.resolve(filename)
}

func (s *LocalStorage) resolve(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(s.baseDir, filename)
}

// ArtifactName builds the conventional export filename for one
// faculty/term/kind combination, e.g. "Engineering_TERM_1_assignments.csv".
func ArtifactName(faculty, term, kind, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", faculty, term, kind, ext)
}
