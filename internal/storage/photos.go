package storage

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PhotoStore owns the image files referenced by product records. Photos
// arrive in a staging directory and are moved to the permanent one when
// the record is actually saved; abandoned uploads never pollute the
// permanent dir. The database stores only the final path.
type PhotoStore struct {
	stagingDir string
	photoDir   string
}

func NewPhotoStore(baseDir string) (*PhotoStore, error) {
	s := &PhotoStore{
		stagingDir: filepath.Join(baseDir, "staging"),
		photoDir:   filepath.Join(baseDir, "photos"),
	}
	for _, dir := range []string{s.stagingDir, s.photoDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create photo dir %s: %w", dir, err)
		}
	}
	return s, nil
}

// PhotoDir is the permanent directory, exposed for static serving.
func (s *PhotoStore) PhotoDir() string { return s.photoDir }

// SaveStaged writes an uploaded image into the staging directory and
// returns its path. The extension is kept, the name is not: uploads
// must never be able to choose their own file names.
func (s *PhotoStore) SaveStaged(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(s.stagingDir, uuid.New().String()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// contains reports whether path sits inside dir. Plain prefix checks
// are not enough: "../" segments must not escape the store.
func (s *PhotoStore) contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Promote moves a staged photo into the permanent directory and returns
// the new path. A path already in the permanent directory (an unchanged
// photo on edit) is returned as-is. The path comes from the client, so
// anything outside the store's own directories is rejected outright.
func (s *PhotoStore) Promote(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if s.contains(s.photoDir, path) {
		return path, nil
	}
	if !s.contains(s.stagingDir, path) {
		return "", fmt.Errorf("photo path %q is not managed by this store", path)
	}

	dest := filepath.Join(s.photoDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("promote photo: %w", err)
	}
	return dest, nil
}

// Remove deletes a photo file best-effort. A record can always be
// deleted even when its image is already gone. Only files inside the
// store's own directories are ever touched.
func (s *PhotoStore) Remove(path string) {
	if path == "" {
		return
	}
	if !s.contains(s.photoDir, path) && !s.contains(s.stagingDir, path) {
		log.Printf("photos: refusing to remove unmanaged path %s", path)
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("photos: failed to remove %s: %v", path, err)
	}
}
