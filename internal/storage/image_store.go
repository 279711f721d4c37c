package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/avelarq/userbase-be/internal/validation"
	"github.com/google/uuid"
)

// ImageStore persists uploaded profile images under a fixed root directory.
// Records reference images by bare filename only; the store owns the mapping
// from filename to path.
type ImageStore struct {
	root string
}

// NewImageStore creates an ImageStore rooted at root, creating the directory
// if needed.
func NewImageStore(root string) (*ImageStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("could not create image directory %s: %w", root, err)
	}
	return &ImageStore{root: root}, nil
}

// Root returns the directory the store writes into.
func (s *ImageStore) Root() string {
	return s.root
}

// Save writes the uploaded bytes under the root and returns the stored bare
// filename. The client-supplied name is sanitized and prefixed with a short
// unique token so that two uploads with the same name never overwrite each
// other.
func (s *ImageStore) Save(filename string, r io.Reader) (string, error) {
	name := validation.SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("image filename %q is empty after sanitizing", filename)
	}
	name = fmt.Sprintf("%s_%s", uuid.New().String()[:8], name)

	f, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("could not create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name()) // Clean up partial file
		return "", fmt.Errorf("could not write image file: %w", err)
	}
	return name, nil
}

// Delete removes the named file from the store. A file that is already absent
// is not an error. Names containing path separators are rejected so a record
// can never point the store outside its root.
func (s *ImageStore) Delete(filename string) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("invalid image filename %q", filename)
	}
	err := os.Remove(filepath.Join(s.root, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete image file: %w", err)
	}
	return nil
}
