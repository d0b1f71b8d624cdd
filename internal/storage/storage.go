package storage

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// MediaStore is the boundary to the media service. The core only holds opaque
// path strings and asks for deletion when a record is removed or its image
// replaced; it never reads file bytes.
type MediaStore interface {
	Delete(path string) error
}

type localStore struct {
	root string
}

// NewLocalStore returns a MediaStore rooted at the given directory.
func NewLocalStore(root string) MediaStore {
	return &localStore{root: root}
}

func (s *localStore) Delete(path string) error {
	if path == "" {
		return nil
	}
	// Refuse anything escaping the media root.
	clean := filepath.Clean(path)
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		log.Printf("media store: refusing suspicious path %q", path)
		return nil
	}
	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
