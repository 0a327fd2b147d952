package profile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/snapline/pkg/errors"
)

// FileStore keeps one JSON document per profile in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in dir, creating the directory if it
// doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create profile dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory profiles are stored in.
func (s *FileStore) Dir() string { return s.dir }

// Load reads the profile file.
func (s *FileStore) Load(ctx context.Context, name string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStorage, err, "read profile %s", name)
	}
	return data, true, nil
}

// Save writes the profile file atomically through a temporary file in the
// same directory.
func (s *FileStore) Save(ctx context.Context, name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save profile %s", name)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "save profile %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save profile %s", name)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save profile %s", name)
	}
	return nil
}

// Delete removes the profile file.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return errors.Wrap(errors.ErrCodeStorage, err, "delete profile %s", name)
}

// Close does nothing for file store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
