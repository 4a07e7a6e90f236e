package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrWrite  = errors.New("artifact write failed")
	ErrDelete = errors.New("artifact delete failed")
)

// Store is a flat directory of misclassification images named incorrect_<n>.png.
// It does no locking of its own; the owner serializes access.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not make artifact dir '%s': %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Name is the file name of the n-th misclassification.
func Name(n int) string {
	return fmt.Sprintf("incorrect_%d.png", n)
}

func (s *Store) Path(n int) string {
	return filepath.Join(s.dir, Name(n))
}

// Write stores data as the n-th artifact, replacing any file of the same name.
func (s *Store) Write(n int, data []byte) error {
	path := s.Path(n)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: '%s': %v", ErrWrite, path, err)
	}
	return nil
}

// Clear removes every regular file and symlink in the directory.
// It keeps going past individual failures and returns one error per entry it could not remove.
// Sub-directories are left in place.
func (s *Store) Clear() []error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return []error{fmt.Errorf("%w: could not list '%s': %v", ErrDelete, s.dir, err)}
	}

	var errs []error
	for _, entry := range entries {
		mode := entry.Type()
		if !mode.IsRegular() && mode&os.ModeSymlink == 0 {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrDelete, path, err))
		}
	}
	return errs
}

// List returns the names of the files currently in the directory.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
