package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bastiangx/spelldict/internal/utils"
)

// ErrStorage is matched by every *StorageError.
var ErrStorage = errors.New("dictionary storage error")

// StorageError reports a failure of the dictionary directory itself, as
// opposed to bad dictionary content. The usual remedy is fixing the
// directory's existence or permissions.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Hint is a short remediation message for users.
func (e *StorageError) Hint() string {
	folder := e.folder()
	switch {
	case errors.Is(e.Err, fs.ErrNotExist) && (e.Op == "read" || e.Op == "rename"):
		return "Missing dictionary file: " + e.Path
	case errors.Is(e.Err, fs.ErrNotExist):
		return "Missing dictionary folder: " + folder
	case errors.Is(e.Err, fs.ErrPermission):
		return "No read/write permission to dictionary folder: " + folder
	}
	return "Dictionary folder is not accessible: " + folder
}

// folder is the directory the failed operation was working in. List,
// create and watch operate on the directory itself.
func (e *StorageError) folder() string {
	switch e.Op {
	case "list", "create", "watch":
		return e.Path
	}
	return filepath.Dir(e.Path)
}

// Store is the directory holding dictionary files.
type Store interface {
	// List returns the file names in the store, sorted.
	List() ([]string, error)
	Rename(from, to string) error
	Read(name string) ([]byte, error)
	// Replace swaps the content of name in one step; readers see either
	// the old or the new bytes.
	Replace(name string, data []byte) error
	// Remove deletes name; a missing file is not an error.
	Remove(name string) error
	Path(name string) string
}

// DirStore is a Store over a filesystem directory.
type DirStore struct {
	Dir string
}

// NewDirStore returns a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir}
}

func (s *DirStore) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

func (s *DirStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, &StorageError{Op: "list", Path: s.Dir, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *DirStore) Rename(from, to string) error {
	if err := os.Rename(s.Path(from), s.Path(to)); err != nil {
		return &StorageError{Op: "rename", Path: s.Path(from), Err: err}
	}
	return nil
}

func (s *DirStore) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, &StorageError{Op: "read", Path: s.Path(name), Err: err}
	}
	return data, nil
}

func (s *DirStore) Replace(name string, data []byte) error {
	if err := utils.WriteFileAtomic(s.Path(name), data, 0o644); err != nil {
		return &StorageError{Op: "write", Path: s.Path(name), Err: err}
	}
	return nil
}

func (s *DirStore) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StorageError{Op: "remove", Path: s.Path(name), Err: err}
	}
	return nil
}

// Ensure creates the directory when it is missing.
func (s *DirStore) Ensure() error {
	if err := utils.EnsureDir(s.Dir); err != nil {
		return &StorageError{Op: "create", Path: s.Dir, Err: err}
	}
	return nil
}
