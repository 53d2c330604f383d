package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore keeps the raw uploaded files on disk, one directory per user.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at the given directory.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

// EnsureUser provisions the per-user directory. Safe to call repeatedly.
func (f *FileStore) EnsureUser(username string) error {
	if err := os.MkdirAll(f.userDir(username), 0755); err != nil {
		return fmt.Errorf("failed to create user storage: %w", err)
	}
	return nil
}

// Save writes an uploaded file under the user's directory and returns the
// number of bytes written.
func (f *FileStore) Save(username, docID, fileType string, r io.Reader) (int64, error) {
	if err := f.EnsureUser(username); err != nil {
		return 0, err
	}

	path := f.Path(username, docID, fileType)
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	n, err := io.Copy(out, r)
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return n, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (f *FileStore) Remove(username, docID, fileType string) error {
	err := os.Remove(f.Path(username, docID, fileType))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// Path returns the on-disk location of a stored file.
func (f *FileStore) Path(username, docID, fileType string) string {
	return filepath.Join(f.userDir(username), docID+"."+fileType)
}

func (f *FileStore) userDir(username string) string {
	return filepath.Join(f.root, username)
}
