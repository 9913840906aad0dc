package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path under which stored attachments are addressed
const URLPrefix = "/uploads/"

// ErrInvalidObjectPath is returned for object paths that escape the store
var ErrInvalidObjectPath = errors.New("invalid object path")

// FileRepository defines the interface for attachment storage operations
type FileRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	// GenerateURL returns a URL the client can fetch the object from
	GenerateURL(ctx context.Context, objectPath string) (string, error)
}

// LocalFileRepository stores attachments in a directory served under URLPrefix
type LocalFileRepository struct {
	dir string
}

// NewLocalFileRepository creates the upload directory if needed
func NewLocalFileRepository(dir string) (*LocalFileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalFileRepository{dir: dir}, nil
}

// Dir returns the directory the repository writes to
func (r *LocalFileRepository) Dir() string {
	return r.dir
}

// Upload writes data to dir/objectPath and returns the object path
func (r *LocalFileRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	target, err := r.resolve(objectPath)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return objectPath, nil
}

// Delete removes a stored file; a missing file is not an error
func (r *LocalFileRepository) Delete(ctx context.Context, objectPath string) error {
	target, err := r.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GenerateURL returns the static path the file is served from
func (r *LocalFileRepository) GenerateURL(ctx context.Context, objectPath string) (string, error) {
	return URLPrefix + objectPath, nil
}

func (r *LocalFileRepository) resolve(objectPath string) (string, error) {
	clean := path.Clean("/" + objectPath)
	if clean == "/" || strings.Contains(objectPath, "..") {
		return "", ErrInvalidObjectPath
	}
	return filepath.Join(r.dir, filepath.FromSlash(clean)), nil
}

// GenerateObjectPath creates a unique object name keeping the original extension
func GenerateObjectPath(ext string) string {
	return uuid.New().String() + strings.ToLower(ext)
}

// ObjectPathFromReference extracts the object path from a stored file reference.
// It returns "" when the reference does not point into the store.
func ObjectPathFromReference(ref string) string {
	if !strings.HasPrefix(ref, URLPrefix) {
		return ""
	}
	return strings.TrimPrefix(ref, URLPrefix)
}
