package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Uploads stores listing images on the local filesystem under a fixed
// public directory. Stored names are generated, never taken from the
// client.
type Uploads struct {
	dir string
}

func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Uploads{dir: dir}, nil
}

// Dir returns the uploads directory path.
func (u *Uploads) Dir() string {
	return u.dir
}

// Save writes the uploaded file under a uuid filename, keeping the original
// extension, and returns the stored filename.
func (u *Uploads) Save(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create stored file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write stored file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored image. A missing or empty name is not an error:
// a draft listing has no image yet.
func (u *Uploads) Remove(name string) error {
	if name == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(u.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove stored file: %w", err)
	}
	return nil
}
