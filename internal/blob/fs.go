package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rsharma2005/civicbridge/internal/filex"
)

// FSStore copies attachments into a local directory. Files are stored under
// a generated name so two uploads of "report.pdf" never collide; the
// original base name is kept as a suffix for readability.
type FSStore struct {
	dir string
}

// NewFSStore opens (creating if needed) an attachment directory.
func NewFSStore(dir string) (*FSStore, error) {
	d, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("attachments dir: %w", err)
	}
	return &FSStore{dir: d}, nil
}

func (s *FSStore) Put(ctx context.Context, sourcePath string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + "-" + filepath.Base(sourcePath)
	destPath := filepath.Join(s.dir, name)

	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
	if err != nil {
		return "", fmt.Errorf("create attachment: %w", err)
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		os.Remove(destPath)
		return "", fmt.Errorf("copy attachment: %w", err)
	}
	if err := dest.Close(); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("close attachment: %w", err)
	}

	abs, err := filepath.Abs(destPath)
	if err != nil {
		return "", fmt.Errorf("resolve attachment path: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
