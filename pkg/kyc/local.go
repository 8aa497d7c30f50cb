package kyc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader keeps documents on the local filesystem. Development only.
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader stores documents under dir and builds URLs from baseURL.
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalUploader{dir: dir, baseURL: baseURL}, nil
}

// Upload writes the document under the key's relative path.
func (u *LocalUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	target := filepath.Join(u.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create document dir: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create document file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return u.baseURL + key, nil
}
