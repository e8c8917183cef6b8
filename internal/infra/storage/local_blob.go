package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// レシートをローカルディスクに置くBlobStorage実装。
// /receipts/<name> をstaticで配信する前提で、公開URLを返す。
type LocalBlobStorage struct {
	dir     string
	baseURL string
}

func NewLocalBlobStorage(dir string, baseURL string) (*LocalBlobStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt dir: %w", err)
	}
	return &LocalBlobStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalBlobStorage) Upload(ctx context.Context, name string, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	//パス区切りを含む名前は受け付けない
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid blob name %q", name)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close blob: %w", err)
	}

	return s.baseURL + "/receipts/" + name, nil
}
