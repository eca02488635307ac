package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type localStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage keeps files under root and links them as baseURL/key.
// The HTTP layer is expected to serve root at baseURL.
func NewLocalStorage(root, baseURL string) Storage {
	return &localStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (l *localStorage) UploadBytes(_ context.Context, name string, data []byte, folder string, allowTypes ...string) (string, error) {
	key, _, err := objectKey(name, data, folder, allowTypes)
	if err != nil {
		return "", err
	}

	path := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

func (l *localStorage) DeleteFile(_ context.Context, objectKey string) error {
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(objectKey)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (l *localStorage) GetPublicLinkKey(objectKey string) string {
	return l.baseURL + "/" + objectKey
}

func (l *localStorage) GetObjectKeyFromLink(link string) string {
	prefix := l.baseURL + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
