package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores blobs as flat files under a single directory, named by token.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Store(_ context.Context, data []byte, ext string) (string, error) {
	token := uuid.NewString() + normalizeExt(ext)
	if err := os.WriteFile(filepath.Join(l.dir, token), data, 0o644); err != nil {
		return "", err
	}
	return token, nil
}

func (l *Local) Retrieve(_ context.Context, token string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, filepath.Base(token)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (l *Local) Remove(_ context.Context, token string) error {
	err := os.Remove(filepath.Join(l.dir, filepath.Base(token)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func normalizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.ToLower(ext)
}
