package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// New builds a disk-backed store rooted at root. Directories are created
// lazily on the first Put for a route, so constructing a store never touches
// the filesystem beyond resolving root to an absolute path.
func New(root string) (Store, error) {
	if root == "" {
		return nil, errors.New("store root required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve store root: %w", err)
	}

	return &fileStore{root: abs}, nil
}

type fileStore struct {
	root string
}

func (s *fileStore) Put(ctx context.Context, route string, content []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	filePath, err := s.entryPath(route)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", err
	}

	tempFile, err := os.CreateTemp(filepath.Dir(filePath), ".resave-*")
	if err != nil {
		return "", err
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(content)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return "", err
	}

	if err := os.Rename(tempName, filePath); err != nil {
		os.Remove(tempName)
		return "", err
	}

	return filePath, nil
}

// entryPath maps a request route onto a file below the store root. Routes
// are cleaned rooted at "/" first, so "../" segments collapse instead of
// escaping the root.
func (s *fileStore) entryPath(route string) (string, error) {
	if route == "" {
		return "", ErrInvalidRoute
	}

	rel := strings.TrimPrefix(path.Clean("/"+route), "/")
	if rel == "" {
		return "", ErrInvalidRoute
	}

	filePath := filepath.Join(s.root, filepath.FromSlash(rel))
	if !strings.HasPrefix(filePath, s.root+string(filepath.Separator)) {
		return "", ErrInvalidRoute
	}
	return filePath, nil
}
