package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/driftpad/driftpad/internal/domain"
)

// FilePointerStore is the legacy pointer backend: a single file holding the
// welcome document id on its first line. Read and Initialize are separate
// operations with no locking, so two concurrent first bootstraps can both
// observe an absent pointer and the second Initialize overwrites the first
// (last-writer-wins). Deployments using this backend assume a single writer;
// prefer the redis backend otherwise.
type FilePointerStore struct {
	path string
}

func NewFilePointerStore(path string) *FilePointerStore {
	return &FilePointerStore{path: path}
}

func (s *FilePointerStore) Read(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.NotFoundError{Resource: "welcome document pointer"}
		}
		return "", err
	}

	id, _, _ := strings.Cut(string(data), "\n")
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.NotFoundError{Resource: "welcome document pointer"}
	}
	return id, nil
}

func (s *FilePointerStore) Initialize(ctx context.Context, id string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(s.path, []byte(id+"\n"), 0o644); err != nil {
		return "", err
	}
	return id, nil
}
