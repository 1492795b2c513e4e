// Package fs stores process state on the local filesystem.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bft-labs/telebus/internal/domain"
)

const statusFileName = "status.json"

// StatusFile implements ports.StatusRepository using a JSON file.
type StatusFile struct {
	dir string
}

// NewStatusFile creates a StatusFile stored in dir.
func NewStatusFile(dir string) *StatusFile {
	return &StatusFile{dir: dir}
}

// Load reads the last saved status.
// Returns a zero status and nil error if no status file exists.
func (f *StatusFile) Load(ctx context.Context) (domain.SupervisorStatus, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.SupervisorStatus{}, nil
		}
		return domain.SupervisorStatus{}, err
	}

	var status domain.SupervisorStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return domain.SupervisorStatus{}, err
	}
	return status, nil
}

// Save persists status atomically.
func (f *StatusFile) Save(ctx context.Context, status domain.SupervisorStatus) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}

	path := f.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Path returns the full path to the status file.
func (f *StatusFile) Path() string {
	return filepath.Join(f.dir, statusFileName)
}
