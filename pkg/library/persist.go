package library

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// StorageKey is the fixed name of the single persisted library record.
const StorageKey = "graphic_designs.json"

// Record reads and writes the persisted library document. The whole
// collection is always serialized as one JSON array; there is no per-entry
// storage.
type Record interface {
	Read() ([]SavedDesign, error)
	Write(designs []SavedDesign) error
}

// FileRecord keeps the library record in a single file under dir.
type FileRecord struct {
	dir string
}

func NewFileRecord(dir string) *FileRecord {
	return &FileRecord{dir: dir}
}

func (r *FileRecord) path() string { return filepath.Join(r.dir, StorageKey) }

// Read returns the persisted collection. A missing record yields an empty
// collection and no error; a malformed one yields an error for the caller to
// log and recover from.
func (r *FileRecord) Read() ([]SavedDesign, error) {
	b, err := os.ReadFile(r.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "read library record")
	}
	var designs []SavedDesign
	if err := json.Unmarshal(b, &designs); err != nil {
		return nil, errors.Wrap(err, "unmarshal library record")
	}
	return designs, nil
}

func (r *FileRecord) Write(designs []SavedDesign) error {
	b, err := json.Marshal(designs)
	if err != nil {
		return errors.Wrap(err, "marshal library record")
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return errors.Wrap(err, "create library dir")
	}
	if err := os.WriteFile(r.path(), b, 0o644); err != nil {
		return errors.Wrap(err, "write library record")
	}
	return nil
}
