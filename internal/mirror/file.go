// Package mirror provides best-effort secondary copies of the state record.
// A mirror write runs after every durable save attempt, success or not, and
// never reports failure to the caller: losing the mirror must not block the
// primary write path.
package mirror

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"kasirpos/internal/domain"
	"kasirpos/internal/store"
)

// File keeps the backup as one JSON document on disk. It is read back only
// when the durable store has nothing usable at startup.
type File struct {
	path string
	log  zerolog.Logger
}

func NewFile(path string, log zerolog.Logger) *File {
	return &File{path: path, log: log.With().Str("component", "mirror").Logger()}
}

// SaveBackup writes the state to a temp file and renames it into place, so a
// torn write never replaces a good backup with a partial one. Errors are
// swallowed.
func (f *File) SaveBackup(state domain.AppState) {
	payload, err := json.Marshal(state)
	if err != nil {
		f.log.Debug().Err(err).Msg("backup encode failed")
		return
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		f.log.Debug().Err(err).Msg("backup write failed")
		return
	}
	if err := os.Rename(tmp, f.path); err != nil {
		f.log.Debug().Err(err).Msg("backup rename failed")
	}
}

// LoadBackup returns the mirrored state, or store.ErrNotFound when no backup
// exists.
func (f *File) LoadBackup() (*domain.AppState, error) {
	payload, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	var state domain.AppState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	return &state, nil
}

// EnsureDir creates the directory holding path, for first runs in a fresh
// data directory.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
