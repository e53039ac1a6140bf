package mirror

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"kasirpos/internal/domain"
	"kasirpos/internal/store"
)

func TestFileLoadBackupMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "backup.json"), zerolog.Nop())

	if _, err := f.LoadBackup(); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing backup, got %v", err)
	}
}

func TestFileBackupRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	f := NewFile(path, zerolog.Nop())

	state := domain.Seed()
	state.Menu[0].Stock = 17
	f.SaveBackup(state)

	loaded, err := f.LoadBackup()
	if err != nil {
		t.Fatalf("load backup failed: %v", err)
	}
	if got := loaded.FindMenu("m1").Stock; got != 17 {
		t.Fatalf("expected stock 17 from backup, got %d", got)
	}

	// Later writes replace the backup wholesale.
	state.Menu[0].Stock = 3
	f.SaveBackup(state)

	loaded, err = f.LoadBackup()
	if err != nil {
		t.Fatalf("load backup failed: %v", err)
	}
	if got := loaded.FindMenu("m1").Stock; got != 3 {
		t.Fatalf("expected stock 3 after second backup, got %d", got)
	}
}

func TestFileSaveBackupLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	f := NewFile(path, zerolog.Nop())

	f.SaveBackup(domain.Seed())

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind after rename")
	}
}

func TestFileSaveBackupSwallowsWriteFailure(t *testing.T) {
	// Directory does not exist, so the write fails. SaveBackup must not panic
	// and must not report the failure.
	f := NewFile(filepath.Join(t.TempDir(), "missing", "backup.json"), zerolog.Nop())
	f.SaveBackup(domain.Seed())
}

func TestFileLoadBackupCorruptPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewFile(path, zerolog.Nop())
	if _, err := f.LoadBackup(); err == nil {
		t.Fatalf("expected decode error for corrupt backup")
	}
}

func TestMultiFansOutAndFallsThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	file := NewFile(path, zerolog.Nop())
	m := Multi{store.NopMirror{}, file}

	state := domain.Seed()
	state.Menu[0].Stock = 9
	m.SaveBackup(state)

	// NopMirror has nothing, so LoadBackup falls through to the file.
	loaded, err := m.LoadBackup()
	if err != nil {
		t.Fatalf("load backup failed: %v", err)
	}
	if got := loaded.FindMenu("m1").Stock; got != 9 {
		t.Fatalf("expected fan-out write readable through Multi, got stock %d", got)
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "backup.json")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir failed: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("directory not created: %v", err)
	}
}
