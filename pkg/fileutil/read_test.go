package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcpdock/mcpdock/internal/errors"
)

func TestReadFileWithLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"ok":true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := ReadFileWithLimit(path)
	if err != nil {
		t.Fatalf("ReadFileWithLimit() error = %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("data = %q", data)
	}
}

func TestReadFileWithLimit_MissingFile(t *testing.T) {
	_, err := ReadFileWithLimit(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("ReadFileWithLimit() succeeded on a missing file")
	}
	// Callers distinguish first-run (no file yet) from real I/O failures
	// through the chain, so the wrap must keep fs.ErrNotExist reachable.
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("errors.Is(err, fs.ErrNotExist) = false, err = %v", err)
	}
}
