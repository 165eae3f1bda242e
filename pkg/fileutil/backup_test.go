package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBackupFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "claude_desktop_config.json")
	backupDir := filepath.Join(dir, "backups")

	if err := os.WriteFile(src, []byte(`{"mcpServers":{}}`), 0o600); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	backup, err := BackupFile(src, backupDir)
	if err != nil {
		t.Fatalf("BackupFile() error = %v", err)
	}
	if backup == "" {
		t.Fatal("BackupFile() returned empty path for existing source")
	}
	if !strings.HasSuffix(backup, ".bak") {
		t.Errorf("backup name = %q, want .bak suffix", backup)
	}

	data, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if string(data) != `{"mcpServers":{}}` {
		t.Errorf("backup content = %q", data)
	}
}

func TestBackupFile_MissingSource(t *testing.T) {
	dir := t.TempDir()

	backup, err := BackupFile(filepath.Join(dir, "nope.json"), filepath.Join(dir, "backups"))
	if err != nil {
		t.Fatalf("BackupFile() error = %v, want nil for missing source", err)
	}
	if backup != "" {
		t.Errorf("BackupFile() = %q, want empty for missing source", backup)
	}
}
