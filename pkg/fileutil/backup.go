package fileutil

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mcpdock/mcpdock/internal/errors"
)

// DefaultBackupRetention is the number of backups kept per file.
const DefaultBackupRetention = 5

// BackupFile copies path into backupDir before a destructive write.
// The backup is named <base>.<timestamp>.bak. A missing source file is
// not an error (there is nothing to back up). Old backups beyond
// DefaultBackupRetention are pruned, oldest first.
//
// Returns the path of the created backup, or "" when nothing was backed up.
func BackupFile(path, backupDir string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "opening file for backup")
	}
	defer src.Close()

	if err := os.MkdirAll(backupDir, 0o700); err != nil {
		return "", errors.Wrap(err, "creating backup directory")
	}

	base := filepath.Base(path)
	stamp := time.Now().UTC().Format("20060102T150405")
	dst := filepath.Join(backupDir, base+"."+stamp+".bak")

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", errors.Wrap(err, "creating backup file")
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return "", errors.Wrap(err, "copying backup data")
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrap(err, "closing backup file")
	}

	pruneBackups(backupDir, base, DefaultBackupRetention)

	return dst, nil
}

// pruneBackups removes backups of base beyond keep, oldest first.
// Prune failures are ignored; stale backups are harmless.
func pruneBackups(backupDir, base string, keep int) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return
	}

	var backups []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, base+".") && strings.HasSuffix(name, ".bak") {
			backups = append(backups, name)
		}
	}

	if len(backups) <= keep {
		return
	}

	// Timestamp format sorts lexicographically.
	sort.Strings(backups)
	for _, name := range backups[:len(backups)-keep] {
		os.Remove(filepath.Join(backupDir, name))
	}
}
