package db

import (
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// BackupPath is where Backup writes the copy of the database at path.
func BackupPath(path string) string {
	return path + ".bak"
}

// CopyFile replaces dst with the contents of src. A reader of dst sees either
// the old file or the complete new one.
func CopyFile(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()

	if err := atomic.WriteFile(dst, f); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
