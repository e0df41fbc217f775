package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// WorkRootName is the directory created inside the output directory for per-job state.
const WorkRootName = "_drymix_work"

// WorkRoot returns the shared work directory for outDir.
func WorkRoot(outDir string) string {
	return filepath.Join(outDir, WorkRootName)
}

// JobWorkDir returns the work directory for the 1-based job index.
func JobWorkDir(outDir string, index int) string {
	return filepath.Join(WorkRoot(outDir), fmt.Sprintf("job_%03d", index))
}

// PrepareWorkDir creates a fresh, empty job work directory.
func PrepareWorkDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return EnsureDirectory(dir)
}

// RemoveWorkDir removes a job work directory and then the shared root if it is empty.
func RemoveWorkDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	// Fails harmlessly while other job dirs remain.
	_ = os.Remove(filepath.Dir(dir))
	return nil
}

// EnsureDirectoryWritable verifies that path is a directory a file can be created in.
func EnsureDirectoryWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}

	f, err := os.CreateTemp(path, ".drymix_probe_*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", path, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
