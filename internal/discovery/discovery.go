// Package discovery turns command-line inputs into an ordered clip list.
package discovery

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	derrors "github.com/five82/drymix/internal/errors"
	"github.com/five82/drymix/internal/util"
)

// Result contains the results of input expansion with metadata.
type Result struct {
	Files        []string
	SkippedCount int
}

// FindVideoFiles finds video files in the given directory.
// Returns absolute paths sorted alphabetically by filename.
func FindVideoFiles(inputDir string) ([]string, int, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, 0, derrors.NewFilesystemError(fmt.Sprintf("directory does not exist: %s", inputDir), err)
	}
	if !info.IsDir() {
		return nil, 0, derrors.NewFilesystemError(fmt.Sprintf("%s is not a directory", inputDir), nil)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, 0, derrors.NewIOError(fmt.Sprintf("cannot read directory %s", inputDir), err)
	}

	var files []string
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(inputDir, name)
		if util.IsVideoFile(fullPath) {
			files = append(files, fullPath)
		} else {
			skipped++
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files, skipped, nil
}

// ExpandInputs resolves files and directories into one clip list. Files keep
// their given position; each directory contributes its video files sorted by
// name. Returns a no-files-found error when nothing usable remains.
func ExpandInputs(inputs []string, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	result := &Result{}

	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, derrors.NewFilesystemError(fmt.Sprintf("resolve %s", input), err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, derrors.NewFilesystemError(fmt.Sprintf("input does not exist: %s", input), err)
		}

		if !info.IsDir() {
			result.Files = append(result.Files, abs)
			continue
		}

		files, skipped, err := FindVideoFiles(abs)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, files...)
		result.SkippedCount += skipped
	}

	if len(result.Files) == 0 {
		return nil, derrors.NewNoFilesFoundError(strings.Join(inputs, ", "))
	}

	logDiscoveredFiles(result, logger)
	return result, nil
}

// logDiscoveredFiles logs the first 5 discovered files plus a count.
func logDiscoveredFiles(result *Result, logger *slog.Logger) {
	logger.Info("found clips", "count", len(result.Files), "skipped", result.SkippedCount)

	maxToLog := min(5, len(result.Files))
	for i := range maxToLog {
		logger.Debug("clip", "name", filepath.Base(result.Files[i]))
	}
	if len(result.Files) > 5 {
		logger.Debug("more clips", "remaining", len(result.Files)-5)
	}
}
