package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// VideoExtensions is the list of supported clip file extensions.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".avi":  true,
	".m4v":  true,
	".webm": true,
	".ts":   true,
	".m2ts": true,
	".mpg":  true,
	".mpeg": true,
	".wmv":  true,
	".flv":  true,
}

// AudioExtensions is the list of extensions accepted for an external audio track.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".aac":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
}

// IsVideoFile checks if the given path is an existing file with a clip extension.
func IsVideoFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	return VideoExtensions[ext]
}

// IsAudioFile checks if the given path has an audio track extension.
func IsAudioFile(path string) bool {
	return AudioExtensions[strings.ToLower(filepath.Ext(path))]
}

// GetFilename returns the filename from a path.
func GetFilename(path string) string {
	return filepath.Base(path)
}

// EnsureDirectory creates a directory if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// DirectoryExists checks if a directory exists.
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// NumberedOutputPath returns the output path for job index (1-based) out of total.
// A single job writes to base unchanged; otherwise the index is appended to the stem.
// A base without an extension gets ".mp4".
func NumberedOutputPath(base string, index, total int) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".mp4"
	}
	if total <= 1 {
		return stem + ext
	}
	return fmt.Sprintf("%s_%d%s", stem, index, ext)
}
