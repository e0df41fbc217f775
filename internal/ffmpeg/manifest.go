package ffmpeg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FormatConcatManifest renders clips as a concat demuxer list with absolute
// forward-slash paths. Single quotes are escaped for the demuxer's quoting.
func FormatConcatManifest(clips []string) (string, error) {
	var b strings.Builder
	for _, clip := range clips {
		abs, err := filepath.Abs(clip)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", clip, err)
		}
		escaped := strings.ReplaceAll(filepath.ToSlash(abs), "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	return b.String(), nil
}

// WriteConcatManifest writes the concat list for clips to dest.
func WriteConcatManifest(clips []string, dest string) error {
	content, err := FormatConcatManifest(clips)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
