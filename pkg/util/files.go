package util

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// BaseName returns the file name without directory or extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SanitizeFilename replaces characters that are unsafe in file names and
// caps the result at maxLen runes, preserving the extension.
func SanitizeFilename(name string, maxLen int) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.':
			b.WriteRune(c)
		case c == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	if maxLen > 0 && len(out) > maxLen {
		ext := filepath.Ext(out)
		keep := maxLen - len(ext)
		if keep < 1 {
			keep = 1
		}
		out = out[:keep] + ext
	}
	return out
}

// CleanupFiles removes multiple files, ignoring errors
func CleanupFiles(paths ...string) {
	for _, path := range paths {
		_ = os.Remove(path)
	}
}
