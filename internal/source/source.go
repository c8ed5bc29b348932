package source

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/crypto/sha3"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	// DefaultPattern matches the template files processed in a directory.
	DefaultPattern = "*.{erb,html,htm}"

	// BackupSuffix is appended to a file name to form its backup.
	BackupSuffix = ".bak"
)

// ErrNotFound is returned when a path that must exist does not.
var ErrNotFound = errors.New("path does not exist")

// Read returns the content of path as text. Invalid UTF-8 sequences are
// replaced with U+FFFD rather than failing the read.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // template paths are chosen by the user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode(data), nil
}

// Decode converts data to a string, replacing ill-formed UTF-8.
func Decode(data []byte) string {
	out, _, err := transform.Bytes(runes.ReplaceIllFormed(), data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// Write replaces the content of path, keeping its permission bits.
func Write(path, content string) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Backup copies path to a sibling file with BackupSuffix and returns the
// backup path. An existing backup is overwritten.
func Backup(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path) //nolint:gosec // template paths are chosen by the user
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	backup := path + BackupSuffix
	if err := os.WriteFile(backup, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", backup, err)
	}
	return backup, nil
}

// Hash returns the hex SHA3-256 digest of content.
func Hash(content string) string {
	sum := sha3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Exists reports whether path exists and whether it is a directory.
func Exists(path string) (exists, dir bool) {
	info, err := os.Stat(path)
	if err != nil {
		return false, false
	}
	return true, info.IsDir()
}

// ValidPattern reports whether pattern is a well-formed glob.
func ValidPattern(pattern string) bool {
	return doublestar.ValidatePattern(pattern)
}

// Expand resolves root to the list of files to process. A file root is
// returned as is. For a directory, files whose names match pattern are
// returned in lexical order; recursive also descends into subdirectories.
func Expand(root, pattern string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid file pattern %q", pattern)
	}
	if recursive {
		pattern = "**/" + pattern
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to expand %s: %w", filepath.Join(root, pattern), err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if filepath.Ext(m) == BackupSuffix {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files, nil
}

// Match reports whether path matches the glob pattern. Both use forward
// slashes after conversion.
func Match(pattern, path string) bool {
	ok, err := doublestar.Match(filepath.ToSlash(pattern), filepath.ToSlash(path))
	return err == nil && ok
}
