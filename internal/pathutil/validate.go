// Package pathutil confines file reads requested by MCP clients to a set of
// allowed directories.
package pathutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MaxTextSize is the default cap on a file read by ReadText.
const MaxTextSize = 4 << 20

// ErrOutsideAllowed is returned when a path escapes every allowed directory.
var ErrOutsideAllowed = errors.New("path is outside allowed directories")

// ErrTooLarge is returned when a file exceeds the read limit.
var ErrTooLarge = errors.New("file too large")

// RedactPath reduces a full path to .../<parent>/<basename> for safe error messages.
// For example, "/home/user/scripts/ep01.txt" becomes ".../scripts/ep01.txt".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	parent := filepath.Base(dir)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// AllowedDirs makes each root absolute, dropping empty entries.
// With no usable roots it falls back to the working directory.
func AllowedDirs(roots ...string) ([]string, error) {
	var dirs []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", RedactPath(root), err)
		}
		dirs = append(dirs, abs)
	}
	if len(dirs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		dirs = append(dirs, wd)
	}
	return dirs, nil
}

// ValidatePath checks that a file path is within one of the allowed directories
// and returns its resolved form. Relative paths are taken against the first
// allowed directory. Symlinks are resolved before the check.
func ValidatePath(path string, allowedDirs []string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path validation failed: path is empty")
	}
	if len(allowedDirs) == 0 {
		return "", fmt.Errorf("path validation failed: no allowed directories configured")
	}
	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("path validation failed: path contains null byte")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(allowedDirs[0], path)
	}
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("path validation failed: cannot resolve absolute path: %w", err)
	}

	resolvedPath, err := resolveExisting(absPath)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}

	for _, allowed := range allowedDirs {
		allowedAbs, err := filepath.Abs(filepath.Clean(allowed))
		if err != nil {
			continue
		}
		allowedResolved, err := resolveExisting(allowedAbs)
		if err != nil {
			continue
		}
		if isSubpath(resolvedPath, allowedResolved) {
			return resolvedPath, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrOutsideAllowed, RedactPath(absPath))
}

// ReadText validates path against allowedDirs and returns the file content.
// Files larger than limit bytes are rejected; limit <= 0 means MaxTextSize.
func ReadText(path string, allowedDirs []string, limit int64) (string, error) {
	if limit <= 0 {
		limit = MaxTextSize
	}

	resolved, err := ValidatePath(path, allowedDirs)
	if err != nil {
		return "", err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", RedactPath(resolved), pathCause(err))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", RedactPath(resolved), pathCause(err))
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, RedactPath(resolved), limit)
	}
	return string(data), nil
}

// pathCause strips the unredacted path an *fs.PathError carries.
func pathCause(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

// resolveExisting resolves symlinks on the deepest existing ancestor of
// path and re-appends the part that does not exist yet.
func resolveExisting(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	parent := filepath.Dir(path)
	if parent == path {
		return "", fmt.Errorf("cannot resolve path: %s", RedactPath(path))
	}

	resolvedParent, err := resolveExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(path)), nil
}

// isSubpath checks whether path is equal to or a subdirectory of base.
func isSubpath(path, base string) bool {
	if path == base {
		return true
	}
	// "/tmp/foo" must not match "/tmp/foobar".
	prefix := base + string(os.PathSeparator)
	return strings.HasPrefix(path, prefix)
}
