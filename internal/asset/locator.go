// Package asset locates the sound file bundled next to the program.
package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultName is the bundled sound file name.
const DefaultName = "ulala.wav"

// ErrAssetNotFound is matched by NotFoundError.
var ErrAssetNotFound = errors.New("asset not found")

// NotFoundError reports a resolved asset path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Path)
}

// Is lets errors.Is match ErrAssetNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrAssetNotFound
}

// Locator resolves the asset path relative to the program's install directory.
type Locator struct {
	name string

	// executable returns the running program's path
	executable func() (string, error)
}

// NewLocator creates a locator for the named asset. An empty name uses
// DefaultName; absolute names and ~ paths are not joined to the program directory.
func NewLocator(name string) *Locator {
	if name == "" {
		name = DefaultName
	}
	return &Locator{
		name:       name,
		executable: os.Executable,
	}
}

// Dir returns the directory containing the running program, with symlinks resolved.
func (l *Locator) Dir() (string, error) {
	exe, err := l.executable()
	if err != nil {
		return "", fmt.Errorf("failed to determine program location: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Path returns the resolved asset path without checking that it exists.
func (l *Locator) Path() (string, error) {
	name := expandPath(l.name)
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}

	dir, err := l.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Abs(filepath.Join(dir, name))
}

// Locate returns the resolved asset path. It returns a *NotFoundError if
// the path does not exist or is a directory.
func (l *Locator) Locate() (string, error) {
	path, err := l.Path()
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &NotFoundError{Path: path}
	}
	return path, nil
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
