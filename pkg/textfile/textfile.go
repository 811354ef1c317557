// Package textfile reads and writes whole plain-text documents.
//
// Files are read fully into memory and written with a full overwrite. There
// is no encoding negotiation and no temp-file/rename step: a failed write can
// leave a truncated file behind.
package textfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultExt  = ".txt"
	UntitledDoc = "Untitled"

	filePerm = 0o644
)

var (
	ErrEmptyPath   = errors.New("textfile: empty path")
	ErrIsDirectory = errors.New("textfile: path is a directory")
)

// Disk is the os-backed Storage used by the editor session.
type Disk struct{}

func (Disk) Load(path string) (string, error) {
	return Load(path)
}

func (Disk) Save(path, text string) error {
	return Save(path, text)
}

func Load(path string) (string, error) {
	path, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Save writes text verbatim, replacing whatever was at path. The parent
// directory must already exist.
func Save(path, text string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	return os.WriteFile(path, []byte(text), filePerm)
}

// BaseName is the tab label for a document stored at path.
func BaseName(path string) string {
	if strings.TrimSpace(path) == "" {
		return UntitledDoc
	}
	return filepath.Base(path)
}

// WithDefaultExt appends ext when path has no extension of its own.
func WithDefaultExt(path, ext string) string {
	if path == "" || ext == "" {
		return path
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if filepath.Ext(path) != "" {
		return path
	}
	return path + ext
}

func cleanPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	return filepath.Clean(path), nil
}
