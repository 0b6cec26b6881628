// Package filestore gives the router raw access to files under a base directory.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnavailable wraps every failure of the store: a missing file, missing permissions,
	// or any other I/O error. Callers aren't supposed to tell them apart.
	ErrUnavailable = errors.New("file is unavailable")
	// ErrOutsideRoot is reported for names resolving to a path outside the base directory.
	ErrOutsideRoot = fmt.Errorf("%w: path escapes the base directory", ErrUnavailable)
)

type Store interface {
	// Read returns the whole content of the named file.
	Read(name string) ([]byte, error)
	// Write creates or truncates the named file, filling it with data.
	Write(name string, data []byte) error
}

var _ Store = Dir{}

// Dir is a Store rooted at a directory. It holds no state besides the root,
// so is safe for concurrent use.
type Dir struct {
	root string
}

// New returns a Dir rooted at root. Empty root stands for os.TempDir().
func New(root string) Dir {
	if len(root) == 0 {
		root = os.TempDir()
	}

	return Dir{root: filepath.Clean(root)}
}

// Root returns the base directory.
func (d Dir) Root() string {
	return d.root
}

func (d Dir) Read(name string) ([]byte, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return data, nil
}

func (d Dir) Write(name string, data []byte) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}

	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return nil
}

// resolve joins the name with the root, making sure the result stays within the root.
func (d Dir) resolve(name string) (string, error) {
	if len(name) == 0 {
		return "", fmt.Errorf("%w: empty file name", ErrUnavailable)
	}

	path := filepath.Join(d.root, filepath.FromSlash(name))
	rel, err := filepath.Rel(d.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}

	return path, nil
}
