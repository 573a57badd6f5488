package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local stores files under root/<dir>/<name>.
type Local struct {
	root string
}

// NewLocal creates the upload directories under root.
func NewLocal(root string) (*Local, error) {
	for _, dir := range []string{DirUsers, DirPublications} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
		}
	}
	return &Local{root: root}, nil
}

func (l *Local) path(dir, name string) (string, error) {
	if err := validateDir(dir); err != nil {
		return "", err
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(l.root, dir, name), nil
}

// Path returns the on-disk location of dir/name.
func (l *Local) Path(dir, name string) (string, error) {
	return l.path(dir, name)
}

func (l *Local) Save(_ context.Context, dir, name string, r io.Reader) error {
	p, err := l.path(dir, name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

func (l *Local) Open(_ context.Context, dir, name string) (io.ReadCloser, error) {
	p, err := l.path(dir, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes dir/name. Removing a missing file is not an error.
func (l *Local) Remove(_ context.Context, dir, name string) error {
	p, err := l.path(dir, name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
