// Package filestorage keeps delivery uploads on the local disk.
package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/errs"
)

const timestampLayout = "20060102150405"

var _ ports.FileStorage = (*LocalStorage)(nil)

// LocalStorage writes files flat into one directory. Names have the form
// prefix[_user<id>]_<YYYYmmddHHMMSS>_<original name>, with spaces in the
// original name replaced by underscores.
type LocalStorage struct {
	dir   string
	clock kernel.Clock
}

// NewLocalStorage creates dir when it does not exist.
func NewLocalStorage(dir string, clock kernel.Clock) (*LocalStorage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errs.NewValueIsRequiredError("dir")
	}
	if clock == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, clock: clock}, nil
}

func (s *LocalStorage) Save(
	ctx context.Context,
	r io.Reader,
	originalName, prefix string,
	owner *kernel.UUID,
) (ports.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return ports.StoredFile{}, err
	}

	original := filepath.Base(strings.TrimSpace(originalName))
	if original == "." || original == string(filepath.Separator) {
		return ports.StoredFile{}, errs.NewValueIsRequiredError("originalName")
	}

	name := s.fileName(original, prefix, owner)
	dst, name, err := s.create(name)
	if err != nil {
		return ports.StoredFile{}, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, r)
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return ports.StoredFile{}, fmt.Errorf("write %s: %w", name, err)
	}

	return ports.StoredFile{Name: name, OriginalFilename: original, Size: size}, nil
}

func (s *LocalStorage) Path(name string) (string, error) {
	clean := filepath.Base(name)
	if clean != name || clean == "." || clean == ".." {
		return "", errs.NewValueIsInvalidError("name")
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *LocalStorage) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (s *LocalStorage) fileName(original, prefix string, owner *kernel.UUID) string {
	parts := make([]string, 0, 4)
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		parts = append(parts, prefix)
	}
	if owner != nil {
		parts = append(parts, "user"+owner.Short())
	}
	parts = append(parts,
		s.clock.Now().Format(timestampLayout),
		strings.ReplaceAll(original, " ", "_"),
	)
	return strings.Join(parts, "_")
}

// create opens name exclusively. Two uploads with the same name in the same
// second get a numeric suffix before the extension.
func (s *LocalStorage) create(name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name

	for i := 1; ; i++ {
		f, err := os.OpenFile(filepath.Join(s.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		switch {
		case err == nil:
			return f, candidate, nil
		case errors.Is(err, fs.ErrExist):
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		default:
			return nil, "", fmt.Errorf("create %s: %w", candidate, err)
		}
	}
}
