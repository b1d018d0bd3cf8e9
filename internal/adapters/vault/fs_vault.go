package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
)

var _ domain.Vault = (*FSVault)(nil)

// FSVault serves a vault that lives in a directory on disk.
type FSVault struct {
	root string
}

func NewFSVault(root string) (*FSVault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open vault root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", abs)
	}

	return &FSVault{root: abs}, nil
}

func (v *FSVault) Root() string {
	return v.root
}

func (v *FSVault) resolve(p string) (string, error) {
	full := filepath.Join(v.root, filepath.FromSlash(domain.CleanPath(p)))
	if full != v.root && !strings.HasPrefix(full, v.root+string(filepath.Separator)) {
		return "", domain.ErrPathOutsideVault
	}
	return full, nil
}

// Rel converts an absolute OS path under the root back to a vault path.
func (v *FSVault) Rel(osPath string) (string, error) {
	rel, err := filepath.Rel(v.root, osPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", domain.ErrPathOutsideVault
	}
	return filepath.ToSlash(rel), nil
}

func (v *FSVault) Stat(ctx context.Context, p string) (domain.EntryKind, error) {
	full, err := v.resolve(p)
	if err != nil {
		return domain.EntryNone, err
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.EntryNone, nil
	}
	if err != nil {
		return domain.EntryNone, err
	}
	if info.IsDir() {
		return domain.EntryFolder, nil
	}
	return domain.EntryFile, nil
}

func (v *FSVault) Read(ctx context.Context, p string) (string, error) {
	full, err := v.resolve(p)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", translate(err)
	}
	return string(data), nil
}

func (v *FSVault) Write(ctx context.Context, p, content string) error {
	full, err := v.resolve(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return translate(err)
	}
	return nil
}

func (v *FSVault) Append(ctx context.Context, p, text string) error {
	full, err := v.resolve(p)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(full, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return translate(err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("append %s: %w", p, err)
	}
	return nil
}

func (v *FSVault) CreateFolder(ctx context.Context, p string) error {
	full, err := v.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Mkdir(full, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.ErrFolderExists
		}
		return translate(err)
	}
	return nil
}

func (v *FSVault) CreateFile(ctx context.Context, p, content string) error {
	full, err := v.resolve(p)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.ErrFileExists
		}
		return translate(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("create %s: %w", p, err)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrFileNotFound, err)
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && strings.Contains(pathErr.Err.Error(), "is a directory") {
		return domain.ErrNotAFile
	}
	return err
}
