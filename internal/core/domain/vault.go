package domain

import (
	"context"
	"errors"
	"path"
	"strings"
)

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrFileExists       = errors.New("file already exists")
	ErrFolderExists     = errors.New("folder already exists")
	ErrNotAFile         = errors.New("path is not a file")
	ErrPathOutsideVault = errors.New("path escapes the vault root")
)

type EntryKind int

const (
	EntryNone EntryKind = iota
	EntryFile
	EntryFolder
)

// Vault is the host file store. Paths are slash separated and relative to
// the vault root.
type Vault interface {
	// Stat reports what lives at path, EntryNone when nothing does.
	Stat(ctx context.Context, path string) (EntryKind, error)

	// Read returns the full text of a file.
	Read(ctx context.Context, path string) (string, error)

	// Write replaces the content of a file, creating it if needed.
	// The parent folder must exist.
	Write(ctx context.Context, path, content string) error

	// Append adds text to the end of an existing file.
	Append(ctx context.Context, path, text string) error

	// CreateFolder creates a single folder level.
	CreateFolder(ctx context.Context, path string) error

	// CreateFile creates a new file and fails with ErrFileExists if one is there.
	CreateFile(ctx context.Context, path, content string) error
}

// Notifier shows a short, fire-and-forget message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

func CleanPath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// EnsureFolders creates every missing parent folder of filePath, one level at a time.
func EnsureFolders(ctx context.Context, v Vault, filePath string) error {
	dir := path.Dir(CleanPath(filePath))
	if dir == "." || dir == "" {
		return nil
	}
	return EnsureFolder(ctx, v, dir)
}

// EnsureFolder creates folderPath and all of its missing ancestors.
func EnsureFolder(ctx context.Context, v Vault, folderPath string) error {
	current := ""
	for _, part := range strings.Split(CleanPath(folderPath), "/") {
		if part == "" {
			continue
		}
		if current == "" {
			current = part
		} else {
			current += "/" + part
		}

		kind, err := v.Stat(ctx, current)
		if err != nil {
			return err
		}
		if kind != EntryNone {
			continue
		}
		if err := v.CreateFolder(ctx, current); err != nil && !errors.Is(err, ErrFolderExists) {
			return err
		}
	}
	return nil
}
