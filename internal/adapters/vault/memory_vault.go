package vault

import (
	"context"
	"path"
	"sort"
	"sync"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
)

var _ domain.Vault = (*MemoryVault)(nil)

// MemoryVault keeps a whole vault in memory. Used by tests and dry runs.
type MemoryVault struct {
	files   map[string]string
	folders map[string]bool

	mu sync.RWMutex
}

func NewMemoryVault() *MemoryVault {
	return &MemoryVault{
		files:   make(map[string]string),
		folders: make(map[string]bool),
	}
}

// Seed writes a file and all of its parent folders.
func (v *MemoryVault) Seed(p, content string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	p = domain.CleanPath(p)
	for dir := path.Dir(p); dir != "." && dir != ""; dir = path.Dir(dir) {
		v.folders[dir] = true
	}
	v.files[p] = content
}

// Files lists every file path, sorted.
func (v *MemoryVault) Files() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]string, 0, len(v.files))
	for p := range v.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (v *MemoryVault) parentExists(p string) bool {
	dir := path.Dir(p)
	return dir == "." || dir == "" || v.folders[dir]
}

func (v *MemoryVault) Stat(ctx context.Context, p string) (domain.EntryKind, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	p = domain.CleanPath(p)
	if _, ok := v.files[p]; ok {
		return domain.EntryFile, nil
	}
	if v.folders[p] {
		return domain.EntryFolder, nil
	}
	return domain.EntryNone, nil
}

func (v *MemoryVault) Read(ctx context.Context, p string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	p = domain.CleanPath(p)
	content, ok := v.files[p]
	if !ok {
		if v.folders[p] {
			return "", domain.ErrNotAFile
		}
		return "", domain.ErrFileNotFound
	}
	return content, nil
}

func (v *MemoryVault) Write(ctx context.Context, p, content string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	p = domain.CleanPath(p)
	if v.folders[p] {
		return domain.ErrNotAFile
	}
	if !v.parentExists(p) {
		return domain.ErrFileNotFound
	}
	v.files[p] = content
	return nil
}

func (v *MemoryVault) Append(ctx context.Context, p, text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	p = domain.CleanPath(p)
	content, ok := v.files[p]
	if !ok {
		return domain.ErrFileNotFound
	}
	v.files[p] = content + text
	return nil
}

func (v *MemoryVault) CreateFolder(ctx context.Context, p string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	p = domain.CleanPath(p)
	if v.folders[p] {
		return domain.ErrFolderExists
	}
	if _, ok := v.files[p]; ok {
		return domain.ErrFileExists
	}
	if !v.parentExists(p) {
		return domain.ErrFileNotFound
	}
	v.folders[p] = true
	return nil
}

func (v *MemoryVault) CreateFile(ctx context.Context, p, content string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	p = domain.CleanPath(p)
	if _, ok := v.files[p]; ok || v.folders[p] {
		return domain.ErrFileExists
	}
	if !v.parentExists(p) {
		return domain.ErrFileNotFound
	}
	v.files[p] = content
	return nil
}

// Remove deletes a file, used by tests to simulate a vanishing note.
func (v *MemoryVault) Remove(p string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.files, domain.CleanPath(p))
}
