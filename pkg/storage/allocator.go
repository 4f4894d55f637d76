package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tgdownloader/pkg/models"
)

const (
	defaultExt       = ".bin"
	maxAllocateTries = 10000
)

// Allocator derives collision-free file names. Names already handed out in
// this run are remembered per folder, so two messages never share a name
// even before either file exists.
type Allocator struct {
	issued map[string]struct{}
}

// NewAllocator creates an empty allocator
func NewAllocator() *Allocator {
	return &Allocator{issued: make(map[string]struct{})}
}

// BaseName is msg_<id>_<original name> when the media carries a name,
// otherwise msg_<id><ext>
func BaseName(msg models.Message) string {
	ext := normalizeExt(msg.Ext)
	if name := SanitizeFileName(msg.FileName); name != "" {
		if extOf(name) == "" && ext != defaultExt {
			name += ext
		}
		return fmt.Sprintf("msg_%d_%s", msg.ID, name)
	}
	return fmt.Sprintf("msg_%d%s", msg.ID, ext)
}

// Allocate returns a path in dir that does not exist yet and has not been
// issued before. On collision a _1, _2, ... suffix goes before the extension.
func (a *Allocator) Allocate(dir string, msg models.Message) (string, error) {
	base := BaseName(msg)
	ext := extOf(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 0; n < maxAllocateTries; n++ {
		name := base
		if n > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		path := filepath.Join(dir, name)

		if _, taken := a.issued[path]; taken {
			continue
		}
		free, err := isFree(path)
		if err != nil {
			return "", err
		}
		if free {
			a.issued[path] = struct{}{}
			return path, nil
		}
	}

	return "", fmt.Errorf("no free file name for message %d in %s", msg.ID, dir)
}

func isFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, fmt.Errorf("failed to check %s: %w", path, err)
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return defaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.ToLower(ext)
}
