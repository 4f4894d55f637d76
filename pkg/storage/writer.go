package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"tgdownloader/pkg/models"
)

// PartSuffix marks a file whose bytes are still arriving
const PartSuffix = ".part"

// WriteFile streams fetch into path+".part" and renames it to path once the
// fetch returns without error. On any error, including cancellation, the
// partial file is removed and path is left untouched.
func WriteFile(ctx context.Context, path string, fetch models.FetchFunc) (int64, error) {
	tempFile := path + PartSuffix
	out, err := os.OpenFile(tempFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	w := &contextWriter{ctx: ctx, w: out}
	err = fetch(ctx, w)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		out.Close()
		os.Remove(tempFile)
		return w.n, err
	}

	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tempFile)
		return w.n, fmt.Errorf("failed to sync file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tempFile)
		return w.n, fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return w.n, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return w.n, nil
}

// contextWriter stops accepting bytes once ctx is done, so a fetch that
// ignores its context still ends promptly on Ctrl-C
type contextWriter struct {
	ctx context.Context
	w   io.Writer
	n   int64
}

func (c *contextWriter) Write(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
