package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msg_1.jpg")

	n, err := WriteFile(context.Background(), path, func(ctx context.Context, w io.Writer) error {
		_, err := io.Copy(w, strings.NewReader("photo bytes"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len("photo bytes")), n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "photo bytes", string(data))
	assert.NoFileExists(t, path+PartSuffix)
}

func TestWriteFileRemovesPartialOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msg_20.mp4")
	netErr := errors.New("connection reset")

	_, err := WriteFile(context.Background(), path, func(ctx context.Context, w io.Writer) error {
		if _, err := w.Write([]byte("half")); err != nil {
			return err
		}
		return netErr
	})
	assert.ErrorIs(t, err, netErr)
	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+PartSuffix)
}

func TestWriteFileCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msg_3.mp4")
	ctx, cancel := context.WithCancel(context.Background())

	_, err := WriteFile(ctx, path, func(_ context.Context, w io.Writer) error {
		if _, err := w.Write([]byte("first chunk")); err != nil {
			return err
		}
		cancel()
		_, err := w.Write([]byte("second chunk"))
		return err
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+PartSuffix)
}

func TestWriteFileCancelledAfterFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msg_4.jpg")
	ctx, cancel := context.WithCancel(context.Background())

	_, err := WriteFile(ctx, path, func(_ context.Context, w io.Writer) error {
		_, err := w.Write([]byte("all of it"))
		cancel()
		return err
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "msg_1.jpg")
	_, err := WriteFile(context.Background(), path, func(context.Context, io.Writer) error { return nil })
	assert.Error(t, err)
}
