package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir(), "http://cdn.test/storage/")

	require.NoError(t, d.Put(ctx, "images/1.jpeg", []byte("one")))
	require.NoError(t, d.Put(ctx, "images/2.jpeg", []byte("two")))
	assert.True(t, d.Exists(ctx, "images/1.jpeg"))
	assert.False(t, d.Exists(ctx, "images"))

	got, err := d.Get(ctx, "images/2.jpeg")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	files, err := d.Files(ctx, "images")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"images/1.jpeg", "images/2.jpeg"}, files)

	require.NoError(t, d.Delete(ctx, "images/1.jpeg"))
	require.NoError(t, d.Delete(ctx, "images/1.jpeg"))
	assert.False(t, d.Exists(ctx, "images/1.jpeg"))

	assert.Equal(t, "http://cdn.test/storage/images/2.jpeg", d.URL("images/2.jpeg"))
}

func TestLocalDiskStaysUnderRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d := NewLocalDisk(root, "http://cdn.test")

	require.NoError(t, d.Put(ctx, "../../escape.txt", []byte("x")))
	assert.True(t, d.Exists(ctx, "escape.txt"))
}

func TestFilesOfMissingDirectory(t *testing.T) {
	d := NewLocalDisk(t.TempDir(), "http://cdn.test")
	files, err := d.Files(context.Background(), "images")
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestManager(t *testing.T) {
	d := NewLocalDisk(t.TempDir(), "http://cdn.test")
	RegisterDisk("unit", d)

	got, err := Use("unit")
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = Use("missing")
	assert.Error(t, err)
}
