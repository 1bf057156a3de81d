package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/jewelry-store/internal/config"
)

func TestSaveWritesFileAndReturnsLocalURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(config.StorageConfig{Type: "local", LocalDir: dir})
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "ring.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/products/images-"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))
}

func TestSaveRejectsNonImage(t *testing.T) {
	store, err := NewDiskStore(config.StorageConfig{Type: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "notes.txt", "text/plain", strings.NewReader("hi"))
	assert.Error(t, err)
}

func TestPublicURLPerStorageType(t *testing.T) {
	cloudinary := &DiskStore{cfg: config.StorageConfig{Type: "cloudinary", CloudinaryCloudName: "grace"}}
	assert.Equal(t,
		"https://res.cloudinary.com/grace/image/upload/v1/f.jpg",
		cloudinary.publicURL("f.jpg"))

	s3 := &DiskStore{cfg: config.StorageConfig{Type: "s3", S3Bucket: "grace-images"}}
	assert.Equal(t,
		"https://grace-images.s3.amazonaws.com/f.jpg",
		s3.publicURL("f.jpg"))

	local := &DiskStore{cfg: config.StorageConfig{Type: "local"}}
	assert.Equal(t, "/uploads/products/f.jpg", local.publicURL("f.jpg"))
}
